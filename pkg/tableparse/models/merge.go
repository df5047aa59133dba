package models

import "fmt"

// MergeRegion is a rectangular block of visually merged cells.
// Bounds are 0-based and inclusive.
type MergeRegion struct {
	StartRow int `json:"start_row"`
	StartCol int `json:"start_col"`
	EndRow   int `json:"end_row"`
	EndCol   int `json:"end_col"`
}

// RowSpan returns the number of rows the region covers.
func (m MergeRegion) RowSpan() int { return m.EndRow - m.StartRow + 1 }

// ColSpan returns the number of columns the region covers.
func (m MergeRegion) ColSpan() int { return m.EndCol - m.StartCol + 1 }

// Area returns the number of covered coordinates.
func (m MergeRegion) Area() int { return m.RowSpan() * m.ColSpan() }

// Contains reports whether (row, col) lies inside the region.
func (m MergeRegion) Contains(row, col int) bool {
	return row >= m.StartRow && row <= m.EndRow && col >= m.StartCol && col <= m.EndCol
}

// IsAnchor reports whether (row, col) is the top-left cell of the region.
func (m MergeRegion) IsAnchor(row, col int) bool {
	return row == m.StartRow && col == m.StartCol
}

// Overlaps reports whether two regions share any coordinate.
func (m MergeRegion) Overlaps(o MergeRegion) bool {
	return m.StartRow <= o.EndRow && o.StartRow <= m.EndRow &&
		m.StartCol <= o.EndCol && o.StartCol <= m.EndCol
}

// valid reports whether the bounds are well-formed.
func (m MergeRegion) valid() bool {
	return m.StartRow >= 0 && m.StartCol >= 0 && m.EndRow >= m.StartRow && m.EndCol >= m.StartCol
}

func (m MergeRegion) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", m.StartRow, m.StartCol, m.EndRow, m.EndCol)
}
