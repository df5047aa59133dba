package models

import "fmt"

// Coord addresses one cell, 0-based.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Sheet is one named 2-D cell grid with merge regions and an optional
// style overlay. The grid is row-major and rectangular.
type Sheet struct {
	// Name is unique within the owning document.
	Name string `json:"name"`
	// Cells is the row-major grid.
	Cells [][]Cell `json:"cells"`
	// Merges are the merge regions; they must not overlap.
	Merges []MergeRegion `json:"merges,omitempty"`
	// Styles is the style overlay keyed by coordinate. Nil on degraded loads.
	Styles map[Coord]CellStyle `json:"styles,omitempty"`
}

// RowCount returns the number of grid rows.
func (s *Sheet) RowCount() int { return len(s.Cells) }

// ColCount returns the number of grid columns.
func (s *Sheet) ColCount() int {
	if len(s.Cells) == 0 {
		return 0
	}
	return len(s.Cells[0])
}

// Cell returns the cell at (row, col), or an empty cell when out of bounds.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.Cells) {
		return Cell{}
	}
	if col < 0 || col >= len(s.Cells[row]) {
		return Cell{}
	}
	return s.Cells[row][col]
}

// MergeAt returns the merge region covering (row, col), if any.
func (s *Sheet) MergeAt(row, col int) (MergeRegion, bool) {
	for _, m := range s.Merges {
		if m.Contains(row, col) {
			return m, true
		}
	}
	return MergeRegion{}, false
}

// ValidateMerges checks the merge invariant: every region is well-formed,
// lies within the grid, and no two regions overlap.
func (s *Sheet) ValidateMerges() error {
	rows, cols := s.RowCount(), s.ColCount()
	for i, m := range s.Merges {
		if !m.valid() {
			return fmt.Errorf("sheet %q: malformed merge region %s", s.Name, m)
		}
		if m.EndRow >= rows || m.EndCol >= cols {
			return fmt.Errorf("sheet %q: merge region %s exceeds %dx%d grid", s.Name, m, rows, cols)
		}
		for _, o := range s.Merges[i+1:] {
			if m.Overlaps(o) {
				return fmt.Errorf("sheet %q: merge regions %s and %s overlap", s.Name, m, o)
			}
		}
	}
	return nil
}
