// Package models defines the in-memory tabular document model.
package models

// CellKind tags the value carried by a Cell.
type CellKind int

const (
	// CellEmpty is a cell with no value.
	CellEmpty CellKind = iota
	// CellText is a plain text cell.
	CellText
	// CellNumber is a numeric cell.
	CellNumber
	// CellFormula is a formula cell; Text carries the evaluated value when known.
	CellFormula
	// CellHyperlink is a text cell with a link target.
	CellHyperlink
)

// Vertical alignment values for rich-text runs and cell fonts.
const (
	VertAlignSuperscript = "superscript"
	VertAlignSubscript   = "subscript"
)

// RichRun is one segment of a rich-text cell value.
type RichRun struct {
	// Text is the segment content.
	Text string `json:"text"`
	// VertAlign is "", "superscript" or "subscript".
	VertAlign string `json:"vert_align,omitempty"`
	// Bold marks a bold segment.
	Bold bool `json:"bold,omitempty"`
	// Italic marks an italic segment.
	Italic bool `json:"italic,omitempty"`
}

// Cell is a single grid cell with a tagged value.
type Cell struct {
	// Kind tags which value fields are meaningful.
	Kind CellKind `json:"kind"`
	// Text is the display text for all kinds.
	Text string `json:"text,omitempty"`
	// Number is the numeric value when Kind is CellNumber.
	Number float64 `json:"number,omitempty"`
	// Formula is the formula source ("=...") when Kind is CellFormula.
	Formula string `json:"formula,omitempty"`
	// Link is the hyperlink target when Kind is CellHyperlink.
	Link string `json:"link,omitempty"`
	// Runs holds rich-text segments when the cell carries formatting runs.
	Runs []RichRun `json:"runs,omitempty"`
}

// IsEmpty reports whether the cell carries no displayable value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// HasScriptRuns reports whether any rich-text run is super- or subscript.
func (c Cell) HasScriptRuns() bool {
	for _, r := range c.Runs {
		if r.VertAlign == VertAlignSuperscript || r.VertAlign == VertAlignSubscript {
			return true
		}
	}
	return false
}

// CellStyle is the optional style overlay for one cell.
type CellStyle struct {
	// Background is the fill color as "#RRGGBB", empty when unfilled.
	Background string `json:"background,omitempty"`
	// FontColor is the font color as "#RRGGBB".
	FontColor string `json:"font_color,omitempty"`
	// Bold, Italic and Underline mirror the font flags.
	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Underline bool `json:"underline,omitempty"`
	// FontSize is the font size in points, 0 when unknown.
	FontSize float64 `json:"font_size,omitempty"`
	// VertAlign is the whole-cell script alignment, if any.
	VertAlign string `json:"vert_align,omitempty"`
}

// IsZero reports whether the style carries no visible attribute.
func (s CellStyle) IsZero() bool {
	return s == CellStyle{}
}
