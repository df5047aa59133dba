package tableparse

import (
	"github.com/ukaji3/tableparse-go/pkg/tableparse/convert"
	"github.com/ukaji3/tableparse-go/pkg/tableparse/extract"
	"github.com/ukaji3/tableparse-go/pkg/tableparse/score"
)

// Metadata describes the parsed document and how the pipeline handled it.
type Metadata struct {
	Source     string   `json:"source"`
	Engine     string   `json:"engine"`
	Fidelity   string   `json:"fidelity"`
	Encoding   string   `json:"encoding,omitempty"`
	SheetNames []string `json:"sheet_names"`
	TotalRows  int      `json:"total_rows"`
	TotalCells int      `json:"total_cells"`
	Merges     int      `json:"merges"`

	// ShapeTexts maps sheet names to the text of their drawing shapes.
	ShapeTexts map[string][]string `json:"shape_texts,omitempty"`
	// FormulaStats maps sheet names to their formula summary.
	FormulaStats map[string]extract.FormulaStats `json:"formula_stats,omitempty"`
	// Highlights lists cells with highlight-range backgrounds (HTML path
	// with style preservation only).
	Highlights []convert.Highlight `json:"highlights,omitempty"`
	// Images reports extracted pictures when image extraction is on.
	Images *extract.ImageReport `json:"images,omitempty"`
}

// ParseResult is the full pipeline output for one document.
type ParseResult struct {
	// Format is the format actually rendered, auto resolved.
	Format OutputFormat `json:"format"`
	// Content holds the Markdown output. Empty on the HTML path.
	Content string `json:"content,omitempty"`
	// Fragments holds the chunked HTML output. Empty on the Markdown path.
	Fragments []string `json:"fragments,omitempty"`
	// Score is the complexity analysis that drove (or would have driven)
	// the format choice.
	Score *score.ComplexityScore `json:"score"`
	// Metadata describes the document and any degradations.
	Metadata Metadata `json:"metadata"`
}

// SheetPreview is a truncated view of one sheet.
type SheetPreview struct {
	Name      string     `json:"name"`
	TotalRows int        `json:"total_rows"`
	TotalCols int        `json:"total_cols"`
	Rows      [][]string `json:"rows"`
	Truncated bool       `json:"truncated"`
}

// Preview is a fast, partial look at a document: sheet shapes and the
// top-left corner of each grid, no scoring or conversion.
type Preview struct {
	Source   string         `json:"source"`
	Engine   string         `json:"engine"`
	Fidelity string         `json:"fidelity"`
	Sheets   []SheetPreview `json:"sheets"`
}
