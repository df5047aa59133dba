package score

import (
	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// Meta carries the workbook-level features an external provider reports:
// things the tabular model itself cannot see.
type Meta struct {
	PivotTables int  `json:"pivot_tables"`
	Charts      int  `json:"charts"`
	Images      int  `json:"images"`
	HasMacros   bool `json:"has_macros"`
}

// MetaProvider extracts workbook metadata from the source document. It
// must not mutate the document and should return a zero Meta on internal
// failure rather than partial garbage.
type MetaProvider interface {
	Extract() (Meta, error)
}

// Providers bundles the external feature providers the engine consults.
// Nil fields mean the feature is absent.
type Providers struct {
	Meta MetaProvider
}

// FeatureVector is the aggregated raw-feature view of one document.
type FeatureVector struct {
	// Merge complexity inputs.
	MergeCount      int  `json:"merge_count"`
	MergeArea       int  `json:"merge_area"`
	HasComplexMerge bool `json:"has_complex_merge"`

	// Header structure.
	HeaderLevels int `json:"header_levels"`

	// Data features.
	FormulaCells   int `json:"formula_cells"`
	HyperlinkCells int `json:"hyperlink_cells"`

	// Content richness inputs.
	ImageCount    int `json:"image_count"`
	StyledCells   int `json:"styled_cells"`
	RichTextCells int `json:"rich_text_cells"`

	// Advanced features.
	PivotTables int  `json:"pivot_tables"`
	Charts      int  `json:"charts"`
	HasMacros   bool `json:"has_macros"`

	// Scale.
	TotalCells int `json:"total_cells"`
	TotalRows  int `json:"total_rows"`
	MaxCols    int `json:"max_cols"`

	// Derived meta-flags.
	HasAdvancedFeatures    bool `json:"has_advanced_features"`
	HasHighContentRichness bool `json:"has_high_content_richness"`
}

// Thresholds are the tunable constants of feature extraction and
// classification. The zero value is not usable; start from
// DefaultThresholds.
type Thresholds struct {
	// HeaderScanRows bounds the top-of-sheet region inspected for
	// header structure.
	HeaderScanRows int
	// HeaderFillRatio is the minimum share of populated text cells for
	// a row to count as header-like.
	HeaderFillRatio float64
	// SimpleMax and MediumMax are the level boundaries on the total score.
	SimpleMax float64
	MediumMax float64
	// RichnessOverride is the content-richness sub-score at which the
	// recommendation is forced to HTML.
	RichnessOverride float64
}

// DefaultThresholds returns the documented defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeaderScanRows:   5,
		HeaderFillRatio:  0.6,
		SimpleMax:        30,
		MediumMax:        60,
		RichnessOverride: 40,
	}
}

// extractFeatures walks the document once and aggregates the raw feature
// vector: counts summed across sheets, header depth taken as the maximum,
// macro presence OR-ed in from the provider metadata.
func extractFeatures(doc *models.TabularDocument, meta Meta, th Thresholds) FeatureVector {
	var fv FeatureVector

	for _, sheet := range doc.Sheets {
		rows, cols := sheet.RowCount(), sheet.ColCount()
		fv.TotalRows += rows
		fv.TotalCells += rows * cols
		if cols > fv.MaxCols {
			fv.MaxCols = cols
		}

		fv.MergeCount += len(sheet.Merges)
		for _, m := range sheet.Merges {
			fv.MergeArea += m.Area()
			if m.RowSpan() > 1 && m.ColSpan() > 1 {
				fv.HasComplexMerge = true
			}
		}

		if levels := headerLevels(sheet, th); levels > fv.HeaderLevels {
			fv.HeaderLevels = levels
		}

		for r := range sheet.Cells {
			for c := range sheet.Cells[r] {
				cell := sheet.Cells[r][c]
				switch cell.Kind {
				case models.CellFormula:
					fv.FormulaCells++
				case models.CellHyperlink:
					fv.HyperlinkCells++
				}
				if cell.HasScriptRuns() {
					fv.RichTextCells++
				}
			}
		}
		for _, style := range sheet.Styles {
			if style.Background != "" || style.FontColor != "" || style.Bold ||
				style.Italic || style.Underline {
				fv.StyledCells++
			}
			if style.VertAlign == models.VertAlignSuperscript ||
				style.VertAlign == models.VertAlignSubscript {
				fv.RichTextCells++
			}
		}
	}

	fv.ImageCount = meta.Images
	fv.PivotTables = meta.PivotTables
	fv.Charts = meta.Charts
	fv.HasMacros = meta.HasMacros

	fv.HasAdvancedFeatures = fv.PivotTables > 0 || fv.Charts > 0 || fv.HasMacros
	fv.HasHighContentRichness = richnessScore(fv) >= th.RichnessOverride
	return fv
}

// headerLevels estimates the header depth of one sheet: the larger of the
// maximum row span of merges in the top scan region and the run of
// consecutive header-like rows from the top, capped at 4.
func headerLevels(sheet *models.Sheet, th Thresholds) int {
	if sheet.RowCount() == 0 || sheet.ColCount() == 0 {
		return 0
	}
	scan := th.HeaderScanRows
	if scan > sheet.RowCount() {
		scan = sheet.RowCount()
	}

	maxSpan := 1
	for _, m := range sheet.Merges {
		if m.StartRow < scan && m.RowSpan() > maxSpan {
			maxSpan = m.RowSpan()
		}
	}

	textRun := 0
	for r := 0; r < scan; r++ {
		if !headerLike(sheet.Cells[r], th.HeaderFillRatio) {
			break
		}
		textRun++
	}

	levels := maxSpan
	if textRun > levels {
		levels = textRun
	}
	if levels > 4 {
		levels = 4
	}
	return levels
}

// headerLike reports whether a row's populated cells are mostly text.
// The ratio is over used cells, not row width, so a sparse header row
// in a wide sheet still qualifies.
func headerLike(row []models.Cell, fillRatio float64) bool {
	used, text := 0, 0
	for _, c := range row {
		if !c.IsEmpty() {
			used++
			if c.Kind == models.CellText {
				text++
			}
		}
	}
	if used == 0 {
		return false
	}
	return float64(text)/float64(used) >= fillRatio
}
