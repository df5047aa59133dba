package score

import (
	"errors"
	"math"
	"testing"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

type fakeMeta struct {
	meta Meta
	err  error
}

func (f fakeMeta) Extract() (Meta, error) { return f.meta, f.err }

// gridSheet builds a rows x cols sheet of text cells.
func gridSheet(name string, rows, cols int) *models.Sheet {
	s := &models.Sheet{Name: name, Cells: make([][]models.Cell, rows)}
	for r := range s.Cells {
		s.Cells[r] = make([]models.Cell, cols)
		for c := range s.Cells[r] {
			s.Cells[r][c] = models.Cell{Kind: models.CellText, Text: "x"}
		}
	}
	return s
}

func docOf(sheets ...*models.Sheet) *models.TabularDocument {
	return &models.TabularDocument{Name: "test.xlsx", Sheets: sheets}
}

func TestProfileWeightsSumToOne(t *testing.T) {
	for _, p := range []WeightProfile{baseProfile, advancedProfile} {
		if sum := p.WeightSum(); math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("profile %s weights sum to %v, expected 1.0", p.Name, sum)
		}
	}
}

func TestSubScoreBands(t *testing.T) {
	tests := []struct {
		name     string
		fv       FeatureVector
		dim      Dimension
		expected float64
	}{
		{"no merges", FeatureVector{TotalCells: 100}, DimMerge, 0},
		{"sparse merges", FeatureVector{MergeCount: 1, MergeArea: 2, TotalCells: 100}, DimMerge, 20},
		{"moderate merges", FeatureVector{MergeCount: 3, MergeArea: 8, TotalCells: 100}, DimMerge, 50},
		{"heavy merges", FeatureVector{MergeCount: 5, MergeArea: 20, TotalCells: 100}, DimMerge, 80},
		{"heavy complex merges", FeatureVector{MergeCount: 5, MergeArea: 20, TotalCells: 100, HasComplexMerge: true}, DimMerge, 100},

		{"flat header", FeatureVector{HeaderLevels: 1}, DimHeader, 0},
		{"two level header", FeatureVector{HeaderLevels: 2}, DimHeader, 30},
		{"three level header", FeatureVector{HeaderLevels: 3}, DimHeader, 60},
		{"deep header", FeatureVector{HeaderLevels: 5}, DimHeader, 100},

		{"few formulas", FeatureVector{FormulaCells: 3, HyperlinkCells: 1}, DimFormulaLink, 20},
		{"many formulas", FeatureVector{FormulaCells: 40}, DimFormulaLink, 100},

		{"no pivots", FeatureVector{}, DimPivot, 0},
		{"one pivot", FeatureVector{PivotTables: 1}, DimPivot, 70},
		{"three pivots", FeatureVector{PivotTables: 3}, DimPivot, 100},

		{"one chart", FeatureVector{Charts: 1}, DimCharts, 40},
		{"many charts", FeatureVector{Charts: 4}, DimCharts, 100},

		{"no macros", FeatureVector{}, DimMacro, 0},
		{"macros", FeatureVector{HasMacros: true}, DimMacro, 100},

		{"tiny sheet", FeatureVector{TotalCells: 50}, DimScale, 0},
		{"small sheet", FeatureVector{TotalCells: 500}, DimScale, 20},
		{"medium sheet", FeatureVector{TotalCells: 5000}, DimScale, 50},
		{"large sheet", FeatureVector{TotalCells: 50000}, DimScale, 80},

		{"one image", FeatureVector{ImageCount: 1}, DimRichness, 40},
		{"styled only", FeatureVector{StyledCells: 1}, DimRichness, 40},
		{"rich text only", FeatureVector{RichTextCells: 2}, DimRichness, 40},
		{"everything rich", FeatureVector{ImageCount: 10, StyledCells: 50, RichTextCells: 5}, DimRichness, 100},
	}
	for _, tt := range tests {
		if got := subScore(tt.dim, tt.fv); got != tt.expected {
			t.Errorf("%s: subScore(%s) = %v, expected %v", tt.name, tt.dim, got, tt.expected)
		}
	}
}

func TestAnalyzeBaseProfile(t *testing.T) {
	// 5x4 grid with a four-row vertical merge: merge ratio 20% and a
	// four-level header, nothing else.
	sheet := gridSheet("Report", 5, 4)
	sheet.Merges = []models.MergeRegion{{StartRow: 0, StartCol: 0, EndRow: 3, EndCol: 0}}

	res := NewEngine().Analyze(docOf(sheet), Providers{})

	if res.Profile != "base" {
		t.Fatalf("profile = %q, expected base", res.Profile)
	}
	if res.Breakdown[DimMerge] != 80 || res.Breakdown[DimHeader] != 100 {
		t.Errorf("breakdown = %v, expected merge 80 / header 100", res.Breakdown)
	}
	// 80*0.35 + 100*0.25 = 53
	if math.Abs(res.Total-53) > 1e-9 {
		t.Errorf("total = %v, expected 53", res.Total)
	}
	if res.Level() != LevelMedium {
		t.Errorf("level = %v, expected medium", res.Level())
	}
	if res.Recommended != FormatMarkdown {
		t.Errorf("recommended = %q, expected markdown", res.Recommended)
	}
}

func TestAnalyzeSwitchesToAdvancedProfile(t *testing.T) {
	sheet := gridSheet("Report", 5, 4)
	sheet.Merges = []models.MergeRegion{{StartRow: 0, StartCol: 0, EndRow: 3, EndCol: 0}}
	providers := Providers{Meta: fakeMeta{meta: Meta{PivotTables: 1}}}

	res := NewEngine().Analyze(docOf(sheet), providers)

	if res.Profile != "advanced" {
		t.Fatalf("profile = %q, expected advanced", res.Profile)
	}
	if res.Breakdown[DimPivot] != 70 {
		t.Errorf("pivot sub-score = %v, expected 70", res.Breakdown[DimPivot])
	}
	// 80*0.20 + 100*0.10 + 70*0.15 = 36.5
	if math.Abs(res.Total-36.5) > 1e-9 {
		t.Errorf("total = %v, expected 36.5", res.Total)
	}
	if !res.Features.HasAdvancedFeatures {
		t.Error("expected HasAdvancedFeatures")
	}
}

func TestAnalyzeRichnessOverride(t *testing.T) {
	// A plain small sheet is simple, but one embedded image forces HTML.
	res := NewEngine().Analyze(docOf(gridSheet("S", 3, 2)),
		Providers{Meta: fakeMeta{meta: Meta{Images: 1}}})

	if res.Level() != LevelSimple {
		t.Fatalf("level = %v, expected simple", res.Level())
	}
	if res.Recommended != FormatHTML {
		t.Errorf("recommended = %q, expected html", res.Recommended)
	}
	if res.OverrideReason != ReasonHasImages {
		t.Errorf("override reason = %q, expected %q", res.OverrideReason, ReasonHasImages)
	}
}

func TestAnalyzeOverrideReasonPriority(t *testing.T) {
	sheet := gridSheet("S", 3, 2)
	sheet.Styles = map[models.Coord]models.CellStyle{
		{Row: 0, Col: 0}: {Background: "#FFFF00"},
	}

	res := NewEngine().Analyze(docOf(sheet), Providers{})
	if res.OverrideReason != ReasonHasStyles {
		t.Errorf("override reason = %q, expected %q", res.OverrideReason, ReasonHasStyles)
	}

	sheet.Cells[1][1] = models.Cell{
		Kind: models.CellText,
		Text: "H2O",
		Runs: []models.RichRun{
			{Text: "H"},
			{Text: "2", VertAlign: models.VertAlignSubscript},
			{Text: "O"},
		},
	}
	sheet.Styles = nil
	res = NewEngine().Analyze(docOf(sheet), Providers{})
	if res.OverrideReason != ReasonHasRichText {
		t.Errorf("override reason = %q, expected %q", res.OverrideReason, ReasonHasRichText)
	}
}

func TestAnalyzeProviderFailureDegrades(t *testing.T) {
	providers := Providers{Meta: fakeMeta{err: errors.New("zip part missing")}}

	res := NewEngine().Analyze(docOf(gridSheet("S", 3, 2)), providers)

	if res.Profile != "base" {
		t.Errorf("profile = %q, expected base after provider failure", res.Profile)
	}
	if res.Features.PivotTables != 0 || res.Features.ImageCount != 0 {
		t.Errorf("features carry provider data after failure: %+v", res.Features)
	}
}

func TestLevelBoundaries(t *testing.T) {
	tests := []struct {
		total    float64
		expected Level
	}{
		{0, LevelSimple},
		{30, LevelSimple},
		{30.01, LevelMedium},
		{60, LevelMedium},
		{60.01, LevelComplex},
		{100, LevelComplex},
	}
	for _, tt := range tests {
		s := &ComplexityScore{Total: tt.total}
		if got := s.Level(); got != tt.expected {
			t.Errorf("Level(%v) = %v, expected %v", tt.total, got, tt.expected)
		}
	}
}

func TestHeaderLevelsFromTextRuns(t *testing.T) {
	// Two fully-populated text rows above numeric data reads as a
	// two-level header.
	sheet := gridSheet("S", 4, 3)
	for c := 0; c < 3; c++ {
		sheet.Cells[2][c] = models.Cell{Kind: models.CellNumber, Number: float64(c)}
		sheet.Cells[3][c] = models.Cell{Kind: models.CellNumber, Number: float64(c)}
	}

	if got := headerLevels(sheet, DefaultThresholds()); got != 2 {
		t.Errorf("headerLevels = %d, expected 2", got)
	}
}

func TestHeaderLikeRatioOverUsedCells(t *testing.T) {
	// Two text cells in a 10-wide row: header-like despite the empty
	// tail, because the ratio is over used cells only.
	sparse := make([]models.Cell, 10)
	sparse[0] = models.Cell{Kind: models.CellText, Text: "Region"}
	sparse[1] = models.Cell{Kind: models.CellText, Text: "Total"}
	if !headerLike(sparse, 0.6) {
		t.Error("sparse text row should be header-like")
	}

	// A mostly-numeric row is not, however wide.
	data := make([]models.Cell, 10)
	data[0] = models.Cell{Kind: models.CellText, Text: "bolt"}
	data[1] = models.Cell{Kind: models.CellNumber, Number: 42}
	data[2] = models.Cell{Kind: models.CellNumber, Number: 7}
	if headerLike(data, 0.6) {
		t.Error("numeric row should not be header-like")
	}

	if headerLike(make([]models.Cell, 4), 0.6) {
		t.Error("empty row should not be header-like")
	}
}
