package models

import "testing"

func grid(rows, cols int) [][]Cell {
	g := make([][]Cell, rows)
	for i := range g {
		g[i] = make([]Cell, cols)
	}
	return g
}

func TestMergeRegionGeometry(t *testing.T) {
	m := MergeRegion{StartRow: 1, StartCol: 2, EndRow: 3, EndCol: 4}

	if m.RowSpan() != 3 || m.ColSpan() != 3 || m.Area() != 9 {
		t.Errorf("spans = %d,%d area = %d, expected 3,3,9", m.RowSpan(), m.ColSpan(), m.Area())
	}
	if !m.Contains(2, 3) || m.Contains(0, 2) || m.Contains(1, 5) {
		t.Error("Contains gave wrong coverage")
	}
	if !m.IsAnchor(1, 2) || m.IsAnchor(1, 3) {
		t.Error("IsAnchor gave wrong anchor")
	}
}

func TestMergeRegionOverlaps(t *testing.T) {
	a := MergeRegion{StartRow: 0, StartCol: 0, EndRow: 1, EndCol: 2}
	tests := []struct {
		b        MergeRegion
		expected bool
	}{
		{MergeRegion{StartRow: 1, StartCol: 2, EndRow: 3, EndCol: 4}, true},
		{MergeRegion{StartRow: 2, StartCol: 0, EndRow: 3, EndCol: 2}, false},
		{MergeRegion{StartRow: 0, StartCol: 3, EndRow: 1, EndCol: 4}, false},
		{MergeRegion{StartRow: 0, StartCol: 0, EndRow: 0, EndCol: 0}, true},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.expected {
			t.Errorf("%s.Overlaps(%s) = %v, expected %v", a, tt.b, got, tt.expected)
		}
	}
}

func TestMergeAt(t *testing.T) {
	s := &Sheet{Name: "S", Cells: grid(4, 4)}
	s.Merges = []MergeRegion{{StartRow: 1, StartCol: 1, EndRow: 2, EndCol: 3}}

	m, ok := s.MergeAt(1, 1)
	if !ok || m.StartRow != 1 || m.StartCol != 1 {
		t.Errorf("MergeAt(1,1) = %v, %v, expected the region anchor", m, ok)
	}
	if _, ok := s.MergeAt(2, 3); !ok {
		t.Error("MergeAt(2,3) missed a covered coordinate")
	}
	if _, ok := s.MergeAt(0, 0); ok {
		t.Error("MergeAt(0,0) matched outside every region")
	}
}

func TestValidateMerges(t *testing.T) {
	s := &Sheet{Name: "S", Cells: grid(4, 4)}

	s.Merges = []MergeRegion{
		{StartRow: 0, StartCol: 0, EndRow: 1, EndCol: 1},
		{StartRow: 2, StartCol: 2, EndRow: 3, EndCol: 3},
	}
	if err := s.ValidateMerges(); err != nil {
		t.Fatalf("valid merges rejected: %v", err)
	}

	s.Merges = append(s.Merges, MergeRegion{StartRow: 1, StartCol: 1, EndRow: 2, EndCol: 2})
	if err := s.ValidateMerges(); err == nil {
		t.Fatal("overlapping merges accepted")
	}

	s.Merges = []MergeRegion{{StartRow: 0, StartCol: 0, EndRow: 5, EndCol: 0}}
	if err := s.ValidateMerges(); err == nil {
		t.Fatal("out-of-grid merge accepted")
	}

	s.Merges = []MergeRegion{{StartRow: 2, StartCol: 0, EndRow: 1, EndCol: 0}}
	if err := s.ValidateMerges(); err == nil {
		t.Fatal("inverted merge bounds accepted")
	}
}

func TestDocumentValidate(t *testing.T) {
	doc := &TabularDocument{Sheets: []*Sheet{
		{Name: "A", Cells: grid(2, 2)},
		{Name: "B", Cells: grid(2, 2)},
	}}
	if err := doc.Validate(); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}

	doc.Sheets = append(doc.Sheets, &Sheet{Name: "A", Cells: grid(1, 1)})
	if err := doc.Validate(); err == nil {
		t.Fatal("duplicate sheet names accepted")
	}
}

func TestCellHasScriptRuns(t *testing.T) {
	c := Cell{Kind: CellText, Text: "H2O", Runs: []RichRun{
		{Text: "H"},
		{Text: "2", VertAlign: VertAlignSubscript},
		{Text: "O"},
	}}
	if !c.HasScriptRuns() {
		t.Error("subscript run not detected")
	}
	if (Cell{Kind: CellText, Text: "x"}).HasScriptRuns() {
		t.Error("plain cell reported script runs")
	}
}
