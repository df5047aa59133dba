package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// FormulaType classifies what a formula computes.
type FormulaType string

const (
	FormulaAggregate  FormulaType = "aggregate"
	FormulaPercentage FormulaType = "percentage"
	FormulaLogical    FormulaType = "logical"
	FormulaLookup     FormulaType = "lookup"
	FormulaArithmetic FormulaType = "arithmetic"
	FormulaOther      FormulaType = "other"
)

var (
	aggregateFuncs = funcSet("SUM", "AVERAGE", "COUNT", "COUNTA", "MAX", "MIN", "MEDIAN")
	logicalFuncs   = funcSet("IF", "AND", "OR", "NOT", "IFERROR")
	lookupFuncs    = funcSet("VLOOKUP", "HLOOKUP", "INDEX", "MATCH", "XLOOKUP")

	funcNameRe = regexp.MustCompile(`\b([A-Z][A-Z0-9_]*)\s*\(`)
	cellRefRe  = regexp.MustCompile(`(?i)\b(?:\w+!)?\$?[A-Z]{1,3}\$?[0-9]+(?::\$?[A-Z]{1,3}\$?[0-9]+)?\b`)
)

func funcSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// FormulaInfo describes one classified formula.
type FormulaInfo struct {
	Formula       string      `json:"formula"`
	Type          FormulaType `json:"type"`
	Functions     []string    `json:"functions,omitempty"`
	CellRefs      []string    `json:"cell_refs,omitempty"`
	IsCalculation bool        `json:"is_calculation"`
}

// ClassifyFormula parses a formula expression (with or without the
// leading "=") into its function set, cell references and type.
func ClassifyFormula(formula string) FormulaInfo {
	expr := strings.TrimPrefix(strings.TrimSpace(formula), "=")

	funcs := map[string]bool{}
	for _, m := range funcNameRe.FindAllStringSubmatch(strings.ToUpper(expr), -1) {
		funcs[m[1]] = true
	}
	refs := map[string]bool{}
	for _, m := range cellRefRe.FindAllString(expr, -1) {
		refs[m] = true
	}

	info := FormulaInfo{
		Formula:       "=" + expr,
		Type:          classify(funcs, expr),
		Functions:     sortedKeys(funcs),
		CellRefs:      sortedKeys(refs),
		IsCalculation: len(funcs) > 0 || len(refs) > 0,
	}
	return info
}

func classify(funcs map[string]bool, expr string) FormulaType {
	switch {
	case intersects(funcs, aggregateFuncs):
		return FormulaAggregate
	case strings.Contains(expr, "%"):
		return FormulaPercentage
	case intersects(funcs, logicalFuncs):
		return FormulaLogical
	case intersects(funcs, lookupFuncs):
		return FormulaLookup
	case strings.ContainsAny(expr, "+-*/"):
		return FormulaArithmetic
	default:
		return FormulaOther
	}
}

func intersects(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FormulaStats summarizes the formulas of one sheet.
type FormulaStats struct {
	Count  int                 `json:"count"`
	ByType map[FormulaType]int `json:"by_type,omitempty"`
}

// Formula scanning is capped to bound work on very tall sheets; formula
// density is representative well before this depth.
const formulaScanRows = 100

// SheetFormulaStats classifies every formula in the top of the sheet.
func SheetFormulaStats(sheet *models.Sheet) FormulaStats {
	stats := FormulaStats{ByType: map[FormulaType]int{}}
	rows := sheet.RowCount()
	if rows > formulaScanRows {
		rows = formulaScanRows
	}
	for r := 0; r < rows; r++ {
		for _, cell := range sheet.Cells[r] {
			if cell.Kind != models.CellFormula || cell.Formula == "" {
				continue
			}
			info := ClassifyFormula(cell.Formula)
			stats.Count++
			stats.ByType[info.Type]++
		}
	}
	if stats.Count == 0 {
		stats.ByType = nil
	}
	return stats
}
