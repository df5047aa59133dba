package loader

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// loadExcelize is the primary, full-fidelity engine. It preserves merges,
// formulas, hyperlinks, rich-text runs and the cell style overlay.
func loadExcelize(data []byte) (*models.TabularDocument, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &corruptError{err: err}
	}
	defer f.Close()

	doc := &models.TabularDocument{}
	for _, sheetName := range f.GetSheetList() {
		sheet, err := readSheet(f, sheetName)
		if err != nil {
			return nil, err
		}
		doc.Sheets = append(doc.Sheets, sheet)
	}
	return doc, nil
}

func readSheet(f *excelize.File, name string) (*models.Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, &corruptError{err: err}
	}

	merges, err := readMerges(f, name)
	if err != nil {
		return nil, err
	}

	rowCount, colCount := len(rows), 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	// Merges can reach past the last populated cell; grow the grid so the
	// merge invariant holds against the final dimensions.
	for _, m := range merges {
		if m.EndRow+1 > rowCount {
			rowCount = m.EndRow + 1
		}
		if m.EndCol+1 > colCount {
			colCount = m.EndCol + 1
		}
	}

	sheet := &models.Sheet{
		Name:   name,
		Merges: merges,
		Styles: make(map[models.Coord]models.CellStyle),
	}
	sheet.Cells = make([][]models.Cell, rowCount)
	for r := range sheet.Cells {
		sheet.Cells[r] = make([]models.Cell, colCount)
	}

	for r, row := range rows {
		for c, value := range row {
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			sheet.Cells[r][c] = readCell(f, name, cellName, value)
			if style, ok := readCellStyle(f, name, cellName); ok {
				sheet.Styles[models.Coord{Row: r, Col: c}] = style
			}
		}
	}
	if len(sheet.Styles) == 0 {
		sheet.Styles = nil
	}
	return sheet, nil
}

func readMerges(f *excelize.File, sheet string) ([]models.MergeRegion, error) {
	mcs, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, &corruptError{err: err}
	}
	var merges []models.MergeRegion
	for _, mc := range mcs {
		sc, sr, err1 := excelize.CellNameToCoordinates(mc.GetStartAxis())
		ec, er, err2 := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err1 != nil || err2 != nil {
			continue
		}
		merges = append(merges, models.MergeRegion{
			StartRow: sr - 1, StartCol: sc - 1,
			EndRow: er - 1, EndCol: ec - 1,
		})
	}
	return merges, nil
}

// readCell tags the cell value, checking formula and hyperlink state.
// Per-cell feature failures degrade to the plain value.
func readCell(f *excelize.File, sheet, cellName, value string) models.Cell {
	if formula, err := f.GetCellFormula(sheet, cellName); err == nil && formula != "" {
		if !strings.HasPrefix(formula, "=") {
			formula = "=" + formula
		}
		return models.Cell{Kind: models.CellFormula, Text: value, Formula: formula}
	}

	if hasLink, target, err := f.GetCellHyperLink(sheet, cellName); err == nil && hasLink && target != "" {
		return models.Cell{Kind: models.CellHyperlink, Text: value, Link: target}
	}

	cell := tagValue(value)
	if cell.Kind == models.CellText {
		cell.Runs = readRuns(f, sheet, cellName)
	}
	return cell
}

// readRuns attaches rich-text runs when the shared string carries
// per-segment formatting. A single unformatted run is not worth keeping.
func readRuns(f *excelize.File, sheet, cellName string) []models.RichRun {
	rich, err := f.GetCellRichText(sheet, cellName)
	if err != nil || len(rich) == 0 {
		return nil
	}
	runs := make([]models.RichRun, 0, len(rich))
	formatted := false
	for _, rt := range rich {
		run := models.RichRun{Text: rt.Text}
		if rt.Font != nil {
			run.Bold = rt.Font.Bold
			run.Italic = rt.Font.Italic
			run.VertAlign = rt.Font.VertAlign
		}
		if run.Bold || run.Italic || run.VertAlign != "" {
			formatted = true
		}
		runs = append(runs, run)
	}
	if !formatted {
		return nil
	}
	return runs
}

// readCellStyle extracts the fill and font attributes for one cell.
// Extraction failures on unusual style records mean no overlay entry.
func readCellStyle(f *excelize.File, sheet, cellName string) (models.CellStyle, bool) {
	idx, err := f.GetCellStyle(sheet, cellName)
	if err != nil || idx == 0 {
		return models.CellStyle{}, false
	}
	st, err := f.GetStyle(idx)
	if err != nil || st == nil {
		return models.CellStyle{}, false
	}

	var style models.CellStyle
	if st.Fill.Type == "pattern" && st.Fill.Pattern > 0 && len(st.Fill.Color) > 0 {
		style.Background = normalizeColor(st.Fill.Color[0])
	}
	if st.Font != nil {
		style.Bold = st.Font.Bold
		style.Italic = st.Font.Italic
		style.Underline = st.Font.Underline != "" && st.Font.Underline != "none"
		style.FontSize = st.Font.Size
		style.FontColor = normalizeColor(st.Font.Color)
		style.VertAlign = st.Font.VertAlign
	}
	if style.IsZero() {
		return models.CellStyle{}, false
	}
	return style, true
}

// normalizeColor turns an ARGB or RGB hex string into "#RRGGBB".
func normalizeColor(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) < 6 {
		return ""
	}
	return "#" + strings.ToUpper(s[len(s)-6:])
}

// tagValue parses a raw string into a tagged cell, recognizing numbers the
// same way for every engine.
func tagValue(value string) models.Cell {
	if strings.TrimSpace(value) == "" {
		return models.Cell{}
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return models.Cell{Kind: models.CellNumber, Text: value, Number: n}
	}
	return models.Cell{Kind: models.CellText, Text: value}
}
