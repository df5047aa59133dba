package convert

import (
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// Sheet names that read as placeholders and get no heading of their own.
var genericSheetNames = map[string]bool{
	"sheet":  true,
	"sheet1": true,
	"data":   true,
}

// Markdown renders the document as pipe tables, one per sheet. Merged
// regions collapse to their anchor value; the covered cells render empty,
// since Markdown tables have no span syntax. Rich-text script runs use
// the ^sup^ and ~sub~ sigil convention.
func Markdown(doc *models.TabularDocument, opts Options) (string, error) {
	var parts []string
	for _, sheet := range doc.Sheets {
		if err := sheet.ValidateMerges(); err != nil {
			return "", &ConversionFault{Sheet: sheet.Name, Err: err}
		}
		table := markdownSheet(sheet, opts)
		if table == "" {
			continue
		}
		if !genericSheetNames[strings.ToLower(sheet.Name)] {
			parts = append(parts, "## "+sheet.Name+"\n")
		}
		parts = append(parts, table)
	}
	return strings.Join(parts, "\n"), nil
}

func markdownSheet(sheet *models.Sheet, opts Options) string {
	mm := buildMergeMaps(sheet)
	clean := opts.ShouldCleanIllegalChars()

	var rows [][]string
	maxCol := -1
	for r := range sheet.Cells {
		if !opts.IncludeEmptyRows && rowEmpty(sheet.Cells[r]) {
			continue
		}
		row := make([]string, len(sheet.Cells[r]))
		for c := range sheet.Cells[r] {
			if mm.covered[models.Coord{Row: r, Col: c}] {
				continue
			}
			row[c] = markdownCell(sheet.Cells[r][c], clean)
			if row[c] != "" && c > maxCol {
				maxCol = c
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 || maxCol < 0 {
		return ""
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for c := 0; c <= maxCol; c++ {
			v := ""
			if c < len(row) {
				v = row[c]
			}
			b.WriteString(" " + v + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|")
	for c := 0; c <= maxCol; c++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String()
}

func markdownCell(cell models.Cell, clean bool) string {
	var s string
	if len(cell.Runs) > 0 {
		s = strings.TrimSpace(runsToMarkdown(cell.Runs))
		if clean {
			s = CleanIllegal(s)
		}
	} else {
		s = displayText(cell, clean)
	}
	return escapeMarkdown(s)
}

// escapeMarkdown keeps cell text on one table row: pipes are escaped and
// line breaks collapse to spaces.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
