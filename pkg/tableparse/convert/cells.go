package convert

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// XML-illegal control characters, replaced with a space when cleaning is
// enabled. Tab, LF and CR survive.
var illegalChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)

// CleanIllegal replaces XML-illegal control characters with spaces.
func CleanIllegal(s string) string {
	return illegalChars.ReplaceAllString(s, " ")
}

// displayText renders a cell's value as plain text. Formulas show their
// expression, hyperlink cells show their display text, numbers drop
// insignificant trailing zeros.
func displayText(cell models.Cell, cleanIllegal bool) string {
	var s string
	switch cell.Kind {
	case models.CellEmpty:
		return ""
	case models.CellNumber:
		s = strconv.FormatFloat(cell.Number, 'f', -1, 64)
	default:
		s = cell.Text
	}
	s = strings.TrimSpace(s)
	if cleanIllegal {
		s = CleanIllegal(s)
	}
	return s
}

// rowEmpty reports whether every cell in the row renders as empty text.
func rowEmpty(row []models.Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// mergeMaps precomputes, for one sheet, the anchor lookup and the set of
// covered non-anchor coordinates.
type mergeMaps struct {
	anchors map[models.Coord]models.MergeRegion
	covered map[models.Coord]bool
}

func buildMergeMaps(sheet *models.Sheet) mergeMaps {
	mm := mergeMaps{
		anchors: map[models.Coord]models.MergeRegion{},
		covered: map[models.Coord]bool{},
	}
	for _, m := range sheet.Merges {
		mm.anchors[models.Coord{Row: m.StartRow, Col: m.StartCol}] = m
		for r := m.StartRow; r <= m.EndRow; r++ {
			for c := m.StartCol; c <= m.EndCol; c++ {
				if r == m.StartRow && c == m.StartCol {
					continue
				}
				mm.covered[models.Coord{Row: r, Col: c}] = true
			}
		}
	}
	return mm
}
