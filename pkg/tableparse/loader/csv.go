package loader

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// csvSheetName names the single sheet synthesized from a CSV input.
const csvSheetName = "Data"

// loadCSV reads CSV bytes into a single-sheet document. encodingName
// forces a character encoding; empty means automatic detection.
func loadCSV(data []byte, encodingName string) (*models.TabularDocument, string, error) {
	text, enc, err := decodeText(data, encodingName)
	if err != nil {
		return nil, "", err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, "", &corruptError{err: fmt.Errorf("csv parse: %w", err)}
	}

	cols := 0
	for _, rec := range records {
		if len(rec) > cols {
			cols = len(rec)
		}
	}

	sheet := &models.Sheet{Name: csvSheetName}
	sheet.Cells = make([][]models.Cell, len(records))
	for i, rec := range records {
		sheet.Cells[i] = make([]models.Cell, cols)
		for j, field := range rec {
			sheet.Cells[i][j] = tagValue(field)
		}
	}

	return &models.TabularDocument{Sheets: []*models.Sheet{sheet}}, enc, nil
}
