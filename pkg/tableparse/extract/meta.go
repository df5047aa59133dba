// Package extract pulls workbook-level features out of the raw file:
// pivot tables, charts, macros, embedded images, shape text and formula
// structure. Extractors degrade to empty results rather than failing the
// pipeline.
package extract

import (
	"archive/zip"
	"bytes"
	"path"
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/score"
)

// WorkbookMeta reads advanced-feature counts straight from the OOXML
// package directory: part names are enough, no part needs parsing.
type WorkbookMeta struct {
	data []byte
}

// NewWorkbookMeta wraps raw .xlsx bytes as a metadata provider.
func NewWorkbookMeta(data []byte) *WorkbookMeta {
	return &WorkbookMeta{data: data}
}

// Extract counts pivot tables, charts and media parts and detects a VBA
// project. Non-zip input (a CSV, a legacy .xls) reports zero features.
func (w *WorkbookMeta) Extract() (score.Meta, error) {
	zr, err := zip.NewReader(bytes.NewReader(w.data), int64(len(w.data)))
	if err != nil {
		return score.Meta{}, nil
	}

	var meta score.Meta
	for _, f := range zr.File {
		switch {
		case isPart(f.Name, "xl/pivotTables", "pivotTable"):
			meta.PivotTables++
		case isPart(f.Name, "xl/charts", "chart"):
			meta.Charts++
		case strings.HasPrefix(f.Name, "xl/media/"):
			meta.Images++
		case f.Name == "xl/vbaProject.bin":
			meta.HasMacros = true
		}
	}
	return meta, nil
}

// isPart matches numbered parts like xl/charts/chart3.xml, rejecting
// siblings such as colors1.xml or chartEx1.xml.
func isPart(name, dir, stem string) bool {
	if path.Dir(name) != dir {
		return false
	}
	base := path.Base(name)
	if !strings.HasPrefix(base, stem) || !strings.HasSuffix(base, ".xml") {
		return false
	}
	num := strings.TrimSuffix(strings.TrimPrefix(base, stem), ".xml")
	if num == "" {
		return false
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
