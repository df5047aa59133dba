package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImageReport lists the images persisted by WriteImages.
type ImageReport struct {
	Paths  []string `json:"paths"`
	Count  int      `json:"count"`
	Failed int      `json:"failed"`
}

// WriteImages extracts every embedded picture from an .xlsx workbook and
// writes it under dir. One unwritable image does not abort the rest; the
// report counts failures. Non-xlsx input yields an empty report.
func WriteImages(data []byte, dir string, logger *slog.Logger) (ImageReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var report ImageReport

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return report, nil
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report, fmt.Errorf("create images dir: %w", err)
	}

	for _, sheet := range f.GetSheetList() {
		cells, err := f.GetPictureCells(sheet)
		if err != nil {
			logger.Warn("listing pictures failed", "sheet", sheet, "error", err)
			continue
		}
		for _, cell := range cells {
			pics, err := f.GetPictures(sheet, cell)
			if err != nil {
				logger.Warn("reading picture failed", "sheet", sheet, "cell", cell, "error", err)
				report.Failed++
				continue
			}
			for i, pic := range pics {
				name := imageFileName(sheet, cell, i, pic.Extension)
				path := filepath.Join(dir, name)
				if err := os.WriteFile(path, pic.File, 0o644); err != nil {
					logger.Warn("writing image failed", "path", path, "error", err)
					report.Failed++
					continue
				}
				report.Paths = append(report.Paths, path)
				report.Count++
			}
		}
	}
	return report, nil
}

func imageFileName(sheet, cell string, index int, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "png"
	}
	base := fmt.Sprintf("%s_%s", sanitizeName(sheet), cell)
	if index > 0 {
		base = fmt.Sprintf("%s_%d", base, index)
	}
	return base + "." + ext
}

// sanitizeName keeps sheet names filesystem-safe.
func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
