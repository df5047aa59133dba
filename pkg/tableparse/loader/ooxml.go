package loader

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// loadOOXML is the tabular fallback engine: a direct reader of the xlsx
// ZIP that recovers cell values even when workbook parts the primary
// engine insists on are damaged or missing. No merges, styles or rich
// text survive; merged cells come back as plain single cells.
func loadOOXML(data []byte) (*models.TabularDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &corruptError{err: err}
	}

	sheets, err := workbookSheets(zr)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, &corruptError{err: fmt.Errorf("no worksheets in workbook")}
	}

	shared := sharedStrings(zr)

	doc := &models.TabularDocument{}
	for _, ws := range sheets {
		sheet, err := readWorksheetXML(zr, ws.path, ws.name, shared)
		if err != nil {
			// One unreadable worksheet should not sink the rest.
			doc.Sheets = append(doc.Sheets, &models.Sheet{Name: ws.name})
			continue
		}
		doc.Sheets = append(doc.Sheets, sheet)
	}
	return doc, nil
}

type worksheetRef struct {
	name string
	path string
}

type xlWorkbook struct {
	Sheets struct {
		Sheet []struct {
			Name string `xml:"name,attr"`
			RID  string `xml:"id,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

type xlRelationships struct {
	Relationship []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// workbookSheets resolves sheet names to worksheet part paths through
// xl/workbook.xml and its relationship part.
func workbookSheets(zr *zip.Reader) ([]worksheetRef, error) {
	wbData, err := readZipFile(zr, "xl/workbook.xml")
	if err != nil {
		return nil, &corruptError{err: err}
	}
	var wb xlWorkbook
	if err := xml.Unmarshal(wbData, &wb); err != nil {
		return nil, &corruptError{err: err}
	}

	targets := map[string]string{}
	if relData, err := readZipFile(zr, "xl/_rels/workbook.xml.rels"); err == nil {
		var rels xlRelationships
		if err := xml.Unmarshal(relData, &rels); err == nil {
			for _, rel := range rels.Relationship {
				targets[rel.ID] = rel.Target
			}
		}
	}

	var refs []worksheetRef
	for i, sh := range wb.Sheets.Sheet {
		target := targets[sh.RID]
		if target == "" {
			target = fmt.Sprintf("worksheets/sheet%d.xml", i+1)
		}
		refs = append(refs, worksheetRef{name: sh.Name, path: resolveWorkbookPath(target)})
	}
	return refs, nil
}

// resolveWorkbookPath resolves a workbook-relative relationship target.
func resolveWorkbookPath(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join("xl", target))
}

type xlSST struct {
	SI []struct {
		T string `xml:"t"`
		R []struct {
			T string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

// sharedStrings reads the shared string table; a missing or damaged table
// just means string cells resolve to their index text.
func sharedStrings(zr *zip.Reader) []string {
	data, err := readZipFile(zr, "xl/sharedStrings.xml")
	if err != nil {
		return nil
	}
	var sst xlSST
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil
	}
	out := make([]string, 0, len(sst.SI))
	for _, si := range sst.SI {
		if len(si.R) > 0 {
			var b strings.Builder
			for _, r := range si.R {
				b.WriteString(r.T)
			}
			out = append(out, b.String())
			continue
		}
		out = append(out, si.T)
	}
	return out
}

type xlWorksheet struct {
	SheetData struct {
		Row []struct {
			R int `xml:"r,attr"`
			C []struct {
				R  string `xml:"r,attr"`
				T  string `xml:"t,attr"`
				V  string `xml:"v"`
				IS struct {
					T string `xml:"t"`
				} `xml:"is"`
			} `xml:"c"`
		} `xml:"row"`
	} `xml:"sheetData"`
}

func readWorksheetXML(zr *zip.Reader, partPath, name string, shared []string) (*models.Sheet, error) {
	data, err := readZipFile(zr, partPath)
	if err != nil {
		return nil, err
	}
	var ws xlWorksheet
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}

	type placed struct {
		row, col int
		cell     models.Cell
	}
	var cells []placed
	maxRow, maxCol := 0, 0
	for _, row := range ws.SheetData.Row {
		for _, c := range row.C {
			col, r, err := cellRefToCoordinates(c.R)
			if err != nil {
				continue
			}
			if row.R > 0 {
				r = row.R
			}
			value := c.V
			switch c.T {
			case "s":
				if idx, err := strconv.Atoi(c.V); err == nil && idx >= 0 && idx < len(shared) {
					value = shared[idx]
				}
			case "inlineStr":
				value = c.IS.T
			}
			cell := tagValue(value)
			if cell.IsEmpty() {
				continue
			}
			cells = append(cells, placed{row: r - 1, col: col - 1, cell: cell})
			if r > maxRow {
				maxRow = r
			}
			if col > maxCol {
				maxCol = col
			}
		}
	}

	sheet := &models.Sheet{Name: name}
	sheet.Cells = make([][]models.Cell, maxRow)
	for i := range sheet.Cells {
		sheet.Cells[i] = make([]models.Cell, maxCol)
	}
	for _, p := range cells {
		if p.row >= 0 && p.row < maxRow && p.col >= 0 && p.col < maxCol {
			sheet.Cells[p.row][p.col] = p.cell
		}
	}
	return sheet, nil
}

// cellRefToCoordinates parses an A1-style reference into 1-based (col, row).
func cellRefToCoordinates(ref string) (int, int, error) {
	col, i := 0, 0
	for ; i < len(ref); i++ {
		ch := ref[i]
		if ch < 'A' || ch > 'Z' {
			break
		}
		col = col*26 + int(ch-'A'+1)
	}
	if col == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("bad cell reference %q", ref)
	}
	row, err := strconv.Atoi(ref[i:])
	if err != nil || row <= 0 {
		return 0, 0, fmt.Errorf("bad cell reference %q", ref)
	}
	return col, row, nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("part %s not found", name)
}
