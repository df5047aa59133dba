package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// BIFF record opcodes handled by the recovery scanner.
const (
	recBOF        = 0x0809
	recEOF        = 0x000A
	recBoundSheet = 0x0085
	recSST        = 0x00FC
	recLabelSST   = 0x00FD
	recLabel      = 0x0204
	recNumber     = 0x0203
	recRK         = 0x027E
	recMulRK      = 0x00BD
)

const bofWorksheet = 0x0010

// loadBIFF is the last-resort engine for legacy or structurally damaged
// .xls files. It opens the OLE compound container and scans the Workbook
// stream record by record, keeping whatever cell data is still decodable.
func loadBIFF(data []byte) (*models.TabularDocument, error) {
	cfb, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, &corruptError{err: err}
	}

	var stream []byte
	for {
		entry, err := cfb.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &corruptError{err: err}
		}
		if entry.Name == "Workbook" || entry.Name == "Book" {
			stream, err = io.ReadAll(entry)
			if err != nil {
				return nil, &corruptError{err: err}
			}
			break
		}
	}
	if stream == nil {
		return nil, &unsupportedError{err: fmt.Errorf("no workbook stream in compound file")}
	}

	doc := scanBIFFStream(stream)
	if len(doc.Sheets) == 0 || doc.TotalCells() == 0 {
		return nil, &unsupportedError{err: fmt.Errorf("no recoverable cell data in workbook stream")}
	}
	return doc, nil
}

// biffSheet accumulates placed cells before the grid is materialized.
type biffSheet struct {
	cells          map[models.Coord]models.Cell
	maxRow, maxCol int
}

func (b *biffSheet) put(row, col int, cell models.Cell) {
	if cell.IsEmpty() || row < 0 || col < 0 {
		return
	}
	b.cells[models.Coord{Row: row, Col: col}] = cell
	if row+1 > b.maxRow {
		b.maxRow = row + 1
	}
	if col+1 > b.maxCol {
		b.maxCol = col + 1
	}
}

func scanBIFFStream(stream []byte) *models.TabularDocument {
	var (
		names   []string
		sst     []string
		sheets  []*biffSheet
		current *biffSheet
	)

	for off := 0; off+4 <= len(stream); {
		opcode := binary.LittleEndian.Uint16(stream[off:])
		size := int(binary.LittleEndian.Uint16(stream[off+2:]))
		off += 4
		if off+size > len(stream) {
			break
		}
		rec := stream[off : off+size]
		off += size

		switch opcode {
		case recBOF:
			if len(rec) >= 4 && binary.LittleEndian.Uint16(rec[2:]) == bofWorksheet {
				current = &biffSheet{cells: make(map[models.Coord]models.Cell)}
				sheets = append(sheets, current)
			}
		case recEOF:
			current = nil
		case recBoundSheet:
			if name := parseBoundSheetName(rec); name != "" {
				names = append(names, name)
			}
		case recSST:
			sst = parseSST(rec)
		case recLabelSST:
			if current != nil && len(rec) >= 10 {
				row := int(binary.LittleEndian.Uint16(rec))
				col := int(binary.LittleEndian.Uint16(rec[2:]))
				isst := int(binary.LittleEndian.Uint32(rec[6:]))
				if isst >= 0 && isst < len(sst) {
					current.put(row, col, tagValue(sst[isst]))
				}
			}
		case recLabel:
			if current != nil && len(rec) >= 8 {
				row := int(binary.LittleEndian.Uint16(rec))
				col := int(binary.LittleEndian.Uint16(rec[2:]))
				if s, _ := parseShortString(rec[6:]); s != "" {
					current.put(row, col, tagValue(s))
				}
			}
		case recNumber:
			if current != nil && len(rec) >= 14 {
				row := int(binary.LittleEndian.Uint16(rec))
				col := int(binary.LittleEndian.Uint16(rec[2:]))
				v := math.Float64frombits(binary.LittleEndian.Uint64(rec[6:]))
				current.put(row, col, numberCell(v))
			}
		case recRK:
			if current != nil && len(rec) >= 10 {
				row := int(binary.LittleEndian.Uint16(rec))
				col := int(binary.LittleEndian.Uint16(rec[2:]))
				v := decodeRK(binary.LittleEndian.Uint32(rec[6:]))
				current.put(row, col, numberCell(v))
			}
		case recMulRK:
			if current != nil && len(rec) >= 12 {
				row := int(binary.LittleEndian.Uint16(rec))
				first := int(binary.LittleEndian.Uint16(rec[2:]))
				// rkrec entries are 6 bytes each; the trailing colLast
				// field takes the final 2 bytes.
				for i := 0; 4+i*6+6 <= len(rec)-2; i++ {
					v := decodeRK(binary.LittleEndian.Uint32(rec[4+i*6+2:]))
					current.put(row, first+i, numberCell(v))
				}
			}
		}
	}

	doc := &models.TabularDocument{}
	for i, bs := range sheets {
		name := fmt.Sprintf("Sheet%d", i+1)
		if i < len(names) {
			name = names[i]
		}
		sheet := &models.Sheet{Name: name}
		sheet.Cells = make([][]models.Cell, bs.maxRow)
		for r := range sheet.Cells {
			sheet.Cells[r] = make([]models.Cell, bs.maxCol)
		}
		for coord, cell := range bs.cells {
			sheet.Cells[coord.Row][coord.Col] = cell
		}
		doc.Sheets = append(doc.Sheets, sheet)
	}
	return doc
}

func numberCell(v float64) models.Cell {
	return models.Cell{
		Kind:   models.CellNumber,
		Text:   strconv.FormatFloat(v, 'f', -1, 64),
		Number: v,
	}
}

// decodeRK expands the packed 30-bit RK number encoding.
func decodeRK(rk uint32) float64 {
	div100 := rk&0x1 != 0
	var v float64
	if rk&0x2 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&^0x3) << 32)
	}
	if div100 {
		v /= 100
	}
	return v
}

// parseBoundSheetName pulls the sheet name out of a BOUNDSHEET record.
func parseBoundSheetName(rec []byte) string {
	if len(rec) < 8 {
		return ""
	}
	cch := int(rec[6])
	flags := rec[7]
	if flags&0x1 == 0 {
		if 8+cch > len(rec) {
			return ""
		}
		return string(rec[8 : 8+cch])
	}
	if 8+cch*2 > len(rec) {
		return ""
	}
	return decodeUTF16LE(rec[8 : 8+cch*2])
}

// parseShortString decodes a BIFF8 unicode string with a 16-bit length.
// Returns the string and the number of bytes consumed.
func parseShortString(b []byte) (string, int) {
	if len(b) < 3 {
		return "", 0
	}
	cch := int(binary.LittleEndian.Uint16(b))
	flags := b[2]
	pos := 3

	var runs, ext int
	if flags&0x8 != 0 { // rich formatting runs follow the characters
		if pos+2 > len(b) {
			return "", 0
		}
		runs = int(binary.LittleEndian.Uint16(b[pos:]))
		pos += 2
	}
	if flags&0x4 != 0 { // extended (far-east) block follows
		if pos+4 > len(b) {
			return "", 0
		}
		ext = int(binary.LittleEndian.Uint32(b[pos:]))
		pos += 4
	}

	var s string
	if flags&0x1 == 0 {
		if pos+cch > len(b) {
			cch = len(b) - pos
		}
		s = string(b[pos : pos+cch])
		pos += cch
	} else {
		if pos+cch*2 > len(b) {
			cch = (len(b) - pos) / 2
		}
		s = decodeUTF16LE(b[pos : pos+cch*2])
		pos += cch * 2
	}
	pos += runs*4 + ext
	if pos > len(b) {
		pos = len(b)
	}
	return s, pos
}

// parseSST decodes as many shared strings as the record holds. Strings
// split across CONTINUE records are abandoned, not guessed at.
func parseSST(rec []byte) []string {
	if len(rec) < 8 {
		return nil
	}
	unique := int(binary.LittleEndian.Uint32(rec[4:]))
	out := make([]string, 0, unique)
	pos := 8
	for len(out) < unique && pos < len(rec) {
		s, n := parseShortString(rec[pos:])
		if n == 0 {
			break
		}
		out = append(out, s)
		pos += n
	}
	return out
}

func decodeUTF16LE(b []byte) string {
	u := make([]uint16, len(b)/2)
	for i := range u {
		u[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return string(utf16.Decode(u))
}
