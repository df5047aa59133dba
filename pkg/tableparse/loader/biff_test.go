package loader

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestDecodeRK(t *testing.T) {
	negative := int32(-7) << 2
	tests := []struct {
		name     string
		rk       uint32
		expected float64
	}{
		{"integer", uint32(42)<<2 | 0x2, 42},
		{"negative integer", uint32(negative) | 0x2, -7},
		{"integer div100", uint32(12345)<<2 | 0x3, 123.45},
		{"float", uint32(math.Float64bits(2.5) >> 32), 2.5},
		{"float div100", uint32(math.Float64bits(150)>>32) | 0x1, 1.5},
	}
	for _, tt := range tests {
		if got := decodeRK(tt.rk); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("%s: decodeRK(%#x) = %v, expected %v", tt.name, tt.rk, got, tt.expected)
		}
	}
}

func TestParseShortString(t *testing.T) {
	// Compressed (8-bit) string.
	b := append([]byte{3, 0, 0}, []byte("abc")...)
	s, n := parseShortString(b)
	if s != "abc" || n != 6 {
		t.Errorf("compressed: got (%q, %d), expected (abc, 6)", s, n)
	}

	// UTF-16 string.
	b = []byte{2, 0, 1, 'H', 0, 'i', 0}
	s, n = parseShortString(b)
	if s != "Hi" || n != 7 {
		t.Errorf("utf16: got (%q, %d), expected (Hi, 7)", s, n)
	}

	// Truncated input decodes what is there instead of panicking.
	s, _ = parseShortString([]byte{10, 0, 0, 'x'})
	if s != "x" {
		t.Errorf("truncated: got %q, expected x", s)
	}
}

func TestParseSST(t *testing.T) {
	rec := make([]byte, 8)
	binary.LittleEndian.PutUint32(rec, 2)
	binary.LittleEndian.PutUint32(rec[4:], 2)
	rec = append(rec, 2, 0, 0, 'o', 'k')
	rec = append(rec, 1, 0, 0, 'x')

	got := parseSST(rec)
	if len(got) != 2 || got[0] != "ok" || got[1] != "x" {
		t.Errorf("parseSST = %v, expected [ok x]", got)
	}
}

func TestScanBIFFStream(t *testing.T) {
	var stream []byte
	rec := func(opcode uint16, payload []byte) {
		hdr := make([]byte, 4)
		binary.LittleEndian.PutUint16(hdr, opcode)
		binary.LittleEndian.PutUint16(hdr[2:], uint16(len(payload)))
		stream = append(stream, hdr...)
		stream = append(stream, payload...)
	}

	// Globals: a BOUNDSHEET naming the sheet, then an SST with one string.
	rec(recBoundSheet, append([]byte{0, 0, 0, 0, 0, 0, 5, 0}, []byte("Sales")...))
	sst := make([]byte, 8)
	binary.LittleEndian.PutUint32(sst, 1)
	binary.LittleEndian.PutUint32(sst[4:], 1)
	sst = append(sst, 5, 0, 0)
	sst = append(sst, []byte("hello")...)
	rec(recSST, sst)

	// Worksheet substream with one label and one number.
	bof := make([]byte, 8)
	binary.LittleEndian.PutUint16(bof[2:], bofWorksheet)
	rec(recBOF, bof)

	label := make([]byte, 10)
	binary.LittleEndian.PutUint16(label, 0)    // row 0
	binary.LittleEndian.PutUint16(label[2:], 0) // col 0
	binary.LittleEndian.PutUint32(label[6:], 0) // isst 0
	rec(recLabelSST, label)

	num := make([]byte, 14)
	binary.LittleEndian.PutUint16(num, 1)
	binary.LittleEndian.PutUint16(num[2:], 1)
	binary.LittleEndian.PutUint64(num[6:], math.Float64bits(9.75))
	rec(recNumber, num)
	rec(recEOF, nil)

	doc := scanBIFFStream(stream)
	if len(doc.Sheets) != 1 {
		t.Fatalf("sheets = %d, expected 1", len(doc.Sheets))
	}
	sheet := doc.Sheets[0]
	if sheet.Name != "Sales" {
		t.Errorf("sheet name = %q, expected Sales", sheet.Name)
	}
	if c := sheet.Cell(0, 0); c.Text != "hello" {
		t.Errorf("cell(0,0) = %+v, expected hello", c)
	}
	if c := sheet.Cell(1, 1); c.Number != 9.75 {
		t.Errorf("cell(1,1) = %+v, expected 9.75", c)
	}
}
