package loader

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// namedEncoding pairs a decoder with the label recorded in load metadata.
type namedEncoding struct {
	name string
	enc  encoding.Encoding
}

// decodeCandidates are tried in order when no encoding is forced and the
// bytes are not valid UTF-8. Latin-1 never fails, so it closes the list.
var decodeCandidates = []namedEncoding{
	{"gb18030", simplifiedchinese.GB18030},
	{"big5", traditionalchinese.Big5},
	{"shift_jis", japanese.ShiftJIS},
	{"latin-1", charmap.ISO8859_1},
}

var byName = map[string]encoding.Encoding{
	"utf-8":     nil,
	"gbk":       simplifiedchinese.GBK,
	"gb2312":    simplifiedchinese.GBK, // GBK supersets GB2312
	"gb18030":   simplifiedchinese.GB18030,
	"big5":      traditionalchinese.Big5,
	"shift_jis": japanese.ShiftJIS,
	"latin-1":   charmap.ISO8859_1,
	"utf-16le":  unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16be":  unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
}

// decodeText turns raw bytes into a UTF-8 string, returning the encoding
// label used. Detection order: BOM, forced name, valid UTF-8, then the
// candidate list.
func decodeText(data []byte, forced string) (string, string, error) {
	if name, enc, ok := sniffBOM(data); ok {
		s, err := decodeWith(enc, data)
		if err != nil {
			return "", "", &encodingError{err: err}
		}
		return s, name, nil
	}

	if forced != "" {
		enc, ok := byName[forced]
		if !ok {
			return "", "", &encodingError{err: fmt.Errorf("unknown encoding %q", forced)}
		}
		if enc == nil {
			return string(data), "utf-8", nil
		}
		s, err := decodeWith(enc, data)
		if err != nil {
			return "", "", &encodingError{err: fmt.Errorf("decode as %s: %w", forced, err)}
		}
		return s, forced, nil
	}

	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}
	// x/text decoders substitute U+FFFD for invalid input instead of
	// returning an error. A replacement rune the input never carried
	// means the candidate did not actually fit, so the chain advances.
	hadReplacement := bytes.Contains(data, []byte(string(utf8.RuneError)))
	for _, cand := range decodeCandidates {
		s, err := decodeWith(cand.enc, data)
		if err != nil {
			continue
		}
		if !hadReplacement && strings.ContainsRune(s, utf8.RuneError) {
			continue
		}
		return s, cand.name, nil
	}
	return "", "", &encodingError{err: fmt.Errorf("no candidate encoding decodes this input")}
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func sniffBOM(data []byte) (string, encoding.Encoding, bool) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return "utf-8", unicode.UTF8BOM, true
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return "utf-16le", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), true
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return "utf-16be", unicode.UTF16(unicode.BigEndian, unicode.UseBOM), true
	}
	return "", nil, false
}
