package convert

import (
	"fmt"
	"html"
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// Highlight flags a cell whose background falls in the highlight range.
type Highlight struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Color string `json:"color"`
}

// chunkSpec is one table fragment to render: a data-row range of one
// sheet. Fragments are rendered lazily as the stream is consumed.
type chunkSpec struct {
	sheet    *models.Sheet
	mm       mergeMaps
	startRow int
	endRow   int
}

// ChunkStream is a lazily-rendered sequence of HTML table fragments.
// Each sheet is split into fragments of at most chunk_rows data rows,
// every fragment repeating the sheet's header row, so a caller can stop
// consuming early without the whole output materialized.
type ChunkStream struct {
	opts       Options
	chunks     []chunkSpec
	pos        int
	highlights []Highlight
}

// HTML plans the chunked rendering of a document. The first row of each
// sheet is treated as its header and repeated per fragment. Returns a
// ConversionFault if a sheet's merge regions are malformed.
func HTML(doc *models.TabularDocument, opts Options) (*ChunkStream, error) {
	s := &ChunkStream{opts: opts}
	chunkRows := opts.chunkRows()
	bounds := opts.highlight()

	for _, sheet := range doc.Sheets {
		if err := sheet.ValidateMerges(); err != nil {
			return nil, &ConversionFault{Sheet: sheet.Name, Err: err}
		}
		if sheet.RowCount() == 0 {
			continue
		}
		mm := buildMergeMaps(sheet)

		dataRows := sheet.RowCount() - 1
		if dataRows <= 0 {
			s.chunks = append(s.chunks, chunkSpec{sheet: sheet, mm: mm, startRow: 1, endRow: 1})
		}
		for start := 1; start < sheet.RowCount(); start += chunkRows {
			end := start + chunkRows
			if end > sheet.RowCount() {
				end = sheet.RowCount()
			}
			s.chunks = append(s.chunks, chunkSpec{sheet: sheet, mm: mm, startRow: start, endRow: end})
		}

		if opts.PreserveStyles {
			for coord, style := range sheet.Styles {
				if style.Background != "" && bounds.Matches(style.Background) {
					s.highlights = append(s.highlights, Highlight{
						Sheet: sheet.Name,
						Row:   coord.Row,
						Col:   coord.Col,
						Color: style.Background,
					})
				}
			}
		}
	}
	return s, nil
}

// Len returns the number of fragments the stream will produce.
func (s *ChunkStream) Len() int { return len(s.chunks) }

// Highlights returns the highlighted cells found across the document.
// Only populated when style preservation is on.
func (s *ChunkStream) Highlights() []Highlight { return s.highlights }

// Next renders and returns the next fragment. ok is false when the
// stream is exhausted.
func (s *ChunkStream) Next() (fragment string, ok bool) {
	if s.pos >= len(s.chunks) {
		return "", false
	}
	spec := s.chunks[s.pos]
	s.pos++
	return s.renderChunk(spec), true
}

// All drains the stream and returns the remaining fragments.
func (s *ChunkStream) All() []string {
	var out []string
	for {
		frag, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, frag)
	}
}

func (s *ChunkStream) renderChunk(spec chunkSpec) string {
	var b strings.Builder
	b.WriteString("<table>\n")
	b.WriteString("<caption>" + html.EscapeString(spec.sheet.Name) + "</caption>\n")

	b.WriteString("<thead>\n")
	s.writeRow(&b, spec, 0, "th")
	b.WriteString("</thead>\n<tbody>\n")
	for r := spec.startRow; r < spec.endRow; r++ {
		if !s.opts.IncludeEmptyRows && rowEmpty(spec.sheet.Cells[r]) {
			continue
		}
		s.writeRow(&b, spec, r, "td")
	}
	b.WriteString("</tbody>\n</table>\n")
	return b.String()
}

// writeRow emits one table row. Coordinates covered by a merge region
// produce no element; the region's anchor carries rowspan/colspan.
func (s *ChunkStream) writeRow(b *strings.Builder, spec chunkSpec, r int, tag string) {
	b.WriteString("<tr>")
	for c := range spec.sheet.Cells[r] {
		coord := models.Coord{Row: r, Col: c}
		if spec.mm.covered[coord] {
			continue
		}

		attrs := ""
		if m, ok := spec.mm.anchors[coord]; ok {
			if m.RowSpan() > 1 {
				attrs += fmt.Sprintf(` rowspan="%d"`, m.RowSpan())
			}
			if m.ColSpan() > 1 {
				attrs += fmt.Sprintf(` colspan="%d"`, m.ColSpan())
			}
		}
		if s.opts.PreserveStyles {
			if style, ok := spec.sheet.Styles[coord]; ok {
				attrs += styleAttr(style)
			}
		}

		b.WriteString("<" + tag + attrs + ">")
		b.WriteString(s.cellHTML(spec.sheet.Cells[r][c]))
		b.WriteString("</" + tag + ">")
	}
	b.WriteString("</tr>\n")
}

func (s *ChunkStream) cellHTML(cell models.Cell) string {
	if len(cell.Runs) > 0 {
		return runsToHTML(cell.Runs)
	}
	text := displayText(cell, s.opts.ShouldCleanIllegalChars())
	if HasUnicodeScripts(text) {
		return ConvertUnicodeScripts(text)
	}
	return html.EscapeString(text)
}
