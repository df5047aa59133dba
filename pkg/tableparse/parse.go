package tableparse

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/convert"
	"github.com/ukaji3/tableparse-go/pkg/tableparse/extract"
	"github.com/ukaji3/tableparse-go/pkg/tableparse/loader"
	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
	"github.com/ukaji3/tableparse-go/pkg/tableparse/score"
)

// supportedExtensions are the input file types ParseFile accepts.
var supportedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
	".csv":  true,
}

// Parser runs the load, score, convert pipeline. The zero value is
// usable; fields tune the heuristics.
type Parser struct {
	// Logger receives pipeline diagnostics. Nil means slog.Default.
	Logger *slog.Logger
	// Thresholds tune the scoring engine. Zero means defaults.
	Thresholds score.Thresholds
	// Highlight overrides the highlight hue range. Zero means defaults.
	Highlight convert.HighlightBounds
}

// NewParser returns a parser with default settings.
func NewParser() *Parser { return &Parser{} }

func (p *Parser) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Parser) loader(opts Options) *loader.Loader {
	l := loader.New()
	l.Encoding = opts.Encoding
	l.Logger = p.logger()
	return l
}

func (p *Parser) engine() *score.Engine {
	return &score.Engine{Thresholds: p.Thresholds, Logger: p.logger()}
}

// ParseFile runs the full pipeline on a file.
func (p *Parser) ParseFile(path string, opts Options) (*ParseResult, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	doc, data, err := p.loadFile(path, opts)
	if err != nil {
		return nil, err
	}
	return p.run(doc, data, opts)
}

// Parse runs the full pipeline on raw bytes. name labels the source and
// decides CSV routing by extension.
func (p *Parser) Parse(data []byte, name string, opts Options) (*ParseResult, error) {
	doc, err := p.load(data, name, opts)
	if err != nil {
		return nil, err
	}
	return p.run(doc, data, opts)
}

// Score loads a document and returns its complexity analysis without
// converting.
func (p *Parser) Score(data []byte, name string) (*score.ComplexityScore, error) {
	doc, err := p.load(data, name, DefaultOptions())
	if err != nil {
		return nil, err
	}
	return p.engine().Analyze(doc, p.providers(data)), nil
}

// ScoreFile is Score for a file on disk.
func (p *Parser) ScoreFile(path string) (*score.ComplexityScore, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	doc, data, err := p.loadFile(path, DefaultOptions())
	if err != nil {
		return nil, err
	}
	return p.engine().Analyze(doc, p.providers(data)), nil
}

// Preview loads a document and returns the top-left corner of each
// sheet, skipping scoring and conversion.
func (p *Parser) Preview(data []byte, name string, maxRows, maxCols int) (*Preview, error) {
	if maxRows < 1 {
		maxRows = 10
	}
	if maxCols < 1 {
		maxCols = 10
	}
	doc, err := p.load(data, name, DefaultOptions())
	if err != nil {
		return nil, err
	}

	pv := &Preview{
		Source:   doc.Name,
		Engine:   doc.Load.Engine,
		Fidelity: doc.Load.Fidelity.String(),
	}
	for _, sheet := range doc.Sheets {
		sp := SheetPreview{
			Name:      sheet.Name,
			TotalRows: sheet.RowCount(),
			TotalCols: sheet.ColCount(),
		}
		rows := sheet.RowCount()
		if rows > maxRows {
			rows, sp.Truncated = maxRows, true
		}
		cols := sheet.ColCount()
		if cols > maxCols {
			cols, sp.Truncated = maxCols, true
		}
		for r := 0; r < rows; r++ {
			row := make([]string, cols)
			for c := 0; c < cols; c++ {
				row[c] = sheet.Cell(r, c).Text
				if sheet.Cell(r, c).Kind == models.CellNumber {
					row[c] = fmt.Sprintf("%g", sheet.Cell(r, c).Number)
				}
			}
			sp.Rows = append(sp.Rows, row)
		}
		pv.Sheets = append(pv.Sheets, sp)
	}
	return pv, nil
}

func (p *Parser) load(data []byte, name string, opts Options) (*models.TabularDocument, error) {
	kind := loader.KindAuto
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		kind = loader.KindCSV
	}
	doc, err := p.loader(opts).Load(data, kind)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = name
	}
	return doc, nil
}

func (p *Parser) loadFile(path string, opts Options) (*models.TabularDocument, []byte, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := p.load(data, filepath.Base(path), opts)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

func (p *Parser) providers(data []byte) score.Providers {
	return score.Providers{Meta: extract.NewWorkbookMeta(data)}
}

// run scores the loaded document and converts it, assembling the result
// metadata. Scoring always runs: even a forced format carries the
// analysis in the result.
func (p *Parser) run(doc *models.TabularDocument, data []byte, opts Options) (*ParseResult, error) {
	format := opts.format()
	if !format.Valid() {
		return nil, &ValidationError{Field: "format", Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)}
	}

	analysis := p.engine().Analyze(doc, p.providers(data))
	if format == FormatAuto {
		format = OutputFormat(analysis.Recommended)
		p.logger().Debug("format selected by score",
			"format", format, "total", analysis.Total, "override", analysis.OverrideReason)
	}

	result := &ParseResult{
		Format: format,
		Score:  analysis,
		Metadata: Metadata{
			Source:     doc.Name,
			Engine:     doc.Load.Engine,
			Fidelity:   doc.Load.Fidelity.String(),
			Encoding:   doc.Load.Encoding,
			TotalCells: doc.TotalCells(),
		},
	}
	for _, sheet := range doc.Sheets {
		result.Metadata.SheetNames = append(result.Metadata.SheetNames, sheet.Name)
		result.Metadata.TotalRows += sheet.RowCount()
		result.Metadata.Merges += len(sheet.Merges)
	}

	convOpts := opts.convertOptions(p.Highlight)
	switch format {
	case FormatMarkdown:
		content, err := convert.Markdown(doc, convOpts)
		if err != nil {
			return nil, err
		}
		result.Content = content
	case FormatHTML:
		stream, err := convert.HTML(doc, convOpts)
		if err != nil {
			return nil, err
		}
		p.logger().Debug("html chunks planned", "fragments", stream.Len())
		result.Fragments = stream.All()
		result.Metadata.Highlights = stream.Highlights()
	}

	if opts.ShouldIncludeShapeTexts() {
		if texts, err := extract.ShapeTexts(data); err == nil && len(texts) > 0 {
			result.Metadata.ShapeTexts = texts
		}
	}
	stats := make(map[string]extract.FormulaStats)
	for _, sheet := range doc.Sheets {
		if s := extract.SheetFormulaStats(sheet); s.Count > 0 {
			stats[sheet.Name] = s
		}
	}
	if len(stats) > 0 {
		result.Metadata.FormulaStats = stats
	}

	if opts.ExtractImages {
		report, err := extract.WriteImages(data, opts.imagesDir(), p.logger())
		if err != nil {
			p.logger().Warn("image extraction failed", "error", err)
		} else if report.Count > 0 || report.Failed > 0 {
			result.Metadata.Images = &report
		}
	}
	return result, nil
}

// ValidatePath rejects missing files and unsupported extensions before
// any bytes are read.
func ValidatePath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return &ValidationError{
			Field: "file_path",
			Err:   fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext),
		}
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Kind: loader.Unreadable, Stage: "read", Err: err}
	}
	if len(data) == 0 {
		return nil, &LoadError{Kind: loader.Unreadable, Stage: "read", Err: errors.New("empty file")}
	}
	return data, nil
}
