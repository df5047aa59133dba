// Package tableparse converts spreadsheet and CSV documents to Markdown
// or HTML, scoring their structural complexity to pick the format that
// loses the least.
package tableparse

import (
	"github.com/ukaji3/tableparse-go/pkg/tableparse/convert"
)

// OutputFormat selects the conversion target.
type OutputFormat string

const (
	// FormatAuto lets the complexity score pick the format.
	FormatAuto OutputFormat = "auto"
	// FormatMarkdown forces pipe-table output.
	FormatMarkdown OutputFormat = "markdown"
	// FormatHTML forces chunked HTML table output.
	FormatHTML OutputFormat = "html"
)

// Valid reports whether the format is one of the supported values.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatAuto, FormatMarkdown, FormatHTML:
		return true
	}
	return false
}

// Options configures a parse run.
type Options struct {
	// Format is the conversion target. Empty means auto.
	Format OutputFormat

	// PreserveStyles serializes cell styling on the HTML path.
	PreserveStyles bool

	// ExtractImages writes embedded pictures under ImagesDir.
	ExtractImages bool
	// ImagesDir is where extracted images land. Empty defaults to
	// "images" next to the working directory.
	ImagesDir string

	// ChunkRows caps data rows per HTML fragment. < 1 means the default.
	ChunkRows int

	// CleanIllegalChars strips XML-illegal control characters from cell
	// text. If nil, defaults to true.
	CleanIllegalChars *bool

	// IncludeEmptyRows keeps all-empty rows in the output.
	IncludeEmptyRows bool

	// Encoding forces a CSV text encoding instead of detection.
	Encoding string

	// IncludeShapeTexts carries drawing shape text into the result
	// metadata. If nil, defaults to true.
	IncludeShapeTexts *bool
}

// DefaultOptions returns the default parse options.
func DefaultOptions() Options {
	return Options{Format: FormatAuto}
}

// ShouldCleanIllegalChars resolves the tri-state flag.
func (o Options) ShouldCleanIllegalChars() bool {
	if o.CleanIllegalChars != nil {
		return *o.CleanIllegalChars
	}
	return true
}

// ShouldIncludeShapeTexts resolves the tri-state flag.
func (o Options) ShouldIncludeShapeTexts() bool {
	if o.IncludeShapeTexts != nil {
		return *o.IncludeShapeTexts
	}
	return true
}

func (o Options) format() OutputFormat {
	if o.Format == "" {
		return FormatAuto
	}
	return o.Format
}

func (o Options) imagesDir() string {
	if o.ImagesDir == "" {
		return "images"
	}
	return o.ImagesDir
}

func (o Options) convertOptions(highlight convert.HighlightBounds) convert.Options {
	return convert.Options{
		PreserveStyles:    o.PreserveStyles,
		ChunkRows:         o.ChunkRows,
		CleanIllegalChars: o.CleanIllegalChars,
		IncludeEmptyRows:  o.IncludeEmptyRows,
		Highlight:         highlight,
	}
}
