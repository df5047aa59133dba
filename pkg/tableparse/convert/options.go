// Package convert renders a TabularDocument as Markdown or chunked HTML.
// Rendering is a pure function of (document, options); no state survives a
// call.
package convert

// DefaultChunkRows is the data-row cap per HTML table fragment.
const DefaultChunkRows = 256

// Options control both render paths. The zero value gives the documented
// defaults; no combination of options fails.
type Options struct {
	// PreserveStyles serializes cell styling as inline attributes on the
	// HTML path. Ignored for Markdown. On a degraded-fidelity document
	// there are simply no styles to serialize.
	PreserveStyles bool

	// ChunkRows caps the number of data rows per HTML table fragment.
	// Values < 1 fall back to DefaultChunkRows.
	ChunkRows int

	// CleanIllegalChars strips XML-illegal control characters from cell
	// text. nil means true.
	CleanIllegalChars *bool

	// IncludeEmptyRows keeps rows whose cells are all empty. The default
	// drops them.
	IncludeEmptyRows bool

	// Highlight overrides the background hue range flagged as highlight.
	// The zero value uses DefaultHighlightBounds.
	Highlight HighlightBounds
}

// ShouldCleanIllegalChars resolves the tri-state flag.
func (o Options) ShouldCleanIllegalChars() bool {
	if o.CleanIllegalChars == nil {
		return true
	}
	return *o.CleanIllegalChars
}

func (o Options) chunkRows() int {
	if o.ChunkRows < 1 {
		return DefaultChunkRows
	}
	return o.ChunkRows
}

func (o Options) highlight() HighlightBounds {
	if o.Highlight == (HighlightBounds{}) {
		return DefaultHighlightBounds()
	}
	return o.Highlight
}
