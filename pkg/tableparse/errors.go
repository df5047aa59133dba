package tableparse

import (
	"errors"
	"fmt"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/convert"
	"github.com/ukaji3/tableparse-go/pkg/tableparse/loader"
)

// ErrUnsupportedFormat indicates an output format outside auto, markdown
// and html.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ErrUnsupportedExtension indicates an input file type the loader does
// not handle.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// LoadError is the terminal loader failure, surfaced only after every
// fallback stage is exhausted.
type LoadError = loader.LoadError

// ConversionFault reports a document that violates the merge-region
// invariants.
type ConversionFault = convert.ConversionFault

// ValidationError reports rejected caller input before any parsing runs.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
