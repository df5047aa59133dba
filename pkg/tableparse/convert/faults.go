package convert

import "fmt"

// ConversionFault reports an invariant violation in the input document,
// typically malformed merge regions. It does not occur for documents
// produced by the loader, which validates on load.
type ConversionFault struct {
	Sheet string
	Err   error
}

func (f *ConversionFault) Error() string {
	return fmt.Sprintf("conversion fault in sheet %q: %v", f.Sheet, f.Err)
}

func (f *ConversionFault) Unwrap() error { return f.Err }
