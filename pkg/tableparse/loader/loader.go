// Package loader turns file bytes into a normalized TabularDocument,
// falling through an ordered chain of decoding engines so that damaged or
// unusual files still load whenever any engine can recover cell data.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// Kind routes a source through the loader chain.
type Kind int

const (
	// KindAuto detects the source kind from its leading bytes.
	KindAuto Kind = iota
	// KindSpreadsheet forces the spreadsheet engine chain.
	KindSpreadsheet
	// KindCSV bypasses the chain and reads the bytes as CSV.
	KindCSV
)

// ErrorKind classifies a load failure.
type ErrorKind int

const (
	// Unreadable means every stage of the chain was exhausted.
	Unreadable ErrorKind = iota
	// CorruptFile means the container structure could not be decoded.
	CorruptFile
	// UnsupportedFeature means the file uses a format the engines cannot read.
	UnsupportedFeature
	// EncodingError means the character data could not be decoded.
	EncodingError
)

func (k ErrorKind) String() string {
	switch k {
	case CorruptFile:
		return "corrupt file"
	case UnsupportedFeature:
		return "unsupported feature"
	case EncodingError:
		return "encoding error"
	default:
		return "unreadable"
	}
}

// LoadError is the terminal error surfaced when no stage could load the
// source. Stage names the last engine attempted.
type LoadError struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load failed (%s, last stage %s): %v", e.Kind, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// File signatures checked during kind detection.
var (
	sigZIP = []byte{0x50, 0x4b, 0x03, 0x04}
	sigOLE = []byte{0xd0, 0xcf, 0x11, 0xe0}
)

// stage is one engine of the fallback chain.
type stage struct {
	name     string
	fidelity models.Fidelity
	// accepts filters stages by container signature so a legacy OLE file
	// routes straight to the decoder that can read it.
	accepts func(data []byte) bool
	load    func(data []byte) (*models.TabularDocument, error)
}

// Loader runs the fallback chain.
type Loader struct {
	// Encoding forces a CSV character encoding instead of detection.
	Encoding string
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// stages overrides the spreadsheet chain; used by tests.
	stages []stage
}

// New returns a Loader with the default engine chain.
func New() *Loader { return &Loader{} }

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func (l *Loader) chain() []stage {
	if l.stages != nil {
		return l.stages
	}
	return []stage{
		{name: "excelize", fidelity: models.FidelityFull, accepts: isZIP, load: loadExcelize},
		{name: "ooxml", fidelity: models.FidelityDegraded, accepts: isZIP, load: loadOOXML},
		{name: "biff", fidelity: models.FidelityDegraded, accepts: isOLE, load: loadBIFF},
	}
}

func isZIP(data []byte) bool { return bytes.HasPrefix(data, sigZIP) }
func isOLE(data []byte) bool { return bytes.HasPrefix(data, sigOLE) }

// LoadFile reads path and loads it, detecting the kind from the file
// signature and extension.
func (l *Loader) LoadFile(path string) (*models.TabularDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Kind: Unreadable, Stage: "read", Err: err}
	}
	kind := KindAuto
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		kind = KindCSV
	}
	doc, err := l.Load(data, kind)
	if err != nil {
		return nil, err
	}
	doc.Name = filepath.Base(path)
	return doc, nil
}

// Load turns raw bytes into a TabularDocument. Spreadsheet inputs walk the
// engine chain; CSV inputs go straight to the tabular reader. The error is
// always a *LoadError and is returned only when every applicable stage
// failed.
func (l *Loader) Load(data []byte, kind Kind) (*models.TabularDocument, error) {
	if kind == KindCSV || (kind == KindAuto && !isZIP(data) && !isOLE(data)) {
		return l.loadCSV(data)
	}

	var (
		lastErr   error
		lastStage string
		attempted int
	)
	for _, st := range l.chain() {
		if st.accepts != nil && !st.accepts(data) {
			continue
		}
		if attempted > 0 {
			l.logger().Warn("loader falling back to degraded engine",
				"stage", st.name, "previous_error", lastErr)
		}
		attempted++
		doc, err := st.load(data)
		if err != nil {
			lastErr, lastStage = err, st.name
			l.logger().Debug("loader stage failed", "stage", st.name, "error", err)
			continue
		}
		doc.Load = models.LoadInfo{Engine: st.name, Fidelity: st.fidelity}
		return doc, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no engine accepts this file")
		lastStage = "detect"
	}
	return nil, &LoadError{Kind: classify(lastErr), Stage: lastStage, Err: lastErr}
}

func (l *Loader) loadCSV(data []byte) (*models.TabularDocument, error) {
	doc, enc, err := loadCSV(data, l.Encoding)
	if err != nil {
		return nil, &LoadError{Kind: classify(err), Stage: "csv", Err: err}
	}
	doc.Load = models.LoadInfo{Engine: "csv", Fidelity: models.FidelityFull, Encoding: enc}
	return doc, nil
}

// classify maps an engine error onto the load error taxonomy.
func classify(err error) ErrorKind {
	var ee *encodingError
	if errors.As(err, &ee) {
		return EncodingError
	}
	var ue *unsupportedError
	if errors.As(err, &ue) {
		return UnsupportedFeature
	}
	var ce *corruptError
	if errors.As(err, &ce) {
		return CorruptFile
	}
	return Unreadable
}

// Internal classification wrappers used by the engines.

type corruptError struct{ err error }

func (e *corruptError) Error() string { return e.err.Error() }
func (e *corruptError) Unwrap() error { return e.err }

type unsupportedError struct{ err error }

func (e *unsupportedError) Error() string { return e.err.Error() }
func (e *unsupportedError) Unwrap() error { return e.err }

type encodingError struct{ err error }

func (e *encodingError) Error() string { return e.err.Error() }
func (e *encodingError) Unwrap() error { return e.err }
