package models

// Fidelity describes how much structural and style detail a load preserved.
type Fidelity int

const (
	// FidelityFull means the primary engine loaded the document with
	// merges, styles and rich text intact.
	FidelityFull Fidelity = iota
	// FidelityDegraded means a fallback engine recovered cell values only.
	FidelityDegraded
)

func (f Fidelity) String() string {
	if f == FidelityFull {
		return "full"
	}
	return "degraded"
}

// LoadInfo records which loader stage produced the document.
type LoadInfo struct {
	// Engine is the loader stage name ("excelize", "ooxml", "biff", "csv").
	Engine string `json:"engine"`
	// Fidelity is full or degraded.
	Fidelity Fidelity `json:"fidelity"`
	// Encoding is the character encoding used for CSV inputs.
	Encoding string `json:"encoding,omitempty"`
}

// TabularDocument is the normalized in-memory model of one loaded document.
// Sheets are owned by the document for its lifetime.
type TabularDocument struct {
	// Name is the source file name, if known.
	Name string `json:"name,omitempty"`
	// Sheets in workbook order.
	Sheets []*Sheet `json:"sheets"`
	// Load records the engine and fidelity of the load.
	Load LoadInfo `json:"load"`
}

// Validate checks document-wide invariants: unique sheet names and
// non-overlapping merge regions per sheet.
func (d *TabularDocument) Validate() error {
	seen := make(map[string]struct{}, len(d.Sheets))
	for _, s := range d.Sheets {
		if _, dup := seen[s.Name]; dup {
			return &DuplicateSheetError{Name: s.Name}
		}
		seen[s.Name] = struct{}{}
		if err := s.ValidateMerges(); err != nil {
			return err
		}
	}
	return nil
}

// TotalCells returns the summed grid size across sheets.
func (d *TabularDocument) TotalCells() int {
	total := 0
	for _, s := range d.Sheets {
		total += s.RowCount() * s.ColCount()
	}
	return total
}

// DuplicateSheetError reports a sheet name collision.
type DuplicateSheetError struct {
	Name string
}

func (e *DuplicateSheetError) Error() string {
	return "duplicate sheet name: " + e.Name
}
