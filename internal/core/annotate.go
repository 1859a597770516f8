package core

// Annotator receives purely observational per-cell markings from a solver.
// Implementations must not feed anything back into the solver.
type Annotator interface {
	// Mark colours a cell.
	Mark(c Cell, color Color)
	// Label attaches a short text to a cell, replacing any previous label.
	Label(c Cell, text string)
}

// NopAnnotator discards all annotations.
type NopAnnotator struct{}

// Mark implements Annotator.
func (NopAnnotator) Mark(Cell, Color) {}

// Label implements Annotator.
func (NopAnnotator) Label(Cell, string) {}
