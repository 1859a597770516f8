package sim

import (
	"sync"

	"github.com/vovakirdan/micromouse/internal/core"
)

// Annotations stores the colours and labels a solver attaches to cells.
// It is safe for a renderer to read while the solver writes.
type Annotations struct {
	mu     sync.RWMutex
	colors map[core.Cell]core.Color
	labels map[core.Cell]string
}

// NewAnnotations creates an empty store.
func NewAnnotations() *Annotations {
	return &Annotations{
		colors: make(map[core.Cell]core.Color),
		labels: make(map[core.Cell]string),
	}
}

// Mark implements core.Annotator.
func (a *Annotations) Mark(c core.Cell, color core.Color) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.colors[c] = color
}

// Label implements core.Annotator. An empty text clears the label.
func (a *Annotations) Label(c core.Cell, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if text == "" {
		delete(a.labels, c)
		return
	}
	a.labels[c] = text
}

// Color returns the colour marked on c, or ColorDefault.
func (a *Annotations) Color(c core.Cell) core.Color {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.colors[c]
}

// Text returns the label on c.
func (a *Annotations) Text(c core.Cell) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.labels[c]
}
