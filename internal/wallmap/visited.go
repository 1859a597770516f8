package wallmap

import "github.com/vovakirdan/micromouse/internal/core"

// Visited is a monotonically growing set of cells.
type Visited struct {
	size  core.Size
	marks []bool
	count int
}

// NewVisited creates an empty set for a maze of the given size.
func NewVisited(size core.Size) *Visited {
	return &Visited{
		size:  size,
		marks: make([]bool, size.Area()),
	}
}

// Mark adds c to the set. Returns true if c was not in the set before.
// Out-of-bounds cells are ignored.
func (v *Visited) Mark(c core.Cell) bool {
	if !v.size.Contains(c) {
		return false
	}
	i := v.size.Index(c)
	if v.marks[i] {
		return false
	}
	v.marks[i] = true
	v.count++
	return true
}

// Has reports whether c has been marked.
func (v *Visited) Has(c core.Cell) bool {
	if !v.size.Contains(c) {
		return false
	}
	return v.marks[v.size.Index(c)]
}

// Count returns the number of marked cells.
func (v *Visited) Count() int {
	return v.count
}
