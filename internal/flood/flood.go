// Package flood computes distance fields: the hop count from every cell to
// the nearest goal cell under the walls currently known.
//
// A Field is immutable once computed. Callers that learn new walls build a
// fresh field with Compute and swap it in, so a reader never observes a
// propagation in progress.
package flood

import (
	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/wallmap"
)

// Unreachable marks cells with no open route to any goal.
const Unreachable = -1

// Field is a snapshot of per-cell distances to a goal set.
type Field struct {
	size  core.Size
	dist  []int
	goals []core.Cell
}

// Compute runs a multi-source breadth-first propagation from goals over the
// open sides reported by v. Goals outside the maze are ignored.
func Compute(v wallmap.View, goals []core.Cell) *Field {
	size := v.Size()
	f := &Field{
		size:  size,
		dist:  make([]int, size.Area()),
		goals: append([]core.Cell(nil), goals...),
	}
	for i := range f.dist {
		f.dist[i] = Unreachable
	}

	queue := make([]core.Cell, 0, size.Area())
	for _, g := range goals {
		if !size.Contains(g) || f.dist[size.Index(g)] == 0 {
			continue
		}
		f.dist[size.Index(g)] = 0
		queue = append(queue, g)
	}

	var buf [4]core.Cell
	for head := 0; head < len(queue); head++ {
		c := queue[head]
		next := f.dist[size.Index(c)] + 1
		for _, n := range wallmap.Neighbors(v, c, buf[:0]) {
			i := size.Index(n)
			if f.dist[i] == Unreachable || f.dist[i] > next {
				f.dist[i] = next
				queue = append(queue, n)
			}
		}
	}
	return f
}

// Size returns the dimensions the field was computed for.
func (f *Field) Size() core.Size {
	return f.size
}

// Goals returns a copy of the goal set the field was seeded from.
func (f *Field) Goals() []core.Cell {
	return append([]core.Cell(nil), f.goals...)
}

// At returns the distance at c, or Unreachable for cells that cannot reach
// a goal or lie outside the maze.
func (f *Field) At(c core.Cell) int {
	if !f.size.Contains(c) {
		return Unreachable
	}
	return f.dist[f.size.Index(c)]
}

// Reachable reports whether c has a finite distance.
func (f *Field) Reachable(c core.Cell) bool {
	return f.At(c) != Unreachable
}

// IsGoal reports whether c is one of the seed cells.
func (f *Field) IsGoal(c core.Cell) bool {
	for _, g := range f.goals {
		if g == c {
			return true
		}
	}
	return false
}

// Max returns the largest finite distance in the field, or Unreachable if
// no cell is reachable.
func (f *Field) Max() int {
	best := Unreachable
	for _, d := range f.dist {
		if d > best {
			best = d
		}
	}
	return best
}

// Equal returns true if both fields hold the same distances.
func (f *Field) Equal(other *Field) bool {
	if other == nil || f.size != other.size {
		return false
	}
	for i, d := range f.dist {
		if d != other.dist[i] {
			return false
		}
	}
	return true
}

// minNeighbor returns the smallest finite distance among the open
// neighbours of c, or Unreachable.
func (f *Field) minNeighbor(v wallmap.View, c core.Cell) int {
	best := Unreachable
	for _, d := range core.Directions {
		if !v.Open(c, d) {
			continue
		}
		nd := f.At(c.Step(d))
		if nd == Unreachable {
			continue
		}
		if best == Unreachable || nd < best {
			best = nd
		}
	}
	return best
}

// Consistent checks the local field invariant at c against the walls in v:
// a goal holds 0, any other cell holds one more than its smallest open
// neighbour, and a cell whose open neighbours are all unreachable is itself
// unreachable. A false result means the field is stale for v.
func (f *Field) Consistent(v wallmap.View, c core.Cell) bool {
	cur := f.At(c)
	if f.IsGoal(c) {
		return cur == 0
	}
	m := f.minNeighbor(v, c)
	if m == Unreachable {
		return cur == Unreachable
	}
	return cur == m+1
}

// Descend picks the open neighbour of c with the smallest distance that is
// strictly below the distance at c. Ties go to the first heading in
// N, E, S, W order. ok is false when no neighbour improves on c.
func (f *Field) Descend(v wallmap.View, c core.Cell) (dir core.Direction, ok bool) {
	cur := f.At(c)
	if cur == Unreachable {
		return core.North, false
	}
	best := cur
	for _, d := range core.Directions {
		if !v.Open(c, d) {
			continue
		}
		nd := f.At(c.Step(d))
		if nd == Unreachable || nd >= best {
			continue
		}
		best = nd
		dir, ok = d, true
	}
	return dir, ok
}
