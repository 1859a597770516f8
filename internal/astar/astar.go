// Package astar plans shortest routes between two cells over a wall view.
//
// The search uses a binary heap ordered by f = g + h with the Manhattan
// distance as h. Entries with equal f are ordered by the raster index of
// their cell (y*width + x), so the returned path is reproducible. Stale heap
// entries are skipped on pop instead of being decreased in place.
package astar

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/wallmap"
)

var (
	// ErrNoPath is returned when the heap is exhausted before the goal is reached.
	ErrNoPath = errors.New("astar: no path")
	// ErrOutOfBounds is returned when start or goal lies outside the maze.
	ErrOutOfBounds = errors.New("astar: cell out of bounds")
)

// FindPath returns the cells leading from start to goal, excluding start and
// including goal. An empty path means start == goal.
func FindPath(v wallmap.View, start, goal core.Cell) ([]core.Cell, error) {
	size := v.Size()
	if !size.Contains(start) {
		return nil, fmt.Errorf("%w: start %v", ErrOutOfBounds, start)
	}
	if !size.Contains(goal) {
		return nil, fmt.Errorf("%w: goal %v", ErrOutOfBounds, goal)
	}
	if start == goal {
		return []core.Cell{}, nil
	}

	r := newRunner(v, goal)
	r.push(start, 0, -1)
	if !r.process() {
		return nil, fmt.Errorf("%w: %v -> %v", ErrNoPath, start, goal)
	}
	return r.path(start), nil
}

// runner holds the mutable state of one search.
type runner struct {
	view   wallmap.View
	size   core.Size
	goal   core.Cell
	best   []int // best known g per raster index, -1 if unseen
	parent []int // raster index of the predecessor, -1 for none
	closed []bool
	pq     nodePQ
}

func newRunner(v wallmap.View, goal core.Cell) *runner {
	size := v.Size()
	r := &runner{
		view:   v,
		size:   size,
		goal:   goal,
		best:   make([]int, size.Area()),
		parent: make([]int, size.Area()),
		closed: make([]bool, size.Area()),
		pq:     make(nodePQ, 0, size.Area()),
	}
	for i := range r.best {
		r.best[i] = -1
		r.parent[i] = -1
	}
	heap.Init(&r.pq)
	return r
}

func (r *runner) push(c core.Cell, g, from int) {
	i := r.size.Index(c)
	r.best[i] = g
	r.parent[i] = from
	heap.Push(&r.pq, &nodeItem{
		cell:  c,
		index: i,
		g:     g,
		f:     g + c.Manhattan(r.goal),
	})
}

// process expands cells until the goal is popped. Returns false when the
// heap runs dry first.
func (r *runner) process() bool {
	var buf [4]core.Cell
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		if r.closed[item.index] || item.g > r.best[item.index] {
			continue
		}
		if item.cell == r.goal {
			return true
		}
		r.closed[item.index] = true

		for _, n := range wallmap.Neighbors(r.view, item.cell, buf[:0]) {
			ni := r.size.Index(n)
			if r.closed[ni] {
				continue
			}
			g := item.g + 1
			if r.best[ni] >= 0 && g >= r.best[ni] {
				continue
			}
			r.push(n, g, item.index)
		}
	}
	return false
}

// path follows parent links from the goal back to start and reverses them.
func (r *runner) path(start core.Cell) []core.Cell {
	stop := r.size.Index(start)
	var out []core.Cell
	for i := r.size.Index(r.goal); i != stop && i >= 0; i = r.parent[i] {
		out = append(out, r.size.CellAt(i))
	}
	for a, b := 0, len(out)-1; a < b; a, b = a+1, b-1 {
		out[a], out[b] = out[b], out[a]
	}
	return out
}

// nodeItem is a single heap entry.
type nodeItem struct {
	cell  core.Cell
	index int // raster index, used for tie-breaking
	g     int
	f     int
}

// nodePQ implements heap.Interface as a min-heap on (f, index).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].index < pq[j].index
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) {
	*pq = append(*pq, x.(*nodeItem))
}

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
