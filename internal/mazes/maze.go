// Package mazes models true mazes for the host side: wall storage, random
// generation, text formats, and a set of built-in layouts.
//
// Coordinates follow the solver convention: (0,0) is the bottom-left cell
// and north is +y. Sides on the outer boundary are always walls.
package mazes

import (
	"strings"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/flood"
)

// Maze is a rectangular grid of cells with walls between them.
type Maze struct {
	ID   string
	Name string

	size  core.Size
	walls []uint8
}

// New creates a w x h maze with no interior walls.
func New(w, h int) *Maze {
	return &Maze{
		size:  core.Size{W: w, H: h},
		walls: make([]uint8, w*h),
	}
}

// NewClosed creates a w x h maze with every side walled.
func NewClosed(w, h int) *Maze {
	m := New(w, h)
	for i := range m.walls {
		m.walls[i] = 0x0f
	}
	return m
}

// Size returns the maze dimensions.
func (m *Maze) Size() core.Size {
	return m.size
}

// Width returns the number of columns.
func (m *Maze) Width() int { return m.size.W }

// Height returns the number of rows.
func (m *Maze) Height() int { return m.size.H }

// HasWall reports whether side (c, d) is blocked.
func (m *Maze) HasWall(c core.Cell, d core.Direction) bool {
	if !m.size.Contains(c) || !m.size.Contains(c.Step(d)) {
		return true
	}
	return m.walls[m.size.Index(c)]&(1<<d) != 0
}

// Open reports whether the robot can pass from c towards d.
func (m *Maze) Open(c core.Cell, d core.Direction) bool {
	return !m.HasWall(c, d)
}

// SetWall places or removes the wall on side (c, d) and its mirror.
// Boundary sides cannot be changed.
func (m *Maze) SetWall(c core.Cell, d core.Direction, wall bool) {
	n := c.Step(d)
	if !m.size.Contains(c) || !m.size.Contains(n) {
		return
	}
	i, j := m.size.Index(c), m.size.Index(n)
	if wall {
		m.walls[i] |= 1 << d
		m.walls[j] |= 1 << d.Opposite()
		return
	}
	m.walls[i] &^= 1 << d
	m.walls[j] &^= 1 << d.Opposite()
}

// WallCount returns the number of interior wall segments.
func (m *Maze) WallCount() int {
	n := 0
	for i := 0; i < m.size.Area(); i++ {
		c := m.size.CellAt(i)
		if c.Y+1 < m.size.H && m.HasWall(c, core.North) {
			n++
		}
		if c.X+1 < m.size.W && m.HasWall(c, core.East) {
			n++
		}
	}
	return n
}

// Goals returns the central 2x2 goal block.
func (m *Maze) Goals() []core.Cell {
	g := m.size.GoalBlock()
	return g[:]
}

// Distances returns the true distance field to the goal block.
func (m *Maze) Distances() *flood.Field {
	return flood.Compute(m, m.Goals())
}

// Solvable reports whether the goal block is reachable from the origin.
func (m *Maze) Solvable() bool {
	return m.Distances().Reachable(core.C(0, 0))
}

// Clone returns an independent copy.
func (m *Maze) Clone() *Maze {
	c := &Maze{ID: m.ID, Name: m.Name, size: m.size, walls: make([]uint8, len(m.walls))}
	copy(c.walls, m.walls)
	return c
}

// String renders the maze in the classic post-and-wall text format, north
// row first.
func (m *Maze) String() string {
	var b strings.Builder
	w, h := m.size.W, m.size.H

	post := func(y int) {
		for x := 0; x < w; x++ {
			b.WriteByte('o')
			if m.HasWall(core.C(x, y), core.North) {
				b.WriteString("---")
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteString("o\n")
	}

	post(h - 1)
	for y := h - 1; y >= 0; y-- {
		for x := 0; x < w; x++ {
			if m.HasWall(core.C(x, y), core.West) {
				b.WriteByte('|')
			} else {
				b.WriteByte(' ')
			}
			b.WriteString("   ")
		}
		b.WriteString("|\n")
		if y > 0 {
			post(y - 1)
		}
	}
	for x := 0; x < w; x++ {
		b.WriteString("o---")
	}
	b.WriteString("o\n")
	return b.String()
}
