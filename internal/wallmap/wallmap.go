// Package wallmap stores the robot's accumulated knowledge of maze walls.
//
// The map is optimistic and append-only: every side is open until a wall is
// observed, and an observed wall is never removed. Walls are mirrored onto
// the neighbouring cell so that the map is always symmetric. Sides on the
// maze boundary always read as walls.
package wallmap

import "github.com/vovakirdan/micromouse/internal/core"

// View is the read-only surface planners need from a wall source.
// Both the robot's knowledge (Map) and a true maze satisfy it.
type View interface {
	Size() core.Size
	// Open reports whether the robot can pass from c towards d: the
	// neighbour is in bounds and no wall separates the two cells.
	Open(c core.Cell, d core.Direction) bool
}

// Map is the engine's wall knowledge, one bitmask per cell.
type Map struct {
	size  core.Size
	bits  []uint8
	count int
}

// New creates an empty wall map for a maze of the given size.
func New(size core.Size) *Map {
	return &Map{
		size: size,
		bits: make([]uint8, size.Area()),
	}
}

// Size returns the maze dimensions.
func (m *Map) Size() core.Size {
	return m.size
}

// Count returns the number of distinct wall segments observed.
// A mirrored pair counts once.
func (m *Map) Count() int {
	return m.count
}

// HasWall reports whether the side (c, d) is known to be blocked.
// Sides on the maze boundary and cells outside it are always blocked.
func (m *Map) HasWall(c core.Cell, d core.Direction) bool {
	if !m.size.Contains(c) || !m.size.Contains(c.Step(d)) {
		return true
	}
	return m.bits[m.size.Index(c)]&(1<<d) != 0
}

// Open implements View.
func (m *Map) Open(c core.Cell, d core.Direction) bool {
	return !m.HasWall(c, d)
}

// Add records a wall on side (c, d) and its mirror on the neighbour.
// Returns true if the wall was not known before. Adding a known wall or a
// boundary side is a no-op.
func (m *Map) Add(c core.Cell, d core.Direction) bool {
	if m.HasWall(c, d) {
		return false
	}
	m.bits[m.size.Index(c)] |= 1 << d
	n := c.Step(d)
	m.bits[m.size.Index(n)] |= 1 << d.Opposite()
	m.count++
	return true
}

// Record converts the three relative wall readings taken at cell facing
// heading into absolute walls. Returns the number of walls that were new.
func (m *Map) Record(c core.Cell, heading core.Direction, front, left, right bool) int {
	added := 0
	if front && m.Add(c, heading) {
		added++
	}
	if left && m.Add(c, heading.Left()) {
		added++
	}
	if right && m.Add(c, heading.Right()) {
		added++
	}
	return added
}

// Neighbors appends the open neighbours of c to buf in N, E, S, W order.
func (m *Map) Neighbors(c core.Cell, buf []core.Cell) []core.Cell {
	return Neighbors(m, c, buf)
}

// Clone returns an independent copy of the map.
func (m *Map) Clone() *Map {
	bits := make([]uint8, len(m.bits))
	copy(bits, m.bits)
	return &Map{
		size:  m.size,
		bits:  bits,
		count: m.count,
	}
}

// Equal returns true if both maps hold the same walls.
func (m *Map) Equal(other *Map) bool {
	if m.size != other.size {
		return false
	}
	for i, b := range m.bits {
		if b != other.bits[i] {
			return false
		}
	}
	return true
}

// Neighbors appends the cells reachable in one step from c to buf,
// scanning in the fixed order N, E, S, W.
func Neighbors(v View, c core.Cell, buf []core.Cell) []core.Cell {
	for _, d := range core.Directions {
		if v.Open(c, d) {
			buf = append(buf, c.Step(d))
		}
	}
	return buf
}
