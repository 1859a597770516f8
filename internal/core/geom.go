// Package core provides fundamental types shared by the maze engine, the
// solvers, and the host side. It contains no external dependencies so that
// engine logic stays pure and testable.
package core

import "fmt"

// Direction is one of the four cardinal headings.
// Values are ordered N, E, S, W so that turning right adds one.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists all headings in the fixed scan order N, E, S, W.
var Directions = [4]Direction{North, East, South, West}

// Opposite returns the heading rotated by 180 degrees.
func (d Direction) Opposite() Direction {
	return d.Turn(2)
}

// Turn rotates the heading by n quarter turns; positive is clockwise.
func (d Direction) Turn(n int) Direction {
	return Direction(((int(d)+n)%4 + 4) % 4)
}

// Left returns the heading one quarter turn counter-clockwise.
func (d Direction) Left() Direction {
	return d.Turn(-1)
}

// Right returns the heading one quarter turn clockwise.
func (d Direction) Right() Direction {
	return d.Turn(1)
}

// Delta returns the unit offset for the heading. North is +y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// Rune returns the single-letter name of the heading.
func (d Direction) Rune() rune {
	return rune("NESW"[d%4])
}

// String returns a human-readable name for the heading.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Cell is a discrete maze position. (0,0) is the bottom-left corner.
type Cell struct {
	X, Y int
}

// C is a convenience constructor for Cell.
func C(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// Step returns the neighbouring cell in the given direction.
func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// DirectionTo returns the heading that leads from c to an adjacent cell.
// ok is false if other is not a grid neighbour of c.
func (c Cell) DirectionTo(other Cell) (d Direction, ok bool) {
	for _, d := range Directions {
		if c.Step(d) == other {
			return d, true
		}
	}
	return North, false
}

// Manhattan returns the Manhattan distance to another cell.
func (c Cell) Manhattan(other Cell) int {
	return Abs(c.X-other.X) + Abs(c.Y-other.Y)
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Size holds maze dimensions and answers bounds queries.
type Size struct {
	W, H int
}

// Contains reports whether c lies inside [0,W)x[0,H).
func (s Size) Contains(c Cell) bool {
	return c.X >= 0 && c.X < s.W && c.Y >= 0 && c.Y < s.H
}

// Index converts a cell to its raster index y*W + x.
func (s Size) Index(c Cell) int {
	return c.Y*s.W + c.X
}

// CellAt is the inverse of Index.
func (s Size) CellAt(i int) Cell {
	return Cell{X: i % s.W, Y: i / s.W}
}

// Area returns the number of cells.
func (s Size) Area() int {
	return s.W * s.H
}

// GoalBlock returns the fixed 2x2 block of cells centred on the maze.
// Dimensions below 2 leave the block undefined; callers must validate first.
func (s Size) GoalBlock() [4]Cell {
	cx, cy := s.W/2, s.H/2
	return [4]Cell{
		{X: cx - 1, Y: cy - 1},
		{X: cx, Y: cy - 1},
		{X: cx - 1, Y: cy},
		{X: cx, Y: cy},
	}
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
