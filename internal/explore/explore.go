// Package explore implements depth-first maze exploration with an explicit
// backtrack stack.
//
// The explorer never moves the robot on its own. Next picks an action for the
// current heading; if that action is a forward move, the explorer remembers
// where the move should lead and only updates its stack when the host
// confirms the move on the following tick.
package explore

import (
	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/wallmap"
)

// pending describes a forward move that has been issued but not confirmed.
type pending int

const (
	pendingNone pending = iota
	pendingAdvance
	pendingBacktrack
)

// Explorer is a frontier explorer over a known wall map.
type Explorer struct {
	size    core.Size
	visited *wallmap.Visited
	stack   []core.Cell
	pending pending
	target  core.Cell

	advances   int
	backtracks int
	done       bool
}

// New creates an explorer standing at origin. The origin is visited.
func New(size core.Size, origin core.Cell) *Explorer {
	e := &Explorer{
		size:    size,
		visited: wallmap.NewVisited(size),
		stack:   make([]core.Cell, 1, size.Area()),
	}
	e.stack[0] = origin
	e.visited.Mark(origin)
	return e
}

// Current returns the top of the stack: where the explorer believes the
// robot stands.
func (e *Explorer) Current() core.Cell {
	return e.stack[len(e.stack)-1]
}

// Next decides the action for a robot standing at Current facing heading.
// known must already include the walls sensed this tick. Returns
// ActionIdle with done=true once the stack has collapsed to its root and no
// unvisited open neighbour remains.
func (e *Explorer) Next(known wallmap.View, heading core.Direction) (core.Action, bool) {
	if e.done {
		return core.ActionIdle, true
	}
	e.pending = pendingNone
	cur := e.Current()

	for _, d := range core.Directions {
		n := cur.Step(d)
		if !known.Open(cur, d) || e.visited.Has(n) {
			continue
		}
		return e.head(heading, d, n, pendingAdvance), false
	}

	if len(e.stack) < 2 {
		e.done = true
		return core.ActionIdle, true
	}
	back := e.stack[len(e.stack)-2]
	d, _ := cur.DirectionTo(back)
	return e.head(heading, d, back, pendingBacktrack), false
}

// head turns towards d, or moves forward and records the pending move once
// already facing it.
func (e *Explorer) head(heading, d core.Direction, target core.Cell, kind pending) core.Action {
	a := core.TurnToward(heading, d)
	if a == core.ActionMoveForward {
		e.pending = kind
		e.target = target
	}
	return a
}

// Confirm applies the pending forward move after the host reported success.
// An advance pushes and marks the new cell; a backtrack pops. Returns the
// cell the robot now occupies.
func (e *Explorer) Confirm() core.Cell {
	switch e.pending {
	case pendingAdvance:
		e.stack = append(e.stack, e.target)
		e.visited.Mark(e.target)
		e.advances++
	case pendingBacktrack:
		e.stack = e.stack[:len(e.stack)-1]
		e.backtracks++
	}
	e.pending = pendingNone
	return e.Current()
}

// Cancel drops the pending move after the host rejected it.
func (e *Explorer) Cancel() {
	e.pending = pendingNone
}

// Pending reports whether a forward move awaits confirmation.
func (e *Explorer) Pending() bool {
	return e.pending != pendingNone
}

// Done reports whether exploration has terminated.
func (e *Explorer) Done() bool {
	return e.done
}

// Visited reports whether c has been reached.
func (e *Explorer) Visited(c core.Cell) bool {
	return e.visited.Has(c)
}

// VisitedCount returns the number of distinct cells reached.
func (e *Explorer) VisitedCount() int {
	return e.visited.Count()
}

// Depth returns the current stack length.
func (e *Explorer) Depth() int {
	return len(e.stack)
}

// Stack returns a copy of the frontier stack, root first.
func (e *Explorer) Stack() []core.Cell {
	return append([]core.Cell(nil), e.stack...)
}

// Advances returns the number of confirmed moves into new cells.
func (e *Explorer) Advances() int {
	return e.advances
}

// Backtracks returns the number of confirmed moves back down the stack.
func (e *Explorer) Backtracks() int {
	return e.backtracks
}
