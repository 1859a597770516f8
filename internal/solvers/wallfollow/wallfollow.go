// Package wallfollow implements left-hand and right-hand wall followers.
//
// A follower keeps one hand on the wall: it prefers turning towards that
// hand, then going straight, then turning away. A turn towards the hand is
// always followed by a forward move on the next tick, otherwise the robot
// would spin in place in an open area.
package wallfollow

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/registry"
)

// ErrLooping is reported when the follower returns to a state it has been in
// before. The goal is then unreachable by following this wall.
var ErrLooping = errors.New("wallfollow: circling without reaching the goal")

// Hand selects which wall the follower keeps contact with.
type Hand int

const (
	LeftHand Hand = iota
	RightHand
)

func (h Hand) String() string {
	if h == RightHand {
		return "right"
	}
	return "left"
}

type state struct {
	pose   core.Pose
	commit bool
}

// Solver is a wall follower.
type Solver struct {
	hand Hand
	log  *log.Logger
	ann  core.Annotator

	size   core.Size
	pose   core.Pose
	last   core.Action
	commit bool // forward move owed after a turn towards the hand
	seen   map[state]bool

	tick  uint64
	steps int
	done  bool
	err   error
}

func init() {
	registry.Register("left-hand", func() registry.Solver {
		return New(LeftHand)
	})
	registry.Register("right-hand", func() registry.Solver {
		return New(RightHand)
	})
}

// New creates a follower for the given hand.
func New(hand Hand) *Solver {
	return &Solver{
		hand: hand,
		log:  log.New(io.Discard),
		ann:  core.NopAnnotator{},
	}
}

// ID returns the solver identifier.
func (s *Solver) ID() string {
	return s.hand.String() + "-hand"
}

// Title returns the display name.
func (s *Solver) Title() string {
	if s.hand == RightHand {
		return "Right-Hand Rule"
	}
	return "Left-Hand Rule"
}

// SetLogger replaces the debug sink.
func (s *Solver) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	s.log = l.WithPrefix(s.ID())
}

// SetAnnotator replaces the annotation hook.
func (s *Solver) SetAnnotator(a core.Annotator) {
	if a == nil {
		a = core.NopAnnotator{}
	}
	s.ann = a
}

// Reset starts a new run from (0,0) facing north.
func (s *Solver) Reset(cfg core.RuntimeConfig) {
	if cfg.MazeW < 2 || cfg.MazeH < 2 {
		panic("wallfollow: maze dimensions must be at least 2x2")
	}
	s.size = cfg.Size()
	s.pose = core.Pose{Cell: core.C(0, 0), Heading: core.North}
	s.last = core.ActionIdle
	s.commit = false
	s.seen = map[state]bool{{pose: s.pose}: true}
	s.tick = 0
	s.steps = 0
	s.done = false
	s.err = nil
}

// Step returns the next wall-following action.
func (s *Solver) Step(in core.SenseFrame) core.StepResult {
	s.tick++
	if s.done {
		return s.result(core.ActionIdle)
	}

	if s.last != core.ActionIdle && in.LastOK {
		s.pose = s.pose.Apply(s.last)
		if s.last == core.ActionMoveForward {
			s.steps++
			s.commit = false
		}
		st := state{pose: s.pose, commit: s.commit}
		if s.seen[st] {
			s.finish(ErrLooping)
			return s.result(core.ActionIdle)
		}
		s.seen[st] = true
	}
	s.last = core.ActionIdle

	s.ann.Mark(s.pose.Cell, core.ColorBlue)
	if s.isGoal(s.pose.Cell) {
		s.ann.Mark(s.pose.Cell, core.ColorGreen)
		s.ann.Label(s.pose.Cell, fmt.Sprintf("Goal! (%d steps)", s.steps))
		s.finish(nil)
		return s.result(core.ActionIdle)
	}

	s.last = s.decide(in)
	return s.result(s.last)
}

func (s *Solver) decide(in core.SenseFrame) core.Action {
	near, far := in.WallLeft, in.WallRight
	toNear, toFar := core.ActionTurnLeft, core.ActionTurnRight
	if s.hand == RightHand {
		near, far = far, near
		toNear, toFar = toFar, toNear
	}

	if s.commit {
		if !in.WallFront {
			return core.ActionMoveForward
		}
		s.commit = false
	}

	switch {
	case !near:
		s.commit = true
		return toNear
	case !in.WallFront:
		return core.ActionMoveForward
	case !far:
		return toFar
	default:
		// Dead end: turn away twice over two ticks.
		return toFar
	}
}

func (s *Solver) finish(err error) {
	s.done = true
	s.err = err
	if err != nil {
		s.log.Warn("giving up", "err", err, "cell", s.pose.Cell, "steps", s.steps)
		return
	}
	s.log.Info("goal reached", "steps", s.steps, "tick", s.tick)
}

func (s *Solver) isGoal(c core.Cell) bool {
	for _, g := range s.size.GoalBlock() {
		if g == c {
			return true
		}
	}
	return false
}

func (s *Solver) result(a core.Action) core.StepResult {
	return core.StepResult{Action: a, State: s.State()}
}

// State returns the follower's belief and status.
func (s *Solver) State() core.SolverState {
	phase := core.PhaseExplore
	if s.done {
		phase = core.PhaseDone
	}
	return core.SolverState{
		Phase:   phase,
		Cell:    s.pose.Cell,
		Heading: s.pose.Heading,
		Tick:    s.tick,
		Done:    s.done,
		Err:     s.err,
	}
}

// Steps returns the number of confirmed forward moves.
func (s *Solver) Steps() int {
	return s.steps
}

// Summary implements registry.Summarizer.
func (s *Solver) Summary() core.Summary {
	return core.Summary{RunMoves: s.steps}
}
