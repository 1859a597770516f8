// Package floodfill implements the classic micromouse flood-fill solver: it
// heads straight for the goal block along the distance field, senses walls
// on the way, and refloods whenever the field disagrees with what it sees.
package floodfill

import (
	"errors"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/flood"
	"github.com/vovakirdan/micromouse/internal/registry"
	"github.com/vovakirdan/micromouse/internal/wallmap"
)

// ErrUnreachable is reported when the goal block cannot be reached under
// the walls discovered so far.
var ErrUnreachable = errors.New("floodfill: goal unreachable")

// Solver drives to the goal by descending a continually reflooded field.
type Solver struct {
	log *log.Logger
	ann core.Annotator

	size  core.Size
	goals []core.Cell
	known *wallmap.Map
	field *flood.Field

	pose core.Pose
	last core.Action

	tick     uint64
	steps    int
	refloods int
	done     bool
	err      error
}

func init() {
	registry.Register("floodfill", func() registry.Solver {
		return New()
	})
}

// New creates a flood-fill solver. Call Reset before stepping.
func New() *Solver {
	return &Solver{
		log: log.New(io.Discard),
		ann: core.NopAnnotator{},
	}
}

// ID returns the solver identifier.
func (s *Solver) ID() string { return "floodfill" }

// Title returns the display name.
func (s *Solver) Title() string { return "Flood Fill" }

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
		panic("floodfill: maze dimensions must be at least 2x2")
	}
	s.size = cfg.Size()
	block := s.size.GoalBlock()
	s.goals = block[:]
	s.known = wallmap.New(s.size)
	s.pose = core.Pose{Cell: core.C(0, 0), Heading: core.North}
	s.last = core.ActionIdle
	s.tick = 0
	s.steps = 0
	s.refloods = 0
	s.done = false
	s.err = nil

	for _, g := range s.goals {
		s.ann.Mark(g, core.ColorGreen)
	}
	s.reflood()
	s.log.Debug("starting", "width", s.size.W, "height", s.size.H, "goals", s.goals)
}

// Step senses, refloods if needed, and returns one action towards the goal.
func (s *Solver) Step(in core.SenseFrame) core.StepResult {
	s.tick++
	if s.done {
		return core.StepResult{Action: core.ActionIdle, State: s.State()}
	}

	if s.last != core.ActionIdle && in.LastOK {
		s.pose = s.pose.Apply(s.last)
		if s.last == core.ActionMoveForward {
			s.steps++
		}
	}
	s.last = core.ActionIdle

	if s.isGoal(s.pose.Cell) {
		s.ann.Mark(s.pose.Cell, core.ColorGreen)
		s.log.Info("goal reached", "steps", s.steps, "tick", s.tick)
		s.done = true
		return core.StepResult{Action: core.ActionIdle, State: s.State()}
	}
	s.ann.Mark(s.pose.Cell, core.ColorBlue)

	s.known.Record(s.pose.Cell, s.pose.Heading, in.WallFront, in.WallLeft, in.WallRight)
	if !s.field.Consistent(s.known, s.pose.Cell) {
		s.log.Debug("inconsistency detected, reflooding", "cell", s.pose.Cell)
		s.reflood()
	}

	d, ok := s.field.Descend(s.known, s.pose.Cell)
	if !ok {
		s.log.Error("no path available", "cell", s.pose.Cell)
		s.err = ErrUnreachable
		s.done = true
		return core.StepResult{Action: core.ActionIdle, State: s.State()}
	}

	s.last = core.TurnToward(s.pose.Heading, d)
	if s.last == core.ActionMoveForward {
		s.log.Debug("step", "n", s.steps, "cell", s.pose.Cell, "dist", s.field.At(s.pose.Cell), "dir", string(d.Rune()))
	}
	return core.StepResult{Action: s.last, State: s.State()}
}

func (s *Solver) reflood() {
	s.field = flood.Compute(s.known, s.goals)
	s.refloods++
	if _, nop := s.ann.(core.NopAnnotator); nop {
		return
	}
	for i := 0; i < s.size.Area(); i++ {
		c := s.size.CellAt(i)
		if d := s.field.At(c); d != flood.Unreachable {
			s.ann.Label(c, strconv.Itoa(d))
		}
	}
}

func (s *Solver) isGoal(c core.Cell) bool {
	for _, g := range s.goals {
		if g == c {
			return true
		}
	}
	return false
}

// State returns the solver's belief and status. Flood fill has no
// exploration or return leg, so it reports RUN_OPTIMAL until done.
func (s *Solver) State() core.SolverState {
	phase := core.PhaseRunOptimal
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

// Known returns the discovered walls.
func (s *Solver) Known() wallmap.View { return s.known }

// Field returns the current distance field.
func (s *Solver) Field() *flood.Field { return s.field }

// Steps returns the number of confirmed forward moves.
func (s *Solver) Steps() int { return s.steps }

// Refloods returns how many times the field was recomputed, including the
// initial optimistic fill.
func (s *Solver) Refloods() int { return s.refloods }

// Summary implements registry.Summarizer.
func (s *Solver) Summary() core.Summary {
	return core.Summary{RunMoves: s.steps, Refloods: s.refloods}
}
