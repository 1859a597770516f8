// Package sim is the host side of a solver session: it owns the true maze
// and the robot, answers wall sensors, executes actions, and reports each
// action's outcome to the solver on the following tick.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/mazes"
	"github.com/vovakirdan/micromouse/internal/registry"
)

var (
	// ErrTickLimit is returned when the solver is still running after MaxTicks.
	ErrTickLimit = errors.New("sim: tick limit reached")
	// ErrFinished is returned by Tick after the solver reported done.
	ErrFinished = errors.New("sim: solver finished")
)

// DefaultMaxTicks bounds a run when Options.MaxTicks is zero.
const DefaultMaxTicks = 20000

// Options configures a simulation.
type Options struct {
	// MaxTicks bounds Run. Zero means DefaultMaxTicks.
	MaxTicks int

	// FailRate is the probability that an otherwise valid action is
	// rejected, modelling wheel slip.
	FailRate float64

	// Seed drives FailRate and is passed to the solver.
	Seed int64

	// MaxHostFailures is passed to the solver; zero keeps its default.
	MaxHostFailures int

	// Logger receives per-run lines. Nil discards them.
	Logger *log.Logger
}

// Stats counts what the robot physically did.
type Stats struct {
	Ticks      int
	Forward    int
	Turns      int
	Idle       int
	Rejected   int // actions dropped by FailRate
	Collisions int // forward moves into a wall
	Cells      int // distinct cells the robot occupied
}

// Result summarises a finished run.
type Result struct {
	MazeID   string
	SolverID string
	Reached  bool // robot ended in the goal block and the solver reported no error
	Final    core.SolverState
	Stats    Stats
	Summary  core.Summary
	Seed     int64
	FailRate float64
	Duration time.Duration
}

// Sim drives one solver through one maze.
type Sim struct {
	maze   *mazes.Maze
	solver registry.Solver
	opts   Options
	rng    *rand.Rand
	log    *log.Logger

	robot  core.Pose
	lastOK bool
	last   core.SolverState
	marks  *Annotations
	seen   []bool
	stats  Stats
}

// New resets solver for m and places the robot at (0,0) facing north.
func New(m *mazes.Maze, solver registry.Solver, opts Options) *Sim {
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = DefaultMaxTicks
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Sim{
		maze:   m,
		solver: solver,
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		log:    logger,
		robot:  core.Pose{Cell: core.C(0, 0), Heading: core.North},
		marks:  NewAnnotations(),
		seen:   make([]bool, m.Size().Area()),
	}
	if a, ok := solver.(registry.Annotated); ok {
		a.SetAnnotator(s.marks)
	}
	if l, ok := solver.(registry.Logged); ok && opts.Logger != nil {
		l.SetLogger(opts.Logger)
	}
	solver.Reset(core.RuntimeConfig{
		MazeW:           m.Width(),
		MazeH:           m.Height(),
		Seed:            opts.Seed,
		MaxHostFailures: opts.MaxHostFailures,
	})
	s.last = solver.State()
	s.visit(s.robot.Cell)
	return s
}

// Robot returns the robot's true pose.
func (s *Sim) Robot() core.Pose {
	return s.robot
}

// Maze returns the true maze.
func (s *Sim) Maze() *mazes.Maze {
	return s.maze
}

// Solver returns the solver being driven.
func (s *Sim) Solver() registry.Solver {
	return s.solver
}

// Annotations returns the marks the solver has made so far.
func (s *Sim) Annotations() *Annotations {
	return s.marks
}

// Stats returns the physical counters so far.
func (s *Sim) Stats() Stats {
	return s.stats
}

// Done reports whether the solver has finished.
func (s *Sim) Done() bool {
	return s.last.Done
}

// Sense returns this tick's frame: the three relative wall readings plus the
// verdict on the previous action.
func (s *Sim) Sense() core.SenseFrame {
	p := s.robot
	return core.SenseFrame{
		WallFront: s.maze.HasWall(p.Cell, p.Heading),
		WallLeft:  s.maze.HasWall(p.Cell, p.Heading.Left()),
		WallRight: s.maze.HasWall(p.Cell, p.Heading.Right()),
		LastOK:    s.lastOK,
	}
}

// Tick runs one solver step and executes the returned action.
func (s *Sim) Tick() (core.StepResult, error) {
	if s.last.Done {
		return core.StepResult{State: s.last}, ErrFinished
	}
	if s.stats.Ticks >= s.opts.MaxTicks {
		return core.StepResult{State: s.last}, ErrTickLimit
	}

	res := s.solver.Step(s.Sense())
	s.stats.Ticks++
	s.last = res.State
	s.lastOK = s.execute(res.Action)
	return res, nil
}

// execute performs a on the robot and reports whether it succeeded.
func (s *Sim) execute(a core.Action) bool {
	switch a {
	case core.ActionIdle:
		s.stats.Idle++
		return false
	case core.ActionMoveForward:
		s.stats.Forward++
	default:
		s.stats.Turns++
	}

	if s.opts.FailRate > 0 && s.rng.Float64() < s.opts.FailRate {
		s.stats.Rejected++
		return false
	}
	if a == core.ActionMoveForward && s.maze.HasWall(s.robot.Cell, s.robot.Heading) {
		s.stats.Collisions++
		s.log.Warn("collision", "cell", s.robot.Cell, "heading", s.robot.Heading)
		return false
	}
	s.robot = s.robot.Apply(a)
	s.visit(s.robot.Cell)
	return true
}

func (s *Sim) visit(c core.Cell) {
	i := s.maze.Size().Index(c)
	if !s.seen[i] {
		s.seen[i] = true
		s.stats.Cells++
	}
}

// Run ticks until the solver finishes, the tick budget is spent, or ctx is
// cancelled. The Result is filled in all three cases.
func (s *Sim) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var err error
	for {
		if err = ctx.Err(); err != nil {
			break
		}
		if _, err = s.Tick(); err != nil {
			if errors.Is(err, ErrFinished) {
				err = nil
			}
			break
		}
	}

	res := s.Result()
	res.Duration = time.Since(start)
	if err != nil {
		s.log.Warn("run stopped", "solver", res.SolverID, "maze", res.MazeID, "ticks", res.Stats.Ticks, "err", err)
		return res, fmt.Errorf("running %s on %s: %w", res.SolverID, res.MazeID, err)
	}
	s.log.Info("run finished",
		"solver", res.SolverID,
		"maze", res.MazeID,
		"reached", res.Reached,
		"ticks", res.Stats.Ticks,
		"forward", res.Stats.Forward,
	)
	return res, nil
}

// Result summarises the session so far.
func (s *Sim) Result() Result {
	res := Result{
		MazeID:   s.maze.ID,
		SolverID: s.solver.ID(),
		Reached:  s.last.Done && s.last.Err == nil && s.inGoal(),
		Final:    s.last,
		Stats:    s.stats,
		Summary:  core.Summary{RunMoves: s.stats.Forward},
		Seed:     s.opts.Seed,
		FailRate: s.opts.FailRate,
	}
	if sm, ok := s.solver.(registry.Summarizer); ok {
		res.Summary = sm.Summary()
	}
	return res
}

func (s *Sim) inGoal() bool {
	for _, g := range s.maze.Goals() {
		if g == s.robot.Cell {
			return true
		}
	}
	return false
}
