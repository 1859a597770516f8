// Package engine ties wall sensing, exploration, distance fields, and path
// planning into a single solver that emits one action per tick.
//
// The engine runs through five phases:
//
//	EXPLORE      depth-first exploration from the origin
//	PLAN_RETURN  plan a route home over the discovered walls (transient)
//	RETURNING    follow that route, replanning when a new wall blocks it
//	RUN_OPTIMAL  greedy descent on the distance field to the goal block
//	DONE         idle forever
//
// Every Step call first settles the action returned by the previous call,
// using the host's verdict in SenseFrame.LastOK. Position, heading, the
// frontier stack, and the return-path cursor change only on a confirmed
// action, so a rejected move never corrupts the engine's belief.
package engine

import (
	"errors"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/micromouse/internal/astar"
	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/explore"
	"github.com/vovakirdan/micromouse/internal/flood"
	"github.com/vovakirdan/micromouse/internal/wallmap"
)

var (
	// ErrNoPath is reported when no route back to the origin exists.
	ErrNoPath = errors.New("engine: no path to origin")
	// ErrStuck is reported when the optimal run finds no improving neighbour.
	ErrStuck = errors.New("engine: no improving neighbour")
	// ErrHostRejected is reported after too many consecutive rejected actions.
	ErrHostRejected = errors.New("engine: host rejected too many actions")
)

// DefaultMaxHostFailures is used when Options.MaxHostFailures is zero.
const DefaultMaxHostFailures = 8

// Options configures an Engine.
type Options struct {
	// StopAtGoal ends exploration as soon as a goal cell is reached instead
	// of covering every reachable cell.
	StopAtGoal bool

	// MaxHostFailures is the number of consecutive rejected actions after
	// which the engine gives up. Zero means DefaultMaxHostFailures; a
	// negative value disables the limit.
	MaxHostFailures int

	// Logger receives debug lines. Nil discards them.
	Logger *log.Logger

	// Annotator receives cell colours and labels. Nil discards them.
	Annotator core.Annotator
}

// Stats counts what happened during a session.
type Stats struct {
	Ticks      uint64
	Forward    int // forward moves issued
	Turns      int // turns issued
	Rejected   int // actions the host reported as failed
	Refloods   int // full distance-field recomputations
	Replans    int // return routes planned after the first
	Explored   int // distinct cells reached while exploring
	Advances   int // exploration moves into new cells
	Backtracks int // exploration moves back down the frontier
	ReturnLen  int // length of the first return route
	RunForward int // forward moves issued during the optimal run

	PhaseTicks [core.PhaseDone + 1]int
}

// Engine is the search-then-run solver. The zero value is not usable; call
// New and then Initialize.
type Engine struct {
	id    string
	title string
	opts  Options
	log   *log.Logger
	ann   core.Annotator

	size   core.Size
	origin core.Cell
	goals  []core.Cell

	known    *wallmap.Map
	field    *flood.Field
	explorer *explore.Explorer

	phase   core.Phase
	pos     core.Cell
	heading core.Direction
	last    core.Action // issued last tick, awaiting the host's verdict

	path     []core.Cell
	pathNext int

	goalSeen bool
	failures int
	tick     uint64
	err      error
	stats    Stats
}

// New creates an engine with the given options.
func New(opts Options) *Engine {
	e := &Engine{
		id:    "search-run",
		title: "Explore, Return, Run",
		opts:  opts,
	}
	if opts.StopAtGoal {
		e.id = "search-goal"
		e.title = "Explore to Goal, Return, Run"
	}
	e.SetLogger(opts.Logger)
	e.SetAnnotator(opts.Annotator)
	return e
}

// SetLogger replaces the debug sink. Nil discards.
func (e *Engine) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	e.log = l.WithPrefix(e.id)
}

// SetAnnotator replaces the annotation hook. Nil discards.
func (e *Engine) SetAnnotator(a core.Annotator) {
	if a == nil {
		a = core.NopAnnotator{}
	}
	e.ann = a
}

// Initialize prepares a fresh session for a width x height maze with the
// robot at (0,0) facing north. Dimensions below 2 leave the goal block
// undefined and panic.
func (e *Engine) Initialize(width, height int) {
	if width < 2 || height < 2 {
		panic("engine: maze dimensions must be at least 2x2")
	}
	e.size = core.Size{W: width, H: height}
	e.origin = core.C(0, 0)
	block := e.size.GoalBlock()
	e.goals = block[:]

	e.known = wallmap.New(e.size)
	e.explorer = explore.New(e.size, e.origin)
	e.phase = core.PhaseExplore
	e.pos = e.origin
	e.heading = core.North
	e.last = core.ActionIdle
	e.path = nil
	e.pathNext = 0
	e.goalSeen = false
	e.failures = 0
	e.tick = 0
	e.err = nil
	e.stats = Stats{}

	// Optimistic field over an empty map.
	e.reflood()
	for _, g := range e.goals {
		e.ann.Mark(g, core.ColorGreen)
	}
	e.ann.Mark(e.origin, core.ColorYellow)
	e.log.Debug("initialized", "width", width, "height", height, "goals", e.goals)
}

// Step consumes one tick of sensor data and returns exactly one action.
func (e *Engine) Step(in core.SenseFrame) core.StepResult {
	if e.known == nil {
		panic("engine: Step called before Initialize")
	}
	e.tick++
	e.stats.Ticks = e.tick

	if e.phase != core.PhaseDone {
		e.settle(in.LastOK)
	}
	if e.phase != core.PhaseDone {
		e.sense(in)
	}

	a := e.decide()
	e.last = a
	e.stats.PhaseTicks[e.phase]++
	switch {
	case a == core.ActionMoveForward:
		e.stats.Forward++
		if e.phase == core.PhaseRunOptimal {
			e.stats.RunForward++
		}
	case a.IsTurn():
		e.stats.Turns++
	}
	return core.StepResult{Action: a, State: e.State()}
}

// settle applies or discards the action issued on the previous tick.
func (e *Engine) settle(ok bool) {
	a := e.last
	e.last = core.ActionIdle
	if a == core.ActionIdle {
		return
	}

	if !ok {
		e.stats.Rejected++
		e.failures++
		if e.phase == core.PhaseExplore {
			e.explorer.Cancel()
		}
		e.log.Warn("action rejected", "action", a, "cell", e.pos, "heading", e.heading, "streak", e.failures)
		if limit := e.failureLimit(); limit > 0 && e.failures >= limit {
			e.finish(ErrHostRejected)
		}
		return
	}
	e.failures = 0

	if a.IsTurn() {
		e.heading = a.Apply(e.heading)
		return
	}

	e.pos = e.pos.Step(e.heading)
	switch e.phase {
	case core.PhaseExplore:
		e.explorer.Confirm()
		e.ann.Mark(e.pos, core.ColorYellow)
	case core.PhaseReturning:
		e.pathNext++
		e.ann.Mark(e.pos, core.ColorBlue)
	case core.PhaseRunOptimal:
		e.ann.Mark(e.pos, core.ColorCyan)
	}
}

func (e *Engine) failureLimit() int {
	if e.opts.MaxHostFailures == 0 {
		return DefaultMaxHostFailures
	}
	return e.opts.MaxHostFailures
}

// sense records this tick's walls and refloods if the field went stale
// at the robot's cell.
func (e *Engine) sense(in core.SenseFrame) {
	if n := e.known.Record(e.pos, e.heading, in.WallFront, in.WallLeft, in.WallRight); n > 0 {
		e.log.Debug("walls", "cell", e.pos, "heading", e.heading, "new", n)
	}
	if e.isGoal(e.pos) && !e.goalSeen {
		e.goalSeen = true
		e.log.Info("goal reached", "cell", e.pos, "tick", e.tick)
	}
	if !e.field.Consistent(e.known, e.pos) {
		e.reflood()
	}
}

// reflood replaces the distance field with a fresh computation.
func (e *Engine) reflood() {
	e.field = flood.Compute(e.known, e.goals)
	if e.tick > 0 {
		e.stats.Refloods++
		e.log.Debug("reflood", "cell", e.pos, "distance", e.field.At(e.pos))
	}
	if _, nop := e.ann.(core.NopAnnotator); nop {
		return
	}
	for i := 0; i < e.size.Area(); i++ {
		c := e.size.CellAt(i)
		if d := e.field.At(c); d != flood.Unreachable {
			e.ann.Label(c, strconv.Itoa(d))
		} else {
			e.ann.Label(c, "")
		}
	}
}

// decide runs the phase machine until some phase produces an action.
// Transient transitions happen within the same tick.
func (e *Engine) decide() core.Action {
	for {
		switch e.phase {
		case core.PhaseExplore:
			if e.opts.StopAtGoal && e.goalSeen {
				e.endExplore()
				continue
			}
			a, done := e.explorer.Next(e.known, e.heading)
			if !done {
				return a
			}
			e.endExplore()

		case core.PhasePlanReturn:
			if !e.plan() {
				return core.ActionIdle
			}
			e.stats.ReturnLen = len(e.path)
			e.enter(core.PhaseReturning)

		case core.PhaseReturning:
			if e.pathNext >= len(e.path) {
				e.enter(core.PhaseRunOptimal)
				continue
			}
			d, _ := e.pos.DirectionTo(e.path[e.pathNext])
			if !e.known.Open(e.pos, d) {
				e.stats.Replans++
				e.log.Debug("return route blocked", "cell", e.pos, "towards", d)
				if !e.plan() {
					return core.ActionIdle
				}
				continue
			}
			return core.TurnToward(e.heading, d)

		case core.PhaseRunOptimal:
			if e.isGoal(e.pos) {
				e.finish(nil)
				return core.ActionIdle
			}
			d, ok := e.field.Descend(e.known, e.pos)
			if !ok {
				e.finish(ErrStuck)
				return core.ActionIdle
			}
			return core.TurnToward(e.heading, d)

		default:
			return core.ActionIdle
		}
	}
}

// endExplore closes the exploration phase with a full recomputation.
func (e *Engine) endExplore() {
	e.stats.Explored = e.explorer.VisitedCount()
	e.stats.Advances = e.explorer.Advances()
	e.stats.Backtracks = e.explorer.Backtracks()
	e.reflood()
	e.log.Info("exploration finished",
		"visited", e.stats.Explored,
		"backtracks", e.stats.Backtracks,
		"walls", e.known.Count(),
		"distance", e.field.At(e.origin),
	)
	e.enter(core.PhasePlanReturn)
}

// plan computes a route from the current cell to the origin. On failure the
// engine finishes with ErrNoPath.
func (e *Engine) plan() bool {
	path, err := astar.FindPath(e.known, e.pos, e.origin)
	if err != nil {
		e.log.Error("return planning failed", "cell", e.pos, "err", err)
		e.finish(ErrNoPath)
		return false
	}
	e.path = path
	e.pathNext = 0
	e.log.Debug("return route", "from", e.pos, "length", len(path))
	return true
}

func (e *Engine) enter(p core.Phase) {
	if p == e.phase {
		return
	}
	e.log.Debug("phase", "from", e.phase, "to", p, "tick", e.tick)
	e.phase = p
}

func (e *Engine) finish(err error) {
	e.err = err
	e.enter(core.PhaseDone)
	if err != nil {
		e.log.Warn("finished with error", "err", err, "cell", e.pos, "tick", e.tick)
		e.ann.Mark(e.pos, core.ColorRed)
		return
	}
	e.log.Info("finished", "cell", e.pos, "tick", e.tick, "run", e.stats.RunForward)
}

func (e *Engine) isGoal(c core.Cell) bool {
	for _, g := range e.goals {
		if g == c {
			return true
		}
	}
	return false
}

// State returns the engine's current belief and status.
func (e *Engine) State() core.SolverState {
	return core.SolverState{
		Phase:   e.phase,
		Cell:    e.pos,
		Heading: e.heading,
		Tick:    e.tick,
		Done:    e.phase == core.PhaseDone,
		Err:     e.err,
	}
}

// Known returns a read-only view of the discovered walls.
func (e *Engine) Known() wallmap.View {
	return e.known
}

// Field returns the current distance field. Fields are immutable; a later
// reflood replaces rather than modifies it.
func (e *Engine) Field() *flood.Field {
	return e.field
}

// Frontier returns a copy of the exploration stack, origin first.
func (e *Engine) Frontier() []core.Cell {
	return e.explorer.Stack()
}

// Route returns the remaining cells of the return route.
func (e *Engine) Route() []core.Cell {
	if e.pathNext >= len(e.path) {
		return nil
	}
	return append([]core.Cell(nil), e.path[e.pathNext:]...)
}

// Visited reports whether c was reached during exploration.
func (e *Engine) Visited(c core.Cell) bool {
	return e.explorer.Visited(c)
}

// Stats returns a snapshot of the session counters.
func (e *Engine) Stats() Stats {
	return e.stats
}
