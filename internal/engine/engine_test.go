package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/flood"
	"github.com/vovakirdan/micromouse/internal/registry"
	"github.com/vovakirdan/micromouse/internal/wallmap"
)

// host is a minimal robot over a true wall map.
type host struct {
	truth   *wallmap.Map
	pos     core.Cell
	heading core.Direction
	lastOK  bool

	// reject decides whether the n-th non-idle action fails.
	reject  func(n int) bool
	actions int

	runForwards int
}

func newHost(truth *wallmap.Map) *host {
	return &host{truth: truth, heading: core.North}
}

func (h *host) frame() core.SenseFrame {
	return core.SenseFrame{
		WallFront: h.truth.HasWall(h.pos, h.heading),
		WallLeft:  h.truth.HasWall(h.pos, h.heading.Left()),
		WallRight: h.truth.HasWall(h.pos, h.heading.Right()),
		LastOK:    h.lastOK,
	}
}

func (h *host) apply(a core.Action, phase core.Phase) {
	h.lastOK = false
	if a == core.ActionIdle {
		return
	}
	h.actions++
	if h.reject != nil && h.reject(h.actions) {
		return
	}
	switch a {
	case core.ActionMoveForward:
		if !h.truth.Open(h.pos, h.heading) {
			return
		}
		h.pos = h.pos.Step(h.heading)
		if phase == core.PhaseRunOptimal {
			h.runForwards++
		}
	default:
		h.heading = a.Apply(h.heading)
	}
	h.lastOK = true
}

// drive steps e until it reports done, checking that belief tracks the host.
func drive(t *testing.T, e *Engine, h *host, maxTicks int) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		res := e.Step(h.frame())
		require.Equal(t, h.pos, res.State.Cell, "tick %d: belief diverged from the robot", i)
		require.Equal(t, h.heading, res.State.Heading, "tick %d: heading diverged", i)
		if res.State.Done {
			require.Equal(t, core.ActionIdle, res.Action)
			return
		}
		h.apply(res.Action, res.State.Phase)
	}
	t.Fatalf("engine did not finish within %d ticks", maxTicks)
}

func randomTruth(size core.Size, seed int64) *wallmap.Map {
	rng := rand.New(rand.NewSource(seed))
	m := wallmap.New(size)
	for i := 0; i < size.Area(); i++ {
		c := size.CellAt(i)
		if rng.Intn(4) == 0 {
			m.Add(c, core.North)
		}
		if rng.Intn(4) == 0 {
			m.Add(c, core.East)
		}
	}
	return m
}

func goalsOf(size core.Size) []core.Cell {
	g := size.GoalBlock()
	return g[:]
}

func TestOpenMaze16(t *testing.T) {
	size := core.Size{W: 16, H: 16}
	e := New(Options{})
	e.Initialize(size.W, size.H)
	h := newHost(wallmap.New(size))

	drive(t, e, h, 5000)

	st := e.State()
	require.NoError(t, st.Err)
	assert.Equal(t, core.PhaseDone, st.Phase)
	assert.Contains(t, goalsOf(size), h.pos)
	assert.Equal(t, 14, e.Field().At(core.C(0, 0)))
	assert.Equal(t, 14, h.runForwards)
	assert.Equal(t, 14, e.Stats().RunForward)
	assert.Equal(t, 256, e.Stats().Explored)
	assert.Equal(t, 255, e.Stats().Advances)
	assert.Equal(t, e.Stats().Advances, e.Stats().Backtracks, "a full DFS walks every edge back")
	assert.Equal(t, 0, e.Stats().ReturnLen, "full DFS ends at the origin")
}

func TestOptimalRunOnRandomMazes(t *testing.T) {
	sizes := []core.Size{{W: 2, H: 2}, {W: 5, H: 5}, {W: 8, H: 6}, {W: 16, H: 16}}
	for _, size := range sizes {
		for seed := int64(1); seed <= 10; seed++ {
			truth := randomTruth(size, seed)
			best := flood.Compute(truth, goalsOf(size)).At(core.C(0, 0))

			e := New(Options{})
			e.Initialize(size.W, size.H)
			h := newHost(truth)
			drive(t, e, h, 40*size.Area())

			st := e.State()
			if best == flood.Unreachable {
				assert.ErrorIs(t, st.Err, ErrStuck, "size %v seed %d", size, seed)
				continue
			}
			require.NoError(t, st.Err, "size %v seed %d", size, seed)
			assert.Contains(t, goalsOf(size), h.pos, "size %v seed %d", size, seed)
			assert.Equal(t, best, h.runForwards, "size %v seed %d: run was not optimal", size, seed)
		}
	}
}

func TestStopAtGoal(t *testing.T) {
	size := core.Size{W: 10, H: 10}
	for seed := int64(1); seed <= 10; seed++ {
		truth := randomTruth(size, seed)
		reachable := flood.Compute(truth, goalsOf(size)).Reachable(core.C(0, 0))

		e := New(Options{StopAtGoal: true})
		e.Initialize(size.W, size.H)
		h := newHost(truth)
		drive(t, e, h, 60*size.Area())

		st := e.State()
		if !reachable {
			assert.Error(t, st.Err, "seed %d", seed)
			continue
		}
		require.NoError(t, st.Err, "seed %d", seed)
		assert.Contains(t, goalsOf(size), h.pos, "seed %d", seed)
	}
}

// walledExcept builds a truth map with every interior side walled except
// the listed passages.
func walledExcept(size core.Size, passages [][2]core.Cell) *wallmap.Map {
	open := make(map[[2]core.Cell]bool)
	for _, p := range passages {
		open[p] = true
		open[[2]core.Cell{p[1], p[0]}] = true
	}
	m := wallmap.New(size)
	for i := 0; i < size.Area(); i++ {
		c := size.CellAt(i)
		for _, d := range []core.Direction{core.North, core.East} {
			n := c.Step(d)
			if size.Contains(n) && !open[[2]core.Cell{c, n}] {
				m.Add(c, d)
			}
		}
	}
	return m
}

func TestReturnRouteReplansAroundNewWall(t *testing.T) {
	// A corridor up column 0, across the top and down into the goal at
	// (2,3). The side pockets (1,3) and (1,2) make the return route look
	// five cells long until the robot stands in (1,3) and sees its south
	// wall.
	size := core.Size{W: 6, H: 6}
	truth := walledExcept(size, [][2]core.Cell{
		{core.C(0, 0), core.C(0, 1)},
		{core.C(0, 1), core.C(0, 2)},
		{core.C(0, 2), core.C(0, 3)},
		{core.C(0, 3), core.C(0, 4)},
		{core.C(0, 4), core.C(0, 5)},
		{core.C(0, 5), core.C(1, 5)},
		{core.C(1, 5), core.C(2, 5)},
		{core.C(2, 5), core.C(2, 4)},
		{core.C(2, 4), core.C(2, 3)},
		{core.C(2, 3), core.C(1, 3)},
		{core.C(0, 2), core.C(1, 2)},
	})

	e := New(Options{StopAtGoal: true})
	e.Initialize(size.W, size.H)
	h := newHost(truth)
	drive(t, e, h, 40*size.Area())

	st := e.State()
	require.NoError(t, st.Err)
	assert.Equal(t, core.C(2, 3), h.pos)
	assert.Equal(t, 9, e.Stats().Advances)
	assert.Zero(t, e.Stats().Backtracks)
	assert.Equal(t, 5, e.Stats().ReturnLen, "first route goes through the pocket")
	assert.Positive(t, e.Stats().Replans)
	assert.True(t, e.Known().HasWall(core.C(1, 3), core.South))
}

func TestRejectedMoveKeepsBelief(t *testing.T) {
	e := New(Options{})
	e.Initialize(4, 4)
	open := core.SenseFrame{}

	res := e.Step(open)
	require.Equal(t, core.ActionMoveForward, res.Action)

	// The host could not execute the move.
	res = e.Step(core.SenseFrame{LastOK: false})
	assert.Equal(t, core.C(0, 0), res.State.Cell)
	assert.Equal(t, core.North, res.State.Heading)
	assert.Equal(t, []core.Cell{core.C(0, 0)}, e.Frontier())
	assert.False(t, e.Visited(core.C(0, 1)))
	assert.Equal(t, 1, e.Stats().Rejected)
	require.Equal(t, core.ActionMoveForward, res.Action, "the same move is retried")

	res = e.Step(core.SenseFrame{LastOK: true})
	assert.Equal(t, core.C(0, 1), res.State.Cell)
	assert.Equal(t, []core.Cell{core.C(0, 0), core.C(0, 1)}, e.Frontier())
}

func TestIntermittentRejections(t *testing.T) {
	size := core.Size{W: 8, H: 8}
	var truth *wallmap.Map
	for seed := int64(1); ; seed++ {
		truth = randomTruth(size, seed)
		if flood.Compute(truth, goalsOf(size)).Reachable(core.C(0, 0)) {
			break
		}
	}

	e := New(Options{})
	e.Initialize(size.W, size.H)
	h := newHost(truth)
	h.reject = func(n int) bool { return n%3 == 0 }
	drive(t, e, h, 100*size.Area())

	require.NoError(t, e.State().Err)
	assert.Contains(t, goalsOf(size), h.pos)
	assert.Greater(t, e.Stats().Rejected, 0)
}

func TestHostRejectsEverything(t *testing.T) {
	e := New(Options{MaxHostFailures: 3})
	e.Initialize(4, 4)
	h := newHost(wallmap.New(core.Size{W: 4, H: 4}))
	h.reject = func(int) bool { return true }

	drive(t, e, h, 20)

	assert.ErrorIs(t, e.State().Err, ErrHostRejected)
	assert.Equal(t, core.C(0, 0), e.State().Cell)
	assert.Equal(t, 3, e.Stats().Rejected)
}

func TestDoneIsIdleForever(t *testing.T) {
	size := core.Size{W: 4, H: 4}
	e := New(Options{})
	e.Initialize(size.W, size.H)
	h := newHost(wallmap.New(size))
	drive(t, e, h, 500)

	tick := e.State().Tick
	for i := 0; i < 10; i++ {
		res := e.Step(core.SenseFrame{LastOK: true, WallFront: true})
		assert.Equal(t, core.ActionIdle, res.Action)
		assert.True(t, res.State.Done)
		assert.Equal(t, h.pos, res.State.Cell)
	}
	assert.Equal(t, tick+10, e.State().Tick)
}

func TestUnreachableGoal(t *testing.T) {
	size := core.Size{W: 4, H: 4}
	truth := wallmap.New(size)
	// Fence the goal block (1,1)-(2,2) off completely.
	for _, g := range goalsOf(size) {
		for _, d := range core.Directions {
			n := g.Step(d)
			if !containsCell(goalsOf(size), n) {
				truth.Add(g, d)
			}
		}
	}

	e := New(Options{})
	e.Initialize(size.W, size.H)
	h := newHost(truth)
	drive(t, e, h, 500)

	assert.ErrorIs(t, e.State().Err, ErrStuck)
	assert.Equal(t, 12, e.Stats().Explored)
}

func TestSingleOpeningAtOrigin(t *testing.T) {
	e := New(Options{})
	e.Initialize(16, 16)

	// North wall ahead; west (left) is the boundary; only east is open.
	res := e.Step(core.SenseFrame{WallFront: true, WallLeft: true})
	assert.Equal(t, core.ActionTurnRight, res.Action)
	assert.Equal(t, core.PhaseExplore, res.State.Phase)

	res = e.Step(core.SenseFrame{LastOK: true, WallLeft: true, WallRight: true})
	assert.Equal(t, core.ActionMoveForward, res.Action)
	assert.Equal(t, core.East, res.State.Heading)
}

func TestPreconditions(t *testing.T) {
	assert.Panics(t, func() { New(Options{}).Initialize(1, 5) })
	assert.Panics(t, func() { New(Options{}).Initialize(5, 0) })
	assert.Panics(t, func() { New(Options{}).Step(core.SenseFrame{}) })
}

type recorder struct {
	marks  map[core.Cell]core.Color
	labels map[core.Cell]string
}

func (r *recorder) Mark(c core.Cell, color core.Color) { r.marks[c] = color }
func (r *recorder) Label(c core.Cell, text string)     { r.labels[c] = text }

func TestAnnotations(t *testing.T) {
	rec := &recorder{marks: map[core.Cell]core.Color{}, labels: map[core.Cell]string{}}
	e := New(Options{Annotator: rec})
	e.Initialize(6, 6)

	assert.Equal(t, core.ColorGreen, rec.marks[core.C(2, 2)])
	assert.Equal(t, "4", rec.labels[core.C(0, 0)])
	assert.Equal(t, "0", rec.labels[core.C(3, 3)])

	h := newHost(wallmap.New(core.Size{W: 6, H: 6}))
	drive(t, e, h, 1000)
	assert.Equal(t, core.ColorCyan, rec.marks[h.pos], "optimal run paints its cells")
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"search-run", "search-goal"} {
		s, err := registry.Create(id)
		require.NoError(t, err)
		assert.Equal(t, id, s.ID())

		s.Reset(core.RuntimeConfig{MazeW: 4, MazeH: 4})
		assert.Equal(t, core.PhaseExplore, s.State().Phase)

		_, ok := s.(registry.Mapper)
		assert.True(t, ok, "%s should expose its map", id)
	}
}

func containsCell(cells []core.Cell, c core.Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
