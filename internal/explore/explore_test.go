package explore

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/flood"
	"github.com/vovakirdan/micromouse/internal/wallmap"
)

type run struct {
	known    *wallmap.Map
	explorer *Explorer
	pos      core.Cell
	heading  core.Direction
	forwards int
	actions  []core.Action
}

// drive explores truth from the origin, executing every action perfectly.
func drive(t *testing.T, truth *wallmap.Map, maxTicks int) *run {
	t.Helper()
	size := truth.Size()
	r := &run{
		known:    wallmap.New(size),
		explorer: New(size, core.C(0, 0)),
		heading:  core.North,
	}
	for tick := 0; tick < maxTicks; tick++ {
		r.known.Record(r.pos, r.heading,
			truth.HasWall(r.pos, r.heading),
			truth.HasWall(r.pos, r.heading.Left()),
			truth.HasWall(r.pos, r.heading.Right()))

		a, done := r.explorer.Next(r.known, r.heading)
		if done {
			return r
		}
		r.actions = append(r.actions, a)
		switch a {
		case core.ActionMoveForward:
			if !truth.Open(r.pos, r.heading) {
				t.Fatalf("tick %d: explorer drove into a wall at %v facing %v", tick, r.pos, r.heading)
			}
			r.pos = r.pos.Step(r.heading)
			r.forwards++
			if got := r.explorer.Confirm(); got != r.pos {
				t.Fatalf("tick %d: explorer believes %v, robot is at %v", tick, got, r.pos)
			}
		default:
			r.heading = a.Apply(r.heading)
		}
	}
	t.Fatalf("explorer did not finish within %d ticks", maxTicks)
	return nil
}

func randomTruth(size core.Size, seed int64) *wallmap.Map {
	rng := rand.New(rand.NewSource(seed))
	m := wallmap.New(size)
	for i := 0; i < size.Area(); i++ {
		c := size.CellAt(i)
		if rng.Intn(3) == 0 {
			m.Add(c, core.North)
		}
		if rng.Intn(3) == 0 {
			m.Add(c, core.East)
		}
	}
	return m
}

func reachable(truth *wallmap.Map) int {
	f := flood.Compute(truth, []core.Cell{core.C(0, 0)})
	n := 0
	for i := 0; i < truth.Size().Area(); i++ {
		if f.Reachable(truth.Size().CellAt(i)) {
			n++
		}
	}
	return n
}

func TestExploreCoversReachableCells(t *testing.T) {
	sizes := []core.Size{{W: 2, H: 2}, {W: 5, H: 5}, {W: 8, H: 6}, {W: 16, H: 16}}
	for _, size := range sizes {
		for seed := int64(1); seed <= 12; seed++ {
			truth := randomTruth(size, seed)
			n := reachable(truth)

			r := drive(t, truth, 20*size.Area())

			if got := r.explorer.VisitedCount(); got != n {
				t.Errorf("size %v seed %d: visited %d cells, expected %d", size, seed, got, n)
			}
			if got := r.explorer.Advances(); got != n-1 {
				t.Errorf("size %v seed %d: %d advances, expected %d (each cell entered once)", size, seed, got, n-1)
			}
			if r.forwards > 2*n {
				t.Errorf("size %v seed %d: %d forward moves exceed 2x%d", size, seed, r.forwards, n)
			}
			stack := r.explorer.Stack()
			if len(stack) != 1 || stack[0] != core.C(0, 0) {
				t.Errorf("size %v seed %d: final stack %v, expected [origin]", size, seed, stack)
			}
			if r.pos != core.C(0, 0) {
				t.Errorf("size %v seed %d: robot ended at %v", size, seed, r.pos)
			}
		}
	}
}

func TestExploreOpenMazeScanOrder(t *testing.T) {
	truth := wallmap.New(core.Size{W: 3, H: 3})
	r := drive(t, truth, 200)

	// North first: the robot starts facing north and should go straight up.
	if r.actions[0] != core.ActionMoveForward || r.actions[1] != core.ActionMoveForward {
		t.Errorf("first actions = %v, expected two forward moves", r.actions[:2])
	}
	if !r.explorer.Done() {
		t.Error("explorer should be done")
	}
}

func TestExploreSingleOpening(t *testing.T) {
	// Origin is walled north; south and west are the boundary. Only east is open.
	truth := wallmap.New(core.Size{W: 4, H: 4})
	truth.Add(core.C(0, 0), core.North)

	known := wallmap.New(truth.Size())
	e := New(truth.Size(), core.C(0, 0))
	known.Record(core.C(0, 0), core.North, true, true, false)

	a, done := e.Next(known, core.North)
	if done {
		t.Fatal("explorer reported no unvisited neighbour at the origin")
	}
	if a != core.ActionTurnRight {
		t.Fatalf("first action = %v, expected TurnRight towards the opening", a)
	}

	a, done = e.Next(known, core.East)
	if done || a != core.ActionMoveForward {
		t.Fatalf("second action = %v (done=%v), expected MoveForward", a, done)
	}
	if got := e.Confirm(); got != core.C(1, 0) {
		t.Errorf("after confirm explorer is at %v, expected (1,0)", got)
	}
}

func TestExploreRejectedMove(t *testing.T) {
	known := wallmap.New(core.Size{W: 3, H: 3})
	e := New(known.Size(), core.C(0, 0))

	a, _ := e.Next(known, core.North)
	if a != core.ActionMoveForward || !e.Pending() {
		t.Fatalf("expected a pending forward move, got %v", a)
	}
	e.Cancel()

	if e.Pending() {
		t.Error("cancel should clear the pending move")
	}
	if e.Current() != core.C(0, 0) || e.Depth() != 1 {
		t.Errorf("rejected move changed belief: at %v depth %d", e.Current(), e.Depth())
	}
	if e.Visited(core.C(0, 1)) {
		t.Error("rejected move marked the target visited")
	}

	// Confirm with nothing pending is a no-op.
	if got := e.Confirm(); got != core.C(0, 0) {
		t.Errorf("Confirm() without a pending move = %v", got)
	}
}

func TestExploreBoxedOrigin(t *testing.T) {
	truth := wallmap.New(core.Size{W: 3, H: 3})
	truth.Add(core.C(0, 0), core.North)
	truth.Add(core.C(0, 0), core.East)

	r := drive(t, truth, 10)
	if r.forwards != 0 || r.explorer.VisitedCount() != 1 {
		t.Errorf("boxed origin: %d forwards, %d visited", r.forwards, r.explorer.VisitedCount())
	}
	// Done is sticky.
	if a, done := r.explorer.Next(r.known, r.heading); !done || a != core.ActionIdle {
		t.Errorf("Next after done = %v, %v", a, done)
	}
}
