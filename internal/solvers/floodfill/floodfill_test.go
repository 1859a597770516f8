package floodfill

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/mazes"
	"github.com/vovakirdan/micromouse/internal/registry"
	"github.com/vovakirdan/micromouse/internal/sim"
)

func TestReachesGoalOnBuiltins(t *testing.T) {
	for _, id := range mazes.BuiltinIDs() {
		t.Run(id, func(t *testing.T) {
			m, err := mazes.Builtin(id)
			if err != nil {
				t.Fatalf("Builtin() error: %v", err)
			}
			s := New()
			res, err := sim.New(m, s, sim.Options{}).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if !res.Reached {
				t.Fatalf("goal not reached: %+v", res.Final)
			}
			if res.Stats.Collisions != 0 {
				t.Errorf("%d collisions", res.Stats.Collisions)
			}
			if s.Steps() < m.Distances().At(core.C(0, 0)) {
				t.Errorf("%d steps is shorter than the true distance", s.Steps())
			}
		})
	}
}

func TestOpenMazeIsDirect(t *testing.T) {
	s := New()
	res, err := sim.New(mazes.New(16, 16), s, sim.Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Reached {
		t.Fatal("goal not reached")
	}
	if s.Steps() != 14 {
		t.Errorf("Steps() = %d, expected 14", s.Steps())
	}
	if s.Refloods() != 1 {
		t.Errorf("Refloods() = %d, expected only the initial fill", s.Refloods())
	}
}

func TestFencedGoal(t *testing.T) {
	m := mazes.New(4, 4)
	goals := m.Goals()
	for _, g := range goals {
		for _, d := range core.Directions {
			inside := false
			for _, o := range goals {
				if g.Step(d) == o {
					inside = true
				}
			}
			if !inside {
				m.SetWall(g, d, true)
			}
		}
	}

	s := New()
	res, err := sim.New(m, s, sim.Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Reached {
		t.Fatal("goal should be unreachable")
	}
	if !errors.Is(res.Final.Err, ErrUnreachable) {
		t.Errorf("final error = %v, expected ErrUnreachable", res.Final.Err)
	}
	if s.Refloods() < 2 {
		t.Errorf("Refloods() = %d, expected the field to be rebuilt", s.Refloods())
	}
}

func TestRejectedMoveIsRetried(t *testing.T) {
	s := New()
	s.Reset(core.RuntimeConfig{MazeW: 4, MazeH: 4})

	res := s.Step(core.SenseFrame{WallLeft: true})
	if res.Action != core.ActionMoveForward {
		t.Fatalf("first action = %v, expected MoveForward", res.Action)
	}
	res = s.Step(core.SenseFrame{WallLeft: true, LastOK: false})
	if res.State.Cell != core.C(0, 0) {
		t.Errorf("rejected move changed belief to %v", res.State.Cell)
	}
	res = s.Step(core.SenseFrame{WallLeft: true, LastOK: true})
	if res.State.Cell != core.C(0, 1) {
		t.Errorf("confirmed move left belief at %v", res.State.Cell)
	}
}

func TestRegistered(t *testing.T) {
	s, err := registry.Create("floodfill")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, ok := s.(registry.Mapper); !ok {
		t.Error("floodfill should expose its map")
	}
}

func TestGoalCellsMarkedGreen(t *testing.T) {
	ann := sim.NewAnnotations()
	s := New()
	s.SetAnnotator(ann)
	s.Reset(core.RuntimeConfig{MazeW: 4, MazeH: 4})

	for _, g := range (core.Size{W: 4, H: 4}).GoalBlock() {
		if got := ann.Color(g); got != core.ColorGreen {
			t.Errorf("goal %v marked %v, expected green", g, got)
		}
	}
	if got := ann.Text(core.C(0, 0)); got != "2" {
		t.Errorf("origin label = %q, expected distance 2", got)
	}
}
