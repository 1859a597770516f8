package wallfollow

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/mazes"
	"github.com/vovakirdan/micromouse/internal/registry"
	"github.com/vovakirdan/micromouse/internal/sim"
)

func runOn(t *testing.T, id string, hand Hand) sim.Result {
	t.Helper()
	m, err := mazes.Builtin(id)
	if err != nil {
		t.Fatalf("Builtin(%q) error: %v", id, err)
	}
	res, err := sim.New(m, New(hand), sim.Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return res
}

func TestPerfectMazes(t *testing.T) {
	for _, id := range []string{"tiny-4x4", "serpent-5x5"} {
		for _, hand := range []Hand{LeftHand, RightHand} {
			t.Run(id+"/"+hand.String(), func(t *testing.T) {
				res := runOn(t, id, hand)
				if !res.Reached {
					t.Errorf("goal not reached: %+v", res.Final)
				}
				if res.Stats.Collisions != 0 {
					t.Errorf("%d collisions", res.Stats.Collisions)
				}
			})
		}
	}
}

func TestIslandLoops(t *testing.T) {
	for _, hand := range []Hand{LeftHand, RightHand} {
		t.Run(hand.String(), func(t *testing.T) {
			res := runOn(t, "island-6x6", hand)
			if res.Reached {
				t.Fatal("a wall follower cannot reach an island goal")
			}
			if !errors.Is(res.Final.Err, ErrLooping) {
				t.Errorf("final error = %v, expected ErrLooping", res.Final.Err)
			}
		})
	}
}

func TestTurnTowardsHandThenMove(t *testing.T) {
	s := New(LeftHand)
	s.Reset(core.RuntimeConfig{MazeW: 4, MazeH: 4})

	// Nothing around: turn left, then commit to the move.
	if a := s.Step(core.SenseFrame{}).Action; a != core.ActionTurnLeft {
		t.Fatalf("first action = %v, expected TurnLeft", a)
	}
	if a := s.Step(core.SenseFrame{LastOK: true}).Action; a != core.ActionMoveForward {
		t.Fatalf("second action = %v, expected MoveForward", a)
	}
	// Move rejected: still owed.
	if a := s.Step(core.SenseFrame{LastOK: false}).Action; a != core.ActionMoveForward {
		t.Fatalf("retry action = %v, expected MoveForward", a)
	}
	if st := s.State(); st.Cell != core.C(0, 0) || st.Heading != core.West {
		t.Errorf("state = %+v", st)
	}
}

func TestPriorities(t *testing.T) {
	tests := []struct {
		name  string
		hand  Hand
		frame core.SenseFrame
		want  core.Action
	}{
		{"left open", LeftHand, core.SenseFrame{WallFront: true, WallRight: true}, core.ActionTurnLeft},
		{"left walled goes straight", LeftHand, core.SenseFrame{WallLeft: true}, core.ActionMoveForward},
		{"left only right open", LeftHand, core.SenseFrame{WallLeft: true, WallFront: true}, core.ActionTurnRight},
		{"left dead end", LeftHand, core.SenseFrame{WallLeft: true, WallFront: true, WallRight: true}, core.ActionTurnRight},
		{"right open", RightHand, core.SenseFrame{WallFront: true, WallLeft: true}, core.ActionTurnRight},
		{"right walled goes straight", RightHand, core.SenseFrame{WallRight: true}, core.ActionMoveForward},
		{"right only left open", RightHand, core.SenseFrame{WallRight: true, WallFront: true}, core.ActionTurnLeft},
		{"right dead end", RightHand, core.SenseFrame{WallLeft: true, WallFront: true, WallRight: true}, core.ActionTurnLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.hand)
			s.Reset(core.RuntimeConfig{MazeW: 8, MazeH: 8})
			if got := s.Step(tt.frame).Action; got != tt.want {
				t.Errorf("Step() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"left-hand", "right-hand"} {
		s, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) error: %v", id, err)
		}
		if s.ID() != id {
			t.Errorf("ID() = %q, expected %q", s.ID(), id)
		}
	}
}
