package core

import "testing"

func TestDirectionTurn(t *testing.T) {
	tests := []struct {
		name     string
		d        Direction
		n        int
		expected Direction
	}{
		{"north right", North, 1, East},
		{"north left", North, -1, West},
		{"west right wraps", West, 1, North},
		{"south half turn", South, 2, North},
		{"east minus five", East, -5, North},
		{"identity", East, 4, East},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.Turn(tc.n); got != tc.expected {
				t.Errorf("%v.Turn(%d) = %v, expected %v", tc.d, tc.n, got, tc.expected)
			}
		})
	}
}

func TestDirectionOpposite(t *testing.T) {
	for _, d := range Directions {
		if d.Opposite().Opposite() != d {
			t.Errorf("Opposite is not an involution for %v", d)
		}
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx != -ox || dy != -oy {
			t.Errorf("Delta of %v and its opposite do not cancel", d)
		}
	}
}

func TestCellStepAndDirectionTo(t *testing.T) {
	c := C(3, 3)
	if got := c.Step(North); got != C(3, 4) {
		t.Errorf("North step = %v, expected (3,4)", got)
	}
	if got := c.Step(West); got != C(2, 3) {
		t.Errorf("West step = %v, expected (2,3)", got)
	}

	for _, d := range Directions {
		got, ok := c.DirectionTo(c.Step(d))
		if !ok || got != d {
			t.Errorf("DirectionTo(step %v) = %v,%v", d, got, ok)
		}
	}

	if _, ok := c.DirectionTo(C(5, 5)); ok {
		t.Error("DirectionTo should reject non-adjacent cells")
	}
}

func TestSizeIndex(t *testing.T) {
	s := Size{W: 5, H: 3}
	for i := 0; i < s.Area(); i++ {
		c := s.CellAt(i)
		if !s.Contains(c) {
			t.Fatalf("CellAt(%d) = %v is out of bounds", i, c)
		}
		if s.Index(c) != i {
			t.Errorf("Index(CellAt(%d)) = %d", i, s.Index(c))
		}
	}
	if s.Contains(C(5, 0)) || s.Contains(C(0, -1)) {
		t.Error("Contains accepted out-of-bounds cells")
	}
}

func TestGoalBlock(t *testing.T) {
	goals := Size{W: 16, H: 16}.GoalBlock()
	expected := [4]Cell{C(7, 7), C(8, 7), C(7, 8), C(8, 8)}
	if goals != expected {
		t.Errorf("GoalBlock() = %v, expected %v", goals, expected)
	}

	goals = Size{W: 5, H: 4}.GoalBlock()
	expected = [4]Cell{C(1, 1), C(2, 1), C(1, 2), C(2, 2)}
	if goals != expected {
		t.Errorf("GoalBlock() = %v, expected %v", goals, expected)
	}
}

func TestTurnToward(t *testing.T) {
	tests := []struct {
		heading, target Direction
		expected        Action
	}{
		{North, North, ActionMoveForward},
		{North, East, ActionTurnRight},
		{North, West, ActionTurnLeft},
		{North, South, ActionTurnRight},
		{West, North, ActionTurnRight},
		{East, North, ActionTurnLeft},
	}

	for _, tc := range tests {
		if got := TurnToward(tc.heading, tc.target); got != tc.expected {
			t.Errorf("TurnToward(%v, %v) = %v, expected %v", tc.heading, tc.target, got, tc.expected)
		}
	}
}

func TestManhattan(t *testing.T) {
	if d := C(0, 0).Manhattan(C(7, 7)); d != 14 {
		t.Errorf("Manhattan = %d, expected 14", d)
	}
	if d := C(3, 1).Manhattan(C(1, 4)); d != 5 {
		t.Errorf("Manhattan = %d, expected 5", d)
	}
}

func TestClampAbs(t *testing.T) {
	if Clamp(-5, 0, 10) != 0 || Clamp(15, 0, 10) != 10 || Clamp(5, 0, 10) != 5 {
		t.Error("Clamp returned an unexpected value")
	}
	if Abs(-5) != 5 || Abs(5) != 5 || Abs(0) != 0 {
		t.Error("Abs returned an unexpected value")
	}
}

func TestPoseApply(t *testing.T) {
	p := Pose{Cell: C(1, 1), Heading: North}

	tests := []struct {
		action Action
		want   Pose
	}{
		{ActionMoveForward, Pose{Cell: C(1, 2), Heading: North}},
		{ActionTurnLeft, Pose{Cell: C(1, 1), Heading: West}},
		{ActionTurnRight, Pose{Cell: C(1, 1), Heading: East}},
		{ActionIdle, p},
	}
	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			if got := p.Apply(tt.action); got != tt.want {
				t.Errorf("Apply(%v) = %+v, expected %+v", tt.action, got, tt.want)
			}
		})
	}
}
