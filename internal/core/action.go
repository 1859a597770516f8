package core

// Action is the single physical command a solver emits per tick.
type Action int

const (
	ActionIdle Action = iota
	ActionMoveForward
	ActionTurnLeft
	ActionTurnRight
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionIdle:
		return "Idle"
	case ActionMoveForward:
		return "MoveForward"
	case ActionTurnLeft:
		return "TurnLeft"
	case ActionTurnRight:
		return "TurnRight"
	default:
		return "Unknown"
	}
}

// IsTurn reports whether the action rotates the robot in place.
func (a Action) IsTurn() bool {
	return a == ActionTurnLeft || a == ActionTurnRight
}

// Apply returns the heading after the action succeeds.
func (a Action) Apply(heading Direction) Direction {
	switch a {
	case ActionTurnLeft:
		return heading.Left()
	case ActionTurnRight:
		return heading.Right()
	default:
		return heading
	}
}

// TurnToward returns the next action that brings a robot facing heading
// closer to facing target. A half turn is taken as two right turns.
// Returns ActionMoveForward once the robot already faces target.
func TurnToward(heading, target Direction) Action {
	switch (int(target) - int(heading) + 4) % 4 {
	case 0:
		return ActionMoveForward
	case 3:
		return ActionTurnLeft
	default:
		return ActionTurnRight
	}
}

// SenseFrame is everything the host reports to a solver for one tick.
// Wall readings are relative to the robot's current heading and reflect the
// physical state after the previous action was executed.
type SenseFrame struct {
	WallFront bool
	WallLeft  bool
	WallRight bool

	// LastOK is the host's verdict on the action returned by the previous
	// Step call. It is ignored on the first tick and after Idle.
	LastOK bool
}

// Pose is a believed position and heading.
type Pose struct {
	Cell    Cell
	Heading Direction
}

// Apply returns the pose after the action succeeds.
func (p Pose) Apply(a Action) Pose {
	switch a {
	case ActionMoveForward:
		return Pose{Cell: p.Cell.Step(p.Heading), Heading: p.Heading}
	case ActionTurnLeft, ActionTurnRight:
		return Pose{Cell: p.Cell, Heading: a.Apply(p.Heading)}
	default:
		return p
	}
}
