package core

// RuntimeConfig contains configuration passed to solvers at initialization.
type RuntimeConfig struct {
	MazeW int   // Maze width in cells
	MazeH int   // Maze height in cells
	Seed  int64 // RNG seed for solvers that randomise anything

	// MaxHostFailures overrides the solver's limit on consecutive rejected
	// actions when non-zero.
	MaxHostFailures int
}

// DefaultConfig returns a RuntimeConfig for the classic 16x16 contest maze.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		MazeW: 16,
		MazeH: 16,
	}
}

// Size returns the maze dimensions as a Size.
func (c RuntimeConfig) Size() Size {
	return Size{W: c.MazeW, H: c.MazeH}
}

// Phase is the top-level control state of a solver.
type Phase int

const (
	PhaseExplore Phase = iota
	PhasePlanReturn
	PhaseReturning
	PhaseRunOptimal
	PhaseDone
)

// String returns the canonical upper-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseExplore:
		return "EXPLORE"
	case PhasePlanReturn:
		return "PLAN_RETURN"
	case PhaseReturning:
		return "RETURNING"
	case PhaseRunOptimal:
		return "RUN_OPTIMAL"
	case PhaseDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// SolverState is the solver's current belief and status.
// Returned by Solver.State() to communicate with the host.
type SolverState struct {
	Phase   Phase
	Cell    Cell      // Believed position
	Heading Direction // Believed heading
	Tick    uint64    // Number of Step calls so far
	Done    bool      // Terminal: every further Step returns Idle
	Err     error     // Non-nil when the solver finished unsuccessfully
}

// StepResult is returned by Solver.Step() after each tick.
type StepResult struct {
	Action Action
	State  SolverState
}

// Summary is a solver's own account of a finished session.
type Summary struct {
	RunMoves int // forward moves of the final run to the goal
	Refloods int // distance-field recomputations
}
