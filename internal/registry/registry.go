// Package registry provides a global registry for solver factories.
// Solvers register themselves in init() functions, allowing the host side
// to discover and instantiate strategies without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/flood"
	"github.com/vovakirdan/micromouse/internal/wallmap"
)

// Solver is the interface every maze-solving strategy implements.
// Solvers contain pure logic: they see the maze only through SenseFrame
// and act on it only through the returned Action.
type Solver interface {
	// ID returns a unique identifier (e.g., "search-run", "left-hand").
	// Used for CLI commands and run records.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes the solver for a maze of the configured size.
	// The robot is assumed to stand at (0,0) facing north.
	Reset(cfg core.RuntimeConfig)

	// Step consumes one tick of sensor data and returns exactly one action.
	Step(in core.SenseFrame) core.StepResult

	// State returns the solver's current belief and status.
	State() core.SolverState
}

// Mapper is implemented by solvers that keep a wall map and distance field.
// Renderers use it to draw what the solver knows.
type Mapper interface {
	Known() wallmap.View
	Field() *flood.Field
}

// Annotated is implemented by solvers that accept an observational
// annotation hook.
type Annotated interface {
	SetAnnotator(a core.Annotator)
}

// Summarizer is implemented by solvers that report their own run figures.
type Summarizer interface {
	Summary() core.Summary
}

// Logged is implemented by solvers that write debug lines.
type Logged interface {
	SetLogger(l *log.Logger)
}

// SolverInfo contains metadata about a registered solver.
type SolverInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a solver.
type Factory func() Solver

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a solver factory to the registry.
// Typically called from a solver's init() function.
// Panics if a solver with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: solver %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	s := f()
	titles[id] = s.Title()
}

// List returns information about all registered solvers, sorted by ID.
func List() []SolverInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SolverInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SolverInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new solver by its ID.
// Returns an error if the solver ID is not registered.
func Create(id string) (Solver, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown solver %q", id)
	}

	return f(), nil
}

// Exists checks if a solver with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
