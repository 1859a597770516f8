package engine

import (
	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/registry"
)

func init() {
	registry.Register("search-run", func() registry.Solver {
		return New(Options{})
	})
	registry.Register("search-goal", func() registry.Solver {
		return New(Options{StopAtGoal: true})
	})
}

// ID returns the solver identifier.
func (e *Engine) ID() string {
	return e.id
}

// Title returns the display name.
func (e *Engine) Title() string {
	return e.title
}

// Reset starts a new session for the configured maze size.
func (e *Engine) Reset(cfg core.RuntimeConfig) {
	if cfg.MaxHostFailures != 0 {
		e.opts.MaxHostFailures = cfg.MaxHostFailures
	}
	e.Initialize(cfg.MazeW, cfg.MazeH)
}

// Summary reports the optimal-run length and reflood count.
func (e *Engine) Summary() core.Summary {
	return core.Summary{RunMoves: e.stats.RunForward, Refloods: e.stats.Refloods}
}
