package main

import (
	"fmt"
	"os"

	"github.com/vovakirdan/micromouse/internal/config"
	"github.com/vovakirdan/micromouse/internal/mazes"
	"github.com/vovakirdan/micromouse/internal/registry"
	"github.com/vovakirdan/micromouse/internal/sim"
	"github.com/vovakirdan/micromouse/internal/storage"
)

// loadMaze resolves the configured maze source: "generate", an ID in the
// maze directory, a built-in ID, or a file path.
func loadMaze(cfg config.MazeConfig) (*mazes.Maze, error) {
	if cfg.Source == config.SourceGenerate {
		return generateMaze(cfg, cfg.Seed)
	}
	if cfg.Dir != "" {
		if m, err := mazes.NewLoader(cfg.Dir).LoadByID(cfg.Source); err == nil {
			return m, nil
		}
	}
	return mazes.Resolve(cfg.Source)
}

func generateMaze(cfg config.MazeConfig, seed int64) (*mazes.Maze, error) {
	return mazes.Generate(cfg.Width, cfg.Height, mazes.GenOptions{
		Seed:     seed,
		Loops:    cfg.Loops,
		OpenGoal: cfg.OpenGoal,
	})
}

// solverID maps the configured solver through the stop-at-goal switch.
func solverID(cfg config.EngineConfig, arg string) (string, error) {
	id := cfg.Solver
	if arg != "" {
		id = arg
	}
	if id == "search-run" && cfg.StopAtGoal {
		id = "search-goal"
	}
	if !registry.Exists(id) {
		return "", fmt.Errorf("unknown solver %q (run 'mouse list' to see available solvers)", id)
	}
	return id, nil
}

func simOptions(cfg config.Config) sim.Options {
	return sim.Options{
		MaxTicks:        cfg.Simulation.MaxTicks,
		FailRate:        cfg.Simulation.FailRate,
		Seed:            cfg.Simulation.Seed,
		MaxHostFailures: cfg.Engine.MaxHostFailures,
		Logger:          logger,
	}
}

// openStore opens the runs database, warning instead of failing so runs
// still work without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(settings.Storage.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return nil
	}
	return store
}
