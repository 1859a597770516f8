package config

import (
	_ "embed"
)

//go:embed defaults/mouse.yaml
var defaultMouseYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Solver:          "search-run",
			MaxHostFailures: 8,
		},
		Simulation: SimulationConfig{
			MaxTicks: 20000,
			TickRate: 30,
			Seed:     1,
		},
		Maze: MazeConfig{
			Source:   "wilson-16x16",
			Width:    16,
			Height:   16,
			Seed:     2026,
			Loops:    12,
			OpenGoal: true,
		},
		Storage: StorageConfig{
			DB: "~/.micromouse/runs.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
