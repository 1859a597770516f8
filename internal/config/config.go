// Package config provides YAML-based configuration loading for the
// micromouse tools, with .env and environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config contains all configuration for a session.
type Config struct {
	Engine     EngineConfig     `yaml:"engine"`
	Simulation SimulationConfig `yaml:"simulation"`
	Maze       MazeConfig       `yaml:"maze"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// EngineConfig selects and tunes the solver.
type EngineConfig struct {
	Solver          string `yaml:"solver"`
	StopAtGoal      bool   `yaml:"stop_at_goal"`
	MaxHostFailures int    `yaml:"max_host_failures"`
}

// SimulationConfig defines host-side parameters.
type SimulationConfig struct {
	MaxTicks int     `yaml:"max_ticks"`
	TickRate int     `yaml:"tick_rate"` // watcher ticks per second
	FailRate float64 `yaml:"fail_rate"`
	Seed     int64   `yaml:"seed"`
}

// MazeConfig selects the maze. Source is a built-in ID, a file path, or
// "generate" to build one from the remaining fields.
type MazeConfig struct {
	Source   string `yaml:"source"`
	Dir      string `yaml:"dir"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Seed     int64  `yaml:"seed"`
	Loops    int    `yaml:"loops"`
	OpenGoal bool   `yaml:"open_goal"`
}

// StorageConfig locates the run database.
type StorageConfig struct {
	DB string `yaml:"db"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SourceGenerate asks for a freshly generated maze.
const SourceGenerate = "generate"

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.Simulation.MaxTicks < 0:
		return fmt.Errorf("%w: simulation.max_ticks %d", ErrInvalid, c.Simulation.MaxTicks)
	case c.Simulation.TickRate <= 0:
		return fmt.Errorf("%w: simulation.tick_rate %d", ErrInvalid, c.Simulation.TickRate)
	case c.Simulation.FailRate < 0 || c.Simulation.FailRate >= 1:
		return fmt.Errorf("%w: simulation.fail_rate %v", ErrInvalid, c.Simulation.FailRate)
	case c.Maze.Source == SourceGenerate && (c.Maze.Width < 2 || c.Maze.Height < 2):
		return fmt.Errorf("%w: maze size %dx%d", ErrInvalid, c.Maze.Width, c.Maze.Height)
	case c.Maze.Loops < 0:
		return fmt.Errorf("%w: maze.loops %d", ErrInvalid, c.Maze.Loops)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level. An empty level means info.
func (c Config) LogLevel() (log.Level, error) {
	if strings.TrimSpace(c.Log.Level) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return lvl, fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return lvl, nil
}
