package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvDB       = "MOUSE_DB"
	EnvLogLevel = "MOUSE_LOG_LEVEL"
	EnvMaxTicks = "MOUSE_MAX_TICKS"
	EnvSeed     = "MOUSE_SEED"
)

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("config: cannot load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any MOUSE_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvDB); ok {
		cfg.Storage.DB = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvMaxTicks); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %v", ErrInvalid, EnvMaxTicks, err)
		}
		cfg.Simulation.MaxTicks = n
	}
	if v, ok := os.LookupEnv(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %v", ErrInvalid, EnvSeed, err)
		}
		cfg.Simulation.Seed = n
		cfg.Maze.Seed = n
	}
	return cfg.Validate()
}
