// mouse runs micromouse solvers against simulated mazes.
//
// Usage:
//
//	mouse list                - List solvers and mazes
//	mouse run [solver...]     - Run solvers headless and print results
//	mouse watch [solver]      - Watch a solver explore in the terminal
//	mouse gen                 - Generate a maze file
//	mouse runs [maze]         - Show stored runs
//	mouse board [maze]        - Browse stored runs interactively
//	mouse serve               - Start SSH server for remote watching
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.micromouse/configs, ./configs)
//	--maze <ref>        - Built-in maze ID, maze file, or "generate"
//	--seed <value>      - RNG seed for generated mazes and wheel slip
//	--db <path>         - Set database path (default: ~/.micromouse/runs.db)
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/micromouse/internal/config"

	// Import solvers to register them
	_ "github.com/vovakirdan/micromouse/internal/engine"
	_ "github.com/vovakirdan/micromouse/internal/solvers/floodfill"
	_ "github.com/vovakirdan/micromouse/internal/solvers/wallfollow"
)

var (
	// Global flags
	flagConfig   string
	flagMaze     string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagMaxTicks int

	// Resolved before every command
	settings config.Config
	logger   *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mouse",
	Short: "Micromouse - explore, plan and race through mazes",
	Long: `Micromouse drives a simulated maze robot that can only sense the walls
next to it. Solvers explore the maze, plan a return to the start, and race
to the centre along the shortest known route.

Available commands:
  list     - Show solvers and mazes
  run      - Run solvers headless and print results
  watch    - Watch a solver in the terminal
  gen      - Generate a maze file
  runs     - Show stored runs
  board    - Browse stored runs interactively
  serve    - Start SSH server for remote watching

Examples:
  mouse list
  mouse run --maze spiral-8x8
  mouse run search-run floodfill --maze generate --seed 7
  mouse watch search-run --maze wilson-16x16
  mouse gen --width 16 --height 16 --loops 10 > my.txt
  mouse serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagMaze, "maze", "", "Built-in maze ID, maze file, or \"generate\"")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for generated mazes and wheel slip")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&flagMaxTicks, "max-ticks", 0, "Tick budget per run")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadSettings resolves configuration: file, then .env and MOUSE_*
// variables, then flags.
func loadSettings(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("maze") {
		cfg.Maze.Source = flagMaze
	}
	if flags.Changed("seed") {
		cfg.Maze.Seed = flagSeed
		cfg.Simulation.Seed = flagSeed
	}
	if flags.Changed("db") {
		cfg.Storage.DB = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("max-ticks") {
		cfg.Simulation.MaxTicks = flagMaxTicks
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.LogLevel()
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mouse",
		Level:           level,
	})
	settings = cfg
	logger.Debug("settings loaded", "maze", cfg.Maze.Source, "solver", cfg.Engine.Solver, "db", cfg.Storage.DB)
	return nil
}
