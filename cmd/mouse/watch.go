package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/micromouse/internal/mazes"
	"github.com/vovakirdan/micromouse/internal/platform/tui"
)

var flagFPS int

var watchCmd = &cobra.Command{
	Use:   "watch [solver]",
	Short: "Watch a solver in the terminal",
	Long: `Step a solver through the maze a few ticks per second and draw what it
knows: white walls are seen, gray walls are not yet seen.

Controls:
  Space      - Pause
  .          - One tick
  +/-        - Faster/slower
  R          - Restart
  S          - Next solver
  N          - New generated maze
  F          - Toggle distance view
  Q/Ctrl+C   - Quit

Examples:
  mouse watch
  mouse watch floodfill --maze spiral-8x8
  mouse watch search-run --maze generate --seed 3 --fps 60`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&flagFPS, "fps", 0, "Ticks per second (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) == 1 {
		arg = args[0]
	}
	id, err := solverID(settings.Engine, arg)
	if err != nil {
		return err
	}
	maze, err := loadMaze(settings.Maze)
	if err != nil {
		return err
	}

	// Warn early if the maze will not fit
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cw, ch := tui.CanvasSize(maze.Size())
		if cw > w || ch+6 > h {
			fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the maze needs about %dx%d\n", w, h, cw, ch+6)
		}
	}

	rate := settings.Simulation.TickRate
	if flagFPS > 0 {
		rate = flagFPS
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	// The TUI owns the terminal; keep log lines out of it.
	opts := simOptions(settings)
	opts.Logger = nil

	mazeCfg := settings.Maze
	res, err := tui.RunWatch(tui.WatchConfig{
		Maze:     maze,
		SolverID: id,
		Sim:      opts,
		TickRate: rate,
		Store:    store,
		NewMaze: func(seed int64) (*mazes.Maze, error) {
			return generateMaze(mazeCfg, seed)
		},
	})
	if err != nil {
		return err
	}
	if res != nil {
		fmt.Printf("%s on %s: reached=%v moves=%d ticks=%d\n", res.SolverID, res.MazeID, res.Reached, res.Summary.RunMoves, res.Stats.Ticks)
	}
	return nil
}
