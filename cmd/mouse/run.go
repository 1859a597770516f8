package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/platform/tui"
	"github.com/vovakirdan/micromouse/internal/registry"
	"github.com/vovakirdan/micromouse/internal/sim"
	"github.com/vovakirdan/micromouse/internal/storage"
)

var (
	flagAllSolvers bool
	flagFailRate   float64
	flagNoSave     bool
	flagShow       bool
)

var runCmd = &cobra.Command{
	Use:   "run [solver...]",
	Short: "Run solvers headless and print results",
	Long: `Run one or more solvers on the selected maze without a UI and print a
summary line per solver. Results are saved to the runs database.

Examples:
  mouse run
  mouse run search-run floodfill --maze spiral-8x8
  mouse run --all --maze generate --seed 42
  mouse run left-hand --fail-rate 0.05 --show`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagAllSolvers, "all", false, "Run every registered solver")
	runCmd.Flags().Float64Var(&flagFailRate, "fail-rate", -1, "Probability that an action slips (overrides config)")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record runs")
	runCmd.Flags().BoolVar(&flagShow, "show", false, "Print the maze as each solver left it")
}

func runRun(cmd *cobra.Command, args []string) error {
	maze, err := loadMaze(settings.Maze)
	if err != nil {
		return err
	}

	var ids []string
	switch {
	case flagAllSolvers:
		for _, s := range registry.List() {
			ids = append(ids, s.ID)
		}
	case len(args) == 0:
		id, err := solverID(settings.Engine, "")
		if err != nil {
			return err
		}
		ids = []string{id}
	default:
		for _, a := range args {
			id, err := solverID(settings.Engine, a)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
	}

	opts := simOptions(settings)
	if flagFailRate >= 0 {
		opts.FailRate = flagFailRate
	}

	var store *storage.Store
	if !flagNoSave {
		store = openStore()
		if store != nil {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Maze %s (%dx%d), shortest route %d\n\n", maze.ID, maze.Width(), maze.Height(), maze.Distances().At(core.C(0, 0)))
	fmt.Printf("  %-12s  %-5s  %6s  %6s  %6s  %6s  %s\n", "Solver", "Goal", "Moves", "Ticks", "Fwd", "Turns", "Note")
	fmt.Printf("  %-12s  %-5s  %6s  %6s  %6s  %6s  %s\n", "------", "----", "-----", "-----", "---", "-----", "----")

	for _, id := range ids {
		solver, err := registry.Create(id)
		if err != nil {
			return err
		}
		s := sim.New(maze, solver, opts)
		res, runErr := s.Run(ctx)
		if errors.Is(runErr, context.Canceled) {
			return runErr
		}

		note := ""
		switch {
		case runErr != nil:
			note = runErr.Error()
		case res.Final.Err != nil:
			note = res.Final.Err.Error()
		}
		goal := "no"
		if res.Reached {
			goal = "yes"
		}
		fmt.Printf("  %-12s  %-5s  %6d  %6d  %6d  %6d  %s\n",
			id, goal, res.Summary.RunMoves, res.Stats.Ticks, res.Stats.Forward, res.Stats.Turns, note)

		if store != nil {
			if _, err := store.SaveResult(res); err != nil {
				logger.Warn("cannot save run", "solver", id, "error", err)
			}
		}
		if flagShow {
			printScene(s)
		}
	}
	return nil
}

// printScene prints the maze with the solver's knowledge and marks.
func printScene(s *sim.Sim) {
	sc := tui.Scene{
		Maze:      s.Maze(),
		Marks:     s.Annotations(),
		Robot:     s.Robot(),
		ShowRobot: true,
	}
	if mp, ok := s.Solver().(registry.Mapper); ok {
		sc.Known = mp.Known()
		sc.Field = mp.Field()
		sc.ShowField = true
	}
	w, h := tui.CanvasSize(s.Maze().Size())
	c := core.NewCanvas(w, h)
	tui.DrawScene(c, sc)
	fmt.Println()
	fmt.Println(c.String())
	fmt.Println()
}
