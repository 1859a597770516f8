package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/micromouse/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsBest  bool
	flagRunsClear bool
	flagRunsStats bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [maze]",
	Short: "Show stored runs",
	Long: `Display recorded runs, newest first, or the best runs on one maze.

Examples:
  mouse runs
  mouse runs spiral-8x8 --best
  mouse runs --stats
  mouse runs tiny-4x4 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Maximum number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsBest, "best", false, "Show the best runs on the maze instead of the newest")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the runs (all mazes when none is given)")
	runsCmd.Flags().BoolVar(&flagRunsStats, "stats", false, "Show per-solver statistics")
}

func runRuns(cmd *cobra.Command, args []string) error {
	mazeID := ""
	if len(args) == 1 {
		mazeID = args[0]
	}

	store, err := storage.Open(settings.Storage.DB)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	switch {
	case flagRunsClear:
		n, err := store.ClearRuns(mazeID)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d runs.\n", n)
		return nil

	case flagRunsStats:
		return printStats(store, mazeID)
	}

	var runs []storage.RunRecord
	if flagRunsBest {
		if mazeID == "" {
			return fmt.Errorf("--best needs a maze")
		}
		runs, err = store.BestRuns(mazeID, flagRunsLimit)
	} else {
		runs, err = store.RecentRuns(mazeID, flagRunsLimit)
	}
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Try 'mouse run' to record one.")
		return nil
	}

	fmt.Printf("  %-8s  %-16s  %-12s  %-4s  %6s  %6s  %5s  %s\n", "ID", "Maze", "Solver", "Goal", "Moves", "Ticks", "Slips", "Date")
	fmt.Printf("  %-8s  %-16s  %-12s  %-4s  %6s  %6s  %5s  %s\n", "--", "----", "------", "----", "-----", "-----", "-----", "----")
	for _, r := range runs {
		goal := "no"
		if r.Reached {
			goal = "yes"
		}
		fmt.Printf("  %-8s  %-16s  %-12s  %-4s  %6d  %6d  %5d  %s\n",
			shortID(r.ID), r.MazeID, r.SolverID, goal, r.RunMoves, r.Ticks, r.Rejected, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printStats(store *storage.Store, mazeID string) error {
	stats, err := store.GetStrategyStats(mazeID)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-12s  %5s  %7s  %9s  %9s  %9s\n", "Solver", "Runs", "Success", "BestMoves", "BestTicks", "AvgTicks")
	fmt.Printf("  %-12s  %5s  %7s  %9s  %9s  %9s\n", "------", "----", "-------", "---------", "---------", "--------")
	for _, id := range ids {
		st := stats[id]
		fmt.Printf("  %-12s  %5d  %6.0f%%  %9d  %9d  %9.1f\n",
			id, st.Runs, st.SuccessRate()*100, st.BestMoves, st.BestTicks, st.AvgTicks)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
