package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/micromouse/internal/mazes"
	"github.com/vovakirdan/micromouse/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List solvers and mazes",
	Long:  `Shows every registered solver, the built-in mazes, and mazes in the configured maze directory.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	solvers := registry.List()

	fmt.Println("Solvers:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range solvers {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, s := range solvers {
		fmt.Printf("  %-*s  %s\n", maxIDLen, s.ID, s.Title)
	}

	var list []*mazes.Maze
	for _, id := range mazes.BuiltinIDs() {
		m, err := mazes.Builtin(id)
		if err != nil {
			return err
		}
		list = append(list, m)
	}
	if settings.Maze.Dir != "" {
		extra, err := mazes.NewLoader(settings.Maze.Dir).LoadAll()
		if err != nil {
			logger.Warn("cannot read maze directory", "dir", settings.Maze.Dir, "error", err)
		}
		list = append(list, extra...)
	}

	fmt.Println()
	fmt.Println("Mazes:")
	fmt.Println()

	maxIDLen = 2
	for _, m := range list {
		maxIDLen = max(maxIDLen, len(m.ID))
	}
	fmt.Printf("  %-*s  %-7s  %-8s  %s\n", maxIDLen, "ID", "Size", "Distance", "Name")
	fmt.Printf("  %-*s  %-7s  %-8s  %s\n", maxIDLen, "--", "----", "--------", "----")
	for _, m := range list {
		dist := "-"
		if m.Solvable() {
			dist = fmt.Sprintf("%d", m.Distances().At(m.Size().CellAt(0)))
		}
		size := fmt.Sprintf("%dx%d", m.Width(), m.Height())
		fmt.Printf("  %-*s  %-7s  %-8s  %s\n", maxIDLen, m.ID, size, dist, m.Name)
	}

	fmt.Println()
	fmt.Println("Run 'mouse watch <solver> --maze <id>' to watch a solver.")
	return nil
}
