package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/micromouse/internal/platform/tui"
	"github.com/vovakirdan/micromouse/internal/storage"
)

var boardCmd = &cobra.Command{
	Use:   "board [maze]",
	Short: "Browse stored runs interactively",
	Long: `Browse the runs database: best or newest runs per maze.

Controls:
  Tab/Shift+Tab  - Next/previous maze
  Up/Down        - Scroll
  M              - Toggle best/recent
  Q/Esc          - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBoard,
}

func runBoard(cmd *cobra.Command, args []string) error {
	focus := ""
	if len(args) == 1 {
		focus = args[0]
	}

	store, err := storage.Open(settings.Storage.DB)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	return tui.RunBoard(store, focus, width, height)
}
