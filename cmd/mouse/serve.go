package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/micromouse/internal/mazes"
	"github.com/vovakirdan/micromouse/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve [solver]",
	Short: "Start the micromouse SSH server",
	Long: `Start an SSH server that shows the watcher to every client.

Each SSH connection gets its own simulation of the configured maze; press N
for a freshly generated one. Finished runs go to the shared runs database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.micromouse/host_key

Examples:
  mouse serve                           # Listen on :23234 with auto-generated key
  mouse serve --ssh :2222               # Listen on port 2222
  mouse serve floodfill --maze spiral-8x8

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, args []string) error {
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

	opts := simOptions(settings)
	opts.Logger = nil
	// Each session picks its own seed.
	opts.Seed = 0

	mazeCfg := settings.Maze
	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      settings.Storage.DB,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Logger:      logger.WithPrefix("mouse-ssh"),
		Watch: tui.WatchConfig{
			Maze:     maze,
			SolverID: id,
			Sim:      opts,
			TickRate: settings.Simulation.TickRate,
			NewMaze: func(seed int64) (*mazes.Maze, error) {
				return generateMaze(mazeCfg, seed)
			},
		},
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting micromouse SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
