package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/letterbox/internal/loop"
	"github.com/vovakirdan/letterbox/internal/platform/tui"
	"github.com/vovakirdan/letterbox/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeScene  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the letterbox SSH server",
	Long: `Start an SSH server where every connection runs its own scene.

Sessions always use the cooperative driver: the session's Bubble Tea
program schedules each iteration. Runs are recorded in the server's
database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.letterbox/host_key

Examples:
  letterbox serve                           # Listen on :23234 with auto-generated key
  letterbox serve --ssh :2222               # Listen on port 2222
  letterbox serve --scene orbit             # Skip the picker
  letterbox serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeScene, "scene", "", "Scene for every session (empty = picker)")
}

func runServe(_ *cobra.Command, _ []string) {
	loopCfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newConsoleLogger("letterbox-ssh")
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Scene = flagServeScene
	cfg.Loop = loopCfg

	server, err := tui.NewSSHServer(cfg, logger, func(sceneID string, stats loop.Stats) {
		recordRun(store, logger, sceneID, "ssh", loop.ModeCooperative, loopCfg.Loop.TickRate, stats)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting letterbox SSH server on %s\n", cfg.Address)
	fmt.Printf("Scenes: %d registered\n", len(registry.List()))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
