package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/letterbox/internal/config"
	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/loop"
	"github.com/vovakirdan/letterbox/internal/platform/console"
	"github.com/vovakirdan/letterbox/internal/platform/tui"
	"github.com/vovakirdan/letterbox/internal/registry"
	"github.com/vovakirdan/letterbox/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run [scene]",
	Short: "Run a scene",
	Long: `Run the specified scene, or the configured default scene.

Driver modes:
  auto         - cooperative when the terminal can host a Bubble Tea
                 program, blocking otherwise
  cooperative  - Bubble Tea ticks drive each iteration
  blocking     - the loop owns the thread and sleeps between steps

Controls:
  F/F11   - Toggle fullscreen
  Ctrl+S  - Save a screenshot to ~/.letterbox/screenshots
  Q/Esc   - Quit

Examples:
  letterbox run bounce
  letterbox run orbit --mode blocking
  letterbox run bounce --fps 30
  LETTERBOX_FULLSCREEN=true letterbox run orbit`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func runRun(_ *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sceneID := cfg.Scene
	if len(args) == 1 {
		sceneID = args[0]
	}
	if !registry.Exists(sceneID) {
		fmt.Fprintf(os.Stderr, "Error: unknown scene %q\n", sceneID)
		fmt.Fprintln(os.Stderr, "Run 'letterbox list' to see available scenes.")
		os.Exit(1)
	}

	logger, logFile := newFileLogger()
	if logFile != nil {
		defer logFile.Close()
	}
	store := openStore()

	runErr := runScene(context.Background(), sceneID, cfg, logger, store)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running scene: %v\n", runErr)
		os.Exit(1)
	}
}

// runScene hosts one scene with the driver its configuration resolves to.
func runScene(ctx context.Context, sceneID string, cfg config.Config, logger *log.Logger, store *storage.Store) error {
	scene, err := registry.Create(sceneID)
	if err != nil {
		return err
	}

	requested, err := loop.ParseMode(cfg.Loop.Mode)
	if err != nil {
		return err
	}
	// Bubble Tea is the external scheduler and needs a terminal to drive.
	mode, err := loop.Resolve(requested, term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		return err
	}
	logger.Info("running scene", "scene", sceneID, "mode", mode, "tick_rate", cfg.Loop.TickRate)

	switch mode {
	case loop.ModeCooperative:
		w, h := terminalSize()
		return tui.Run(ctx, tui.Options{
			Scene:         scene,
			Config:        cfg,
			Logger:        logger,
			Size:          core.NewSize(w, h),
			ScreenshotDir: screenshotDir(),
			OnStop: func(stats loop.Stats) {
				recordRun(store, logger, sceneID, "tui", mode, cfg.Loop.TickRate, stats)
			},
		})
	default:
		return console.Run(ctx, console.Options{
			Scene:         scene,
			Config:        cfg,
			Logger:        logger,
			Fd:            int(os.Stdin.Fd()),
			ScreenshotDir: screenshotDir(),
			OnStop: func(stats loop.Stats) {
				recordRun(store, logger, sceneID, "console", mode, cfg.Loop.TickRate, stats)
			},
		})
	}
}
