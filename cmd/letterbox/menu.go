package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/letterbox/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick scenes from a menu",
	Long: `Start letterbox in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a scene.
After a scene ends, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select scene
  Q            - Quit

Examples:
  letterbox menu
  letterbox menu --fps 30
  letterbox menu --mode blocking`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile := newFileLogger()
	if logFile != nil {
		defer logFile.Close()
	}
	store := openStore()

	for {
		width, height := terminalSize()
		sceneID, err := tui.RunPicker(width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		if sceneID == "" {
			break
		}

		if err := runScene(context.Background(), sceneID, cfg, logger, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scene: %v\n", err)
		}

		// Loop back to menu
	}

	if store != nil {
		store.Close()
	}
}
