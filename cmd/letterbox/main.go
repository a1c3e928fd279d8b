// letterbox runs fixed-timestep scenes in the terminal, scaled into the
// largest aspect-preserving area of the window with bars around it.
//
// Usage:
//
//	letterbox list             - List available scenes
//	letterbox run <scene>      - Run a scene
//	letterbox menu             - Pick scenes interactively
//	letterbox serve            - Serve scenes over SSH
//	letterbox stats [scene]    - Show recorded runs
//
// Global flags:
//
//	--fps <rate>         - Override the tick rate
//	--mode <mode>        - Driver: auto, cooperative or blocking
//	--config <path>      - Loop configuration YAML
//	--db <path>          - Run database (default: ~/.letterbox/runs.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import scenes to register them
	_ "github.com/vovakirdan/letterbox/internal/scenes/bounce"
	_ "github.com/vovakirdan/letterbox/internal/scenes/orbit"
)

var (
	// Global flags
	flagFPS      int
	flagMode     string
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "letterbox",
	Short: "Letterbox - fixed-timestep scenes in your terminal",
	Long: `Letterbox runs scenes on a fixed-timestep loop and presents them at a
fixed logical resolution, scaled to fit the terminal with bars on the
sides or top and bottom.

Available commands:
  list     - Show all available scenes
  run      - Run a specific scene
  menu     - Interactive scene picker
  serve    - Start SSH server for remote sessions
  stats    - Browse recorded runs

Examples:
  letterbox list
  letterbox run bounce
  letterbox run orbit --mode blocking --fps 30
  letterbox serve --ssh :2222
  letterbox stats bounce --plain`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "", "Driver mode: auto, cooperative, blocking (empty = from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to loop config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.letterbox/runs.db", "Path to run database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}
