package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/letterbox/internal/config"
	"github.com/vovakirdan/letterbox/internal/loop"
	"github.com/vovakirdan/letterbox/internal/storage"
)

// loadConfig loads the configuration and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.Loop.TickRate = flagFPS
	}
	if flagMode != "" {
		cfg.Loop.Mode = flagMode
	}
	return cfg, cfg.Validate()
}

// newFileLogger logs to ~/.letterbox/letterbox.log, since the terminal
// belongs to the scene while it runs. The returned closer may be nil.
func newFileLogger() (*log.Logger, io.Closer) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
		level = log.InfoLevel
	}

	dir := config.Dir()
	if dir == "" {
		return log.New(io.Discard), nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "letterbox.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard), nil
	}

	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "letterbox",
		Level:           level,
	}), f
}

// newConsoleLogger logs to stderr, for commands that do not take over the
// terminal.
func newConsoleLogger(prefix string) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// openStore opens the run database. A nil store means runs are not
// recorded; the scene still works.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		return nil
	}
	return store
}

// recordRun saves finished run stats, logging failures.
func recordRun(store *storage.Store, logger *log.Logger, sceneID, host string, mode loop.Mode, tickRate int, stats loop.Stats) {
	if store == nil {
		return
	}
	_, err := store.SaveRun(storage.Run{
		SceneID:          sceneID,
		Host:             host,
		Mode:             string(mode),
		TickRate:         tickRate,
		Frames:           stats.Frames,
		Steps:            stats.Steps,
		Stalls:           stats.Stalls,
		SkippedDraws:     stats.SkippedDraws,
		ResizeRequests:   stats.Surface.ResizeRequests,
		ResizeSuppressed: stats.Surface.ResizeSuppressed,
		Duration:         stats.Duration,
	})
	if err != nil {
		logger.Error("could not record run", "scene", sceneID, "error", err)
	}
}

// terminalSize returns the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// screenshotDir is where the screenshot action writes.
func screenshotDir() string {
	dir := config.Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "screenshots")
}
