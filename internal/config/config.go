// Package config provides YAML-based loop configuration with environment
// overrides and validation.
package config

import (
	"fmt"

	"github.com/vovakirdan/letterbox/internal/core"
)

// Config is the complete runtime configuration.
type Config struct {
	Loop    LoopConfig    `yaml:"loop"`
	Display DisplayConfig `yaml:"display"`
	Scene   string        `yaml:"scene" env:"LETTERBOX_SCENE"`
}

// LoopConfig controls timing and the driver strategy.
type LoopConfig struct {
	TickRate   int    `yaml:"tick_rate" env:"LETTERBOX_TICK_RATE"`
	StallSteps int    `yaml:"stall_steps" env:"LETTERBOX_STALL_STEPS"`
	Mode       string `yaml:"mode" env:"LETTERBOX_MODE"` // "auto", "cooperative" or "blocking"
}

// DisplayConfig controls the logical grid and the bars around it.
type DisplayConfig struct {
	LogicalWidth       int    `yaml:"logical_width" env:"LETTERBOX_LOGICAL_WIDTH"`
	LogicalHeight      int    `yaml:"logical_height" env:"LETTERBOX_LOGICAL_HEIGHT"`
	Fullscreen         bool   `yaml:"fullscreen" env:"LETTERBOX_FULLSCREEN"`
	BarColor           string `yaml:"bar_color"`
	FullscreenBarColor string `yaml:"fullscreen_bar_color"`
}

// Logical returns the logical resolution.
func (c Config) Logical() core.Size {
	return core.NewSize(c.Display.LogicalWidth, c.Display.LogicalHeight)
}

// BarColors resolves the configured bar colors for windowed and
// fullscreen mode.
func (c Config) BarColors() (windowed, fullscreen core.Color, err error) {
	windowed, ok := core.ParseColor(c.Display.BarColor)
	if !ok {
		return 0, 0, fmt.Errorf("config: bar_color %q: %w", c.Display.BarColor, core.ErrConfiguration)
	}
	fullscreen, ok = core.ParseColor(c.Display.FullscreenBarColor)
	if !ok {
		return 0, 0, fmt.Errorf("config: fullscreen_bar_color %q: %w", c.Display.FullscreenBarColor, core.ErrConfiguration)
	}
	return windowed, fullscreen, nil
}

// Validate rejects settings the loop cannot run with.
func (c Config) Validate() error {
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate must be positive, got %d: %w", c.Loop.TickRate, core.ErrConfiguration)
	}
	if c.Loop.StallSteps < 1 {
		return fmt.Errorf("config: stall_steps must be at least 1, got %d: %w", c.Loop.StallSteps, core.ErrConfiguration)
	}
	if c.Display.LogicalWidth <= 0 || c.Display.LogicalHeight <= 0 {
		return fmt.Errorf("config: logical resolution %dx%d: %w",
			c.Display.LogicalWidth, c.Display.LogicalHeight, core.ErrConfiguration)
	}
	switch c.Loop.Mode {
	case "", "auto", "cooperative", "blocking":
	default:
		return fmt.Errorf("config: unknown mode %q: %w", c.Loop.Mode, core.ErrConfiguration)
	}
	if _, _, err := c.BarColors(); err != nil {
		return err
	}
	return nil
}
