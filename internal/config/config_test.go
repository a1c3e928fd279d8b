package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/letterbox/internal/core"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(defaultLoopYAML, &cfg); err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded default = %+v, expected %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("embedded default invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"default", func(*Config) {}, true},
		{"zero tick rate", func(c *Config) { c.Loop.TickRate = 0 }, false},
		{"negative tick rate", func(c *Config) { c.Loop.TickRate = -30 }, false},
		{"zero stall steps", func(c *Config) { c.Loop.StallSteps = 0 }, false},
		{"one stall step", func(c *Config) { c.Loop.StallSteps = 1 }, true},
		{"zero width", func(c *Config) { c.Display.LogicalWidth = 0 }, false},
		{"negative height", func(c *Config) { c.Display.LogicalHeight = -1 }, false},
		{"blocking mode", func(c *Config) { c.Loop.Mode = "blocking" }, true},
		{"unknown mode", func(c *Config) { c.Loop.Mode = "threaded" }, false},
		{"unknown bar color", func(c *Config) { c.Display.BarColor = "mauve" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() error = %v, expected nil", err)
			}
			if !tt.valid && !errors.Is(err, core.ErrConfiguration) {
				t.Errorf("Validate() error = %v, expected ErrConfiguration", err)
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.yaml")
	data := "loop:\n  tick_rate: 30\ndisplay:\n  logical_width: 40\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Loop.TickRate != 30 {
		t.Errorf("TickRate = %d, expected 30", cfg.Loop.TickRate)
	}
	if cfg.Logical() != core.NewSize(40, 30) {
		t.Errorf("Logical() = %v, expected 40x30", cfg.Logical())
	}
	// Unset keys keep their defaults.
	if cfg.Loop.StallSteps != 10 {
		t.Errorf("StallSteps = %d, expected 10", cfg.Loop.StallSteps)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load(missing) expected error")
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.yaml")
	os.WriteFile(path, []byte("loop:\n  tick_rate: 0\n"), 0o644)

	_, err := Load(path)
	if !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Load() error = %v, expected ErrConfiguration", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.yaml")
	os.WriteFile(path, []byte("loop: [unterminated"), 0o644)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("Load() error = %v, expected parse error", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.yaml")
	os.WriteFile(path, []byte("loop:\n  tick_rate: 30\n"), 0o644)

	t.Setenv("LETTERBOX_TICK_RATE", "120")
	t.Setenv("LETTERBOX_LOGICAL_HEIGHT", "24")
	t.Setenv("LETTERBOX_MODE", "blocking")
	t.Setenv("LETTERBOX_FULLSCREEN", "true")
	t.Setenv("LETTERBOX_SCENE", "orbit")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Loop.TickRate != 120 {
		t.Errorf("TickRate = %d, expected 120", cfg.Loop.TickRate)
	}
	if cfg.Display.LogicalHeight != 24 || cfg.Display.LogicalWidth != 80 {
		t.Errorf("logical = %dx%d, expected 80x24", cfg.Display.LogicalWidth, cfg.Display.LogicalHeight)
	}
	if cfg.Loop.Mode != "blocking" || !cfg.Display.Fullscreen || cfg.Scene != "orbit" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestEnvOverrideInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.yaml")
	os.WriteFile(path, []byte("{}\n"), 0o644)
	t.Setenv("LETTERBOX_TICK_RATE", "fast")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Errorf("Load() error = %v, expected parse env error", err)
	}
}

func TestBarColors(t *testing.T) {
	cfg := Default()
	windowed, fullscreen, err := cfg.BarColors()
	if err != nil {
		t.Fatalf("BarColors() error = %v", err)
	}
	if windowed != core.ColorDefault || fullscreen != core.ColorGray {
		t.Errorf("BarColors() = %v, %v, expected default, gray", windowed, fullscreen)
	}
}
