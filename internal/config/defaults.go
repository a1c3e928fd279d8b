package config

import (
	_ "embed"
)

//go:embed defaults/loop.yaml
var defaultLoopYAML []byte

// Default returns the built-in configuration. It matches defaults/loop.yaml.
func Default() Config {
	return Config{
		Loop: LoopConfig{
			TickRate:   60,
			StallSteps: 10,
			Mode:       "auto",
		},
		Display: DisplayConfig{
			LogicalWidth:       80,
			LogicalHeight:      30,
			BarColor:           "default",
			FullscreenBarColor: "gray",
		},
		Scene: "bounce",
	}
}
