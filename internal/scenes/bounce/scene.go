// Package bounce implements a scene with two filled blocks patrolling
// side by side.
package bounce

import (
	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/registry"
	"github.com/vovakirdan/letterbox/internal/scenes"
)

const (
	BlockChar = '█'
	BlockSize = 200.0 // design units
	TokenSize = 30.0
)

// Scene is the bounce simulation.
type Scene struct {
	patrol scenes.Patrol
	frame  uint64
}

// New creates a bounce scene in its initial state.
func New() *Scene {
	s := &Scene{}
	s.Reset()
	return s
}

// ID returns the unique identifier for this scene.
func (s *Scene) ID() string {
	return "bounce"
}

// Title returns the display name for this scene.
func (s *Scene) Title() string {
	return "Bounce"
}

// Reset restores the initial state.
func (s *Scene) Reset() {
	s.patrol = scenes.NewPatrol()
	s.frame = 0
}

// Step advances the scene by dt seconds.
func (s *Scene) Step(dt float64) {
	s.patrol.Step(dt)
	s.frame++
}

// Frame returns the number of steps since Reset.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// X returns the block's horizontal position in design units.
func (s *Scene) X() float64 {
	return s.patrol.X
}

// Render draws the blocks.
func (s *Scene) Render(dst *core.Screen) {
	grid := dst.Size()
	x := s.patrol.X

	block := scenes.Project(grid, core.NewRectF(x, 150, BlockSize, BlockSize))
	dst.DrawRect(block, BlockChar, core.ColorBrightMagenta)

	token := scenes.Project(grid, core.NewRectF(x-100, 50, TokenSize, TokenSize))
	dst.DrawRect(token, BlockChar, core.ColorBrightYellow)
}

func init() {
	registry.Register("bounce", func() registry.Scene {
		return New()
	})
}
