// Package orbit implements a scene with two outlined boxes patrolling while
// bobbing on out-of-phase waves driven by the frame number.
package orbit

import (
	"fmt"
	"math"

	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/registry"
	"github.com/vovakirdan/letterbox/internal/scenes"
)

// Wave parameters in design units and radians per frame.
const (
	Phase         = 0.1
	BoxSize       = 200.0
	BoxY          = 150.0
	BoxAmplitude  = 50.0
	MoonSize      = 20.0
	MoonY         = 50.0
	MoonAmplitude = 30.0
)

// Scene is the orbit simulation.
type Scene struct {
	patrol scenes.Patrol
	frame  uint64
}

// New creates an orbit scene in its initial state.
func New() *Scene {
	s := &Scene{}
	s.Reset()
	return s
}

// ID returns the unique identifier for this scene.
func (s *Scene) ID() string {
	return "orbit"
}

// Title returns the display name for this scene.
func (s *Scene) Title() string {
	return "Orbit"
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

// Box returns the large box in design units.
func (s *Scene) Box() core.RectF {
	y := BoxY + BoxAmplitude*math.Sin(Phase*float64(s.frame))
	return core.NewRectF(s.patrol.X, y, BoxSize, BoxSize)
}

// Moon returns the small box in design units.
func (s *Scene) Moon() core.RectF {
	y := MoonY + MoonAmplitude*math.Cos(Phase*float64(s.frame))
	return core.NewRectF(s.patrol.X-100, y, MoonSize, MoonSize)
}

// Render draws both outlines.
func (s *Scene) Render(dst *core.Screen) {
	grid := dst.Size()
	dst.DrawBox(scenes.Project(grid, s.Box()), core.ColorBrightMagenta)
	dst.DrawBox(scenes.Project(grid, s.Moon()), core.ColorBrightYellow)
	dst.DrawText(0, 0, fmt.Sprintf("#%d", s.frame), core.ColorGray)
}

func init() {
	registry.Register("orbit", func() registry.Scene {
		return New()
	})
}
