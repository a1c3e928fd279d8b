// Package scenes holds what the bundled demo scenes share: the design
// coordinate space they are authored in and the patrolling motion.
package scenes

import "github.com/vovakirdan/letterbox/internal/core"

// Design is the coordinate space scenes are authored in. It has the same
// aspect as the default logical grid once cells are counted as 1:2.
var Design = core.NewSize(640, 480)

// Patrol bounds and speed, in design units.
const (
	PatrolMin   = 200.0
	PatrolMax   = 400.0
	PatrolStart = 250.0
	PatrolSpeed = 100.0 // units per second
)

// Patrol moves back and forth between PatrolMin and PatrolMax. Direction
// flips on the step after a bound is crossed, so X may overshoot a bound
// by at most one step of travel.
type Patrol struct {
	X     float64
	Right bool
}

// NewPatrol returns a patrol at its start position, moving right.
func NewPatrol() Patrol {
	return Patrol{X: PatrolStart, Right: true}
}

// Step advances the patrol by dt seconds.
func (p *Patrol) Step(dt float64) {
	if p.Right {
		p.X += PatrolSpeed * dt
	} else {
		p.X -= PatrolSpeed * dt
	}

	if p.X > PatrolMax {
		p.Right = false
	} else if p.X < PatrolMin {
		p.Right = true
	}
}

// Project maps a rectangle in design units onto a grid of the given size.
// Non-empty rectangles keep at least one cell on each axis.
func Project(grid core.Size, r core.RectF) core.Rect {
	sx := float64(grid.W) / float64(Design.W)
	sy := float64(grid.H) / float64(Design.H)

	out := core.NewRectF(r.X*sx, r.Y*sy, r.W*sx, r.H*sy).Round()
	if r.W > 0 && out.W < 1 {
		out.W = 1
	}
	if r.H > 0 && out.H < 1 {
		out.H = 1
	}
	return out
}
