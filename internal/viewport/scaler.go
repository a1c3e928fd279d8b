// Package viewport computes the aspect-correct draw rectangle for a fixed
// logical resolution inside an arbitrary surface.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/letterbox/internal/core"
)

// ErrInvalidGeometry is returned when either size has a zero or negative
// dimension, which leaves the aspect ratio undefined.
var ErrInvalidGeometry = errors.New("viewport: invalid geometry")

// Viewport is the sub-rectangle of the surface where logical content is
// drawn, in surface cells. Scaling is continuous so edges may be fractional.
type Viewport core.RectF

// ClipRegion bounds everything that may be drawn. The letterbox bars are its
// inverse: the renderer clears the whole surface, then restricts drawing to
// the clip region.
type ClipRegion core.RectF

// Compute fits logical into surface preserving the logical aspect ratio and
// centers the result. It is a pure function.
func Compute(logical, surface core.Size) (Viewport, ClipRegion, error) {
	if logical.Empty() {
		return Viewport{}, ClipRegion{}, fmt.Errorf("%w: logical resolution %dx%d", ErrInvalidGeometry, logical.W, logical.H)
	}
	if surface.Empty() {
		return Viewport{}, ClipRegion{}, fmt.Errorf("%w: surface %dx%d", ErrInvalidGeometry, surface.W, surface.H)
	}

	ratio := logical.Aspect()
	sw, sh := float64(surface.W), float64(surface.H)

	var vw, vh float64
	if sw/sh > ratio {
		// Surface is relatively wider: pillarbox.
		vh = sh
		vw = vh * ratio
	} else {
		// Surface is relatively taller (or equal): letterbox.
		vw = sw
		vh = vw / ratio
	}

	vp := Viewport{
		X: (sw - vw) / 2,
		Y: (sh - vh) / 2,
		W: vw,
		H: vh,
	}
	return vp, ClipRegion(vp), nil
}

// Rect returns the viewport as a fractional rectangle.
func (v Viewport) Rect() core.RectF {
	return core.RectF(v)
}

// Bounds returns the viewport snapped to whole surface cells.
func (v Viewport) Bounds() core.Rect {
	return core.RectF(v).Round()
}

// Bounds returns the clip region snapped to whole surface cells.
func (c ClipRegion) Bounds() core.Rect {
	return core.RectF(c).Round()
}

// Scale returns the surface-cells-per-logical-unit factor.
func (v Viewport) Scale(logical core.Size) float64 {
	if logical.W <= 0 {
		return 0
	}
	return v.W / float64(logical.W)
}

// ToLogical maps the center of surface cell (x, y) to the logical cell it
// samples. ok is false when the cell falls outside the viewport.
func (v Viewport) ToLogical(x, y int, logical core.Size) (lx, ly int, ok bool) {
	if v.W <= 0 || v.H <= 0 {
		return 0, 0, false
	}
	fx := (float64(x) + 0.5 - v.X) * float64(logical.W) / v.W
	fy := (float64(y) + 0.5 - v.Y) * float64(logical.H) / v.H
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	lx = int(math.Floor(fx))
	ly = int(math.Floor(fy))
	if lx >= logical.W || ly >= logical.H {
		return 0, 0, false
	}
	return lx, ly, true
}

// ToSurface maps a logical point to fractional surface coordinates.
func (v Viewport) ToSurface(lx, ly float64, logical core.Size) (float64, float64) {
	if logical.Empty() {
		return v.X, v.Y
	}
	return v.X + lx*v.W/float64(logical.W), v.Y + ly*v.H/float64(logical.H)
}
