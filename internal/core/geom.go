// Package core provides fundamental types shared by the loop, the scenes and
// the platform hosts. It contains no external dependencies (especially no
// Bubble Tea) to keep the timing and geometry code pure and testable.
package core

import "math"

// Size is a width/height pair. Depending on context it is measured in
// logical render units or in surface cells.
type Size struct {
	W, H int
}

// NewSize creates a size from the given dimensions.
func NewSize(w, h int) Size {
	return Size{W: w, H: h}
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Aspect returns W/H. It returns 0 for an empty size.
func (s Size) Aspect() float64 {
	if s.Empty() {
		return 0
	}
	return float64(s.W) / float64(s.H)
}

// Rect represents an integer axis-aligned rectangle.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// RectF is a rectangle with sub-cell precision. Viewports are RectF because
// scaling is continuous.
type RectF struct {
	X, Y float64
	W, H float64
}

// NewRectF creates a new fractional rectangle.
func NewRectF(x, y, w, h float64) RectF {
	return RectF{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r RectF) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r RectF) Bottom() float64 {
	return r.Y + r.H
}

// Round snaps the rectangle edges to the nearest whole cell. Edges are
// rounded independently so adjacent rectangles never overlap or leave gaps.
func (r RectF) Round() Rect {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	x1 := int(math.Round(r.Right()))
	y1 := int(math.Round(r.Bottom()))
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
