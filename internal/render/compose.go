// Package render turns a scene and a presented loop frame into terminal
// output: the scene draws into a logical-sized buffer which is sampled
// into a surface-sized buffer with letterbox bars around it.
package render

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/loop"
	"github.com/vovakirdan/letterbox/internal/surface"
)

// ErrNotDrawable is returned when a frame's simulation cannot draw itself.
var ErrNotDrawable = errors.New("render: simulation is not drawable")

// Drawable is implemented by simulations that can draw their state.
type Drawable interface {
	Render(dst *core.Screen)
}

// BarShade fills bars drawn in a non-default color.
const BarShade = '░'

// Bars holds the bar color per display mode.
type Bars struct {
	Windowed   core.Color
	Fullscreen core.Color
}

// Cell returns the cell the bars are filled with in the given mode.
// The terminal default color leaves the bars blank.
func (b Bars) Cell(mode surface.DisplayMode) core.Cell {
	c := b.Windowed
	if mode == surface.Fullscreen {
		c = b.Fullscreen
	}
	if c == core.ColorDefault {
		return core.Cell{Rune: ' ', Color: core.ColorDefault}
	}
	return core.Cell{Rune: BarShade, Color: c}
}

// Compositor owns the logical and surface buffers. It is reused across
// frames and reallocates the surface buffer only when the size changes.
type Compositor struct {
	logical *core.Screen
	surface *core.Screen
	bars    Bars
}

// NewCompositor creates a compositor for the given logical resolution.
func NewCompositor(logical core.Size, bars Bars) *Compositor {
	return &Compositor{
		logical: core.NewScreen(logical.W, logical.H),
		bars:    bars,
	}
}

// Logical returns the logical buffer as of the last Compose.
func (c *Compositor) Logical() *core.Screen {
	return c.logical
}

// Compose draws the frame's simulation and projects it onto the surface.
func (c *Compositor) Compose(f loop.Frame) (*core.Screen, error) {
	d, ok := f.State.(Drawable)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotDrawable, f.State)
	}

	c.logical.Clear()
	d.Render(c.logical)

	size := f.Geometry.Size
	if c.surface == nil || c.surface.Size() != size {
		c.surface = core.NewScreen(size.W, size.H)
	}
	Project(c.surface, c.logical, f, c.bars.Cell(f.Geometry.Mode))
	return c.surface, nil
}

// Project samples src into dst through the frame's viewport. Cells outside
// the clip region get the bar cell.
func Project(dst, src *core.Screen, f loop.Frame, bar core.Cell) {
	clip := f.Clip.Bounds()
	logical := src.Size()

	// A viewport left over from a larger surface may miss dst entirely.
	bounds := core.NewRect(0, 0, dst.Width(), dst.Height())
	if !clip.Intersects(bounds) {
		dst.DrawRect(bounds, bar.Rune, bar.Color)
		return
	}

	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			cell := bar
			if clip.Contains(x, y) {
				if lx, ly, ok := f.Viewport.ToLogical(x, y, logical); ok {
					cell = src.GetCell(lx, ly)
				}
			}
			dst.SetColor(x, y, cell.Rune, cell.Color)
		}
	}
}
