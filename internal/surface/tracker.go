// Package surface tracks the authoritative size and display mode of the
// presentation surface and caches the viewport derived from it.
package surface

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/viewport"
)

// DisplayMode is the windowed/fullscreen state of the surface.
type DisplayMode int

const (
	Windowed DisplayMode = iota
	Fullscreen
)

// String returns a human-readable name for the mode.
func (m DisplayMode) String() string {
	switch m {
	case Windowed:
		return "windowed"
	case Fullscreen:
		return "fullscreen"
	default:
		return "unknown"
	}
}

// PlatformSurface is the part of the windowing binding the tracker drives.
type PlatformSurface interface {
	// CurrentSize queries the size the platform currently reports.
	CurrentSize() core.Size
	// RequestResize asks the platform to resize the surface. The platform
	// may confirm later with a resize notification, or never.
	RequestResize(w, h int) error
	// SetDisplayMode switches between windowed and fullscreen.
	SetDisplayMode(mode DisplayMode) error
}

// Capabilities describes what the platform reports on its own.
type Capabilities struct {
	// ResizeNotifications is true when the platform delivers resize events.
	// Without them the tracker polls CurrentSize once per iteration.
	ResizeNotifications bool
	// RequestedResizeNotifications is true when the platform also reports
	// the outcome of its own RequestResize calls. Without it the tracker
	// re-queries CurrentSize on the next Poll after every request.
	RequestedResizeNotifications bool
}

// Geometry is the committed surface state. Size and Mode always change
// together; Revision increases on every change.
type Geometry struct {
	Size     core.Size
	Mode     DisplayMode
	Revision uint64
}

// Stats counts resize traffic.
type Stats struct {
	PlatformResizes  uint64 // sizes adopted from the platform
	ResizeRequests   uint64 // resize calls issued to the platform
	ResizeSuppressed uint64 // resize calls skipped as redundant
}

// Tracker is the single writer of the surface size and display mode.
// It is not safe for concurrent use.
type Tracker struct {
	logical  core.Size
	platform PlatformSurface
	caps     Capabilities
	logger   *log.Logger

	geom  Geometry
	stats Stats
	// unconfirmed is set after a resize request the platform may never
	// report back.
	unconfirmed bool

	// viewport cache, valid for cacheRev
	cacheRev  uint64
	cacheErr  error
	cached    bool
	lastValid bool
	vp        viewport.Viewport
	clip      viewport.ClipRegion
}

// NewTracker creates a tracker seeded with the platform's current size.
func NewTracker(logical core.Size, platform PlatformSurface, caps Capabilities, logger *log.Logger) (*Tracker, error) {
	if logical.Empty() {
		return nil, fmt.Errorf("surface: logical resolution %dx%d: %w", logical.W, logical.H, core.ErrConfiguration)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Tracker{
		logical:  logical,
		platform: platform,
		caps:     caps,
		logger:   logger,
		geom: Geometry{
			Size:     platform.CurrentSize(),
			Mode:     Windowed,
			Revision: 1,
		},
	}, nil
}

// Logical returns the fixed logical resolution.
func (t *Tracker) Logical() core.Size {
	return t.logical
}

// Capabilities returns the platform capabilities the tracker was built with.
func (t *Tracker) Capabilities() Capabilities {
	return t.caps
}

// Geometry returns the committed geometry.
func (t *Tracker) Geometry() Geometry {
	return t.geom
}

// Stats returns the resize counters.
func (t *Tracker) Stats() Stats {
	return t.stats
}

// OnPlatformResize adopts a size reported by the platform. Nothing is sent
// back to the platform since it already has this size.
func (t *Tracker) OnPlatformResize(w, h int) {
	size := core.NewSize(w, h)
	if size == t.geom.Size {
		return
	}
	t.logger.Debug("surface resized", "from", t.geom.Size, "to", size)
	t.stats.PlatformResizes++
	t.commit(size, t.geom.Mode)
}

// SetFullscreen switches display mode. Entering fullscreen targets the given
// size (the platform's current size when target is empty); leaving it
// targets the logical resolution. A resize is requested only when the
// platform size differs from the target on both axes.
func (t *Tracker) SetFullscreen(enable bool, target core.Size) error {
	mode := Windowed
	desired := t.logical
	current := t.platform.CurrentSize()
	if enable {
		mode = Fullscreen
		desired = target
		if desired.Empty() {
			desired = current
		}
	}

	prev := t.geom.Mode
	if mode != prev {
		if err := t.platform.SetDisplayMode(mode); err != nil {
			return fmt.Errorf("surface: set display mode %s: %w", mode, err)
		}
	}

	size := current
	if current.W != desired.W && current.H != desired.H {
		if err := t.platform.RequestResize(desired.W, desired.H); err != nil {
			err = fmt.Errorf("surface: request resize %dx%d: %w", desired.W, desired.H, err)
			if mode != prev {
				// Put the platform back in the mode the tracker still reports.
				if rerr := t.platform.SetDisplayMode(prev); rerr != nil {
					err = errors.Join(err, fmt.Errorf("surface: restore display mode %s: %w", prev, rerr))
				}
			}
			return err
		}
		t.stats.ResizeRequests++
		size = desired
		if !t.caps.RequestedResizeNotifications {
			t.unconfirmed = true
		}
		t.logger.Debug("resize requested", "mode", mode, "size", desired)
	} else {
		t.stats.ResizeSuppressed++
		t.logger.Debug("resize suppressed", "mode", mode, "platform", current, "desired", desired)
	}

	t.commit(size, mode)
	return nil
}

// OnPlatformFullscreen records a display mode change the platform already
// made, e.g. through its own window controls. Nothing is sent back to the
// platform. A non-empty size is adopted with the mode.
func (t *Tracker) OnPlatformFullscreen(enabled bool, size core.Size) {
	mode := Windowed
	if enabled {
		mode = Fullscreen
	}
	if size.Empty() {
		size = t.geom.Size
	}
	if mode == t.geom.Mode && size == t.geom.Size {
		return
	}
	t.logger.Debug("display mode changed by platform", "mode", mode, "size", size)
	if size != t.geom.Size {
		t.stats.PlatformResizes++
	}
	t.commit(size, mode)
}

// Poll compares the committed size against a fresh platform query when the
// platform does not deliver resize notifications, or when a resize request
// is still unconfirmed. It reports whether the size changed.
func (t *Tracker) Poll() bool {
	if t.caps.ResizeNotifications && !t.unconfirmed {
		return false
	}
	t.unconfirmed = false
	size := t.platform.CurrentSize()
	if size == t.geom.Size {
		return false
	}
	t.OnPlatformResize(size.W, size.H)
	return true
}

// Viewport returns the viewport and clip region for the committed geometry,
// recomputing only when the geometry changed. For a zero-area surface it
// returns the last valid viewport together with an error wrapping
// viewport.ErrInvalidGeometry; ok viewports are never replaced by invalid
// ones.
func (t *Tracker) Viewport() (viewport.Viewport, viewport.ClipRegion, error) {
	if !t.cached || t.cacheRev != t.geom.Revision {
		vp, clip, err := viewport.Compute(t.logical, t.geom.Size)
		if err == nil {
			t.vp, t.clip = vp, clip
			t.lastValid = true
		}
		t.cacheErr = err
		t.cacheRev = t.geom.Revision
		t.cached = true
	}
	if t.cacheErr != nil {
		return t.vp, t.clip, t.cacheErr
	}
	return t.vp, t.clip, nil
}

// HasViewport reports whether a valid viewport has ever been computed.
func (t *Tracker) HasViewport() bool {
	return t.lastValid
}

func (t *Tracker) commit(size core.Size, mode DisplayMode) {
	t.geom = Geometry{
		Size:     size,
		Mode:     mode,
		Revision: t.geom.Revision + 1,
	}
}
