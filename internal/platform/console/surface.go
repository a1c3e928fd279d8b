// Package console hosts a scene on a raw-mode terminal with a blocking
// loop. The terminal size is polled every iteration.
package console

import (
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/surface"
)

// Escape sequences written to the terminal.
const (
	seqAltScreenOn  = "\x1b[?1049h"
	seqAltScreenOff = "\x1b[?1049l"
	seqHideCursor   = "\x1b[?25l"
	seqShowCursor   = "\x1b[?25h"
	seqClear        = "\x1b[2J"
	seqHome         = "\x1b[H"
)

// SizeFunc reports the size of the terminal on fd.
type SizeFunc func(fd int) (width, height int, err error)

// Surface is a polled terminal surface. Fullscreen is the alternate
// screen buffer.
type Surface struct {
	fd      int
	out     io.Writer
	getSize SizeFunc
	mode    surface.DisplayMode
}

// NewSurface creates a surface for the terminal on fd. A nil getSize uses
// term.GetSize.
func NewSurface(fd int, out io.Writer, getSize SizeFunc) *Surface {
	if getSize == nil {
		getSize = term.GetSize
	}
	return &Surface{fd: fd, out: out, getSize: getSize}
}

// CurrentSize queries the terminal. A failed query reports an empty size,
// which suspends drawing until the terminal answers again.
func (s *Surface) CurrentSize() core.Size {
	w, h, err := s.getSize(s.fd)
	if err != nil {
		return core.Size{}
	}
	return core.NewSize(w, h)
}

// RequestResize asks the terminal emulator to resize its window.
func (s *Surface) RequestResize(w, h int) error {
	if _, err := fmt.Fprintf(s.out, "\x1b[8;%d;%dt", h, w); err != nil {
		return fmt.Errorf("console: request resize: %w", err)
	}
	return nil
}

// SetDisplayMode switches the alternate screen on or off.
func (s *Surface) SetDisplayMode(mode surface.DisplayMode) error {
	seq := seqAltScreenOff
	if mode == surface.Fullscreen {
		seq = seqAltScreenOn
	}
	if _, err := io.WriteString(s.out, seq+seqClear); err != nil {
		return fmt.Errorf("console: set display mode: %w", err)
	}
	s.mode = mode
	return nil
}

// Mode returns the display mode last applied.
func (s *Surface) Mode() surface.DisplayMode {
	return s.mode
}
