package console

import (
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/vovakirdan/letterbox/internal/surface"
)

// RawMode puts the terminal in raw mode and hides the cursor for the
// lifetime of the engine. Release also leaves the alternate screen if the
// run ended in fullscreen.
type RawMode struct {
	fd      int
	out     io.Writer
	surface *Surface
	state   *term.State

	// makeRaw and restore default to the x/term functions.
	makeRaw func(fd int) (*term.State, error)
	restore func(fd int, state *term.State) error
}

// NewRawMode creates the backend for the terminal on fd.
func NewRawMode(fd int, out io.Writer, s *Surface) *RawMode {
	return &RawMode{
		fd:      fd,
		out:     out,
		surface: s,
		makeRaw: term.MakeRaw,
		restore: term.Restore,
	}
}

// Acquire enters raw mode.
func (r *RawMode) Acquire() error {
	state, err := r.makeRaw(r.fd)
	if err != nil {
		return fmt.Errorf("console: raw mode: %w", err)
	}
	r.state = state
	if _, err := io.WriteString(r.out, seqHideCursor+seqClear+seqHome); err != nil {
		_ = r.restore(r.fd, state)
		r.state = nil
		return fmt.Errorf("console: raw mode: %w", err)
	}
	return nil
}

// Release restores the terminal.
func (r *RawMode) Release() error {
	seq := seqShowCursor
	if r.surface != nil && r.surface.Mode() == surface.Fullscreen {
		seq = seqAltScreenOff + seq
	}
	_, werr := io.WriteString(r.out, seq+"\r\n")

	if r.state == nil {
		return werr
	}
	err := r.restore(r.fd, r.state)
	r.state = nil
	if err != nil {
		return fmt.Errorf("console: restore terminal: %w", err)
	}
	return werr
}
