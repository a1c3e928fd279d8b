package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/surface"
)

// TerminalSurface is the platform surface of a Bubble Tea program.
// Sizes arrive as WindowSizeMsg, fullscreen is the alternate screen, and
// resize requests use the xterm window manipulation sequence, which many
// terminals ignore.
type TerminalSurface struct {
	size    core.Size
	out     io.Writer
	pending []tea.Cmd
}

// NewTerminalSurface creates a surface with an initial size guess. Resize
// requests are written to out.
func NewTerminalSurface(initial core.Size, out io.Writer) *TerminalSurface {
	if out == nil {
		out = io.Discard
	}
	return &TerminalSurface{size: initial, out: out}
}

// SetSize records the size reported by the terminal.
func (s *TerminalSurface) SetSize(w, h int) {
	s.size = core.NewSize(w, h)
}

// CurrentSize returns the last size the terminal reported.
func (s *TerminalSurface) CurrentSize() core.Size {
	return s.size
}

// RequestResize asks the terminal emulator to resize its window.
func (s *TerminalSurface) RequestResize(w, h int) error {
	if _, err := fmt.Fprintf(s.out, "\x1b[8;%d;%dt", h, w); err != nil {
		return fmt.Errorf("tui: request resize: %w", err)
	}
	return nil
}

// SetDisplayMode switches between the normal and the alternate screen.
// The switch is applied by the program after the current update.
func (s *TerminalSurface) SetDisplayMode(mode surface.DisplayMode) error {
	if mode == surface.Fullscreen {
		s.pending = append(s.pending, tea.EnterAltScreen)
	} else {
		s.pending = append(s.pending, tea.ExitAltScreen)
	}
	return nil
}

// TakeCommands returns and clears the commands queued by SetDisplayMode.
func (s *TerminalSurface) TakeCommands() []tea.Cmd {
	cmds := s.pending
	s.pending = nil
	return cmds
}
