package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/vovakirdan/letterbox/internal/loop"
	"github.com/vovakirdan/letterbox/internal/render"
)

// Painter draws composed frames from the top-left corner of the terminal.
type Painter struct {
	out        io.Writer
	compositor *render.Compositor
	styler     *render.Styler
	buf        strings.Builder
	revision   uint64
	drawn      bool
}

// NewPainter creates a painter writing to out.
func NewPainter(out io.Writer, c *render.Compositor, st *render.Styler) *Painter {
	return &Painter{out: out, compositor: c, styler: st}
}

// Draw implements loop.Renderer.
func (p *Painter) Draw(f loop.Frame) error {
	screen, err := p.compositor.Compose(f)
	if err != nil {
		return err
	}

	// Raw mode does not translate newlines.
	p.buf.Reset()
	if !p.drawn || f.Geometry.Revision != p.revision {
		p.buf.WriteString(seqClear)
		p.revision = f.Geometry.Revision
		p.drawn = true
	}
	p.buf.WriteString(seqHome)
	p.buf.WriteString(strings.ReplaceAll(p.styler.Render(screen), "\n", "\r\n"))

	if _, err := io.WriteString(p.out, p.buf.String()); err != nil {
		return fmt.Errorf("console: write frame: %w", err)
	}
	return nil
}
