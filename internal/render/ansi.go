package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/letterbox/internal/core"
)

// palette maps core.Color to ANSI color codes.
var palette = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightYellow:  "11",
	core.ColorBrightMagenta: "13",
	core.ColorGray:          "240",
}

// Styler converts screens to styled strings for one lipgloss renderer.
// SSH sessions each get their own renderer so color profiles match the
// client terminal.
type Styler struct {
	styles map[core.Color]lipgloss.Style
}

// NewStyler builds styles for r. A nil renderer uses the default one.
func NewStyler(r *lipgloss.Renderer) *Styler {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	styles := map[core.Color]lipgloss.Style{
		core.ColorDefault: r.NewStyle(),
	}
	for c, code := range palette {
		styles[c] = r.NewStyle().Foreground(lipgloss.Color(code))
	}
	return &Styler{styles: styles}
}

// Render converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (st *Styler) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := st.styles[startColor]
			if !ok {
				style = st.styles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
