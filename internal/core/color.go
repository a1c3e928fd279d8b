package core

// Color represents a foreground color for a screen cell.
// The platform renderer maps each value to an ANSI 256-color code.
type Color uint8

// Palette used by scenes.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightMagenta
	ColorBrightYellow
	ColorGray
)

var colorNames = map[string]Color{
	"default":        ColorDefault,
	"red":            ColorRed,
	"green":          ColorGreen,
	"yellow":         ColorYellow,
	"blue":           ColorBlue,
	"magenta":        ColorMagenta,
	"cyan":           ColorCyan,
	"white":          ColorWhite,
	"bright-magenta": ColorBrightMagenta,
	"bright-yellow":  ColorBrightYellow,
	"gray":           ColorGray,
}

// ParseColor looks up a palette color by its config name.
func ParseColor(name string) (Color, bool) {
	c, ok := colorNames[name]
	return c, ok
}
