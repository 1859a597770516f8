package core

// Color represents a foreground colour for a canvas cell or a maze annotation.
// Renderers map these to terminal colours.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// ParseColor maps the single-letter annotation codes used by maze simulators
// (R, G, Y, B, C, ...) to a Color. Unknown codes map to ColorDefault.
func ParseColor(code rune) Color {
	switch code {
	case 'R', 'r':
		return ColorRed
	case 'G', 'g':
		return ColorGreen
	case 'Y', 'y':
		return ColorYellow
	case 'B', 'b':
		return ColorBlue
	case 'M', 'm':
		return ColorMagenta
	case 'C', 'c':
		return ColorCyan
	case 'W', 'w':
		return ColorWhite
	case 'O', 'o':
		return ColorOrange
	case 'A', 'a':
		return ColorGray
	default:
		return ColorDefault
	}
}
