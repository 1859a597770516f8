package core

import "strings"

// Glyph is one character position on a Canvas.
type Glyph struct {
	Rune  rune
	Color Color
}

// Canvas is a 2D character buffer for drawing mazes.
// It decouples drawing from the terminal: renderers fill runes and colours
// while the platform layer turns the buffer into styled output.
type Canvas struct {
	width  int
	height int
	cells  [][]Glyph
}

// NewCanvas creates a canvas with the given dimensions, filled with spaces.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
	}
	c.cells = make([][]Glyph, height)
	for y := range c.cells {
		c.cells[y] = make([]Glyph, width)
	}
	c.Clear()
	return c
}

// Width returns the canvas width in characters.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in characters.
func (c *Canvas) Height() int {
	return c.height
}

// Clear fills the entire canvas with uncoloured spaces.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Glyph{Rune: ' '}
		}
	}
}

// Set places a rune with the given colour.
// Out-of-bounds coordinates are silently ignored.
func (c *Canvas) Set(x, y int, r rune, color Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = Glyph{Rune: r, Color: color}
}

// Tint changes the colour at a position and keeps the rune.
func (c *Canvas) Tint(x, y int, color Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x].Color = color
}

// Get returns the glyph at the given position.
// Returns a blank glyph for out-of-bounds coordinates.
func (c *Canvas) Get(x, y int) Glyph {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Glyph{Rune: ' '}
	}
	return c.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters beyond the canvas bounds are clipped.
func (c *Canvas) DrawText(x, y int, text string, color Color) {
	i := 0
	for _, r := range text {
		c.Set(x+i, y, r, color)
		i++
	}
}

// String converts the canvas to plain text, one row per line.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height + c.height)

	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < c.width; x++ {
			sb.WriteRune(c.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the specified row as plain text.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.height {
		return strings.Repeat(" ", c.width)
	}
	var sb strings.Builder
	for _, g := range c.cells[y] {
		sb.WriteRune(g.Rune)
	}
	return sb.String()
}
