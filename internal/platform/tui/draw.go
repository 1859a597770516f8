package tui

import (
	"strconv"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/flood"
	"github.com/vovakirdan/micromouse/internal/mazes"
	"github.com/vovakirdan/micromouse/internal/wallmap"
)

// Canvas geometry of one maze cell: a post, three columns of interior, and
// a wall row above.
const (
	cellW = 4
	cellH = 2
)

// Labeler supplies per-cell colours and text, such as sim.Annotations.
type Labeler interface {
	Color(c core.Cell) core.Color
	Text(c core.Cell) string
}

// Scene is everything needed to draw one frame of a maze.
type Scene struct {
	Maze      *mazes.Maze
	Known     wallmap.View // walls the solver has seen; nil shows true walls only
	Field     *flood.Field // drawn instead of labels when ShowField is set
	Marks     Labeler
	Robot     core.Pose
	ShowRobot bool
	ShowField bool
}

// CanvasSize returns the canvas dimensions needed for a maze.
func CanvasSize(size core.Size) (w, h int) {
	return size.W*cellW + 1, size.H*cellH + 1
}

var headingRunes = [4]rune{'^', '>', 'v', '<'}

// DrawScene draws sc onto c, north row at the top. Walls the solver knows
// are white; true walls it has not seen yet are gray.
func DrawScene(c *core.Canvas, sc Scene) {
	c.Clear()
	size := sc.Maze.Size()

	for gy := 0; gy <= size.H; gy++ {
		for gx := 0; gx <= size.W; gx++ {
			c.Set(gx*cellW, gy*cellH, 'o', core.ColorGray)
		}
	}

	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			cell := core.C(x, y)
			col, top := x*cellW, (size.H-1-y)*cellH

			drawWall(c, col, top, sc, cell, core.North)
			drawWall(c, col, top, sc, cell, core.West)
			if x == size.W-1 {
				drawWall(c, col, top, sc, cell, core.East)
			}
			if y == 0 {
				drawWall(c, col, top, sc, cell, core.South)
			}

			drawInterior(c, col, top+1, sc, cell)
		}
	}
}

// wallColor returns the colour of side (cell, d) and whether it is a wall.
func wallColor(sc Scene, cell core.Cell, d core.Direction) (core.Color, bool) {
	switch {
	case sc.Known != nil && !sc.Known.Open(cell, d):
		return core.ColorWhite, true
	case sc.Maze.HasWall(cell, d):
		if sc.Known == nil {
			return core.ColorWhite, true
		}
		return core.ColorGray, true
	}
	return core.ColorDefault, false
}

// drawWall draws side d of the cell whose top-left post is at (col, top).
func drawWall(c *core.Canvas, col, top int, sc Scene, cell core.Cell, d core.Direction) {
	color, wall := wallColor(sc, cell, d)
	if !wall {
		return
	}
	switch d {
	case core.North, core.South:
		row := top
		if d == core.South {
			row += cellH
		}
		for i := 1; i < cellW; i++ {
			c.Set(col+i, row, '-', color)
		}
	case core.West:
		c.Set(col, top+1, '|', color)
	case core.East:
		c.Set(col+cellW, top+1, '|', color)
	}
}

func drawInterior(c *core.Canvas, col, row int, sc Scene, cell core.Cell) {
	color := core.ColorDefault
	text := ""
	if sc.Marks != nil {
		color = sc.Marks.Color(cell)
		text = sc.Marks.Text(cell)
	}
	if sc.ShowField && sc.Field != nil {
		text = "-"
		if sc.Field.Reachable(cell) {
			text = strconv.Itoa(sc.Field.At(cell))
		}
	}

	if len(text) > cellW-1 {
		text = text[:cellW-1]
	}
	// Right-align within the three interior columns.
	start := col + cellW - len(text)
	for i := 1; i < cellW; i++ {
		c.Tint(col+i, row, color)
	}
	c.DrawText(start, row, text, color)

	if sc.ShowRobot && sc.Robot.Cell == cell {
		c.Set(col+cellW/2, row, headingRunes[sc.Robot.Heading%4], core.ColorRed)
	}
}
