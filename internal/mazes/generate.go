package mazes

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vovakirdan/micromouse/internal/core"
)

// ErrBadSize is returned for mazes smaller than 2x2 or wider or taller
// than MaxSide.
var ErrBadSize = errors.New("mazes: bad maze size")

// MaxSide is the largest width or height a maze may have.
const MaxSide = 255

func checkSize(w, h int) error {
	if w < 2 || h < 2 || w > MaxSide || h > MaxSide {
		return fmt.Errorf("%w: got %dx%d, want 2x2 to %dx%d", ErrBadSize, w, h, MaxSide, MaxSide)
	}
	return nil
}

// GenOptions tunes Generate.
type GenOptions struct {
	Seed int64

	// Loops removes this many extra interior walls after carving, turning
	// the perfect maze into one with alternative routes.
	Loops int

	// OpenGoal clears the walls inside the central 2x2 block.
	OpenGoal bool
}

// Generate carves a perfect maze with Wilson's algorithm: loop-erased
// random walks from unvisited cells until they hit the growing tree. The
// result is a uniform spanning tree, so every cell is reachable.
func Generate(w, h int, opts GenOptions) (*Maze, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	m := NewClosed(w, h)
	m.ID = fmt.Sprintf("wilson-%dx%d-%d", w, h, opts.Seed)
	m.Name = fmt.Sprintf("Wilson %dx%d (seed %d)", w, h, opts.Seed)

	size := m.size
	inTree := make([]bool, size.Area())
	exit := make([]core.Direction, size.Area())
	inTree[rng.Intn(size.Area())] = true

	order := rng.Perm(size.Area())
	for _, start := range order {
		if inTree[start] {
			continue
		}
		// Walk until the tree is hit, remembering only the last exit
		// taken from each cell. Overwriting erases loops.
		c := size.CellAt(start)
		for !inTree[size.Index(c)] {
			d := randomDirection(rng, size, c)
			exit[size.Index(c)] = d
			c = c.Step(d)
		}
		// Retrace the loop-erased path and carve it into the tree.
		c = size.CellAt(start)
		for !inTree[size.Index(c)] {
			i := size.Index(c)
			inTree[i] = true
			m.SetWall(c, exit[i], false)
			c = c.Step(exit[i])
		}
	}

	if opts.OpenGoal {
		openGoal(m)
	}
	if opts.Loops > 0 {
		addLoops(m, rng, opts.Loops)
	}
	return m, nil
}

func randomDirection(rng *rand.Rand, size core.Size, c core.Cell) core.Direction {
	for {
		d := core.Directions[rng.Intn(4)]
		if size.Contains(c.Step(d)) {
			return d
		}
	}
}

func openGoal(m *Maze) {
	g := m.size.GoalBlock()
	m.SetWall(g[0], core.East, false)
	m.SetWall(g[0], core.North, false)
	m.SetWall(g[3], core.West, false)
	m.SetWall(g[3], core.South, false)
}

type side struct {
	c core.Cell
	d core.Direction
}

// addLoops removes up to n random interior walls.
func addLoops(m *Maze, rng *rand.Rand, n int) {
	var candidates []side
	for i := 0; i < m.size.Area(); i++ {
		c := m.size.CellAt(i)
		for _, d := range []core.Direction{core.North, core.East} {
			if m.size.Contains(c.Step(d)) && m.HasWall(c, d) {
				candidates = append(candidates, side{c, d})
			}
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	for _, w := range candidates[:n] {
		m.SetWall(w.c, w.d, false)
	}
}
