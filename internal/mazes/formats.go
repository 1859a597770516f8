package mazes

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/micromouse/internal/core"
)

// ErrBadFormat is returned when maze text cannot be parsed.
var ErrBadFormat = errors.New("mazes: bad format")

// ParseASCII parses the classic post-and-wall text format:
//
//	o---o---o
//	|       |
//	o   o---o
//	|   |   |
//	o---o---o
//
// Posts may be 'o', '+' or '*'. The first line is the north edge. Cell width
// is taken from the distance between the first two posts.
func ParseASCII(data []byte) (*Maze, error) {
	lines := splitLines(data)
	if len(lines) < 5 || len(lines)%2 == 0 {
		return nil, fmt.Errorf("%w: need an odd number of at least 5 lines, got %d", ErrBadFormat, len(lines))
	}
	top := lines[0]
	if len(top) == 0 || !isPost(top[0]) {
		return nil, fmt.Errorf("%w: first line must start with a post", ErrBadFormat)
	}
	stride := strings.IndexFunc(top[1:], func(r rune) bool { return isPost(byte(r)) }) + 1
	if stride < 2 {
		return nil, fmt.Errorf("%w: cannot find the second post on the first line", ErrBadFormat)
	}
	w := (len(top) - 1) / stride
	h := (len(lines) - 1) / 2
	if err := checkSize(w, h); err != nil {
		return nil, err
	}

	m := New(w, h)
	for r := 0; r < h; r++ {
		y := h - 1 - r
		cells := lines[2*r+1]
		below := lines[2*r+2]
		for x := 0; x < w; x++ {
			if x > 0 && charAt(cells, x*stride) == '|' {
				m.SetWall(core.C(x, y), core.West, true)
			}
			if y > 0 && strings.Contains(segment(below, x*stride+1, (x+1)*stride), "-") {
				m.SetWall(core.C(x, y), core.South, true)
			}
		}
	}
	return m, nil
}

// ParseNum parses the ".num" format: one line per cell holding
// "x y north east south west" with 1 marking a wall.
func ParseNum(data []byte) (*Maze, error) {
	type entry struct {
		x, y  int
		walls [4]bool
	}
	var entries []entry
	w, h := 0, 0

	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 6 {
			return nil, fmt.Errorf("%w: line %d: expected 6 fields, got %d", ErrBadFormat, line, len(fields))
		}
		var nums [6]int
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrBadFormat, line, err)
			}
			nums[i] = n
		}
		if nums[0] < 0 || nums[1] < 0 {
			return nil, fmt.Errorf("%w: line %d: negative coordinate", ErrBadFormat, line)
		}
		if nums[0] >= MaxSide || nums[1] >= MaxSide {
			return nil, fmt.Errorf("%w: line %d: cell (%d,%d) beyond %dx%d", ErrBadSize, line, nums[0], nums[1], MaxSide, MaxSide)
		}
		e := entry{x: nums[0], y: nums[1]}
		for i := 0; i < 4; i++ {
			e.walls[i] = nums[2+i] != 0
		}
		entries = append(entries, e)
		w = max(w, e.x+1)
		h = max(h, e.y+1)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading num maze: %w", err)
	}
	if err := checkSize(w, h); err != nil {
		return nil, err
	}

	m := New(w, h)
	for _, e := range entries {
		for i, wall := range e.walls {
			if wall {
				m.SetWall(core.C(e.x, e.y), core.Direction(i), true)
			}
		}
	}
	return m, nil
}

// YAMLMaze is the on-disk structure of a YAML maze file.
type YAMLMaze struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Size     *YAMLSize         `yaml:"size,omitempty"`
	Layout   string            `yaml:"layout"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize optionally pins the expected dimensions of the layout.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// ParseYAML parses a YAML maze whose layout is in the classic text format.
func ParseYAML(data []byte) (*Maze, error) {
	var ym YAMLMaze
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	m, err := ParseASCII([]byte(ym.Layout))
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if ym.Size != nil && (ym.Size.W != m.Width() || ym.Size.H != m.Height()) {
		return nil, fmt.Errorf("%w: size says %dx%d, layout is %dx%d",
			ErrBadFormat, ym.Size.W, ym.Size.H, m.Width(), m.Height())
	}
	m.ID = ym.ID
	m.Name = ym.Name
	return m, nil
}

// MarshalYAML encodes the maze as a YAML maze file.
func MarshalYAML(m *Maze) ([]byte, error) {
	return yaml.Marshal(YAMLMaze{
		ID:     m.ID,
		Name:   m.Name,
		Size:   &YAMLSize{W: m.Width(), H: m.Height()},
		Layout: m.String(),
	})
}

// FormatNum renders the maze in the ".num" format.
func FormatNum(m *Maze) string {
	var b strings.Builder
	for x := 0; x < m.Width(); x++ {
		for y := 0; y < m.Height(); y++ {
			c := core.C(x, y)
			fmt.Fprintf(&b, "%d %d", x, y)
			for _, d := range core.Directions {
				if m.HasWall(c, d) {
					b.WriteString(" 1")
				} else {
					b.WriteString(" 0")
				}
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".txt", ".maz", ".num", ".yaml", ".yml"}
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (*Maze, error) {
	switch ext {
	case ".txt", ".maz":
		return ParseASCII(data)
	case ".num":
		return ParseNum(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported extension: %s", ext)
	}
}

func splitLines(data []byte) []string {
	raw := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	var out []string
	for _, l := range raw {
		l = strings.TrimRight(l, " \t")
		if l == "" && len(out) == 0 {
			continue
		}
		out = append(out, l)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func isPost(b byte) bool {
	return b == 'o' || b == '+' || b == '*'
}

func charAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return ' '
	}
	return s[i]
}

func segment(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	return s[from:min(to, len(s))]
}
