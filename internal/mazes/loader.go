package mazes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader reads maze files from a directory tree.
type Loader struct {
	Root string
}

// NewLoader creates a new maze loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all maze files.
// Unparseable files are skipped. Returns mazes sorted by ID.
func (l *Loader) LoadAll() ([]*Maze, error) {
	var mazes []*Maze

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		m, err := LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}
		mazes = append(mazes, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(mazes, func(i, j int) bool {
		return mazes[i].ID < mazes[j].ID
	})
	return mazes, nil
}

// LoadByID loads a specific maze by ID.
func (l *Loader) LoadByID(id string) (*Maze, error) {
	mazes, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, m := range mazes {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, fmt.Errorf("maze not found: %s", id)
}

// LoadFile loads a single maze file. The ID defaults to the file name
// without extension.
func LoadFile(path string) (*Maze, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	m, err := parseByExtension(data, ext)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	if m.ID == "" {
		m.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	return m, nil
}

// Resolve loads ref as a built-in id first, then as a file path.
func Resolve(ref string) (*Maze, error) {
	if m, err := Builtin(ref); err == nil {
		return m, nil
	}
	if _, err := os.Stat(ref); err != nil {
		return nil, fmt.Errorf("mazes: %q is neither a built-in nor a readable file", ref)
	}
	return LoadFile(ref)
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
