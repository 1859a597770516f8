package mazes

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed builtin/*
var builtinFS embed.FS

// generated lists built-ins that are produced in code rather than read
// from embedded files.
var generated = map[string]func() (*Maze, error){
	"open-16x16": func() (*Maze, error) {
		m := New(16, 16)
		m.Name = "Open 16x16"
		return m, nil
	},
	"wilson-16x16": func() (*Maze, error) {
		m, err := Generate(16, 16, GenOptions{Seed: 2026, Loops: 12, OpenGoal: true})
		if err != nil {
			return nil, err
		}
		m.Name = "Wilson 16x16 with loops"
		return m, nil
	},
}

// Builtin returns a fresh copy of the built-in maze with the given id.
func Builtin(id string) (*Maze, error) {
	if gen, ok := generated[id]; ok {
		m, err := gen()
		if err != nil {
			return nil, err
		}
		m.ID = id
		return m, nil
	}

	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, fmt.Errorf("reading built-in mazes: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		ext := path.Ext(name)
		if strings.TrimSuffix(name, ext) != id {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading built-in maze %s: %w", id, err)
		}
		m, err := parseByExtension(data, ext)
		if err != nil {
			return nil, fmt.Errorf("parsing built-in maze %s: %w", id, err)
		}
		m.ID = id
		if m.Name == "" {
			m.Name = id
		}
		return m, nil
	}
	return nil, fmt.Errorf("mazes: unknown built-in %q", id)
}

// BuiltinIDs returns all built-in maze ids in sorted order.
func BuiltinIDs() []string {
	ids := make([]string, 0, len(generated)+8)
	for id := range generated {
		ids = append(ids, id)
	}
	entries, _ := builtinFS.ReadDir("builtin")
	for _, e := range entries {
		name := e.Name()
		ids = append(ids, strings.TrimSuffix(name, path.Ext(name)))
	}
	sort.Strings(ids)
	return ids
}
