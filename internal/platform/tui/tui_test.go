package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/mazes"
	"github.com/vovakirdan/micromouse/internal/sim"
	"github.com/vovakirdan/micromouse/internal/storage"
	"github.com/vovakirdan/micromouse/internal/wallmap"

	_ "github.com/vovakirdan/micromouse/internal/engine" // registers search-run
)

func mustBuiltin(t *testing.T, id string) *mazes.Maze {
	t.Helper()
	m, err := mazes.Builtin(id)
	if err != nil {
		t.Fatalf("Builtin(%q) failed: %v", id, err)
	}
	return m
}

type fakeMarks map[core.Cell]string

func (f fakeMarks) Color(c core.Cell) core.Color {
	if _, ok := f[c]; ok {
		return core.ColorCyan
	}
	return core.ColorDefault
}

func (f fakeMarks) Text(c core.Cell) string { return f[c] }

func TestDrawSceneMatchesMazeText(t *testing.T) {
	m := mustBuiltin(t, "tiny-4x4")
	w, h := CanvasSize(m.Size())
	c := core.NewCanvas(w, h)

	DrawScene(c, Scene{Maze: m})

	if got, want := c.String()+"\n", m.String(); got != want {
		t.Errorf("DrawScene() =\n%s\nwant\n%s", got, want)
	}
}

func TestDrawSceneKnownWalls(t *testing.T) {
	m := mazes.New(3, 3)
	m.SetWall(core.C(1, 1), core.North, true)

	known := wallmap.New(m.Size())
	w, h := CanvasSize(m.Size())
	c := core.NewCanvas(w, h)

	// Unseen wall is gray.
	DrawScene(c, Scene{Maze: m, Known: known})
	// The north side of (1,1) lies on row (3-1-1)*2.
	g := c.Get(1*cellW+1, 2)
	if g.Rune != '-' || g.Color != core.ColorGray {
		t.Errorf("unseen wall = %q/%v, want gray '-'", g.Rune, g.Color)
	}

	// Once recorded it turns white.
	known.Add(core.C(1, 1), core.North)
	DrawScene(c, Scene{Maze: m, Known: known})
	g = c.Get(1*cellW+1, 2)
	if g.Rune != '-' || g.Color != core.ColorWhite {
		t.Errorf("known wall = %q/%v, want white '-'", g.Rune, g.Color)
	}
}

func TestDrawSceneRobotAndLabels(t *testing.T) {
	m := mazes.New(2, 2)
	w, h := CanvasSize(m.Size())
	c := core.NewCanvas(w, h)

	DrawScene(c, Scene{
		Maze:      m,
		Marks:     fakeMarks{core.C(1, 1): "12"},
		Robot:     core.Pose{Cell: core.C(0, 0), Heading: core.East},
		ShowRobot: true,
	})

	// (0,0) is the bottom-left cell: interior row 3, centre column 2.
	if g := c.Get(2, 3); g.Rune != '>' || g.Color != core.ColorRed {
		t.Errorf("robot glyph = %q/%v, want red '>'", g.Rune, g.Color)
	}
	// (1,1) is top-right: interior row 1, columns 5..7, right-aligned.
	if got := c.Row(1)[5:8]; got != " 12" {
		t.Errorf("label = %q, want \" 12\"", got)
	}
	if g := c.Get(7, 1); g.Color != core.ColorCyan {
		t.Errorf("label colour = %v, want cyan", g.Color)
	}
}

func TestRenderCanvasKeepsText(t *testing.T) {
	c := core.NewCanvas(5, 1)
	c.DrawText(0, 0, "ab", core.ColorRed)
	c.DrawText(2, 0, "cde", core.ColorGray)

	out := RenderCanvas(c)
	if !strings.Contains(out, "ab") || !strings.Contains(out, "cde") {
		t.Errorf("RenderCanvas() lost text: %q", out)
	}
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m WatchModel, msg tea.Msg) WatchModel {
	t.Helper()
	next, _ := m.Update(msg)
	wm, ok := next.(WatchModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return wm
}

func TestWatchModelRunsToCompletionAndSaves(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m, err := NewWatchModel(WatchConfig{
		Maze:     mustBuiltin(t, "tiny-4x4"),
		SolverID: "search-run",
		Store:    store,
	})
	if err != nil {
		t.Fatalf("NewWatchModel() failed: %v", err)
	}
	if m.Init() == nil {
		t.Error("Init() should start the tick loop")
	}

	for i := 0; i < sim.DefaultMaxTicks && m.Result() == nil; i++ {
		m = update(t, m, TickMsg{})
	}

	res := m.Result()
	if res == nil {
		t.Fatal("run never finished")
	}
	if !res.Reached {
		t.Errorf("goal not reached: %+v", res.Final)
	}
	if !m.paused {
		t.Error("watcher should pause once the run is over")
	}

	runs, err := store.RecentRuns("tiny-4x4", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != m.runID {
		t.Errorf("expected the run to be saved once, got %v", runs)
	}

	// Further ticks do nothing.
	ticks := m.sim.Stats().Ticks
	m = update(t, m, TickMsg{})
	if m.sim.Stats().Ticks != ticks {
		t.Error("finished run kept ticking")
	}

	if v := m.View(); !strings.Contains(v, "goal in 2 moves") {
		t.Errorf("View() missing result line:\n%s", v)
	}
}

func TestWatchModelKeys(t *testing.T) {
	m, err := NewWatchModel(WatchConfig{
		Maze:     mustBuiltin(t, "open-16x16"),
		SolverID: "search-run",
		TickRate: 10,
		NewMaze: func(seed int64) (*mazes.Maze, error) {
			return mazes.Generate(5, 5, mazes.GenOptions{Seed: seed})
		},
	})
	if err != nil {
		t.Fatalf("NewWatchModel() failed: %v", err)
	}

	m = update(t, m, keyMsg(" "))
	if !m.paused {
		t.Fatal("space should pause")
	}
	m = update(t, m, TickMsg{})
	if m.sim.Stats().Ticks != 0 {
		t.Error("paused watcher ticked")
	}

	m = update(t, m, keyMsg("."))
	if m.sim.Stats().Ticks != 1 {
		t.Errorf("single step ran %d ticks", m.sim.Stats().Ticks)
	}

	m = update(t, m, keyMsg("+"))
	if m.tickRate != 20 {
		t.Errorf("tick rate = %d, want 20", m.tickRate)
	}
	m = update(t, m, keyMsg("-"))
	m = update(t, m, keyMsg("-"))
	if m.tickRate != 5 {
		t.Errorf("tick rate = %d, want 5", m.tickRate)
	}

	m = update(t, m, keyMsg("r"))
	if m.sim.Stats().Ticks != 0 {
		t.Error("restart kept the old simulation")
	}

	before := m.sim.Solver().ID()
	m = update(t, m, keyMsg("s"))
	if m.sim.Solver().ID() == before {
		t.Error("next solver did not switch")
	}

	m = update(t, m, keyMsg("n"))
	if m.cfg.Maze.Width() != 5 {
		t.Errorf("new maze has width %d, want 5", m.cfg.Maze.Width())
	}

	m = update(t, m, keyMsg("f"))
	if !m.showField {
		t.Error("f should toggle the distance view")
	}

	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil || !next.(WatchModel).IsQuitting() {
		t.Error("q should quit")
	}
}

func TestWatchModelUnknownSolver(t *testing.T) {
	if _, err := NewWatchModel(WatchConfig{Maze: mustBuiltin(t, "tiny-4x4"), SolverID: "nope"}); err == nil {
		t.Error("expected error for unknown solver")
	}
	if _, err := NewWatchModel(WatchConfig{SolverID: "search-run"}); err == nil {
		t.Error("expected error without a maze")
	}
}

func TestBoardModel(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveRun(storage.RunRecord{MazeID: "a", SolverID: "search-run", Phase: "DONE", Reached: true, RunMoves: 9, Ticks: 50})
	store.SaveRun(storage.RunRecord{MazeID: "a", SolverID: "floodfill", Phase: "DONE", Reached: true, RunMoves: 7, Ticks: 90})
	store.SaveRun(storage.RunRecord{MazeID: "b", SolverID: "left-hand", Phase: "DONE", Reached: false, Ticks: 10})

	m := NewBoardModel(store, "a", 120, 40)
	if len(m.Runs()) != 2 || m.Runs()[0].SolverID != "floodfill" {
		t.Fatalf("best runs on a = %v", m.Runs())
	}

	next, _ := m.Update(keyMsg("m"))
	m = next.(BoardModel)
	if len(m.Runs()) != 2 || m.Runs()[0].SolverID != "floodfill" {
		t.Errorf("recent runs on a = %v", m.Runs())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(BoardModel)
	if len(m.Runs()) != 1 || m.Runs()[0].SolverID != "left-hand" {
		t.Errorf("recent runs on b = %v", m.Runs())
	}

	if v := m.View(); !strings.Contains(v, "RECENT RUNS - b") {
		t.Errorf("View() title missing:\n%s", v)
	}
}
