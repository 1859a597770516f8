package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/micromouse/internal/core"
	"github.com/vovakirdan/micromouse/internal/mazes"
	"github.com/vovakirdan/micromouse/internal/registry"
	"github.com/vovakirdan/micromouse/internal/sim"
	"github.com/vovakirdan/micromouse/internal/storage"
)

// Tick rate bounds for the watcher, in ticks per second.
const (
	minTickRate     = 1
	maxTickRate     = 240
	defaultTickRate = 30
)

// WatchConfig configures a watcher session.
type WatchConfig struct {
	Maze     *mazes.Maze
	SolverID string
	Sim      sim.Options
	TickRate int

	// Store receives a record of every finished run. Nil disables saving.
	Store *storage.Store

	// NewMaze builds a fresh maze for the "new maze" key. Nil disables it.
	NewMaze func(seed int64) (*mazes.Maze, error)

	// Logger receives session lines. Nil discards them.
	Logger *log.Logger
}

// WatchModel is the Bubble Tea model that steps a simulation once per tick
// and draws the maze as the solver sees it.
type WatchModel struct {
	cfg       WatchConfig
	sim       *sim.Sim
	solvers   []registry.SolverInfo
	solverIdx int
	canvas    *core.Canvas
	keys      WatchKeyMap
	help      help.Model
	tickRate  int
	paused    bool
	showField bool
	width     int
	height    int
	result    *sim.Result
	runID     string
	err       error // last host-side error
	quitting  bool
}

// NewWatchModel creates a watcher for cfg.SolverID on cfg.Maze.
func NewWatchModel(cfg WatchConfig) (WatchModel, error) {
	if cfg.Maze == nil {
		return WatchModel{}, errors.New("tui: no maze")
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = defaultTickRate
	}

	m := WatchModel{
		cfg:      cfg,
		solvers:  registry.List(),
		keys:     DefaultWatchKeyMap(),
		help:     help.New(),
		tickRate: core.Clamp(cfg.TickRate, minTickRate, maxTickRate),
	}
	m.solverIdx = -1
	for i, s := range m.solvers {
		if s.ID == cfg.SolverID {
			m.solverIdx = i
		}
	}
	if m.solverIdx < 0 {
		return WatchModel{}, fmt.Errorf("tui: unknown solver %q", cfg.SolverID)
	}
	if err := m.start(); err != nil {
		return WatchModel{}, err
	}
	return m, nil
}

// start builds a fresh simulation for the current maze and solver.
func (m *WatchModel) start() error {
	solver, err := registry.Create(m.solvers[m.solverIdx].ID)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	m.sim = sim.New(m.cfg.Maze, solver, m.cfg.Sim)
	w, h := CanvasSize(m.cfg.Maze.Size())
	m.canvas = core.NewCanvas(w, h)
	m.result = nil
	m.runID = ""
	m.err = nil
	return nil
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused {
			m.advance()
		}
		return m, tickCmd(m.tickRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		m.paused = true
		m.advance()

	case key.Matches(msg, m.keys.Faster):
		m.tickRate = core.Clamp(m.tickRate*2, minTickRate, maxTickRate)

	case key.Matches(msg, m.keys.Slower):
		m.tickRate = core.Clamp(m.tickRate/2, minTickRate, maxTickRate)

	case key.Matches(msg, m.keys.Restart):
		m.err = m.start()

	case key.Matches(msg, m.keys.NextSolver):
		m.solverIdx = (m.solverIdx + 1) % len(m.solvers)
		m.err = m.start()

	case key.Matches(msg, m.keys.NewMaze):
		if m.cfg.NewMaze == nil {
			return m, nil
		}
		m.cfg.Sim.Seed++
		maze, err := m.cfg.NewMaze(m.cfg.Sim.Seed)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.cfg.Maze = maze
		m.err = m.start()

	case key.Matches(msg, m.keys.Field):
		m.showField = !m.showField

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// advance runs one simulation tick and records the run once it finishes.
func (m *WatchModel) advance() {
	if m.result != nil {
		return
	}
	_, err := m.sim.Tick()
	switch {
	case err == nil && !m.sim.Done():
		return
	case err != nil && !errors.Is(err, sim.ErrFinished):
		m.err = err
	}

	res := m.sim.Result()
	m.result = &res
	m.paused = true
	if m.cfg.Logger != nil {
		m.cfg.Logger.Info("run finished", "solver", res.SolverID, "maze", res.MazeID, "reached", res.Reached, "ticks", res.Stats.Ticks)
	}
	if m.cfg.Store != nil {
		id, err := m.cfg.Store.SaveResult(res)
		if err != nil {
			m.err = err
			return
		}
		m.runID = id
	}
}

// Result returns the finished run, or nil while it is still going.
func (m WatchModel) Result() *sim.Result {
	return m.result
}

// IsQuitting returns true if the user asked to leave.
func (m WatchModel) IsQuitting() bool {
	return m.quitting
}

// scene collects what the solver knows for drawing.
func (m WatchModel) scene() Scene {
	sc := Scene{
		Maze:      m.cfg.Maze,
		Marks:     m.sim.Annotations(),
		Robot:     m.sim.Robot(),
		ShowRobot: true,
		ShowField: m.showField,
	}
	if mp, ok := m.sim.Solver().(registry.Mapper); ok {
		sc.Known = mp.Known()
		sc.Field = mp.Field()
	}
	return sc
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	hudStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

// View renders the maze, the status panel and the help bar.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	DrawScene(m.canvas, m.scene())
	board := RenderCanvas(m.canvas)

	var b strings.Builder
	name := m.cfg.Maze.Name
	if name == "" {
		name = m.cfg.Maze.ID
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s on %s", m.sim.Solver().Title(), name)))
	b.WriteString("\n\n")

	var mainView string
	if m.width == 0 || m.width >= m.canvas.Width()+30 {
		mainView = lipgloss.JoinHorizontal(lipgloss.Top, board, hudStyle.Render(m.hud()))
	} else {
		mainView = lipgloss.JoinVertical(lipgloss.Left, board, m.hud())
	}
	b.WriteString(mainView)

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// hud renders the status panel.
func (m WatchModel) hud() string {
	st := m.sim.Solver().State()
	stats := m.sim.Stats()

	lines := []string{
		labelStyle.Render("phase   ") + st.Phase.String(),
		labelStyle.Render("tick    ") + fmt.Sprintf("%d", stats.Ticks),
		labelStyle.Render("cell    ") + st.Cell.String() + " " + string(st.Heading.Rune()),
		labelStyle.Render("forward ") + fmt.Sprintf("%d", stats.Forward),
		labelStyle.Render("turns   ") + fmt.Sprintf("%d", stats.Turns),
		labelStyle.Render("visited ") + fmt.Sprintf("%d/%d", stats.Cells, m.cfg.Maze.Size().Area()),
	}
	if stats.Rejected > 0 || stats.Collisions > 0 {
		lines = append(lines, labelStyle.Render("slips   ")+fmt.Sprintf("%d (%d bumps)", stats.Rejected, stats.Collisions))
	}

	speed := fmt.Sprintf("%d t/s", m.tickRate)
	if m.paused {
		speed += " (paused)"
	}
	lines = append(lines, labelStyle.Render("speed   ")+speed, "")

	if m.result != nil {
		if m.result.Reached {
			lines = append(lines, okStyle.Render(fmt.Sprintf("goal in %d moves", m.result.Summary.RunMoves)))
		} else {
			lines = append(lines, errStyle.Render("goal not reached"))
		}
		if m.runID != "" {
			lines = append(lines, labelStyle.Render("run "+m.runID[:8]))
		}
	}
	if st.Err != nil {
		lines = append(lines, errStyle.Render(st.Err.Error()))
	}
	if m.err != nil {
		lines = append(lines, errStyle.Render(m.err.Error()))
	}
	return strings.Join(lines, "\n")
}

// RunWatch starts the Bubble Tea program for a watcher session.
func RunWatch(cfg WatchConfig) (*sim.Result, error) {
	model, err := NewWatchModel(cfg)
	if err != nil {
		return nil, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if wm, ok := final.(WatchModel); ok {
		return wm.Result(), nil
	}
	return nil, nil
}
