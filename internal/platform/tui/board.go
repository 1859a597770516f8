package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/micromouse/internal/storage"
)

// Board layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show maze list sidebar
	sidebarWidth       = 22  // Width of maze list sidebar
	maxRuns            = 100 // Max runs to load
)

// BoardKeyMap defines the key bindings for the run board.
type BoardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMaze key.Binding
	PrevMaze key.Binding
	Mode     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMaze, k.PrevMaze, k.Mode, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMaze, k.PrevMaze},
		{k.Mode, k.Quit},
	}
}

// DefaultBoardKeyMap returns default key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMaze: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next maze"),
		),
		PrevMaze: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev maze"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "best/recent"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BoardModel is the Bubble Tea model for browsing stored runs.
type BoardModel struct {
	mazes       []string
	mazeCursor  int
	store       *storage.Store
	runs        []storage.RunRecord
	recent      bool // show newest runs instead of the best ones
	table       table.Model
	help        help.Model
	keys        BoardKeyMap
	width       int
	height      int
	err         error
	quitting    bool
	showSidebar bool
}

// NewBoardModel creates a new board model. If focus names a maze with
// runs, it is selected first.
func NewBoardModel(store *storage.Store, focus string, width, height int) BoardModel {
	h := help.New()
	h.ShowAll = false

	m := BoardModel{
		store:       store,
		keys:        DefaultBoardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	if store != nil {
		m.mazes, m.err = store.MazeIDs()
	}
	for i, id := range m.mazes {
		if id == focus {
			m.mazeCursor = i
		}
	}

	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *BoardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Solver", Width: 12},
		{Title: "Goal", Width: 5},
		{Title: "Moves", Width: 6},
		{Title: "Ticks", Width: 7},
		{Title: "Slips", Width: 6},
		{Title: "Date", Width: 13},
	}

	// Give the solver column whatever room is left
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if extra := tableWidth - used; extra > 0 {
		columns[1].Width += min(extra, 12)
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads runs for the selected maze.
func (m *BoardModel) loadRuns() {
	m.runs = nil
	if m.store == nil || len(m.mazes) == 0 {
		m.updateTableRows()
		return
	}

	mazeID := m.mazes[m.mazeCursor]
	var err error
	if m.recent {
		m.runs, err = m.store.RecentRuns(mazeID, maxRuns)
	} else {
		m.runs, err = m.store.BestRuns(mazeID, maxRuns)
	}
	if err != nil {
		m.err = err
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *BoardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		goal := "no"
		if r.Reached {
			goal = "yes"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			r.SolverID,
			goal,
			fmt.Sprintf("%d", r.RunMoves),
			fmt.Sprintf("%d", r.Ticks),
			fmt.Sprintf("%d", r.Rejected),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the board model.
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the board.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMaze):
			if len(m.mazes) > 0 {
				m.mazeCursor = (m.mazeCursor + 1) % len(m.mazes)
				m.loadRuns()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevMaze):
			if len(m.mazes) > 0 {
				m.mazeCursor--
				if m.mazeCursor < 0 {
					m.mazeCursor = len(m.mazes) - 1
				}
				m.loadRuns()
			}
			return m, nil

		case key.Matches(msg, m.keys.Mode):
			m.recent = !m.recent
			m.loadRuns()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the board.
func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	mode := "BEST RUNS"
	if m.recent {
		mode = "RECENT RUNS"
	}
	title := mode
	if len(m.mazes) > 0 {
		title = fmt.Sprintf("%s - %s", mode, m.mazes[m.mazeCursor])
	}

	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.err.Error()))
	}

	// Help bar
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the board with a sidebar for maze selection.
func (m BoardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Mazes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, id := range m.mazes {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.mazeCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := id
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders the board with the current maze above the table.
func (m BoardModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.mazes) > 0 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.mazes[m.mazeCursor]), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m BoardModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nTry `mouse run` or `mouse watch`.")
	}

	return m.table.View()
}

// Runs returns the rows currently shown.
func (m BoardModel) Runs() []storage.RunRecord {
	return m.runs
}

func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RunBoard runs the board screen.
func RunBoard(store *storage.Store, focus string, width, height int) error {
	p := tea.NewProgram(
		NewBoardModel(store, focus, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
