package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// WatchKeyMap defines the key bindings for the watcher.
// This centralizes key bindings and makes them testable.
type WatchKeyMap struct {
	Pause      key.Binding
	Step       key.Binding
	Faster     key.Binding
	Slower     key.Binding
	Restart    key.Binding
	NextSolver key.Binding
	NewMaze    key.Binding
	Field      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Step, k.Faster, k.Slower, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Step, k.Faster, k.Slower},
		{k.Restart, k.NextSolver, k.NewMaze, k.Field},
		{k.Help, k.Quit},
	}
}

// DefaultWatchKeyMap returns default key bindings.
func DefaultWatchKeyMap() WatchKeyMap {
	return WatchKeyMap{
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause"),
		),
		Step: key.NewBinding(
			key.WithKeys(".", "right"),
			key.WithHelp(".", "one tick"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "=", "up"),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "down"),
			key.WithHelp("-", "slower"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		NextSolver: key.NewBinding(
			key.WithKeys("s", "tab"),
			key.WithHelp("s", "next solver"),
		),
		NewMaze: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new maze"),
		),
		Field: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "distances"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}
