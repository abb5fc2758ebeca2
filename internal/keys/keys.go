package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down    key.Binding
	Up      key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding

	// Task actions
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Move   key.Binding
	Toggle key.Binding

	// Views
	Settings key.Binding
	Import   key.Binding
	Help     key.Binding

	// Notifications
	TestNotify key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next task"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "previous task"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "jump to today"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit task"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete task"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move task"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle reminders"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import calendar"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		TestNotify: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "test notification"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.PrevDay, k.NextDay,
		k.New, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevDay, k.NextDay, k.Today},
		{k.New, k.Edit, k.Delete, k.Move, k.Toggle},
		{k.Settings, k.Import, k.TestNotify},
		{k.Help, k.Back, k.Quit},
	}
}
