package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Space        key.Binding
	Tab          key.Binding
	NextInterval key.Binding
	PrevInterval key.Binding
	Today        key.Binding
	Add          key.Binding
	AddSection   key.Binding
	ExternalEdit key.Binding
	NoteView     key.Binding
	Reload       key.Binding
	Sync         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next log"),
		),
		NextInterval: key.NewBinding(
			key.WithKeys("]", "right", "l"),
			key.WithHelp("]", "next note"),
		),
		PrevInterval: key.NewBinding(
			key.WithKeys("[", "left", "h"),
			key.WithHelp("[", "prev note"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		AddSection: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add task under section"),
		),
		ExternalEdit: key.NewBinding(
			key.WithKeys("e", "E"),
			key.WithHelp("e", "$EDITOR"),
		),
		NoteView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "show note"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "git sync"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  [ ] prev/next  t today  tab log  space toggle  a add  v note  e $EDITOR  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"[ / ←", "Previous note of this log"},
		{"] / →", "Next note of this log"},
		{"t", "Jump to the note covering now"},
		{"tab", "Switch periodic log"},
		{"space", "Toggle done/open"},
		{"a", "Add task to this note"},
		{"A", "Add task under the selected section"},
		{"e", "Edit note in $EDITOR"},
		{"v", "Show the rendered note"},
		{"R", "Reload from filesystem"},
		{"s", "Git sync"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
