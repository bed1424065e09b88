package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the screen's key bindings.
type keyMap struct {
	Advance    key.Binding
	ToggleUnit key.Binding
	Restart    key.Binding
	Up         key.Binding
	Down       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Advance: key.NewBinding(
			key.WithKeys("n", " ", "enter"),
			key.WithHelp("n/space", "reached stop"),
		),
		ToggleUnit: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "switch units"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.ToggleUnit, k.Restart, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Advance, k.ToggleUnit, k.Restart},
		{k.Up, k.Down, k.Quit},
	}
}
