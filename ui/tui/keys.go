package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	SwitchView key.Binding
	Camera1    key.Binding
	Camera2    key.Binding
	Up         key.Binding
	Down       key.Binding
	Correct    key.Binding
	Incorrect  key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	SwitchView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
	Camera1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1/2", "connect/disconnect")),
	Camera2:    key.NewBinding(key.WithKeys("2")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Correct:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "correct")),
	Incorrect:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "incorrect")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp lists the bindings shown in the footer. Camera2 shares the
// Camera1 entry.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchView, k.Camera1, k.Up, k.Down, k.Correct, k.Incorrect, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwitchView, k.Camera1, k.Quit},
		{k.Up, k.Down, k.Correct, k.Incorrect},
	}
}
