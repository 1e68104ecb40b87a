package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	cycle      key.Binding
	pending    key.Binding
	inProgress key.Binding
	done       key.Binding
	save       key.Binding
	export     key.Binding
	refresh    key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		cycle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "cycle status")),
		pending:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "not completed")),
		inProgress: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "in progress")),
		done:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		save:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.cycle, k.pending, k.inProgress, k.done},
		{k.save, k.export, k.refresh},
		{k.back, k.quit},
	}
}
