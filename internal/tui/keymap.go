package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	Up            key.Binding
	Down          key.Binding
	Detail        key.Binding
	Back          key.Binding
	Close         key.Binding
	Approve       key.Binding
	Reopen        key.Binding
	LogTime       key.Binding
	Delete        key.Binding
	CycleStatus   key.Binding
	CyclePriority key.Binding
	ClearFilter   key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Detail:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:          key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Close:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close")),
		Approve:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
		Reopen:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reopen")),
		LogTime:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "log time")),
		Delete:        key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		CycleStatus:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		CyclePriority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority filter")),
		ClearFilter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "clear filters")),
		Confirm:       key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:        key.NewBinding(key.WithKeys("n", "N", "esc", "q"), key.WithHelp("n", "no")),
	}
}
