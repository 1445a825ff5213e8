package cli

import (
	"github.com/charmbracelet/bubbles/key"
)

// treeKeyMap holds the tree console bindings. It implements help.KeyMap.
type treeKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NudgeUp   key.Binding
	NudgeDown key.Binding
	Toggle    key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Cancel    key.Binding
	Normalize key.Binding
	Reload    key.Binding
	History   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultTreeKeys() treeKeyMap {
	return treeKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NudgeUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		NudgeDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Normalize: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "normalize ranks")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		History:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k treeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.NudgeDown, k.Toggle, k.Normalize, k.Help, k.Quit}
}

func (k treeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.NudgeUp, k.NudgeDown, k.Toggle, k.Cancel},
		{k.Normalize, k.Reload, k.History, k.Quit},
	}
}
