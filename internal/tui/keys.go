package tui

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Inspect key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Filter  key.Binding
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Apply   key.Binding
	Clear   key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Inspect: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inspect")),
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Apply:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// listHelp is shown while browsing results.
func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Inspect, k.NextTab, k.Filter, k.Down, k.Open, k.Clear, k.Quit}
}

// detailHelp is shown while a suggestion is open.
func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.Down, k.Apply, k.Back, k.Quit}
}
