package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	toggle   key.Binding
	next     key.Binding
	previous key.Binding
	enter    key.Binding
	back     key.Binding
	tab      key.Binding
	rewind   key.Binding
	forward  key.Binding
	reload   key.Binding
	open     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "view")),
		rewind:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "seek -")),
		forward:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "seek +")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "artwork")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.previous, k.next, k.rewind, k.forward, k.enter, k.tab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.previous, k.next},
		{k.rewind, k.forward},
		{k.enter, k.back, k.tab},
		{k.reload, k.open, k.quit},
	}
}
