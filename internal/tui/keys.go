package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Queue   key.Binding
	Solo    key.Binding
	Flex    key.Binding
	Search  key.Binding
	Refresh key.Binding
	Done    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Queue, k.Search, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Queue, k.Solo, k.Flex},
		{k.Search, k.Done},
		{k.Refresh, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Queue: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "soloq/flex"),
	),
	Solo: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "soloq"),
	),
	Flex: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "flex"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Done: key.NewBinding(
		key.WithKeys("esc", "enter"),
		key.WithHelp("esc/enter", "done"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
