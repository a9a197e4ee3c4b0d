package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Jump    key.Binding
	Down    key.Binding
	Up      key.Binding
	GoTo    key.Binding
	Focus   key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/1-9", "inspect workspace")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab")),
	Jump:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9")),
	Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "select")),
	Up:      key.NewBinding(key.WithKeys("k", "up")),
	GoTo:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to workspace")),
	Focus:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus")),
}

// ShortHelp lists the footer bindings. PrevTab, Jump and Up share a label
// with their neighbour.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Down, k.Focus, k.GoTo, k.Refresh, k.Quit}
}

func newHelp() help.Model {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	h.Styles.ShortDesc = dimStyle
	h.Styles.ShortSeparator = dimStyle
	return h
}
