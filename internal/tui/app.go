package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
)

const refreshInterval = time.Second

// Source is the daemon connection the viewer polls; *ipc.Client implements it.
type Source interface {
	GetStatus() (*ipc.StatusData, error)
	RunCommand(command string) error
	FocusWindow(id platform.WindowID) error
}

type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type tickMsg time.Time

// model is the root bubbletea model for `stackwm top`.
type model struct {
	source Source

	status    *ipc.StatusData
	connected bool
	lastError string

	// shown is the workspace being inspected; -1 follows the active one.
	shown  int
	cursor int

	help help.Model

	width  int
	height int
}

func newModel(source Source) model {
	return model{source: source, shown: -1, help: newHelp()}
}

func (m model) fetch() tea.Msg {
	status, err := m.source.GetStatus()
	return statusMsg{status: status, err: err}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// act runs fn and then reports fresh state, carrying fn's error.
func (m model) act(fn func() error) tea.Cmd {
	return func() tea.Msg {
		actErr := fn()
		status, err := m.source.GetStatus()
		if actErr != nil {
			err = actErr
		}
		return statusMsg{status: status, err: err}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch, tick())
}

func (m model) workspaces() []wm.WorkspaceSnapshot {
	if m.status == nil {
		return nil
	}
	return m.status.State.Workspaces
}

// shownIndex resolves which workspace the table and minimap describe.
func (m model) shownIndex() int {
	ws := m.workspaces()
	if len(ws) == 0 {
		return -1
	}
	if m.shown < 0 || m.shown >= len(ws) {
		return m.status.State.Active
	}
	return m.shown
}

func (m model) selected() (wm.WindowSnapshot, bool) {
	i := m.shownIndex()
	if i < 0 {
		return wm.WindowSnapshot{}, false
	}
	windows := m.workspaces()[i].Windows
	if m.cursor < 0 || m.cursor >= len(windows) {
		return wm.WindowSnapshot{}, false
	}
	return windows[m.cursor], true
}

func (m *model) clampCursor() {
	i := m.shownIndex()
	if i < 0 {
		m.cursor = 0
		return
	}
	n := len(m.workspaces()[i].Windows)
	m.cursor = max(0, min(m.cursor, n-1))
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 2
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch, tick())

	case statusMsg:
		if msg.status != nil {
			m.status = msg.status
			m.connected = true
		} else if msg.err != nil {
			m.connected = false
		}
		m.lastError = ""
		if msg.err != nil {
			m.lastError = msg.err.Error()
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.workspaces())

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Refresh):
		return m, m.fetch

	case key.Matches(msg, keys.NextTab, keys.PrevTab):
		if n == 0 {
			return m, nil
		}
		step := 1
		if key.Matches(msg, keys.PrevTab) {
			step = n - 1
		}
		m.shown = (m.shownIndex() + step) % n
		m.cursor = 0
		return m, nil

	case key.Matches(msg, keys.Jump):
		if i := int(msg.String()[0] - '1'); i < n {
			m.shown = i
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		m.cursor++
		m.clampCursor()
		return m, nil

	case key.Matches(msg, keys.Up):
		m.cursor--
		m.clampCursor()
		return m, nil

	case key.Matches(msg, keys.GoTo):
		i := m.shownIndex()
		if i < 0 {
			return m, nil
		}
		m.shown = -1
		return m, m.act(func() error {
			return m.source.RunCommand(fmt.Sprintf("workspace %d", i+1))
		})

	case key.Matches(msg, keys.Focus):
		w, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.shown = -1
		return m, m.act(func() error {
			return m.source.FocusWindow(w.ID)
		})
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var snap wm.Snapshot
	var uptime time.Duration
	if m.status != nil {
		snap = m.status.State
		uptime = time.Duration(m.status.UptimeSeconds) * time.Second
	}

	statusBar := renderStatusBar(m.connected, uptime, snap, m.width)
	helpBar := renderHelpBar(m.help.ShortHelpView(keys.ShortHelp()), m.width)

	i := m.shownIndex()
	if i < 0 {
		msg := dimStyle.Render("waiting for daemon…")
		if m.lastError != "" {
			msg = errStyle.Render("Error: " + m.lastError)
		}
		return lipgloss.JoinVertical(lipgloss.Left, statusBar, "", msg, helpBar)
	}

	ws := snap.Workspaces[i]
	tabBar := renderTabBar(snap.Workspaces, i, m.width)
	table := renderWindowTable(ws, m.cursor, m.width)

	used := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(table) + lipgloss.Height(helpBar) + 1
	mapHeight := min(m.height-used, 16)
	mapWidth := min(m.width-2, mapHeight*4)

	parts := []string{statusBar, tabBar}
	if mapHeight >= 3 && mapWidth >= 5 {
		parts = append(parts, lipgloss.JoinVertical(lipgloss.Left, renderMinimap(ws, snap.Area, mapWidth, mapHeight)...))
	}
	parts = append(parts, table)
	if m.lastError != "" {
		parts = append(parts, errStyle.Render("Error: "+m.lastError))
	}
	parts = append(parts, helpBar)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
