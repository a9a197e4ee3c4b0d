package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
)

type fakeSource struct {
	state    wm.Snapshot
	err      error
	commands []string
	focused  []platform.WindowID
}

func (f *fakeSource) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{DaemonRunning: true, UptimeSeconds: 90, State: f.state}, nil
}

func (f *fakeSource) RunCommand(command string) error {
	f.commands = append(f.commands, command)
	return nil
}

func (f *fakeSource) FocusWindow(id platform.WindowID) error {
	f.focused = append(f.focused, id)
	return nil
}

func sampleState() wm.Snapshot {
	return wm.Snapshot{
		Active: 0,
		Area:   platform.Rect{Width: 1000, Height: 800},
		Drag:   wm.DragSnapshot{Phase: "idle"},
		Workspaces: []wm.WorkspaceSnapshot{
			{
				Index: 0, Name: "1", Layout: "tiled", MasterRatio: 50, Active: true, Focus: 2,
				Windows: []wm.WindowSnapshot{
					{ID: 2, Class: "XTerm", Title: "shell", Mapped: true, Focused: true, Geometry: platform.Rect{Width: 500, Height: 800}},
					{ID: 3, Class: "Firefox", Title: "docs", Mapped: true, Geometry: platform.Rect{X: 500, Width: 500, Height: 800}},
				},
			},
			{
				Index: 1, Name: "mail", Layout: "free", MasterRatio: 50,
				Windows: []wm.WindowSnapshot{
					{ID: 9, Class: "Thunderbird", Mapped: true, Floating: true, Geometry: platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}},
				},
			},
		},
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to the model and runs any command it returns once.
func step(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, ok := out.(statusMsg); ok {
				next, _ = m.Update(out)
				m = next.(model)
			}
		}
	}
	return m
}

func loaded(t *testing.T) (model, *fakeSource) {
	t.Helper()
	src := &fakeSource{state: sampleState()}
	m := newModel(src)
	m = step(t, m, m.fetch())
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, src
}

func TestModel_FollowsActiveWorkspace(t *testing.T) {
	m, _ := loaded(t)

	if !m.connected || m.shownIndex() != 0 {
		t.Fatalf("expected connected model showing workspace 0, got %+v", m)
	}
	view := m.View()
	for _, want := range []string{"daemon connected", "XTerm", "Firefox", "layout:tiled", "g go to workspace"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_InspectAndFocus(t *testing.T) {
	m, src := loaded(t)

	m = step(t, m, keyPress("j"))
	if w, _ := m.selected(); w.ID != 3 {
		t.Fatalf("expected window 3 selected, got %d", w.ID)
	}
	m = step(t, m, keyPress("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor must stop at the last window, got %d", m.cursor)
	}

	m = step(t, m, keyPress("enter"))
	if len(src.focused) != 1 || src.focused[0] != 3 {
		t.Fatalf("expected focus of window 3, got %v", src.focused)
	}

	m = step(t, m, keyPress("2"))
	if m.shownIndex() != 1 || m.cursor != 0 {
		t.Fatalf("expected workspace 2 shown, got %d", m.shownIndex())
	}
	if !strings.Contains(m.View(), "Thunderbird") {
		t.Fatalf("expected workspace 2 windows in view")
	}

	m = step(t, m, keyPress("g"))
	if len(src.commands) != 1 || src.commands[0] != "workspace 2" {
		t.Fatalf("expected workspace command, got %v", src.commands)
	}
	if m.shown != -1 {
		t.Fatalf("expected view to follow the active workspace again")
	}
}

func TestModel_TabWraps(t *testing.T) {
	m, _ := loaded(t)
	m = step(t, m, keyPress("tab"))
	m = step(t, m, keyPress("tab"))
	if m.shownIndex() != 0 {
		t.Fatalf("expected wrap to workspace 0, got %d", m.shownIndex())
	}
	m = step(t, m, keyPress("9"))
	if m.shownIndex() != 0 {
		t.Fatalf("out-of-range digit must be ignored, got %d", m.shownIndex())
	}
}

func TestModel_Disconnected(t *testing.T) {
	src := &fakeSource{err: errors.New("failed to connect to daemon")}
	m := newModel(src)
	m = step(t, m, m.fetch())
	m = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	if m.connected {
		t.Fatalf("expected disconnected model")
	}
	view := m.View()
	if !strings.Contains(view, "daemon not running") || !strings.Contains(view, "failed to connect") {
		t.Fatalf("unexpected view:\n%s", view)
	}
	if _, cmd := m.Update(keyPress("enter")); cmd != nil {
		t.Fatalf("enter without state must be a no-op")
	}
}

func TestRenderMinimap(t *testing.T) {
	ws := sampleState().Workspaces[0]
	lines := renderMinimap(ws, platform.Rect{Width: 1000, Height: 800}, 20, 8)

	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "╔") || !strings.HasSuffix(lines[7], "╝") {
		t.Fatalf("expected outer frame, got %q / %q", lines[0], lines[7])
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "1") || !strings.Contains(joined, "2") {
		t.Fatalf("expected slot labels:\n%s", joined)
	}
	for _, line := range lines {
		if n := len([]rune(line)); n != 20 {
			t.Fatalf("expected 20 columns, got %d in %q", n, line)
		}
	}

	floating := renderMinimap(sampleState().Workspaces[1], platform.Rect{Width: 1000, Height: 800}, 40, 16)
	if !strings.Contains(strings.Join(floating, ""), "f") {
		t.Fatalf("expected floating label")
	}

	if got := renderMinimap(ws, platform.Rect{}, 20, 8); strings.TrimSpace(strings.Join(got, "")) != "" {
		t.Fatalf("expected empty canvas for empty area")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"toolongvalue", 5, "tool…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
