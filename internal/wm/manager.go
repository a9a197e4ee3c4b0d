package wm

import (
	"io"
	"log/slog"

	"github.com/1broseidon/stackwm/internal/drag"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
	"github.com/1broseidon/stackwm/internal/workspace"
)

// DefaultWorkspaceCount is used when Options.Workspaces is empty.
const DefaultWorkspaceCount = 9

// WorkspaceDefaults are the startup settings of one workspace.
type WorkspaceDefaults struct {
	Name        string
	Layout      tiling.Kind
	MasterRatio int
}

// Options configures a Manager.
type Options struct {
	// Workspaces fixes the workspace count and per-workspace defaults.
	Workspaces []WorkspaceDefaults

	BorderWidth int

	// FocusFollowsNew focuses a window when it is mapped on the active
	// workspace.
	FocusFollowsNew bool

	// WarpPointer moves the pointer into a window focused from the keyboard.
	WarpPointer bool

	Logger *slog.Logger

	// Observer receives a change event after every state-changing step.
	// It runs synchronously and must not call back into the Manager.
	Observer func(Event)
}

// Manager is the window manager state: the fixed set of workspaces, the
// active index and the single drag slot.
//
// Manager is not safe for concurrent use. All calls must come from one
// goroutine; the daemon loop serializes them.
type Manager struct {
	backend   platform.Backend
	publisher platform.DesktopPublisher

	area       platform.Rect
	workspaces []*workspace.Workspace
	active     int
	drag       drag.State

	borderWidth     int
	focusFollowsNew bool
	warpPointer     bool

	logger   *slog.Logger
	observer func(Event)
}

// New creates a Manager tiling into area. If backend also implements
// platform.DesktopPublisher, workspace and client state is published
// through it.
func New(backend platform.Backend, area platform.Rect, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	defaults := opts.Workspaces
	if len(defaults) == 0 {
		defaults = make([]WorkspaceDefaults, DefaultWorkspaceCount)
	}

	m := &Manager{
		backend:         backend,
		area:            area,
		borderWidth:     max(0, opts.BorderWidth),
		focusFollowsNew: opts.FocusFollowsNew,
		warpPointer:     opts.WarpPointer,
		logger:          logger,
		observer:        opts.Observer,
	}
	if p, ok := backend.(platform.DesktopPublisher); ok {
		m.publisher = p
	}

	m.workspaces = make([]*workspace.Workspace, len(defaults))
	for i, d := range defaults {
		ratio := d.MasterRatio
		if ratio == 0 {
			ratio = tiling.DefaultMasterRatio
		}
		m.workspaces[i] = workspace.New(i, d.Name, d.Layout, ratio)
	}

	return m
}

// Area returns the tiling area.
func (m *Manager) Area() platform.Rect {
	return m.area
}

// SetArea changes the tiling area and re-tiles every workspace.
func (m *Manager) SetArea(area platform.Rect) {
	if area.Empty() || area == m.area {
		return
	}
	m.area = area
	for _, ws := range m.workspaces {
		m.arrange(ws)
	}
}

// ActiveIndex returns the 0-based index of the visible workspace.
func (m *Manager) ActiveIndex() int {
	return m.active
}

// WorkspaceCount returns the fixed number of workspaces.
func (m *Manager) WorkspaceCount() int {
	return len(m.workspaces)
}

// Workspace returns the workspace at index i, or nil when out of range.
func (m *Manager) Workspace(i int) *workspace.Workspace {
	if i < 0 || i >= len(m.workspaces) {
		return nil
	}
	return m.workspaces[i]
}

// Active returns the visible workspace.
func (m *Manager) Active() *workspace.Workspace {
	return m.workspaces[m.active]
}

// Drag returns a copy of the drag slot.
func (m *Manager) Drag() drag.State {
	return m.drag
}

// Find looks a handle up, starting at the active workspace.
func (m *Manager) Find(id platform.WindowID) (*workspace.Window, *workspace.Workspace) {
	if w := m.Active().Find(id); w != nil {
		return w, m.Active()
	}
	for i, ws := range m.workspaces {
		if i == m.active {
			continue
		}
		if w := ws.Find(id); w != nil {
			return w, ws
		}
	}
	return nil, nil
}

// Publish advertises the current workspace and client state. The daemon
// calls it once at startup; later changes publish themselves.
func (m *Manager) Publish() {
	m.publishDesktops()
	m.publishClients()
	m.publishActive()
}

func (m *Manager) isActive(ws *workspace.Workspace) bool {
	return ws == m.workspaces[m.active]
}

func (m *Manager) emit(ev Event) {
	if m.observer != nil {
		m.observer(ev)
	}
}

// push sends a window's geometry to the display. Backend failures are
// logged; state is kept either way.
func (m *Manager) push(w *workspace.Window) {
	if err := m.backend.ApplyGeometry(w.ID, w.Geometry, w.Border); err != nil {
		m.logger.Debug("apply geometry failed", "window", w.ID, "error", err)
	}
}

func (m *Manager) publishDesktops() {
	if m.publisher == nil {
		return
	}
	names := make([]string, len(m.workspaces))
	for i, ws := range m.workspaces {
		names[i] = ws.Name
	}
	if err := m.publisher.PublishDesktops(names, m.active); err != nil {
		m.logger.Debug("publish desktops failed", "error", err)
	}
}

func (m *Manager) publishClients() {
	if m.publisher == nil {
		return
	}
	var ids []platform.WindowID
	for _, ws := range m.workspaces {
		for _, w := range ws.Windows() {
			ids = append(ids, w.ID)
		}
	}
	if err := m.publisher.PublishClients(ids); err != nil {
		m.logger.Debug("publish client list failed", "error", err)
	}
}

func (m *Manager) publishActive() {
	if m.publisher == nil {
		return
	}
	var id platform.WindowID
	if f := m.Active().Focus(); f != nil {
		id = f.ID
	}
	if err := m.publisher.PublishActive(id); err != nil {
		m.logger.Debug("publish active window failed", "error", err)
	}
}

func (m *Manager) publishWindowDesktop(w *workspace.Window) {
	if m.publisher == nil || w.Workspace() == nil {
		return
	}
	if err := m.publisher.PublishWindowDesktop(w.ID, w.Workspace().Index); err != nil {
		m.logger.Debug("publish window desktop failed", "window", w.ID, "error", err)
	}
}
