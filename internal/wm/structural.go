package wm

import (
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
	"github.com/1broseidon/stackwm/internal/workspace"
)

// OnWindowCreated starts tracking a new top-level window on the active
// workspace. Geometry and size hints are queried once from the backend. A
// window whose geometry cannot be read is not tracked. Created windows are
// neither mapped nor focused; that happens in OnWindowMapped.
func (m *Manager) OnWindowCreated(id platform.WindowID) *workspace.Window {
	if w, _ := m.Find(id); w != nil {
		return w
	}

	geometry, err := m.backend.InitialGeometry(id)
	if err != nil {
		m.logger.Debug("window not tracked", "window", id, "error", err)
		return nil
	}
	hints, err := m.backend.SizeHints(id)
	if err != nil {
		hints = platform.SizeHints{}
	}

	w := workspace.NewWindow(id, geometry, m.borderWidth, hints)
	w.Clamp()

	ws := m.Active()
	ws.Attach(w)
	m.publishWindowDesktop(w)
	m.publishClients()

	m.logger.Debug("window created", "window", id, "workspace", ws.Index, "fixed", w.Fixed)
	m.emit(Event{Type: EventWindowCreated, Window: id, Workspace: ws.Index})
	return w
}

// OnWindowMapped marks a window as wanting to be shown. It is only mapped
// on the display while its workspace is visible.
func (m *Manager) OnWindowMapped(id platform.WindowID) {
	w, ws := m.Find(id)
	if w == nil {
		m.logger.Debug("map for unknown window", "window", id)
		return
	}

	w.Mapped = true
	if !m.isActive(ws) {
		m.emit(Event{Type: EventWindowMapped, Window: id, Workspace: ws.Index})
		return
	}

	if err := m.backend.Map(id); err != nil {
		m.logger.Debug("map failed", "window", id, "error", err)
	}
	if w.Floating || ws.Layout == tiling.KindFree {
		m.push(w)
	}
	m.arrange(ws)

	if m.focusFollowsNew || ws.Focus() == nil {
		m.focusWindow(ws, w, false)
	} else {
		m.highlight(w, false)
	}

	m.emit(Event{Type: EventWindowMapped, Window: id, Workspace: ws.Index})
}

// OnWindowUnmapped handles a window being hidden. Unmaps caused by the
// manager hiding a workspace are swallowed.
func (m *Manager) OnWindowUnmapped(id platform.WindowID) {
	w, ws := m.Find(id)
	if w == nil {
		m.logger.Debug("unmap for unknown window", "window", id)
		return
	}
	if w.ConsumeUnmap() {
		return
	}
	if !w.Mapped {
		return
	}

	w.Mapped = false
	m.drag.Abort(id)

	if ws.Focus() == w {
		ws.SetFocus(nil)
		m.refocus(ws)
	}
	m.arrange(ws)

	m.emit(Event{Type: EventWindowUnmapped, Window: id, Workspace: ws.Index})
}

// OnWindowDestroyed stops tracking a window. The drag and focus references
// are dropped in the same step as the detach, so nothing can observe the
// record afterwards.
func (m *Manager) OnWindowDestroyed(id platform.WindowID) {
	w, ws := m.Find(id)
	if w == nil {
		m.logger.Debug("destroy for unknown window", "window", id)
		return
	}

	if m.drag.Abort(id) {
		m.logger.Debug("drag aborted, target destroyed", "window", id)
	}
	wasFocus := ws.Focus() == w
	wasTiled := w.Tileable()

	workspace.Detach(w)
	if wasFocus {
		ws.SetFocus(nil)
		m.refocus(ws)
	}
	if wasTiled {
		m.arrange(ws)
	}
	m.publishClients()

	m.logger.Debug("window destroyed", "window", id, "workspace", ws.Index)
	m.emit(Event{Type: EventWindowDestroyed, Window: id, Workspace: ws.Index})
}

// ConfigureReply tells the event layer how a configure request was
// handled.
type ConfigureReply struct {
	// Managed is false for windows the manager does not track; the caller
	// should grant the request verbatim.
	Managed bool
	// Granted is false when the window keeps its layout geometry. The
	// caller should then notify the client of Geometry.
	Granted  bool
	Geometry platform.Rect
	Border   int
}

// OnWindowReconfigured handles a client asking for new geometry. Floating
// windows, windows not yet shown and windows on a free workspace get the
// request, clamped to their hints. Tiled windows keep their tile.
func (m *Manager) OnWindowReconfigured(id platform.WindowID, requested platform.Rect) ConfigureReply {
	w, ws := m.Find(id)
	if w == nil {
		return ConfigureReply{}
	}

	reply := ConfigureReply{Managed: true}
	if !w.Tileable() || ws.Layout == tiling.KindFree {
		if !requested.Empty() {
			w.Geometry = requested
		}
		w.Clamp()
		reply.Granted = true
	}
	m.push(w)

	reply.Geometry = w.Geometry
	reply.Border = w.Border
	return reply
}

// Adopt tracks a window that was already mapped before the manager
// started.
func (m *Manager) Adopt(id platform.WindowID) {
	if m.OnWindowCreated(id) == nil {
		return
	}
	m.OnWindowMapped(id)
}

// Shutdown maps every window the clients want shown, including those on
// hidden workspaces, so none is left invisible once the manager exits.
func (m *Manager) Shutdown() {
	m.drag.Reset()
	for _, ws := range m.workspaces {
		for _, w := range ws.Windows() {
			if !w.Mapped || m.isActive(ws) {
				continue
			}
			if err := m.backend.Map(w.ID); err != nil {
				m.logger.Debug("map on shutdown failed", "window", w.ID, "error", err)
			}
		}
	}
}
