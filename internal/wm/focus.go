package wm

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/workspace"
)

// Focus moves focus on the active workspace. Any mapped window, floating
// or not, is eligible. Order is list order with wraparound.
func (m *Manager) Focus(d workspace.Direction) error {
	ws := m.Active()
	target := ws.Neighbor(ws.Focus(), d, workspace.Focusable)
	if target == nil {
		m.logger.Debug("focus: no mapped window", "workspace", ws.Index)
		return ErrNoFocus
	}
	m.focusWindow(ws, target, true)
	return nil
}

// FocusWindow focuses a specific window, switching to its workspace first
// when it is not visible.
func (m *Manager) FocusWindow(id platform.WindowID) error {
	w, ws := m.Find(id)
	if w == nil {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	if !w.Mapped {
		return fmt.Errorf("%w: window %d is not mapped", ErrNoFocus, id)
	}
	if !m.isActive(ws) {
		ws.SetFocus(w)
		return m.SwitchWorkspace(ws.Index)
	}
	m.focusWindow(ws, w, true)
	return nil
}

// Swap exchanges the focused window with its neighbor among the tiled
// windows. The two list slots keep their place and trade contents; the
// windows trade screen rectangles. Focus stays on the same window.
func (m *Manager) Swap(d workspace.Direction) error {
	ws := m.Active()
	cur := ws.Focus()
	if cur == nil || !workspace.Swappable(cur) {
		m.logger.Debug("swap: focused window is not tiled", "workspace", ws.Index)
		return ErrNoFocus
	}

	other := ws.Neighbor(cur, d, workspace.Swappable)
	if other == nil || other == cur {
		return nil
	}

	ws.SwapContents(cur, other)
	cur.Geometry, other.Geometry = other.Geometry, cur.Geometry
	cur.Clamp()
	other.Clamp()
	m.push(cur)
	m.push(other)

	if m.warpPointer {
		m.warpInto(cur)
	}

	m.emit(Event{Type: EventSwap, Window: cur.ID, Workspace: ws.Index})
	return nil
}

// focusWindow makes w the focus of ws. Display side effects only happen
// for the visible workspace. warp is set for keyboard-driven changes.
func (m *Manager) focusWindow(ws *workspace.Workspace, w *workspace.Window, warp bool) {
	prev := ws.Focus()
	if !ws.SetFocus(w) {
		return
	}
	if !m.isActive(ws) {
		return
	}

	if prev != nil && prev != w {
		m.highlight(prev, false)
	}
	if w != nil {
		m.highlight(w, true)
		if err := m.backend.Raise(w.ID); err != nil {
			m.logger.Debug("raise failed", "window", w.ID, "error", err)
		}
		if err := m.backend.SetInputFocus(w.ID); err != nil {
			m.logger.Debug("set input focus failed", "window", w.ID, "error", err)
		}
		if warp && m.warpPointer {
			m.warpInto(w)
		}
	}
	m.publishActive()

	if prev != w {
		var id platform.WindowID
		if w != nil {
			id = w.ID
		}
		m.emit(Event{Type: EventFocus, Window: id, Workspace: ws.Index})
	}
}

// refocus picks a new focus after the old one went away: the first mapped
// window, as focus(master) would.
func (m *Manager) refocus(ws *workspace.Workspace) {
	m.focusWindow(ws, ws.Neighbor(nil, workspace.Master, workspace.Focusable), false)
}

func (m *Manager) highlight(w *workspace.Window, on bool) {
	if err := m.backend.Highlight(w.ID, on); err != nil {
		m.logger.Debug("highlight failed", "window", w.ID, "error", err)
	}
}

func (m *Manager) warpInto(w *workspace.Window) {
	if err := m.backend.WarpPointer(w.ID, w.Geometry.Width/2, w.Geometry.Height/2); err != nil {
		m.logger.Debug("warp pointer failed", "window", w.ID, "error", err)
	}
}
