package wm

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/workspace"
)

// SwitchWorkspace makes workspace i visible. The new workspace's windows
// are mapped before the old ones are hidden; the resulting unmap
// notifications are expected and swallowed.
func (m *Manager) SwitchWorkspace(i int) error {
	if i < 0 || i >= len(m.workspaces) {
		return fmt.Errorf("%w: %d", ErrInvalidWorkspace, i+1)
	}
	if i == m.active {
		return nil
	}

	old := m.Active()
	next := m.workspaces[i]

	// The drag target lives on the workspace being hidden.
	m.drag.Reset()

	m.active = i
	for _, w := range next.Windows() {
		if !w.Mapped {
			continue
		}
		if err := m.backend.Map(w.ID); err != nil {
			m.logger.Debug("map failed", "window", w.ID, "error", err)
		}
	}
	for _, w := range old.Windows() {
		if !w.Mapped {
			continue
		}
		w.ExpectUnmap()
		if err := m.backend.Unmap(w.ID); err != nil {
			w.ConsumeUnmap()
			m.logger.Debug("unmap failed", "window", w.ID, "error", err)
		}
	}

	m.arrange(next)
	for _, w := range next.Windows() {
		if w.Mapped && !w.Tileable() {
			m.push(w)
		}
	}

	focus := next.Focus()
	if focus == nil || !focus.Mapped {
		focus = next.Neighbor(nil, workspace.Master, workspace.Focusable)
	}
	// Focus may have been reassigned while the workspace was hidden, which
	// leaves the old border lit.
	for _, w := range next.Windows() {
		if w != focus {
			m.highlight(w, false)
		}
	}
	next.SetFocus(nil)
	m.focusWindow(next, focus, false)
	m.publishDesktops()

	m.logger.Debug("workspace switched", "from", old.Index, "to", next.Index)
	m.emit(Event{Type: EventWorkspace, Workspace: next.Index})
	return nil
}

// MoveToWorkspace sends the focused window to workspace i. The window is
// hidden because i is never the visible workspace, and it becomes that
// workspace's focus.
func (m *Manager) MoveToWorkspace(i int) error {
	if i < 0 || i >= len(m.workspaces) {
		return fmt.Errorf("%w: %d", ErrInvalidWorkspace, i+1)
	}
	if i == m.active {
		return nil
	}

	src := m.Active()
	w := src.Focus()
	if w == nil {
		return ErrNoFocus
	}
	dst := m.workspaces[i]

	m.drag.Abort(w.ID)
	wasTiled := w.Tileable()

	dst.Attach(w)
	src.SetFocus(nil)
	dst.SetFocus(w)

	m.highlight(w, false)
	if w.Mapped {
		w.ExpectUnmap()
		if err := m.backend.Unmap(w.ID); err != nil {
			w.ConsumeUnmap()
			m.logger.Debug("unmap failed", "window", w.ID, "error", err)
		}
	}

	m.refocus(src)
	if wasTiled {
		m.arrange(src)
	}
	m.arrange(dst)
	m.publishWindowDesktop(w)
	m.publishClients()

	m.emit(Event{Type: EventMoved, Window: w.ID, Workspace: dst.Index})
	return nil
}

// CloseFocused asks the focused window to close. The record is removed
// when the window is actually destroyed.
func (m *Manager) CloseFocused() error {
	w := m.Active().Focus()
	if w == nil {
		return ErrNoFocus
	}
	return m.CloseWindow(w.ID)
}

// CloseWindow asks a tracked window to close.
func (m *Manager) CloseWindow(id platform.WindowID) error {
	if w, _ := m.Find(id); w == nil {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	if err := m.backend.Close(id); err != nil {
		return fmt.Errorf("close window %d: %w", id, err)
	}
	return nil
}
