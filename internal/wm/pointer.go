package wm

import (
	"github.com/1broseidon/stackwm/internal/drag"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
)

// Button identifies which drag binding was pressed.
type Button int

const (
	// ButtonMove starts a move drag.
	ButtonMove Button = iota + 1
	// ButtonResize starts a resize drag anchored at the far corner.
	ButtonResize
)

// OnPointerPress starts a drag of window id. It reports whether a drag
// began; the event layer only grabs the pointer when it did.
//
// The window is focused and raised. A tiled window on a tiled workspace is
// made floating first so the next layout pass leaves it where it is
// dropped.
func (m *Manager) OnPointerPress(id platform.WindowID, button Button, at drag.Point) bool {
	if m.drag.Active() {
		return false
	}
	w, ws := m.Find(id)
	if w == nil || !m.isActive(ws) || !w.Mapped {
		m.logger.Debug("pointer press ignored", "window", id)
		return false
	}

	var (
		phase  drag.Phase
		anchor drag.Point
	)
	switch button {
	case ButtonMove:
		phase = drag.Moving
		anchor = at
	case ButtonResize:
		phase = drag.Resizing
		anchor = drag.ResizeAnchor(w.Geometry, w.Border)
	default:
		return false
	}

	m.focusWindow(ws, w, false)
	if w.Tileable() && ws.Layout == tiling.KindTiled {
		w.Floating = true
		m.arrange(ws)
		m.emit(Event{Type: EventFloating, Window: id, Workspace: ws.Index})
	}

	if phase == drag.Resizing {
		if err := m.backend.WarpPointer(id, w.Geometry.Width, w.Geometry.Height); err != nil {
			m.logger.Debug("warp pointer failed", "window", id, "error", err)
		}
	}

	return m.drag.Begin(phase, id, anchor)
}

// OnPointerMotion records a pointer sample for the active drag.
func (m *Manager) OnPointerMotion(at drag.Point) {
	m.drag.Motion(at)
}

// OnPointerRelease ends the active drag and applies it. A resize that
// would leave an axis non-positive is discarded.
func (m *Manager) OnPointerRelease(at drag.Point) {
	done, ok := m.drag.End(at)
	if !ok {
		return
	}
	w, ws := m.Find(done.Target)
	if w == nil {
		return
	}

	switch done.Phase {
	case drag.Moving:
		w.Geometry = drag.Moved(w.Geometry, done)
	case drag.Resizing:
		geometry, ok := drag.Resized(w.Geometry, w.Border, done)
		if !ok {
			m.logger.Debug("resize rejected", "window", w.ID, "release", at)
			return
		}
		w.Geometry = geometry
		w.Clamp()
	}
	m.push(w)

	m.emit(Event{Type: EventDragEnd, Window: w.ID, Workspace: ws.Index})
}
