package wm

import (
	"github.com/1broseidon/stackwm/internal/tiling"
	"github.com/1broseidon/stackwm/internal/workspace"
)

// arrange runs the workspace's layout policy over its tiled windows and
// pushes the result. Floating and unmapped windows are not touched.
// Clamping happens after layout and does not trigger another pass.
func (m *Manager) arrange(ws *workspace.Workspace) {
	tiles := ws.Tileable()
	rects := ws.Policy().Arrange(m.area, len(tiles))
	if rects == nil {
		return
	}
	for i, w := range tiles {
		w.Geometry = tiling.Inner(rects[i], w.Border)
		w.Clamp()
		m.push(w)
	}
}

// Retile re-runs the layout of the active workspace.
func (m *Manager) Retile() {
	m.arrange(m.Active())
}

// ToggleFloating flips the focused window between tiled and floating.
// Fixed-size windows always float. A window that starts floating keeps
// its current geometry.
func (m *Manager) ToggleFloating() error {
	ws := m.Active()
	w := ws.Focus()
	if w == nil {
		return ErrNoFocus
	}
	if w.Fixed {
		m.logger.Debug("toggle floating: window is fixed size", "window", w.ID)
		return nil
	}

	w.Floating = !w.Floating
	if w.Floating {
		if err := m.backend.Raise(w.ID); err != nil {
			m.logger.Debug("raise failed", "window", w.ID, "error", err)
		}
	}
	m.arrange(ws)

	m.emit(Event{Type: EventFloating, Window: w.ID, Workspace: ws.Index})
	return nil
}

// SetMasterRatio adjusts the active workspace's master ratio by delta
// percentage points, clamped to 1..99.
func (m *Manager) SetMasterRatio(delta int) error {
	ws := m.Active()
	ratio := tiling.ClampRatio(ws.MasterRatio + delta)
	if ratio == ws.MasterRatio {
		return nil
	}
	ws.MasterRatio = ratio
	m.arrange(ws)

	m.emit(Event{Type: EventMasterRatio, Workspace: ws.Index})
	return nil
}

// SetLayout selects the layout policy of the active workspace.
func (m *Manager) SetLayout(kind tiling.Kind) error {
	ws := m.Active()
	if ws.Layout == kind {
		return nil
	}
	ws.Layout = kind
	m.arrange(ws)

	m.logger.Debug("layout changed", "workspace", ws.Index, "layout", kind)
	m.emit(Event{Type: EventLayout, Workspace: ws.Index})
	return nil
}

// CycleLayout advances the active workspace to the next layout policy.
func (m *Manager) CycleLayout() error {
	return m.SetLayout(m.Active().Layout.Next())
}
