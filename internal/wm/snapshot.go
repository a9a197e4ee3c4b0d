package wm

import (
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
	"github.com/1broseidon/stackwm/internal/workspace"
)

// WindowSnapshot is a read-only copy of a window record.
type WindowSnapshot struct {
	ID        platform.WindowID `json:"id"`
	Title     string            `json:"title,omitempty"`
	Class     string            `json:"class,omitempty"`
	Workspace int               `json:"workspace"`
	Geometry  platform.Rect     `json:"geometry"`
	Border    int               `json:"border"`
	Mapped    bool              `json:"mapped"`
	Floating  bool              `json:"floating"`
	Fixed     bool              `json:"fixed"`
	Focused   bool              `json:"focused"`
}

// WorkspaceSnapshot is a read-only copy of a workspace, windows in list
// order.
type WorkspaceSnapshot struct {
	Index       int               `json:"index"`
	Name        string            `json:"name"`
	Layout      tiling.Kind       `json:"layout"`
	MasterRatio int               `json:"master_ratio"`
	Active      bool              `json:"active"`
	Focus       platform.WindowID `json:"focus,omitempty"`
	Windows     []WindowSnapshot  `json:"windows"`
}

// DragSnapshot describes the drag slot.
type DragSnapshot struct {
	Phase  string            `json:"phase"`
	Target platform.WindowID `json:"target,omitempty"`
}

// Snapshot is a consistent copy of the whole manager state, safe to hand
// to other goroutines.
type Snapshot struct {
	Active     int                 `json:"active"`
	Area       platform.Rect       `json:"area"`
	Drag       DragSnapshot        `json:"drag"`
	Workspaces []WorkspaceSnapshot `json:"workspaces"`
}

// Snapshot copies the current state.
func (m *Manager) Snapshot() Snapshot {
	snap := Snapshot{
		Active: m.active,
		Area:   m.area,
		Drag: DragSnapshot{
			Phase:  m.drag.Phase.String(),
			Target: m.drag.Target,
		},
		Workspaces: make([]WorkspaceSnapshot, len(m.workspaces)),
	}

	for i, ws := range m.workspaces {
		wsSnap := WorkspaceSnapshot{
			Index:       ws.Index,
			Name:        ws.Name,
			Layout:      ws.Layout,
			MasterRatio: ws.MasterRatio,
			Active:      i == m.active,
			Windows:     make([]WindowSnapshot, 0, ws.Len()),
		}
		if f := ws.Focus(); f != nil {
			wsSnap.Focus = f.ID
		}
		for _, w := range ws.Windows() {
			wsSnap.Windows = append(wsSnap.Windows, snapshotWindow(w))
		}
		snap.Workspaces[i] = wsSnap
	}
	return snap
}

func snapshotWindow(w *workspace.Window) WindowSnapshot {
	return WindowSnapshot{
		ID:        w.ID,
		Title:     w.Title,
		Class:     w.Class,
		Workspace: w.Workspace().Index,
		Geometry:  w.Geometry,
		Border:    w.Border,
		Mapped:    w.Mapped,
		Floating:  w.Floating,
		Fixed:     w.Fixed,
		Focused:   w.Focused(),
	}
}

// Window returns a snapshot of a single tracked window.
func (s Snapshot) Window(id platform.WindowID) (WindowSnapshot, bool) {
	for _, ws := range s.Workspaces {
		for _, w := range ws.Windows {
			if w.ID == id {
				return w, true
			}
		}
	}
	return WindowSnapshot{}, false
}

// Focused returns the focused window of the active workspace.
func (s Snapshot) Focused() (WindowSnapshot, bool) {
	if s.Active < 0 || s.Active >= len(s.Workspaces) {
		return WindowSnapshot{}, false
	}
	ws := s.Workspaces[s.Active]
	if ws.Focus == 0 {
		return WindowSnapshot{}, false
	}
	return s.Window(ws.Focus)
}
