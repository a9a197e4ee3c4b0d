package workspace

import (
	"github.com/1broseidon/stackwm/internal/platform"
)

// Window is the record for one managed top-level window.
//
// Geometry holds the outer origin and the drawn (content) size; the border
// is drawn outside the content area. A record belongs to at most one
// Workspace at a time and must not be used after Detach.
type Window struct {
	ID       platform.WindowID
	Geometry platform.Rect
	Border   int
	Hints    platform.SizeHints

	Mapped   bool
	Floating bool
	Fixed    bool

	Title string
	Class string

	ws            *Workspace
	slot          int
	pendingUnmaps int
}

// NewWindow creates a detached record with its initial geometry and hints.
// A window whose min and max size hints agree on both axes is fixed and
// therefore floating.
func NewWindow(id platform.WindowID, geometry platform.Rect, border int, hints platform.SizeHints) *Window {
	w := &Window{
		ID:       id,
		Geometry: geometry,
		Border:   border,
		Hints:    hints,
		slot:     noSlot,
	}
	if hints.MinWidth > 0 && hints.MinHeight > 0 &&
		hints.MinWidth == hints.MaxWidth && hints.MinHeight == hints.MaxHeight {
		w.Fixed = true
		w.Floating = true
	}
	return w
}

// Workspace returns the owning workspace, or nil when detached.
func (w *Window) Workspace() *Workspace {
	return w.ws
}

// Focused reports whether this window is its workspace's focus.
func (w *Window) Focused() bool {
	return w.ws != nil && w.ws.focus == w
}

// Tileable reports whether the window takes part in tiling.
func (w *Window) Tileable() bool {
	return w.Mapped && !w.Floating
}

// Outer returns the rectangle covered by the window including its border.
func (w *Window) Outer() platform.Rect {
	return platform.Rect{
		X:      w.Geometry.X,
		Y:      w.Geometry.Y,
		Width:  w.Geometry.Width + 2*w.Border,
		Height: w.Geometry.Height + 2*w.Border,
	}
}

// Clamp enforces the size hints on the current geometry. Minimums are
// applied before maximums on each axis. It reports whether the geometry
// changed.
func (w *Window) Clamp() bool {
	g := w.Geometry
	h := w.Hints

	if h.MinWidth > 0 && g.Width < h.MinWidth {
		g.Width = h.MinWidth
	}
	if h.MaxWidth > 0 && g.Width > h.MaxWidth {
		g.Width = h.MaxWidth
	}
	if h.MinHeight > 0 && g.Height < h.MinHeight {
		g.Height = h.MinHeight
	}
	if h.MaxHeight > 0 && g.Height > h.MaxHeight {
		g.Height = h.MaxHeight
	}

	if g == w.Geometry {
		return false
	}
	w.Geometry = g
	return true
}

// ExpectUnmap records that the manager itself is about to unmap the
// window, so the resulting UnmapNotify is not mistaken for the client
// withdrawing.
func (w *Window) ExpectUnmap() {
	w.pendingUnmaps++
}

// ConsumeUnmap reports whether an unmap notification was caused by the
// manager, consuming one pending expectation if so.
func (w *Window) ConsumeUnmap() bool {
	if w.pendingUnmaps == 0 {
		return false
	}
	w.pendingUnmaps--
	return true
}
