package daemon

import (
	"log/slog"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
	"github.com/1broseidon/stackwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// Display is the part of the X connection the sink talks to directly,
// outside the manager: filtering unmanaged windows and answering
// configure requests.
type Display interface {
	IsOverrideRedirect(windowID xproto.Window) bool
	IsDock(windowID xproto.Window) bool
	MapWindow(windowID xproto.Window) error
	WindowTitle(windowID xproto.Window) string
	WindowClass(windowID xproto.Window) string
	ConfigurePassthrough(req x11.ConfigureRequest) error
	SendConfigureNotify(windowID xproto.Window, x, y, width, height, border int) error
}

// AreaFunc computes the current tiling area.
type AreaFunc func() (platform.Rect, error)

// Sink turns root-window events into loop steps. Its methods run on the X
// event goroutine; anything touching the manager is submitted to the loop.
type Sink struct {
	loop    *Loop
	display Display
	area    AreaFunc
	logger  *slog.Logger

	docks map[xproto.Window]struct{}
}

// NewSink creates a sink. area may be nil when docks should not change the
// tiling area.
func NewSink(loop *Loop, display Display, area AreaFunc, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{
		loop:    loop,
		display: display,
		area:    area,
		logger:  logger,
		docks:   make(map[xproto.Window]struct{}),
	}
}

var _ x11.Sink = (*Sink)(nil)

func (s *Sink) MapRequest(windowID xproto.Window) {
	if s.display.IsOverrideRedirect(windowID) {
		return
	}
	if s.display.IsDock(windowID) {
		s.docks[windowID] = struct{}{}
		if err := s.display.MapWindow(windowID); err != nil {
			s.logger.Debug("map dock failed", "window", windowID, "error", err)
		}
		s.RefreshArea()
		return
	}

	title := s.display.WindowTitle(windowID)
	class := s.display.WindowClass(windowID)
	id := platform.WindowID(windowID)
	s.submit(func(m *wm.Manager) {
		if w, _ := m.Find(id); w == nil {
			w = m.OnWindowCreated(id)
			if w == nil {
				return
			}
			w.Title = title
			w.Class = class
		}
		m.OnWindowMapped(id)
	})
}

// Adopt takes over a window that was already viewable when the manager
// started. Docks are only remembered since their struts are already part
// of the startup area.
func (s *Sink) Adopt(windowID xproto.Window) {
	if s.display.IsOverrideRedirect(windowID) {
		return
	}
	if s.display.IsDock(windowID) {
		s.docks[windowID] = struct{}{}
		return
	}

	title := s.display.WindowTitle(windowID)
	class := s.display.WindowClass(windowID)
	id := platform.WindowID(windowID)
	s.submit(func(m *wm.Manager) {
		m.Adopt(id)
		if w, _ := m.Find(id); w != nil {
			w.Title = title
			w.Class = class
		}
	})
}

func (s *Sink) ConfigureRequest(req x11.ConfigureRequest) {
	id := platform.WindowID(req.Window)
	s.submit(func(m *wm.Manager) {
		w, _ := m.Find(id)
		if w == nil {
			if err := s.display.ConfigurePassthrough(req); err != nil {
				s.logger.Debug("configure passthrough failed", "window", id, "error", err)
			}
			return
		}

		requested := w.Geometry
		if req.Mask&xproto.ConfigWindowX != 0 {
			requested.X = req.X
		}
		if req.Mask&xproto.ConfigWindowY != 0 {
			requested.Y = req.Y
		}
		if req.Mask&xproto.ConfigWindowWidth != 0 {
			requested.Width = req.Width
		}
		if req.Mask&xproto.ConfigWindowHeight != 0 {
			requested.Height = req.Height
		}

		reply := m.OnWindowReconfigured(id, requested)
		g := reply.Geometry
		if err := s.display.SendConfigureNotify(req.Window, g.X, g.Y, g.Width, g.Height, reply.Border); err != nil {
			s.logger.Debug("configure notify failed", "window", id, "error", err)
		}
	})
}

func (s *Sink) DestroyNotify(windowID xproto.Window) {
	if s.forgetDock(windowID) {
		return
	}
	id := platform.WindowID(windowID)
	s.submit(func(m *wm.Manager) {
		m.OnWindowDestroyed(id)
	})
}

func (s *Sink) UnmapNotify(windowID xproto.Window) {
	if s.forgetDock(windowID) {
		return
	}
	id := platform.WindowID(windowID)
	s.submit(func(m *wm.Manager) {
		m.OnWindowUnmapped(id)
	})
}

func (s *Sink) DesktopRequest(index int) {
	s.submit(func(m *wm.Manager) {
		if err := m.SwitchWorkspace(index); err != nil {
			s.logger.Debug("desktop request ignored", "index", index, "error", err)
		}
	})
}

func (s *Sink) ActivateRequest(windowID xproto.Window) {
	id := platform.WindowID(windowID)
	s.submit(func(m *wm.Manager) {
		if err := m.FocusWindow(id); err != nil {
			s.logger.Debug("activate request ignored", "window", id, "error", err)
		}
	})
}

func (s *Sink) CloseRequest(windowID xproto.Window) {
	id := platform.WindowID(windowID)
	s.submit(func(m *wm.Manager) {
		if err := m.CloseWindow(id); err != nil {
			s.logger.Debug("close request failed", "window", id, "error", err)
		}
	})
}

// RefreshArea recomputes the tiling area and re-tiles when it changed.
func (s *Sink) RefreshArea() {
	if s.area == nil {
		return
	}
	area, err := s.area()
	if err != nil {
		s.logger.Warn("failed to compute tiling area", "error", err)
		return
	}
	s.submit(func(m *wm.Manager) {
		if m.Area() != area {
			m.SetArea(area)
		}
	})
}

func (s *Sink) forgetDock(windowID xproto.Window) bool {
	if _, ok := s.docks[windowID]; !ok {
		return false
	}
	delete(s.docks, windowID)
	s.RefreshArea()
	return true
}

func (s *Sink) submit(step Step) {
	if err := s.loop.Submit(step); err != nil {
		s.logger.Debug("event dropped", "error", err)
	}
}
