package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical output as reported by XRandR.
type Monitor struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Monitors retrieves all active outputs using XRandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("crtc%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

// TilingArea returns the region windows are laid out in: the monitor under
// the pointer (falling back to the whole root window when RandR is
// unavailable) minus the struts reserved by dock windows.
func (c *Connection) TilingArea() (Monitor, error) {
	rx, ry, rw, rh, err := c.ScreenBounds()
	if err != nil {
		return Monitor{}, err
	}
	area := Monitor{Name: "root", X: rx, Y: ry, Width: rw, Height: rh}

	if monitors, err := c.Monitors(); err == nil && len(monitors) > 0 {
		area = monitors[0]
		if pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
			for _, m := range monitors {
				if m.contains(int(pointer.RootX), int(pointer.RootY)) {
					area = m
					break
				}
			}
		}
	}

	c.applyDockStruts(&area, rw, rh)
	return area, nil
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (c *Connection) applyDockStruts(area *Monitor, rootWidth, rootHeight int) {
	children, err := c.TopLevelWindows()
	if err != nil {
		return
	}

	var struts dockStruts
	for _, win := range children {
		if !c.IsDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			struts.add(*area, rootWidth, rootHeight, sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			struts.add(*area, rootWidth, rootHeight, &ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(rootHeight - 1),
				RightEndY:  uint(rootHeight - 1),
				TopEndX:    uint(rootWidth - 1),
				BottomEndX: uint(rootWidth - 1),
			})
		}
	}

	area.X += struts.left
	area.Y += struts.top
	area.Width = max(1, area.Width-struts.left-struts.right)
	area.Height = max(1, area.Height-struts.top-struts.bottom)
}

func (acc *dockStruts) add(area Monitor, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial) {
	ax1, ay1 := area.X, area.Y
	ax2, ay2 := area.X+area.Width, area.Y+area.Height

	if sp.Top > 0 {
		w, h := overlap(ax1, ay1, ax2, ay2, int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top))
		if w > 0 {
			acc.top = max(acc.top, h)
		}
	}
	if sp.Bottom > 0 {
		w, h := overlap(ax1, ay1, ax2, ay2, int(sp.BottomStartX), rootHeight-int(sp.Bottom), int(sp.BottomEndX)+1, rootHeight)
		if w > 0 {
			acc.bottom = max(acc.bottom, h)
		}
	}
	if sp.Left > 0 {
		w, h := overlap(ax1, ay1, ax2, ay2, 0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1)
		if h > 0 {
			acc.left = max(acc.left, w)
		}
	}
	if sp.Right > 0 {
		w, h := overlap(ax1, ay1, ax2, ay2, rootWidth-int(sp.Right), int(sp.RightStartY), rootWidth, int(sp.RightEndY)+1)
		if h > 0 {
			acc.right = max(acc.right, w)
		}
	}
}

// overlap returns the size of the intersection of two rectangles given as
// corner coordinates, or zeros when they do not intersect.
func overlap(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) (w, h int) {
	x1, y1 := max(ax1, bx1), max(ay1, by1)
	x2, y2 := min(ax2, bx2), min(ay2, by2)
	if x2 <= x1 || y2 <= y1 {
		return 0, 0
	}
	return x2 - x1, y2 - y1
}
