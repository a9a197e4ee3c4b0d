package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// ConfigureRequest is a client's request to change its own geometry.
type ConfigureRequest struct {
	Window      xproto.Window
	X           int
	Y           int
	Width       int
	Height      int
	BorderWidth int
	Sibling     xproto.Window
	StackMode   byte
	Mask        uint16
}

// Sink receives the root-window events a window manager reacts to.
// Methods are called from the X event loop goroutine.
type Sink interface {
	MapRequest(windowID xproto.Window)
	ConfigureRequest(req ConfigureRequest)
	DestroyNotify(windowID xproto.Window)
	UnmapNotify(windowID xproto.Window)

	// EWMH client messages sent by pagers and taskbars.
	DesktopRequest(index int)
	ActivateRequest(windowID xproto.Window)
	CloseRequest(windowID xproto.Window)
}

// Listen connects the sink to the root window. Call BecomeManager first.
func (c *Connection) Listen(sink Sink) {
	xu := c.XUtil

	xevent.MapRequestFun(func(_ *xgbutil.XUtil, ev xevent.MapRequestEvent) {
		sink.MapRequest(ev.Window)
	}).Connect(xu, c.Root)

	xevent.ConfigureRequestFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
		sink.ConfigureRequest(ConfigureRequest{
			Window:      ev.Window,
			X:           int(ev.X),
			Y:           int(ev.Y),
			Width:       int(ev.Width),
			Height:      int(ev.Height),
			BorderWidth: int(ev.BorderWidth),
			Sibling:     ev.Sibling,
			StackMode:   ev.StackMode,
			Mask:        ev.ValueMask,
		})
	}).Connect(xu, c.Root)

	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		sink.DestroyNotify(ev.Window)
	}).Connect(xu, c.Root)

	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		sink.UnmapNotify(ev.Window)
	}).Connect(xu, c.Root)

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		name, err := xprop.AtomName(xu, ev.Type)
		if err != nil {
			return
		}
		switch name {
		case "_NET_CURRENT_DESKTOP":
			sink.DesktopRequest(int(ev.Data.Data32[0]))
		case "_NET_ACTIVE_WINDOW":
			sink.ActivateRequest(ev.Window)
		case "_NET_CLOSE_WINDOW":
			sink.CloseRequest(ev.Window)
		}
	}).Connect(xu, c.Root)
}

// ConfigurePassthrough grants a configure request unchanged. Used for
// windows that are not tiled.
func (c *Connection) ConfigurePassthrough(req ConfigureRequest) error {
	var (
		mask   uint16
		values []uint32
	)
	add := func(bit uint16, v uint32) {
		if req.Mask&bit != 0 {
			mask |= bit
			values = append(values, v)
		}
	}
	// Values must follow the bit order of the mask.
	add(xproto.ConfigWindowX, uint32(int32(req.X)))
	add(xproto.ConfigWindowY, uint32(int32(req.Y)))
	add(xproto.ConfigWindowWidth, uint32(req.Width))
	add(xproto.ConfigWindowHeight, uint32(req.Height))
	add(xproto.ConfigWindowBorderWidth, uint32(req.BorderWidth))
	add(xproto.ConfigWindowSibling, uint32(req.Sibling))
	add(xproto.ConfigWindowStackMode, uint32(req.StackMode))

	if mask == 0 {
		return nil
	}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), req.Window, mask, values).Check()
}

// SendConfigureNotify tells a client its current geometry without moving
// it, answering a configure request that was denied.
func (c *Connection) SendConfigureNotify(windowID xproto.Window, x, y, width, height, border int) error {
	ev := xproto.ConfigureNotifyEvent{
		Event:            windowID,
		Window:           windowID,
		AboveSibling:     xproto.WindowNone,
		X:                int16(x),
		Y:                int16(y),
		Width:            uint16(max(1, width)),
		Height:           uint16(max(1, height)),
		BorderWidth:      uint16(max(0, border)),
		OverrideRedirect: false,
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskStructureNotify,
		string(ev.Bytes()),
	).Check()
}
