package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// ConfigureWindow sets position, size and border width in one request.
// width and height are the drawn (inner) size.
func (c *Connection) ConfigureWindow(windowID xproto.Window, x, y, width, height, border int) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|
			xproto.ConfigWindowBorderWidth,
		[]uint32{
			uint32(int32(x)),
			uint32(int32(y)),
			uint32(max(1, width)),
			uint32(max(1, height)),
			uint32(max(0, border)),
		},
	).Check()
}

// SetBorderColor sets the border pixel of a window.
func (c *Connection) SetBorderColor(windowID xproto.Window, pixel uint32) error {
	return xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.CwBorderPixel,
		[]uint32{pixel},
	).Check()
}

// SetInputFocus gives keyboard focus to a window.
func (c *Connection) SetInputFocus(windowID xproto.Window) error {
	return xproto.SetInputFocusChecked(
		c.XUtil.Conn(),
		xproto.InputFocusPointerRoot,
		windowID,
		xproto.TimeCurrentTime,
	).Check()
}

// RaiseWindow moves a window to the top of the stacking order.
func (c *Connection) RaiseWindow(windowID xproto.Window) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

func (c *Connection) UnmapWindow(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// WarpPointer moves the pointer to (x, y) relative to the window origin.
func (c *Connection) WarpPointer(windowID xproto.Window, x, y int) error {
	return xproto.WarpPointerChecked(
		c.XUtil.Conn(),
		xproto.WindowNone,
		windowID,
		0, 0, 0, 0,
		int16(x), int16(y),
	).Check()
}

// CloseWindow asks a client to close via WM_DELETE_WINDOW when it
// advertises the protocol, and destroys the window otherwise.
func (c *Connection) CloseWindow(windowID xproto.Window) error {
	if c.supportsProtocol(windowID, "WM_DELETE_WINDOW") {
		return c.sendProtocolMessage(windowID, "WM_DELETE_WINDOW")
	}
	return xproto.DestroyWindowChecked(c.XUtil.Conn(), windowID).Check()
}

func (c *Connection) supportsProtocol(windowID xproto.Window, name string) bool {
	protocols, err := icccm.WmProtocolsGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, p := range protocols {
		if p == name {
			return true
		}
	}
	return false
}

func (c *Connection) sendProtocolMessage(windowID xproto.Window, name string) error {
	protocolReply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", name, err)
	}
	wmProtocols, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern WM_PROTOCOLS: %w", err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   wmProtocols.Atom,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(protocolReply.Atom), uint32(xproto.TimeCurrentTime), 0, 0, 0,
		}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// WindowGeometry returns a window's position and drawn size.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return int(geom.X), int(geom.Y), int(geom.Width), int(geom.Height), nil
}

// NormalHints returns the WM_NORMAL_HINTS min and max size. Unset values
// are reported as zero.
func (c *Connection) NormalHints(windowID xproto.Window) (minW, minH, maxW, maxH int, err error) {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if hints.Flags&icccm.SizeHintPMinSize != 0 {
		minW, minH = int(hints.MinWidth), int(hints.MinHeight)
	}
	if hints.Flags&icccm.SizeHintPMaxSize != 0 {
		maxW, maxH = int(hints.MaxWidth), int(hints.MaxHeight)
	}
	return minW, minH, maxW, maxH, nil
}

// IsOverrideRedirect reports whether a window bypasses window management.
func (c *Connection) IsOverrideRedirect(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.OverrideRedirect
}

// IsViewable reports whether a window is currently mapped and visible.
func (c *Connection) IsViewable(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// Exists reports whether the server still knows the window.
func (c *Connection) Exists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// IsDock checks whether a window declares itself as a panel, desktop or
// other surface that must not be managed.
func (c *Connection) IsDock(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return true
		}
	}
	return false
}

// WindowUnderPointer returns the top-level window under the pointer, or
// WindowNone over the bare root.
func (c *Connection) WindowUnderPointer() (xproto.Window, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return xproto.WindowNone, fmt.Errorf("failed to query pointer: %w", err)
	}
	return reply.Child, nil
}

// TopLevelWindows lists the direct children of the root window in
// stacking order (bottom first).
func (c *Connection) TopLevelWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}
	return tree.Children, nil
}

// WindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && title != "" {
		return title
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return title
	}
	return ""
}

// WindowClass returns the WM_CLASS class component.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	class, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return class.Class
}
