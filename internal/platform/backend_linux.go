//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// BorderColors are the border pixels used for unfocused and focused windows.
type BorderColors struct {
	Normal uint32
	Focus  uint32
}

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn   *x11.Connection
	colors BorderColors
}

var (
	_ Backend          = (*LinuxBackend)(nil)
	_ DesktopPublisher = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, colors BorderColors) *LinuxBackend {
	return &LinuxBackend{conn: conn, colors: colors}
}

// ApplyGeometry configures a window's position, drawn size and border.
func (b *LinuxBackend) ApplyGeometry(windowID WindowID, bounds Rect, borderWidth int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ConfigureWindow(
		xproto.Window(windowID),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
		borderWidth,
	)
}

func (b *LinuxBackend) SetInputFocus(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetInputFocus(xproto.Window(windowID))
}

func (b *LinuxBackend) Raise(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.RaiseWindow(xproto.Window(windowID))
}

// Highlight switches a window's border between the focus and normal colors.
func (b *LinuxBackend) Highlight(windowID WindowID, on bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	pixel := b.colors.Normal
	if on {
		pixel = b.colors.Focus
	}
	return conn.SetBorderColor(xproto.Window(windowID), pixel)
}

func (b *LinuxBackend) Map(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MapWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) Unmap(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.UnmapWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) WarpPointer(windowID WindowID, x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WarpPointer(xproto.Window(windowID), x, y)
}

// Close requests graceful window close via WM_DELETE_WINDOW.
func (b *LinuxBackend) Close(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.CloseWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) InitialGeometry(windowID WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	x, y, w, h, err := conn.WindowGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, fmt.Errorf("failed to get geometry of window %d: %w", windowID, err)
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

func (b *LinuxBackend) SizeHints(windowID WindowID) (SizeHints, error) {
	conn, err := b.connection()
	if err != nil {
		return SizeHints{}, err
	}
	minW, minH, maxW, maxH, err := conn.NormalHints(xproto.Window(windowID))
	if err != nil {
		return SizeHints{}, err
	}
	return SizeHints{MinWidth: minW, MinHeight: minH, MaxWidth: maxW, MaxHeight: maxH}, nil
}

func (b *LinuxBackend) PublishDesktops(names []string, current int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetDesktops(names, current)
}

func (b *LinuxBackend) PublishClients(windows []WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	ids := make([]xproto.Window, len(windows))
	for i, w := range windows {
		ids[i] = xproto.Window(w)
	}
	return conn.SetClientList(ids)
}

func (b *LinuxBackend) PublishActive(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetActiveWindow(xproto.Window(windowID))
}

// PublishWindowDesktop records the workspace index of a window.
func (b *LinuxBackend) PublishWindowDesktop(windowID WindowID, desktop int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetWindowDesktop(xproto.Window(windowID), desktop)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
