package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ErrAnotherWM is returned by BecomeManager when substructure redirection
// on the root window is already owned by another client.
var ErrAnotherWM = errors.New("another window manager is already running")

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to the given display (or $DISPLAY when empty) and
// initializes the key and mouse binding modules.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display != "" {
		xu, err = xgbutil.NewConnDisplay(display)
	} else {
		xu, err = xgbutil.NewConn()
	}
	if err != nil {
		return nil, err
	}

	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// BecomeManager selects substructure redirection on the root window. Only
// one client may hold it at a time.
func (c *Connection) BecomeManager() error {
	err := xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		c.Root,
		xproto.CwEventMask,
		[]uint32{
			xproto.EventMaskSubstructureRedirect |
				xproto.EventMaskSubstructureNotify |
				xproto.EventMaskStructureNotify,
		},
	).Check()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAnotherWM, err)
	}
	return nil
}

// ScreenBounds returns the root window geometry.
func (c *Connection) ScreenBounds() (x, y, width, height int, err error) {
	geom, err := xwindow.New(c.XUtil, c.Root).Geometry()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return geom.X(), geom.Y(), geom.Width(), geom.Height(), nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit makes EventLoop return after the current event.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
