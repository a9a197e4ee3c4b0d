package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

var supportedHints = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_CURRENT_DESKTOP",
	"_NET_DESKTOP_NAMES",
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_DESKTOP",
}

// AnnounceManager creates the _NET_SUPPORTING_WM_CHECK child window and
// advertises the supported EWMH hints so pagers and bars recognize us.
func (c *Connection) AnnounceManager(name string) error {
	check, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return fmt.Errorf("failed to allocate check window: %w", err)
	}
	if err := check.CreateChecked(c.Root, -1, -1, 1, 1, 0); err != nil {
		return fmt.Errorf("failed to create check window: %w", err)
	}

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, check.Id); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check.Id, check.Id); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(c.XUtil, check.Id, name); err != nil {
		return err
	}
	return ewmh.SupportedSet(c.XUtil, supportedHints)
}

// SetDesktops publishes the workspace names and the active index.
func (c *Connection) SetDesktops(names []string, current int) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(names))); err != nil {
		return fmt.Errorf("failed to set desktop count: %w", err)
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, names); err != nil {
		return fmt.Errorf("failed to set desktop names: %w", err)
	}
	if err := ewmh.CurrentDesktopSet(c.XUtil, uint(current)); err != nil {
		return fmt.Errorf("failed to set current desktop: %w", err)
	}
	return nil
}

// SetClientList publishes the managed windows in order.
func (c *Connection) SetClientList(windows []xproto.Window) error {
	return ewmh.ClientListSet(c.XUtil, windows)
}

// SetActiveWindow publishes the focused window; zero clears it.
func (c *Connection) SetActiveWindow(windowID xproto.Window) error {
	return ewmh.ActiveWindowSet(c.XUtil, windowID)
}

// SetWindowDesktop records which workspace a window belongs to.
func (c *Connection) SetWindowDesktop(windowID xproto.Window, desktop int) error {
	return ewmh.WmDesktopSet(c.XUtil, windowID, uint(desktop))
}
