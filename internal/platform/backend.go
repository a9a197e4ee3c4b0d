package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// SizeHints holds the minimum and maximum size a client asked for.
// A zero value on an axis means the hint is not set.
type SizeHints struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
}

// Backend abstracts the display-server side effects the window manager
// needs. Implementations must tolerate calls for windows that no longer
// exist on the server and report them as errors.
type Backend interface {
	// ApplyGeometry pushes a window's content geometry and border width.
	ApplyGeometry(windowID WindowID, bounds Rect, borderWidth int) error
	SetInputFocus(windowID WindowID) error
	Raise(windowID WindowID) error
	Highlight(windowID WindowID, on bool) error
	Map(windowID WindowID) error
	Unmap(windowID WindowID) error
	WarpPointer(windowID WindowID, x, y int) error
	Close(windowID WindowID) error

	// InitialGeometry and SizeHints are one-shot queries used while a new
	// window record is initialised.
	InitialGeometry(windowID WindowID) (Rect, error)
	SizeHints(windowID WindowID) (SizeHints, error)
}

// DesktopPublisher is an optional interface for backends that advertise
// workspace and client state to other X clients (pagers, bars).
type DesktopPublisher interface {
	PublishDesktops(names []string, current int) error
	PublishClients(windows []WindowID) error
	PublishActive(windowID WindowID) error
	PublishWindowDesktop(windowID WindowID, desktop int) error
}
