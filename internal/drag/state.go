package drag

import (
	"github.com/1broseidon/stackwm/internal/platform"
)

// Phase represents the current phase of an interactive drag
type Phase int

const (
	// Idle means no drag is in progress
	Idle Phase = iota
	// Moving means the target follows the pointer on release
	Moving
	// Resizing means the target's far corner follows the pointer on release
	Resizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Point is a position in root window coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// State is the single system-wide drag slot. The target is kept as a
// window handle so a destroyed target can never be dereferenced.
type State struct {
	Phase   Phase
	Target  platform.WindowID
	Anchor  Point
	Current Point
}

// Active reports whether a drag is in progress.
func (s State) Active() bool {
	return s.Phase != Idle
}

// Begin starts a drag from idle. It reports false if a drag is already
// running or the phase is not Moving or Resizing.
func (s *State) Begin(phase Phase, target platform.WindowID, anchor Point) bool {
	if s.Active() || (phase != Moving && phase != Resizing) {
		return false
	}
	s.Phase = phase
	s.Target = target
	s.Anchor = anchor
	s.Current = anchor
	return true
}

// Motion records a pointer sample. Geometry is not touched until End.
func (s *State) Motion(p Point) bool {
	if !s.Active() {
		return false
	}
	s.Current = p
	return true
}

// End finishes the drag, returning the state as it was at release and
// resetting to idle.
func (s *State) End(p Point) (State, bool) {
	if !s.Active() {
		return State{}, false
	}
	s.Current = p
	done := *s
	s.Reset()
	return done, true
}

// Abort cancels the drag without applying anything if target is the
// window being dragged.
func (s *State) Abort(target platform.WindowID) bool {
	if !s.Active() || s.Target != target {
		return false
	}
	s.Reset()
	return true
}

// Reset returns the state to idle.
func (s *State) Reset() {
	*s = State{}
}

// Delta returns current minus anchor.
func (s State) Delta() (dx, dy int) {
	return s.Current.X - s.Anchor.X, s.Current.Y - s.Anchor.Y
}

// Moved shifts geometry by the drag delta.
func Moved(geometry platform.Rect, s State) platform.Rect {
	dx, dy := s.Delta()
	geometry.X += dx
	geometry.Y += dy
	return geometry
}

// Resized sizes geometry so its content corner lands on the release
// point. The content area starts border pixels inside the outer origin.
// It reports false when either axis would be non-positive.
func Resized(geometry platform.Rect, border int, s State) (platform.Rect, bool) {
	width := s.Current.X - geometry.X - border
	height := s.Current.Y - geometry.Y - border
	if width <= 0 || height <= 0 {
		return geometry, false
	}
	geometry.Width = width
	geometry.Height = height
	return geometry, true
}

// ResizeAnchor is the content corner of a window in root coordinates,
// where the pointer is placed when a resize begins.
func ResizeAnchor(geometry platform.Rect, border int) Point {
	return Point{
		X: geometry.X + border + geometry.Width,
		Y: geometry.Y + border + geometry.Height,
	}
}
