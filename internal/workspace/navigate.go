package workspace

import (
	"fmt"
	"strings"
)

// Direction selects a neighbor for focus and swap navigation.
type Direction int

const (
	Prev Direction = iota
	Master
	Next
)

func (d Direction) String() string {
	switch d {
	case Prev:
		return "prev"
	case Master:
		return "master"
	case Next:
		return "next"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection accepts next, prev (or previous) and master.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev", "previous", "up":
		return Prev, nil
	case "master", "main":
		return Master, nil
	case "next", "down":
		return Next, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Neighbor finds the window to move to from cur in direction d among the
// windows accepted by eligible. Order is strictly list order. Next and Prev
// wrap around; with a nil cur, or for Master, the first eligible window is
// returned. The result may be cur itself when it is the only candidate, and
// nil when nothing is eligible.
func (ws *Workspace) Neighbor(cur *Window, d Direction, eligible func(*Window) bool) *Window {
	if cur == nil || !ws.Contains(cur) || d == Master {
		return ws.scanForward(ws.First(), eligible, nil)
	}

	switch d {
	case Next:
		if w := ws.scanForward(ws.Next(cur), eligible, nil); w != nil {
			return w
		}
		return ws.scanForward(ws.First(), eligible, ws.Next(cur))
	case Prev:
		if w := ws.scanBackward(ws.Prev(cur), eligible, nil); w != nil {
			return w
		}
		return ws.scanBackward(ws.Last(), eligible, ws.Prev(cur))
	}
	return nil
}

// scanForward walks from start toward the tail, stopping before stop.
func (ws *Workspace) scanForward(start *Window, eligible func(*Window) bool, stop *Window) *Window {
	for w := start; w != nil && w != stop; w = ws.Next(w) {
		if eligible(w) {
			return w
		}
	}
	return nil
}

func (ws *Workspace) scanBackward(start *Window, eligible func(*Window) bool, stop *Window) *Window {
	for w := start; w != nil && w != stop; w = ws.Prev(w) {
		if eligible(w) {
			return w
		}
	}
	return nil
}

// Focusable reports whether a window may take focus.
func Focusable(w *Window) bool { return w.Mapped }

// Swappable reports whether a window may be reordered.
func Swappable(w *Window) bool { return w.Tileable() }
