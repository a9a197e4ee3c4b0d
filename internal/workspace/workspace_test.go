package workspace

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
)

func newTestWindow(id platform.WindowID) *Window {
	w := NewWindow(id, platform.Rect{Width: 100, Height: 100}, 0, platform.SizeHints{})
	w.Mapped = true
	return w
}

func ids(windows []*Window) []platform.WindowID {
	out := make([]platform.WindowID, len(windows))
	for i, w := range windows {
		out[i] = w.ID
	}
	return out
}

func equalIDs(a, b []platform.WindowID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAttachInsertsAtHead(t *testing.T) {
	ws := New(0, "", tiling.KindTiled, 55)
	a, b, c := newTestWindow(1), newTestWindow(2), newTestWindow(3)

	ws.Attach(a)
	if ws.First() != a || ws.Last() != a {
		t.Fatalf("single element should be both first and last")
	}
	ws.Attach(b)
	ws.Attach(c)

	if got := ids(ws.Windows()); !equalIDs(got, []platform.WindowID{3, 2, 1}) {
		t.Fatalf("expected head insertion order [3 2 1], got %v", got)
	}
	if ws.Last() != a {
		t.Fatalf("expected first attached window at tail")
	}
	if a.Focused() || a.Workspace() != ws {
		t.Fatalf("attach must not focus, and must set owner")
	}
	if err := ws.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDetachEndpoints(t *testing.T) {
	ws := New(0, "", tiling.KindTiled, 55)
	a, b, c := newTestWindow(1), newTestWindow(2), newTestWindow(3)
	ws.Attach(a)
	ws.Attach(b)
	ws.Attach(c)

	if !Detach(c) {
		t.Fatalf("detach head failed")
	}
	if ws.First() != b {
		t.Fatalf("expected b at head after removing c")
	}
	if !Detach(a) {
		t.Fatalf("detach tail failed")
	}
	if ws.First() != b || ws.Last() != b {
		t.Fatalf("expected b as sole element")
	}
	if !Detach(b) {
		t.Fatalf("detach last element failed")
	}
	if ws.First() != nil || ws.Last() != nil || ws.Len() != 0 {
		t.Fatalf("expected empty workspace")
	}
	if Detach(b) {
		t.Fatalf("second detach should report false")
	}
	if err := ws.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDetachLeavesFocusToCaller(t *testing.T) {
	ws := New(0, "", tiling.KindTiled, 55)
	a := newTestWindow(1)
	ws.Attach(a)
	ws.SetFocus(a)

	Detach(a)
	if ws.Focus() != a {
		t.Fatalf("detach must not alter focus")
	}
	if err := ws.Validate(); err == nil {
		t.Fatalf("expected validate to flag stale focus")
	}
	ws.SetFocus(nil)
	if err := ws.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestAttachMovesBetweenWorkspaces(t *testing.T) {
	one := New(0, "", tiling.KindTiled, 55)
	two := New(1, "", tiling.KindTiled, 55)
	w := newTestWindow(7)

	one.Attach(w)
	two.Attach(w)

	if one.Len() != 0 || two.Len() != 1 {
		t.Fatalf("expected window only in second workspace, got %d/%d", one.Len(), two.Len())
	}
	if one.Contains(w) || !two.Contains(w) {
		t.Fatalf("membership mismatch")
	}
}

func TestListIntegrityRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	spaces := []*Workspace{
		New(0, "", tiling.KindTiled, 55),
		New(1, "", tiling.KindTiled, 55),
		New(2, "", tiling.KindFree, 55),
	}
	windows := make([]*Window, 40)
	for i := range windows {
		windows[i] = newTestWindow(platform.WindowID(i + 1))
	}

	for step := 0; step < 2000; step++ {
		w := windows[rng.Intn(len(windows))]
		if rng.Intn(3) == 0 {
			Detach(w)
		} else {
			spaces[rng.Intn(len(spaces))].Attach(w)
		}

		members := map[platform.WindowID]int{}
		for _, ws := range spaces {
			if err := ws.Validate(); err != nil {
				t.Fatalf("step %d: %v", step, err)
			}
			if (ws.Len() == 0) != (ws.First() == nil) || (ws.First() == nil) != (ws.Last() == nil) {
				t.Fatalf("step %d: endpoints inconsistent with length", step)
			}
			if ws.Len() == 1 && ws.First() != ws.Last() {
				t.Fatalf("step %d: single element must be first and last", step)
			}
			for _, m := range ws.Windows() {
				members[m.ID]++
			}
		}
		for id, n := range members {
			if n > 1 {
				t.Fatalf("step %d: window %d in %d workspaces", step, id, n)
			}
		}
	}
}

func TestNeighborWraparound(t *testing.T) {
	ws := New(0, "", tiling.KindTiled, 55)
	for i := 5; i >= 1; i-- {
		ws.Attach(newTestWindow(platform.WindowID(i)))
	}
	// List order is 1..5; window 3 is unmapped and must be skipped.
	ws.Find(3).Mapped = false

	for _, start := range []platform.WindowID{1, 2, 4, 5} {
		cur := ws.Find(start)
		var forward []platform.WindowID
		for i := 0; i < 4; i++ {
			cur = ws.Neighbor(cur, Next, Focusable)
			forward = append(forward, cur.ID)
		}
		if cur.ID != start {
			t.Fatalf("next from %d did not return after 4 steps: %v", start, forward)
		}
		sorted := append([]platform.WindowID(nil), forward...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		if !equalIDs(sorted, []platform.WindowID{1, 2, 4, 5}) {
			t.Fatalf("next from %d visited %v", start, forward)
		}

		cur = ws.Find(start)
		var backward []platform.WindowID
		for i := 0; i < 4; i++ {
			cur = ws.Neighbor(cur, Prev, Focusable)
			backward = append(backward, cur.ID)
		}
		// Reverse of the forward walk, shifted to end at start.
		for i := 0; i < 4; i++ {
			if want := forward[(6-i)%4]; backward[i] != want {
				t.Fatalf("prev from %d = %v, forward = %v", start, backward, forward)
			}
		}
	}
}

func TestNeighborMasterAndEmpty(t *testing.T) {
	ws := New(0, "", tiling.KindTiled, 55)
	if ws.Neighbor(nil, Next, Focusable) != nil {
		t.Fatalf("expected nil on empty workspace")
	}

	a, b := newTestWindow(1), newTestWindow(2)
	ws.Attach(b)
	ws.Attach(a)
	a.Floating = true

	if got := ws.Neighbor(b, Master, Focusable); got != a {
		t.Fatalf("master focus should pick first mapped window, got %v", got)
	}
	if got := ws.Neighbor(b, Master, Swappable); got != b {
		t.Fatalf("master swap should skip floating windows, got %v", got)
	}
	if got := ws.Neighbor(nil, Prev, Focusable); got != a {
		t.Fatalf("no current focus should select first eligible window")
	}
	if got := ws.Neighbor(b, Next, Swappable); got != b {
		t.Fatalf("sole eligible window should be its own neighbor")
	}
}

func TestSwapContentsPreservesSet(t *testing.T) {
	ws := New(0, "", tiling.KindTiled, 55)
	a, b, c := newTestWindow(1), newTestWindow(2), newTestWindow(3)
	ws.Attach(c)
	ws.Attach(b)
	ws.Attach(a)
	ws.SetFocus(b)

	if !ws.SwapContents(b, c) {
		t.Fatalf("swap failed")
	}
	if got := ids(ws.Windows()); !equalIDs(got, []platform.WindowID{1, 3, 2}) {
		t.Fatalf("expected [1 3 2], got %v", got)
	}
	if ws.Focus() != b || !b.Focused() {
		t.Fatalf("focus must stay on the swapped window")
	}
	if ws.Next(b) != nil || ws.Prev(b) != c {
		t.Fatalf("links did not follow the swapped content")
	}
	if ws.SwapContents(a, a) {
		t.Fatalf("swapping a window with itself should be rejected")
	}
	if err := ws.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name    string
		size    platform.Rect
		hints   platform.SizeHints
		want    platform.Rect
		changed bool
	}{
		{
			name: "no hints",
			size: platform.Rect{Width: 50, Height: 50},
			want: platform.Rect{Width: 50, Height: 50},
		},
		{
			name:    "raise to minimum",
			size:    platform.Rect{Width: 50, Height: 50},
			hints:   platform.SizeHints{MinWidth: 80, MinHeight: 60},
			want:    platform.Rect{Width: 80, Height: 60},
			changed: true,
		},
		{
			name:    "lower to maximum",
			size:    platform.Rect{Width: 500, Height: 500},
			hints:   platform.SizeHints{MaxWidth: 300, MaxHeight: 200},
			want:    platform.Rect{Width: 300, Height: 200},
			changed: true,
		},
		{
			name:    "single axis",
			size:    platform.Rect{X: 4, Y: 9, Width: 10, Height: 500},
			hints:   platform.SizeHints{MinWidth: 20, MaxWidth: 400, MinHeight: 20, MaxHeight: 600},
			want:    platform.Rect{X: 4, Y: 9, Width: 20, Height: 500},
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(1, tt.size, 0, tt.hints)
			if got := w.Clamp(); got != tt.changed {
				t.Fatalf("Clamp() = %v, want %v", got, tt.changed)
			}
			if w.Geometry != tt.want {
				t.Fatalf("geometry = %+v, want %+v", w.Geometry, tt.want)
			}
		})
	}
}

func TestFixedWindowsFloat(t *testing.T) {
	w := NewWindow(1, platform.Rect{Width: 200, Height: 100}, 0,
		platform.SizeHints{MinWidth: 200, MinHeight: 100, MaxWidth: 200, MaxHeight: 100})
	if !w.Fixed || !w.Floating {
		t.Fatalf("expected fixed window to be floating")
	}

	loose := NewWindow(2, platform.Rect{Width: 200, Height: 100}, 0,
		platform.SizeHints{MinWidth: 200, MinHeight: 100, MaxWidth: 400, MaxHeight: 100})
	if loose.Fixed || loose.Floating {
		t.Fatalf("window with a resizable axis must not be fixed")
	}
}

func TestPendingUnmaps(t *testing.T) {
	w := newTestWindow(1)
	if w.ConsumeUnmap() {
		t.Fatalf("no unmap expected yet")
	}
	w.ExpectUnmap()
	w.ExpectUnmap()
	if !w.ConsumeUnmap() || !w.ConsumeUnmap() || w.ConsumeUnmap() {
		t.Fatalf("expected exactly two swallowed unmaps")
	}
}
