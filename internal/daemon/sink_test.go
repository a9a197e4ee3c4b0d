package daemon

import (
	"context"
	"sync"
	"testing"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
	"github.com/1broseidon/stackwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

type notify struct {
	id     xproto.Window
	bounds platform.Rect
	border int
}

type fakeDisplay struct {
	mu          sync.Mutex
	override    map[xproto.Window]bool
	docks       map[xproto.Window]bool
	mapped      []xproto.Window
	passthrough []x11.ConfigureRequest
	notifies    []notify
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		override: make(map[xproto.Window]bool),
		docks:    make(map[xproto.Window]bool),
	}
}

func (d *fakeDisplay) IsOverrideRedirect(id xproto.Window) bool { return d.override[id] }
func (d *fakeDisplay) IsDock(id xproto.Window) bool             { return d.docks[id] }
func (d *fakeDisplay) WindowTitle(id xproto.Window) string      { return "title" }
func (d *fakeDisplay) WindowClass(id xproto.Window) string      { return "XTerm" }

func (d *fakeDisplay) MapWindow(id xproto.Window) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mapped = append(d.mapped, id)
	return nil
}

func (d *fakeDisplay) ConfigurePassthrough(req x11.ConfigureRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.passthrough = append(d.passthrough, req)
	return nil
}

func (d *fakeDisplay) SendConfigureNotify(id xproto.Window, x, y, width, height, border int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifies = append(d.notifies, notify{id: id, bounds: platform.Rect{X: x, Y: y, Width: width, Height: height}, border: border})
	return nil
}

// settle waits until every step submitted so far has run.
func settle(t *testing.T, loop *Loop) wm.Snapshot {
	t.Helper()
	snap, err := loop.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

func TestSink_MapRequestTracksWindow(t *testing.T) {
	loop, _ := startLoop(t)
	display := newFakeDisplay()
	sink := NewSink(loop, display, nil, nil)

	sink.MapRequest(0x400001)
	snap := settle(t, loop)

	w, ok := snap.Window(0x400001)
	if !ok {
		t.Fatalf("expected window to be tracked")
	}
	if !w.Mapped || !w.Focused {
		t.Fatalf("expected mapped and focused window, got %+v", w)
	}
	if w.Title != "title" || w.Class != "XTerm" {
		t.Fatalf("expected title and class to be recorded, got %+v", w)
	}

	// A second map request for a tracked window does not duplicate it.
	sink.MapRequest(0x400001)
	snap = settle(t, loop)
	if n := len(snap.Workspaces[0].Windows); n != 1 {
		t.Fatalf("expected 1 window, got %d", n)
	}
}

func TestSink_IgnoresOverrideRedirect(t *testing.T) {
	loop, _ := startLoop(t)
	display := newFakeDisplay()
	display.override[9] = true
	sink := NewSink(loop, display, nil, nil)

	sink.MapRequest(9)
	snap := settle(t, loop)
	if _, ok := snap.Window(9); ok {
		t.Fatalf("override-redirect window must not be managed")
	}
}

func TestSink_DockMapsAndShrinksArea(t *testing.T) {
	loop, _ := startLoop(t)
	display := newFakeDisplay()
	display.docks[5] = true

	area := platform.Rect{X: 0, Y: 30, Width: 1000, Height: 770}
	sink := NewSink(loop, display, func() (platform.Rect, error) { return area, nil }, nil)

	sink.MapRequest(5)
	snap := settle(t, loop)

	if _, ok := snap.Window(5); ok {
		t.Fatalf("dock must not be managed")
	}
	if len(display.mapped) != 1 || display.mapped[0] != 5 {
		t.Fatalf("expected dock to be mapped directly, got %v", display.mapped)
	}
	if snap.Area != area {
		t.Fatalf("expected area %+v, got %+v", area, snap.Area)
	}

	area = testArea
	sink.DestroyNotify(5)
	snap = settle(t, loop)
	if snap.Area != testArea {
		t.Fatalf("expected area restored to %+v, got %+v", testArea, snap.Area)
	}
}

func TestSink_ConfigureRequest(t *testing.T) {
	loop, _ := startLoop(t)
	display := newFakeDisplay()
	sink := NewSink(loop, display, nil, nil)

	unknown := x11.ConfigureRequest{Window: 77, Width: 640, Height: 480, Mask: xproto.ConfigWindowWidth | xproto.ConfigWindowHeight}
	sink.ConfigureRequest(unknown)
	settle(t, loop)
	if len(display.passthrough) != 1 || display.passthrough[0].Window != 77 {
		t.Fatalf("expected passthrough for untracked window, got %+v", display.passthrough)
	}

	sink.MapRequest(1)
	sink.ConfigureRequest(x11.ConfigureRequest{Window: 1, Width: 50, Height: 50, Mask: xproto.ConfigWindowWidth | xproto.ConfigWindowHeight})
	snap := settle(t, loop)

	w, _ := snap.Window(1)
	if len(display.notifies) != 1 {
		t.Fatalf("expected one configure notify, got %d", len(display.notifies))
	}
	got := display.notifies[0]
	if got.bounds != w.Geometry || got.border != 1 {
		t.Fatalf("expected notify with tile geometry %+v, got %+v", w.Geometry, got)
	}
	if w.Geometry.Width == 50 {
		t.Fatalf("tiled window must keep its tile size")
	}
}

func TestSink_ConfigureRequestMergesMaskedFields(t *testing.T) {
	loop, _ := startLoop(t)
	display := newFakeDisplay()
	sink := NewSink(loop, display, nil, nil)

	sink.MapRequest(1)
	if err := loop.Do(context.Background(), func(m *wm.Manager) error {
		return m.ToggleFloating()
	}); err != nil {
		t.Fatalf("toggle floating: %v", err)
	}
	before, _ := settle(t, loop).Window(1)

	sink.ConfigureRequest(x11.ConfigureRequest{Window: 1, X: 123, Width: 999, Mask: xproto.ConfigWindowX})
	after, _ := settle(t, loop).Window(1)

	if after.Geometry.X != 123 {
		t.Fatalf("expected x 123, got %d", after.Geometry.X)
	}
	if after.Geometry.Width != before.Geometry.Width || after.Geometry.Y != before.Geometry.Y {
		t.Fatalf("unmasked fields must not change: before %+v after %+v", before.Geometry, after.Geometry)
	}
}

func TestSink_UnmapAndDestroy(t *testing.T) {
	loop, _ := startLoop(t)
	sink := NewSink(loop, newFakeDisplay(), nil, nil)

	sink.MapRequest(1)
	sink.MapRequest(2)
	sink.UnmapNotify(2)
	snap := settle(t, loop)
	w, _ := snap.Window(2)
	if w.Mapped {
		t.Fatalf("expected window 2 unmapped")
	}

	sink.DestroyNotify(2)
	snap = settle(t, loop)
	if _, ok := snap.Window(2); ok {
		t.Fatalf("expected window 2 gone")
	}
	if f, ok := snap.Focused(); !ok || f.ID != 1 {
		t.Fatalf("expected window 1 focused, got %+v", f)
	}
}

func TestSink_ClientMessages(t *testing.T) {
	loop, backend := startLoop(t)
	sink := NewSink(loop, newFakeDisplay(), nil, nil)

	sink.MapRequest(1)
	sink.MapRequest(2)
	sink.ActivateRequest(1)
	snap := settle(t, loop)
	if f, _ := snap.Focused(); f.ID != 1 {
		t.Fatalf("expected window 1 focused, got %d", f.ID)
	}

	sink.CloseRequest(2)
	sink.DesktopRequest(1)
	snap = settle(t, loop)
	if snap.Active != 1 {
		t.Fatalf("expected workspace 1 active, got %d", snap.Active)
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.closed) != 1 || backend.closed[0] != 2 {
		t.Fatalf("expected close of window 2, got %v", backend.closed)
	}

	// Out-of-range requests are dropped.
	sink.DesktopRequest(40)
	if snap = settle(t, loop); snap.Active != 1 {
		t.Fatalf("expected workspace to stay 1, got %d", snap.Active)
	}
}

func TestSink_AdoptExistingWindows(t *testing.T) {
	loop, _ := startLoop(t)
	display := newFakeDisplay()
	display.override[3] = true
	display.docks[4] = true
	sink := NewSink(loop, display, nil, nil)

	for _, id := range []xproto.Window{1, 2, 3, 4} {
		sink.Adopt(id)
	}
	snap := settle(t, loop)

	if n := len(snap.Workspaces[0].Windows); n != 2 {
		t.Fatalf("expected 2 adopted windows, got %d", n)
	}
	w, ok := snap.Window(2)
	if !ok || !w.Mapped || w.Class != "XTerm" {
		t.Fatalf("expected window 2 adopted with its class, got %+v", w)
	}
	if len(display.mapped) != 0 {
		t.Fatalf("adopting a dock must not map it again, got %v", display.mapped)
	}

	// The adopted dock is forgotten on destroy without touching the manager.
	sink.DestroyNotify(4)
	if _, ok := settle(t, loop).Window(4); ok {
		t.Fatalf("dock must never be managed")
	}
}
