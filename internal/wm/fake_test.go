package wm

import (
	"fmt"
	"testing"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
)

type call struct {
	op     string
	id     platform.WindowID
	bounds platform.Rect
	border int
	on     bool
}

// fakeBackend records every side effect the manager requests.
type fakeBackend struct {
	calls    []call
	initial  map[platform.WindowID]platform.Rect
	hints    map[platform.WindowID]platform.SizeHints
	closeErr error

	desktops []string
	current  int
	clients  []platform.WindowID
	active   platform.WindowID
	desktop  map[platform.WindowID]int
	lit      map[platform.WindowID]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		initial: make(map[platform.WindowID]platform.Rect),
		hints:   make(map[platform.WindowID]platform.SizeHints),
		desktop: make(map[platform.WindowID]int),
		lit:     make(map[platform.WindowID]bool),
	}
}

func (f *fakeBackend) record(c call) error {
	f.calls = append(f.calls, c)
	return nil
}

func (f *fakeBackend) ApplyGeometry(id platform.WindowID, bounds platform.Rect, border int) error {
	return f.record(call{op: "geometry", id: id, bounds: bounds, border: border})
}

func (f *fakeBackend) SetInputFocus(id platform.WindowID) error {
	return f.record(call{op: "focus", id: id})
}

func (f *fakeBackend) Raise(id platform.WindowID) error {
	return f.record(call{op: "raise", id: id})
}

func (f *fakeBackend) Highlight(id platform.WindowID, on bool) error {
	f.lit[id] = on
	return f.record(call{op: "highlight", id: id, on: on})
}

func (f *fakeBackend) Map(id platform.WindowID) error {
	return f.record(call{op: "map", id: id})
}

func (f *fakeBackend) Unmap(id platform.WindowID) error {
	return f.record(call{op: "unmap", id: id})
}

func (f *fakeBackend) WarpPointer(id platform.WindowID, x, y int) error {
	return f.record(call{op: "warp", id: id, bounds: platform.Rect{X: x, Y: y}})
}

func (f *fakeBackend) Close(id platform.WindowID) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	return f.record(call{op: "close", id: id})
}

func (f *fakeBackend) InitialGeometry(id platform.WindowID) (platform.Rect, error) {
	r, ok := f.initial[id]
	if !ok {
		return platform.Rect{}, fmt.Errorf("bad window %d", id)
	}
	return r, nil
}

func (f *fakeBackend) SizeHints(id platform.WindowID) (platform.SizeHints, error) {
	return f.hints[id], nil
}

func (f *fakeBackend) PublishDesktops(names []string, current int) error {
	f.desktops = append([]string(nil), names...)
	f.current = current
	return nil
}

func (f *fakeBackend) PublishClients(windows []platform.WindowID) error {
	f.clients = append([]platform.WindowID(nil), windows...)
	return nil
}

func (f *fakeBackend) PublishActive(id platform.WindowID) error {
	f.active = id
	return nil
}

func (f *fakeBackend) PublishWindowDesktop(id platform.WindowID, desktop int) error {
	f.desktop[id] = desktop
	return nil
}

// lastGeometry returns the most recent geometry pushed for id.
func (f *fakeBackend) lastGeometry(id platform.WindowID) (platform.Rect, bool) {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if c := f.calls[i]; c.op == "geometry" && c.id == id {
			return c.bounds, true
		}
	}
	return platform.Rect{}, false
}

func (f *fakeBackend) count(op string, id platform.WindowID) int {
	n := 0
	for _, c := range f.calls {
		if c.op == op && c.id == id {
			n++
		}
	}
	return n
}

// highlighted returns the tracked windows whose border is currently lit.
func (f *fakeBackend) highlighted(m *Manager) []platform.WindowID {
	var out []platform.WindowID
	for i := 0; i < m.WorkspaceCount(); i++ {
		for _, w := range m.Workspace(i).Windows() {
			if f.lit[w.ID] {
				out = append(out, w.ID)
			}
		}
	}
	return out
}

func (f *fakeBackend) reset() {
	f.calls = nil
}

var testArea = platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800}

func newTestManager(t *testing.T, opts Options) (*Manager, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	if opts.Workspaces == nil {
		opts.Workspaces = []WorkspaceDefaults{
			{Layout: tiling.KindTiled, MasterRatio: 55},
			{Layout: tiling.KindTiled, MasterRatio: 55},
			{Layout: tiling.KindFree, MasterRatio: 55},
		}
	}
	return New(backend, testArea, opts), backend
}

// open creates and maps windows one after another. New windows are
// attached at the head, so the resulting list order is the reverse of ids.
func open(t *testing.T, m *Manager, b *fakeBackend, ids ...platform.WindowID) {
	t.Helper()
	for _, id := range ids {
		if _, ok := b.initial[id]; !ok {
			b.initial[id] = platform.Rect{X: 10, Y: 10, Width: 200, Height: 100}
		}
		if m.OnWindowCreated(id) == nil {
			t.Fatalf("window %d not tracked", id)
		}
		m.OnWindowMapped(id)
	}
}

func listOrder(m *Manager, ws int) []platform.WindowID {
	var out []platform.WindowID
	for _, w := range m.Workspace(ws).Windows() {
		out = append(out, w.ID)
	}
	return out
}

func focusedID(m *Manager) platform.WindowID {
	if f := m.Active().Focus(); f != nil {
		return f.ID
	}
	return 0
}
