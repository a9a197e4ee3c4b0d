package daemon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
)

// stubBackend accepts every request and reports a fixed initial geometry.
type stubBackend struct {
	mu     sync.Mutex
	closed []platform.WindowID
}

func (b *stubBackend) ApplyGeometry(platform.WindowID, platform.Rect, int) error { return nil }
func (b *stubBackend) SetInputFocus(platform.WindowID) error                     { return nil }
func (b *stubBackend) Raise(platform.WindowID) error                             { return nil }
func (b *stubBackend) Highlight(platform.WindowID, bool) error                   { return nil }
func (b *stubBackend) Map(platform.WindowID) error                               { return nil }
func (b *stubBackend) Unmap(platform.WindowID) error                             { return nil }
func (b *stubBackend) WarpPointer(platform.WindowID, int, int) error             { return nil }

func (b *stubBackend) Close(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = append(b.closed, id)
	return nil
}

func (b *stubBackend) InitialGeometry(platform.WindowID) (platform.Rect, error) {
	return platform.Rect{X: 10, Y: 10, Width: 300, Height: 200}, nil
}

func (b *stubBackend) SizeHints(platform.WindowID) (platform.SizeHints, error) {
	return platform.SizeHints{}, nil
}

var testArea = platform.Rect{Width: 1000, Height: 800}

func startLoop(t *testing.T) (*Loop, *stubBackend) {
	t.Helper()
	loop := NewLoop(nil)
	backend := &stubBackend{}
	loop.Bind(wm.New(backend, testArea, wm.Options{
		Workspaces: []wm.WorkspaceDefaults{
			{MasterRatio: 50},
			{MasterRatio: 50},
		},
		BorderWidth:     1,
		FocusFollowsNew: true,
		Observer:        loop.Broadcast,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(finished)
	}()
	t.Cleanup(func() {
		cancel()
		<-finished
	})
	return loop, backend
}

func openWindows(t *testing.T, loop *Loop, ids ...platform.WindowID) {
	t.Helper()
	err := loop.Do(context.Background(), func(m *wm.Manager) error {
		for _, id := range ids {
			m.OnWindowCreated(id)
			m.OnWindowMapped(id)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("open windows: %v", err)
	}
}

func TestLoop_StepsRunInOrder(t *testing.T) {
	loop, _ := startLoop(t)

	var got []int
	for i := 0; i < 50; i++ {
		if err := loop.Submit(func(*wm.Manager) { got = append(got, i) }); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if err := loop.Do(context.Background(), func(*wm.Manager) error { return nil }); err != nil {
		t.Fatalf("do: %v", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("step %d ran as %d", i, v)
		}
	}
	if len(got) != 50 {
		t.Fatalf("expected 50 steps, got %d", len(got))
	}
}

func TestLoop_PanicDoesNotStopLoop(t *testing.T) {
	loop, _ := startLoop(t)

	err := loop.Do(context.Background(), func(*wm.Manager) error {
		panic("boom")
	})
	if err == nil {
		t.Fatalf("expected error from panicking step")
	}

	openWindows(t, loop, 7)
	snap, err := loop.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, ok := snap.Window(7); !ok {
		t.Fatalf("expected loop to keep working after a panic")
	}
}

func TestLoop_CommandReturnsManagerErrors(t *testing.T) {
	loop, _ := startLoop(t)

	if err := loop.Command(context.Background(), "focus next"); !errors.Is(err, wm.ErrNoFocus) {
		t.Fatalf("expected ErrNoFocus, got %v", err)
	}
	if err := loop.Command(context.Background(), "workspace 5"); !errors.Is(err, wm.ErrInvalidWorkspace) {
		t.Fatalf("expected ErrInvalidWorkspace, got %v", err)
	}
	if err := loop.Command(context.Background(), "workspace 2"); err != nil {
		t.Fatalf("workspace 2: %v", err)
	}
	snap, err := loop.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Active != 1 {
		t.Fatalf("expected active workspace 1, got %d", snap.Active)
	}
}

func TestLoop_StopRejectsWork(t *testing.T) {
	loop := NewLoop(nil)
	loop.Bind(wm.New(&stubBackend{}, testArea, wm.Options{}))

	done := make(chan struct{})
	go func() {
		loop.Run(context.Background())
		close(done)
	}()
	loop.Stop()
	loop.Stop()
	<-done

	if err := loop.Submit(func(*wm.Manager) {}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if _, err := loop.Snapshot(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped from snapshot, got %v", err)
	}
}

func TestLoop_SubscribersReceiveEvents(t *testing.T) {
	loop, _ := startLoop(t)

	events, cancel := loop.Subscribe(16)
	defer cancel()

	openWindows(t, loop, 3)

	want := []wm.EventType{wm.EventWindowCreated}
	timeout := time.After(2 * time.Second)
	for _, typ := range want {
		select {
		case ev := <-events:
			if ev.Type != typ || ev.Window != 3 {
				t.Fatalf("expected %s for window 3, got %+v", typ, ev)
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", typ)
		}
	}

	cancel()
	for range events {
	}
}

func TestLoop_SlowSubscriberDoesNotBlock(t *testing.T) {
	loop, _ := startLoop(t)

	_, cancel := loop.Subscribe(1)
	defer cancel()

	openWindows(t, loop, 1, 2, 3, 4)
	if _, err := loop.Snapshot(context.Background()); err != nil {
		t.Fatalf("loop blocked by slow subscriber: %v", err)
	}
}
