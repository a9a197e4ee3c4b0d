package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/stackwm/internal/platform"
)

func TestReconciler_DropsVanishedWindows(t *testing.T) {
	loop, _ := startLoop(t)
	openWindows(t, loop, 1, 2, 3)

	lister := func() ([]platform.WindowID, error) {
		return []platform.WindowID{1, 3, 99}, nil
	}
	r := NewReconciler(ReconcilerConfig{Interval: time.Hour}, loop, lister)

	dropped := r.ReconcileNow(context.Background())
	if len(dropped) != 1 || dropped[0] != 2 {
		t.Fatalf("expected window 2 dropped, got %v", dropped)
	}

	snap := settle(t, loop)
	if _, ok := snap.Window(2); ok {
		t.Fatalf("expected window 2 to be untracked")
	}
	for _, id := range []platform.WindowID{1, 3} {
		if _, ok := snap.Window(id); !ok {
			t.Fatalf("expected window %d to stay tracked", id)
		}
	}
	if _, ok := snap.Window(99); ok {
		t.Fatalf("reconciler must not adopt unknown windows")
	}
}

func TestReconciler_KeepsWindowThatReappears(t *testing.T) {
	loop, _ := startLoop(t)
	openWindows(t, loop, 1, 2)

	listings := [][]platform.WindowID{{1}, {1, 2}}
	calls := 0
	lister := func() ([]platform.WindowID, error) {
		ids := listings[min(calls, len(listings)-1)]
		calls++
		return ids, nil
	}
	r := NewReconciler(ReconcilerConfig{Interval: time.Hour}, loop, lister)

	if dropped := r.ReconcileNow(context.Background()); len(dropped) != 0 {
		t.Fatalf("expected nothing dropped, got %v", dropped)
	}
	if calls != 2 {
		t.Fatalf("expected the listing to be re-read before dropping, got %d reads", calls)
	}
	if _, ok := settle(t, loop).Window(2); !ok {
		t.Fatalf("expected window 2 to stay tracked")
	}
}

func TestReconciler_ListErrorChangesNothing(t *testing.T) {
	loop, _ := startLoop(t)
	openWindows(t, loop, 1)

	r := NewReconciler(ReconcilerConfig{}, loop, func() ([]platform.WindowID, error) {
		return nil, errors.New("connection lost")
	})
	if dropped := r.ReconcileNow(context.Background()); dropped != nil {
		t.Fatalf("expected nothing dropped, got %v", dropped)
	}
	if _, ok := settle(t, loop).Window(1); !ok {
		t.Fatalf("expected window 1 to stay tracked")
	}
}

func TestReconciler_RunStopsWithContext(t *testing.T) {
	loop, _ := startLoop(t)

	calls := make(chan struct{}, 8)
	r := NewReconciler(ReconcilerConfig{Interval: 5 * time.Millisecond}, loop, func() ([]platform.WindowID, error) {
		select {
		case calls <- struct{}{}:
		default:
		}
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatalf("reconciler never ran")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("reconciler did not stop")
	}
}
