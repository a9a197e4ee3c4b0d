package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/1broseidon/stackwm/internal/wm"
)

// ErrStopped is returned for work submitted after the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// Step is one unit of work run against the manager on the loop goroutine.
type Step func(m *wm.Manager)

const stepQueueSize = 256

// Loop owns the Manager and runs every step that touches it on a single
// goroutine, in submission order. X events, hotkeys, IPC and HTTP requests
// all go through it.
type Loop struct {
	mgr    *wm.Manager
	steps  chan Step
	done   chan struct{}
	logger *slog.Logger

	stopOnce sync.Once

	subMu   sync.Mutex
	subs    map[int]chan wm.Event
	nextSub int
}

// NewLoop creates a loop. Call Bind before Run.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		steps:  make(chan Step, stepQueueSize),
		done:   make(chan struct{}),
		logger: logger,
		subs:   make(map[int]chan wm.Event),
	}
}

// Bind attaches the manager. The manager's Observer should be l.Broadcast.
func (l *Loop) Bind(m *wm.Manager) {
	l.mgr = m
}

// Run processes steps until ctx is cancelled or Stop is called. A panic
// inside a step is logged and the loop keeps going.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("event loop started")
	defer l.logger.Info("event loop stopped")
	defer l.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return
		case <-l.done:
			return
		case step := <-l.steps:
			l.run(step)
		}
	}
}

func (l *Loop) run(step Step) {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("event loop panic recovered", "error", err)
		}
	}()
	step(l.mgr)
}

// Stop ends Run. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// Done is closed once the loop is stopping.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Submit queues a step without waiting for it.
func (l *Loop) Submit(step Step) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.steps <- step:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Do runs fn on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func(m *wm.Manager) error) error {
	result := make(chan error, 1)
	if err := l.Submit(func(m *wm.Manager) {
		defer func() {
			if r := recover(); r != nil {
				result <- errors.New("command panicked")
				panic(r)
			}
		}()
		result <- fn(m)
	}); err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// Snapshot returns a copy of the manager state taken on the loop.
func (l *Loop) Snapshot(ctx context.Context) (wm.Snapshot, error) {
	var snap wm.Snapshot
	err := l.Do(ctx, func(m *wm.Manager) error {
		snap = m.Snapshot()
		return nil
	})
	return snap, err
}

// Command parses and dispatches a textual command on the loop.
func (l *Loop) Command(ctx context.Context, text string) error {
	return l.Do(ctx, func(m *wm.Manager) error {
		return m.Run(text)
	})
}

// Subscribe returns a channel of change events and a cancel func. Events
// are dropped for a subscriber whose buffer is full.
func (l *Loop) Subscribe(buffer int) (<-chan wm.Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan wm.Event, buffer)

	l.subMu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	l.subMu.Unlock()

	cancel := func() {
		l.subMu.Lock()
		defer l.subMu.Unlock()
		if sub, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Broadcast fans an event out to subscribers. It is the manager's Observer
// and runs on the loop goroutine, so it never blocks.
func (l *Loop) Broadcast(ev wm.Event) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	for id, ch := range l.subs {
		select {
		case ch <- ev:
		default:
			l.logger.Debug("dropping event for slow subscriber", "subscriber", id, "type", ev.Type)
		}
	}
}

func (l *Loop) closeSubscribers() {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	for id, ch := range l.subs {
		delete(l.subs, id)
		close(ch)
	}
}
