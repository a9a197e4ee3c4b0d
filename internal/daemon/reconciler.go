package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
)

// WindowLister returns the top-level windows that currently exist on the
// server.
type WindowLister func() ([]platform.WindowID, error)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically drops tracked windows whose DestroyNotify was
// lost.
type Reconciler struct {
	interval    time.Duration
	loop        *Loop
	listWindows WindowLister
	logger      *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, loop *Loop, listWindows WindowLister) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval:    interval,
		loop:        loop,
		listWindows: listWindows,
		logger:      logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-r.loop.Done():
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// reconcile performs a single reconciliation pass and returns the handles
// it dropped.
func (r *Reconciler) reconcile(ctx context.Context) []platform.WindowID {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	// Snapshot before listing: anything created after the snapshot is not a
	// candidate, so a window that appears mid-pass is never dropped.
	snap, err := r.loop.Snapshot(ctx)
	if err != nil {
		r.logger.Debug("reconciler: pass skipped", "error", err)
		return nil
	}

	exists, err := r.existing()
	if err != nil {
		r.logger.Error("reconciler: failed to list windows", "error", err)
		return nil
	}

	var stale []platform.WindowID
	for _, ws := range snap.Workspaces {
		for _, w := range ws.Windows {
			if !exists[w.ID] {
				stale = append(stale, w.ID)
			}
		}
	}
	if len(stale) == 0 {
		return nil
	}

	// The server may have handed a stale id to a new window since the
	// first listing, so the candidates are checked again from the loop.
	var dropped []platform.WindowID
	err = r.loop.Do(ctx, func(m *wm.Manager) error {
		exists, err := r.existing()
		if err != nil {
			return err
		}
		for _, id := range stale {
			w, ws := m.Find(id)
			if w == nil || exists[id] {
				continue
			}
			r.logger.Info("reconciler: stale window detected",
				"window_id", id,
				"workspace", ws.Index)
			m.OnWindowDestroyed(id)
			dropped = append(dropped, id)
		}
		return nil
	})
	if err != nil {
		r.logger.Debug("reconciler: cleanup skipped", "error", err)
		return nil
	}
	return dropped
}

func (r *Reconciler) existing() (map[platform.WindowID]bool, error) {
	actual, err := r.listWindows()
	if err != nil {
		return nil, err
	}
	exists := make(map[platform.WindowID]bool, len(actual))
	for _, id := range actual {
		exists[id] = true
	}
	return exists, nil
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow(ctx context.Context) []platform.WindowID {
	return r.reconcile(ctx)
}
