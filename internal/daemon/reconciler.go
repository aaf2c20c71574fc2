// Package daemon keeps the system window mirror fresh in long-running hosts.
package daemon

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/1broseidon/winctl/internal/platform"
)

// DefaultInterval is used when ReconcilerConfig.Interval is not positive.
const DefaultInterval = 10 * time.Second

// Mirror is the part of manager.Manager the reconciler drives.
type Mirror interface {
	CachedSystemWindows() []platform.SystemWindow
	GetSystemWindows() ([]platform.SystemWindow, error)
}

// Drift lists handles that appeared or vanished between two passes.
type Drift struct {
	Appeared []platform.Handle
	Vanished []platform.Handle
}

// Empty reports whether nothing changed.
func (d Drift) Empty() bool {
	return len(d.Appeared) == 0 && len(d.Vanished) == 0
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
	// OnDrift, if set, is called after each pass that changed the mirror.
	OnDrift func(Drift)
}

// Reconciler periodically re-enumerates OS windows so the mirror drops
// windows closed outside the manager and picks up new ones.
type Reconciler struct {
	interval time.Duration
	mirror   Mirror
	logger   *slog.Logger
	onDrift  func(Drift)
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, mirror Mirror) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval: interval,
		mirror:   mirror,
		logger:   logger,
		onDrift:  cfg.OnDrift,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
// The first pass runs immediately.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)
	r.reconcile()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// ReconcileNow runs a pass synchronously and returns what changed.
func (r *Reconciler) ReconcileNow() (Drift, error) {
	return r.pass()
}

func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the host
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	if _, err := r.pass(); err != nil {
		r.logger.Error("reconciler: failed to enumerate windows", "error", err)
	}
}

func (r *Reconciler) pass() (Drift, error) {
	before := make(map[platform.Handle]bool)
	for _, w := range r.mirror.CachedSystemWindows() {
		before[w.Handle] = true
	}

	windows, err := r.mirror.GetSystemWindows()
	if err != nil {
		return Drift{}, err
	}

	var drift Drift
	for _, w := range windows {
		if !before[w.Handle] {
			drift.Appeared = append(drift.Appeared, w.Handle)
		}
		delete(before, w.Handle)
	}
	for h := range before {
		drift.Vanished = append(drift.Vanished, h)
	}
	slices.Sort(drift.Appeared)
	slices.Sort(drift.Vanished)

	if !drift.Empty() {
		r.logger.Info("reconciler: mirror drift",
			"appeared", len(drift.Appeared),
			"vanished", len(drift.Vanished),
			"total", len(windows))
		for _, h := range drift.Vanished {
			r.logger.Debug("reconciler: window vanished", "handle", h.String())
		}
		if r.onDrift != nil {
			r.onDrift(drift)
		}
	}

	return drift, nil
}
