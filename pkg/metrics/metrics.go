// Package metrics provides in-process operation counters for linklock.
package metrics

import (
	"sync/atomic"
	"time"
)

// Registry holds lock operation counters.
type Registry struct {
	acquires      atomic.Int64
	acquireFails  atomic.Int64
	steals        atomic.Int64
	sweptFiles    atomic.Int64
	refreshLosses atomic.Int64
	acquireNanos  atomic.Int64
}

var defaultRegistry = NewRegistry()

// NewRegistry creates a new metrics registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// RecordAcquire records an acquire attempt outcome.
func (r *Registry) RecordAcquire(success bool, duration time.Duration) {
	if success {
		r.acquires.Add(1)
	} else {
		r.acquireFails.Add(1)
	}
	r.acquireNanos.Add(int64(duration))
}

// RecordSteal records a lock taken by removing a stale holder.
func (r *Registry) RecordSteal() {
	r.steals.Add(1)
}

// RecordSweep records temp files removed by a sweeper pass.
func (r *Registry) RecordSweep(removed int) {
	r.sweptFiles.Add(int64(removed))
}

// RecordRefreshLoss records a refresher observing external removal.
func (r *Registry) RecordRefreshLoss() {
	r.refreshLosses.Add(1)
}

// Snapshot returns the current counter values.
func (r *Registry) Snapshot() map[string]int64 {
	return map[string]int64{
		"acquires":       r.acquires.Load(),
		"acquire_fails":  r.acquireFails.Load(),
		"steals":         r.steals.Load(),
		"swept_files":    r.sweptFiles.Load(),
		"refresh_losses": r.refreshLosses.Load(),
		"acquire_nanos":  r.acquireNanos.Load(),
	}
}
