package lock

import (
	"os"
	"time"

	"github.com/linklock-project/linklock/pkg/metrics"
)

// refresher keeps a held lockfile's mtime fresh and detects external
// removal. There is exactly one refresher per held handle. Detection
// latency is bounded below by the refresh interval; that race is accepted.
type refresher struct {
	stop chan struct{}
	done chan struct{}
}

// startRefresher spawns the background task. Caller holds h.mu; h.ident and
// h.path are never mutated while the lock is held, so the loop reads them
// without locking.
func (h *Handle) startRefresher() {
	r := &refresher{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	h.ref = r
	go h.refreshLoop(r)
}

func (h *Handle) refreshLoop(r *refresher) {
	defer close(r.done)

	ticker := time.NewTicker(h.opts.Refresh)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			id, err := pathIdentity(h.path)
			if err != nil || id != h.ident {
				h.stolen.Store(true)
				metrics.Default().RecordRefreshLoss()
				h.log.Warn("lockfile lost while held", map[string]any{
					"pid": os.Getpid(),
				})
				return
			}
			now := time.Now()
			if err := os.Chtimes(h.path, now, now); err != nil {
				// The next tick re-checks identity; a failed touch on a
				// still-owned lockfile is not loss.
				h.log.Warn("refresh touch failed", map[string]any{
					"error": err.Error(),
				})
			}
		}
	}
}

// stopRefresher signals the refresher and waits for acknowledgement so no
// final touch lands after the caller unlinks the lockfile. Safe to call
// when no refresher runs or after it exited on its own.
func (h *Handle) stopRefresher() {
	if h.ref == nil {
		return
	}
	close(h.ref.stop)
	<-h.ref.done
	h.ref = nil
}
