// Package lock implements an NFS-safe advisory file lock. The lock is the
// existence of a named regular file; mutual exclusion comes from the atomic
// semantics of hard-link creation, validated by inode identity rather than
// by return codes.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/linklock-project/linklock/internal/cleanup"
	"github.com/linklock-project/linklock/pkg/errclass"
	"github.com/linklock-project/linklock/pkg/logging"
	"github.com/linklock-project/linklock/pkg/metrics"
	"github.com/linklock-project/linklock/pkg/model"
	"github.com/linklock-project/linklock/pkg/pathutil"
)

// Handle binds a target lockfile path and options to an acquire/release
// lifecycle. States run unheld -> held -> released; released is terminal.
// A handle must not be shared between goroutines while Lock is in flight.
type Handle struct {
	path string
	base string
	host string
	id   uint64
	opts model.Options
	log  *logging.Logger

	mu        sync.Mutex
	state     model.State
	acquiring bool
	temp      string
	owner     model.Owner
	ident     identity
	thief     bool

	stolen atomic.Bool
	ref    *refresher
}

// New creates a handle for path. Options are validated here; unknown
// behavior is rejected at construction, not discovered mid-acquire.
func New(path string, opts model.Options) (*Handle, error) {
	if err := pathutil.ValidateTarget(path); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewFromEnv()
	}
	if opts.Debug {
		logger.SetLevel(logging.LevelDebug)
	}

	return &Handle{
		path:  path,
		base:  filepath.Base(path),
		host:  host,
		id:    handleSeq.Add(1),
		opts:  opts,
		log:   logger.WithFields(map[string]any{"lockfile": path}),
		state: model.StateUnheld,
	}, nil
}

// Path returns the target lockfile path.
func (h *Handle) Path() string {
	return h.path
}

// State returns the current lifecycle state.
func (h *Handle) State() model.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Owner returns the record written into the lockfile by this handle's
// current hold.
func (h *Handle) Owner() model.Owner {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.owner
}

// Thief reports whether the current hold was acquired by stealing.
func (h *Handle) Thief() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.thief
}

// Lock acquires the lockfile, blocking through the polling and backoff
// phases. Re-entry on a held or released handle is an error.
func (h *Handle) Lock() error {
	h.mu.Lock()
	switch {
	case h.state == model.StateHeld:
		h.mu.Unlock()
		return errclass.ErrReentry.WithMessagef("lock already held on %s", h.path)
	case h.state == model.StateReleased:
		h.mu.Unlock()
		return errclass.ErrReentry.WithMessage("handle has been released")
	case h.acquiring:
		h.mu.Unlock()
		return errclass.ErrReentry.WithMessage("acquire already in progress")
	}
	h.acquiring = true
	h.mu.Unlock()

	start := time.Now()
	err := h.acquire()
	metrics.Default().RecordAcquire(err == nil, time.Since(start))

	h.mu.Lock()
	defer h.mu.Unlock()
	h.acquiring = false
	if err != nil {
		return err
	}

	h.state = model.StateHeld
	if !h.opts.DontClean {
		cleanup.Register(h.id, h.path, h.temp)
	}
	if h.opts.Refresh > 0 {
		h.startRefresher()
	}
	return nil
}

// LockWith acquires the lockfile, runs work, and releases on every exit
// path including panic. A failure of work is surfaced after release, with
// any release error logged; if work succeeds, a release failure is the
// result.
func (h *Handle) LockWith(work func() error) error {
	if err := h.Lock(); err != nil {
		return err
	}
	completed := false
	defer func() {
		if !completed {
			if err := h.Unlock(); err != nil {
				h.log.ErrorErr("unlock after failed work", err)
			}
		}
	}()
	if err := work(); err != nil {
		return err
	}
	completed = true
	return h.Unlock()
}

// Unlock releases the lock: the refresher is stopped and acknowledged
// before the lockfile is unlinked, so no touch lands after removal. Calling
// Unlock again after the first success is a no-op.
func (h *Handle) Unlock() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case model.StateUnheld:
		return errclass.ErrNotHeld.WithMessagef("no lock held on %s", h.path)
	case model.StateReleased:
		return nil
	}

	h.stopRefresher()
	h.state = model.StateReleased
	cleanup.Unregister(h.id)

	// The lockfile is only ours to remove while it still names the inode
	// we linked.
	stolen := h.stolen.Load()
	if !stolen {
		if id, err := pathIdentity(h.path); err != nil || id != h.ident {
			stolen = true
			h.stolen.Store(true)
		}
	}

	if h.temp != "" {
		os.Remove(h.temp) // pinned our inode while held
	}

	if stolen {
		return errclass.ErrStolen.WithMessagef("lockfile %s no longer names our inode", h.path)
	}
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return errclass.ErrUnlock.WithCause(fmt.Sprintf("remove %s", h.path), err)
	}
	h.log.Debug("lock released")
	return nil
}

// Check reports loss of a held lock as observed by the refresher (or by an
// immediate identity probe when no refresher runs). Users who never call
// Check learn of theft at Unlock.
func (h *Handle) Check() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != model.StateHeld {
		return errclass.ErrNotHeld.WithMessagef("no lock held on %s", h.path)
	}
	if h.stolen.Load() {
		return errclass.ErrStolen.WithMessagef("lockfile %s no longer names our inode", h.path)
	}
	if h.opts.Refresh <= 0 {
		if id, err := pathIdentity(h.path); err != nil || id != h.ident {
			h.stolen.Store(true)
			return errclass.ErrStolen.WithMessagef("lockfile %s no longer names our inode", h.path)
		}
	}
	return nil
}
