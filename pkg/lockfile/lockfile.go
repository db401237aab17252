package lockfile

import (
	"os"

	"github.com/linklock-project/linklock/internal/lock"
	"github.com/linklock-project/linklock/pkg/model"
)

// Lockfile binds a target path and options to an acquire/release lifecycle.
type Lockfile struct {
	h *lock.Handle
}

// New creates a lockfile handle for path.
func New(path string, opts model.Options) (*Lockfile, error) {
	h, err := lock.New(path, opts)
	if err != nil {
		return nil, err
	}
	return &Lockfile{h: h}, nil
}

// Lock acquires the lockfile, blocking per the configured polling and
// backoff schedule.
func (l *Lockfile) Lock() error {
	return l.h.Lock()
}

// LockWith acquires the lockfile, runs work, and releases on every exit
// path including panic.
func (l *Lockfile) LockWith(work func() error) error {
	return l.h.LockWith(work)
}

// Unlock releases the lockfile. Repeated calls after the first success are
// no-ops.
func (l *Lockfile) Unlock() error {
	return l.h.Unlock()
}

// Check reports whether a held lock has been lost to an external agent.
func (l *Lockfile) Check() error {
	return l.h.Check()
}

// Thief reports whether the current hold was acquired by stealing a stale
// lockfile.
func (l *Lockfile) Thief() bool {
	return l.h.Thief()
}

// Path returns the target lockfile path.
func (l *Lockfile) Path() string {
	return l.h.Path()
}

// State returns the handle lifecycle state.
func (l *Lockfile) State() model.State {
	return l.h.State()
}

// Owner returns the record this handle wrote into the lockfile.
func (l *Lockfile) Owner() model.Owner {
	return l.h.Owner()
}

// Create atomically creates and opens a regular file at path, failing if it
// already exists. It uses the same link-and-verify step as the lock
// acquire, so it is safe where O_EXCL is not.
func Create(path string) (*os.File, error) {
	return lock.CreateFile(path)
}
