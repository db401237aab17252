package model

import (
	"time"

	"github.com/linklock-project/linklock/pkg/errclass"
	"github.com/linklock-project/linklock/pkg/logging"
)

// Options configures a lock handle. The zero value is not usable; start
// from DefaultOptions. Fields are fixed at handle construction.
type Options struct {
	// Retries bounds attempts of the full polling+sleep unit. nil means
	// retry forever; 0 means exactly one polling phase.
	Retries *int

	// MinSleep, MaxSleep, and SleepInc define the triangular backoff
	// cycle slept between polling phases.
	MinSleep time.Duration
	MaxSleep time.Duration
	SleepInc time.Duration

	// MaxAge makes a lockfile older than this stealable. Zero disables
	// stealing entirely.
	MaxAge time.Duration

	// Suspend is slept after removing a stale lockfile, giving the former
	// owner's refresher a chance to observe the loss before a new owner
	// settles.
	Suspend time.Duration

	// Refresh is the interval between background mtime touches of a held
	// lockfile. Zero disables the refresher.
	Refresh time.Duration

	// Timeout bounds the entire acquire in wall-clock time. nil means no
	// deadline; zero fails immediately after the first polling phase.
	Timeout *time.Duration

	// PollRetries is the number of link-and-verify attempts in the rapid
	// polling phase of each outer iteration.
	PollRetries int

	// PollMaxSleep caps the uniform random sleep between poll attempts.
	PollMaxSleep time.Duration

	// DontClean suppresses process-exit cleanup registration.
	DontClean bool

	// DontSweep skips the stale sibling sweep at acquire time.
	DontSweep bool

	// Debug forces debug-level tracing regardless of LOCKFILE_DEBUG.
	Debug bool

	// Logger receives structured trace output. nil selects a logger whose
	// level is taken from LOCKFILE_DEBUG.
	Logger *logging.Logger
}

// DefaultOptions returns the standard configuration: retry forever with a
// 2s..32s triangular backoff, sixteen sub-second polls per phase, an 8s
// refresher, and no stealing.
func DefaultOptions() Options {
	return Options{
		Retries:      nil,
		MinSleep:     2 * time.Second,
		MaxSleep:     32 * time.Second,
		SleepInc:     2 * time.Second,
		MaxAge:       0,
		Suspend:      64 * time.Second,
		Refresh:      8 * time.Second,
		Timeout:      nil,
		PollRetries:  16,
		PollMaxSleep: 80 * time.Millisecond,
	}
}

// Validate checks option invariants.
func (o Options) Validate() error {
	if o.Retries != nil && *o.Retries < 0 {
		return errclass.ErrConfigInvalid.WithMessagef("retries must be non-negative, got %d", *o.Retries)
	}
	if o.MinSleep <= 0 {
		return errclass.ErrConfigInvalid.WithMessage("min_sleep must be positive")
	}
	if o.MaxSleep < o.MinSleep {
		return errclass.ErrConfigInvalid.WithMessagef("max_sleep %v < min_sleep %v", o.MaxSleep, o.MinSleep)
	}
	if o.SleepInc <= 0 {
		return errclass.ErrConfigInvalid.WithMessage("sleep_inc must be positive")
	}
	if o.MaxAge < 0 {
		return errclass.ErrConfigInvalid.WithMessage("max_age must not be negative")
	}
	if o.Suspend < 0 {
		return errclass.ErrConfigInvalid.WithMessage("suspend must not be negative")
	}
	if o.Refresh < 0 {
		return errclass.ErrConfigInvalid.WithMessage("refresh must not be negative")
	}
	if o.Timeout != nil && *o.Timeout < 0 {
		return errclass.ErrConfigInvalid.WithMessage("timeout must not be negative")
	}
	if o.PollRetries < 0 {
		return errclass.ErrConfigInvalid.WithMessage("poll_retries must not be negative")
	}
	if o.PollMaxSleep <= 0 {
		return errclass.ErrConfigInvalid.WithMessage("poll_max_sleep must be positive")
	}
	return nil
}
