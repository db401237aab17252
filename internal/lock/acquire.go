package lock

import (
	"math/rand"
	"os"
	"time"

	"github.com/linklock-project/linklock/pkg/errclass"
	"github.com/linklock-project/linklock/pkg/metrics"
)

// nfsAnomalyLimit bounds consecutive polling phases in which link(2)
// reported success on every attempt yet the lockfile never named our inode.
// Without the bound a lying NFS client loops forever.
const nfsAnomalyLimit = 2

// acquire runs the link-and-verify protocol. link(2) on NFS may return
// success after having failed, or fail after having succeeded; its return
// value is ignored entirely and the (dev, ino) comparison alone decides
// ownership.
func (h *Handle) acquire() error {
	var deadline time.Time
	if h.opts.Timeout != nil {
		deadline = time.Now().Add(*h.opts.Timeout)
	}

	if !h.opts.DontSweep {
		if removed := sweep(h.path, h.host, h.log); removed > 0 {
			metrics.Default().RecordSweep(removed)
		}
	}

	sched := newSchedule(h.opts.MinSleep, h.opts.MaxSleep, h.opts.SleepInc)
	stole := false
	anomalous := 0

	for k := 0; ; k++ {
		temp, owner, err := createUniqueTemp(h.path, h.host, h.id)
		if err != nil {
			return err
		}

		result, err := h.pollPhase(temp)
		if result.stole {
			stole = true
		}
		if err != nil {
			os.Remove(temp)
			return err
		}
		if result.acquired {
			// The temp name stays linked while the lock is held: it pins
			// our inode, so a lockfile recreated after an external
			// removal cannot reuse the inode number and pass the
			// identity check. Unlock removes it.
			h.temp = temp
			h.owner = owner
			h.ident = result.ident
			h.thief = stole
			h.stolen.Store(false)
			if stole {
				metrics.Default().RecordSteal()
			}
			h.log.Debug("lock acquired", map[string]any{
				"tries": k + 1, "thief": stole,
			})
			return nil
		}
		os.Remove(temp)

		if result.anomalous {
			anomalous++
			if anomalous >= nfsAnomalyLimit {
				return errclass.ErrNFSLink.WithMessagef(
					"link(2) reported success through %d polling phases without %s ever naming our inode",
					anomalous, h.path)
			}
		} else {
			anomalous = 0
		}

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return errclass.ErrTimeout.WithMessagef(
				"could not acquire %s within %v", h.path, *h.opts.Timeout)
		}
		if h.opts.Retries != nil && k >= *h.opts.Retries {
			return errclass.ErrMaxTries.WithMessagef(
				"could not acquire %s after %d tries", h.path, k+1)
		}
		h.sleep(sched.next())
	}
}

type pollResult struct {
	acquired  bool
	ident     identity
	stole     bool
	anomalous bool
}

// pollPhase runs up to PollRetries link-and-verify attempts against the
// staged temp file. Filesystem errors during polling are expected race
// noise and are swallowed; only the identity comparison decides.
func (h *Handle) pollPhase(temp string) (pollResult, error) {
	var res pollResult

	tempID, err := pathIdentity(temp)
	if err != nil {
		// Our own temp file vanished; nothing here is race noise.
		return res, err
	}

	lies := 0
	polls := 0
	for i := 0; i < h.opts.PollRetries; {
		polls++
		linkErr := os.Link(temp, h.path)
		targetID, statErr := pathIdentity(h.path)
		if statErr == nil && targetID == tempID {
			res.acquired = true
			res.ident = tempID
			return res, nil
		}
		if linkErr == nil {
			// link(2) claimed success yet the lockfile does not name our
			// inode; on a truthful filesystem this cannot happen.
			lies++
		}

		if h.opts.MaxAge > 0 && !res.stole && statErr == nil {
			if fi, err := os.Lstat(h.path); err == nil && time.Since(fi.ModTime()) > h.opts.MaxAge {
				h.log.Debug("stale lockfile, stealing", map[string]any{
					"age": time.Since(fi.ModTime()).String(),
				})
				os.Remove(h.path) // best effort; the next link decides
				res.stole = true
				h.sleep(h.opts.Suspend)
				continue // the steal does not consume a poll attempt
			}
		}

		h.sleep(randomSleep(h.opts.PollMaxSleep))
		i++
	}

	res.anomalous = polls > 0 && lies == polls
	return res, nil
}

func (h *Handle) sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// randomSleep picks a uniform random duration in [0, max].
func randomSleep(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max) + 1))
}
