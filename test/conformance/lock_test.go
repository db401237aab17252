//go:build conformance

package conformance

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/linklock-project/linklock/pkg/errclass"
	"github.com/linklock-project/linklock/pkg/lockfile"
)

// Scenario 1: uncontended acquire.
func TestUncontendedAcquire(t *testing.T) {
	target := filepath.Join(t.TempDir(), "x.lock")

	lf, err := lockfile.New(target, fastOpts())
	if err != nil {
		t.Fatal(err)
	}
	if err := lf.Lock(); err != nil {
		t.Fatalf("uncontended acquire failed: %v", err)
	}
	if _, err := os.Lstat(target); err != nil {
		t.Fatalf("lockfile missing while held: %v", err)
	}
	if err := lf.Unlock(); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if _, err := os.Lstat(target); !os.IsNotExist(err) {
		t.Fatal("lockfile still present after unlock")
	}
}

// Scenario 2: contended acquire exhausts retries.
func TestContendedAcquireMaxTries(t *testing.T) {
	target := filepath.Join(t.TempDir(), "x.lock")

	holder, err := lockfile.New(target, fastOpts())
	if err != nil {
		t.Fatal(err)
	}
	if err := holder.Lock(); err != nil {
		t.Fatal(err)
	}
	defer holder.Unlock()

	opts := fastOpts()
	opts.Retries = intPtr(3)
	opts.MinSleep = 10 * time.Millisecond
	opts.MaxSleep = 10 * time.Millisecond

	contender, err := lockfile.New(target, opts)
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	err = contender.Lock()
	if !errors.Is(err, errclass.ErrMaxTries) {
		t.Fatalf("expected E_LOCK_MAX_TRIES, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("three backoff sleeps expected, finished in %v", elapsed)
	}
}

// Scenario 6: the backoff schedule resets between acquires.
func TestScheduleResetsBetweenAcquires(t *testing.T) {
	target := filepath.Join(t.TempDir(), "x.lock")

	holder, err := lockfile.New(target, fastOpts())
	if err != nil {
		t.Fatal(err)
	}
	if err := holder.Lock(); err != nil {
		t.Fatal(err)
	}
	defer holder.Unlock()

	// One retry, so exactly one backoff sleep: the first quantum. With
	// min=40ms/inc=40ms/max=200ms, a leaked schedule would sleep 80ms or
	// more on the second acquire.
	opts := fastOpts()
	opts.Retries = intPtr(1)
	opts.MinSleep = 40 * time.Millisecond
	opts.MaxSleep = 200 * time.Millisecond
	opts.SleepInc = 40 * time.Millisecond

	for i := 0; i < 2; i++ {
		contender, err := lockfile.New(target, opts)
		if err != nil {
			t.Fatal(err)
		}
		start := time.Now()
		if err := contender.Lock(); !errors.Is(err, errclass.ErrMaxTries) {
			t.Fatalf("expected E_LOCK_MAX_TRIES, got %v", err)
		}
		elapsed := time.Since(start)
		if elapsed < 40*time.Millisecond {
			t.Fatalf("acquire %d skipped the backoff sleep (%v)", i, elapsed)
		}
		if elapsed > 75*time.Millisecond {
			t.Fatalf("acquire %d slept %v; the schedule did not start at min_sleep", i, elapsed)
		}
	}
}

// Invariant 1: at most one holder at any instant.
func TestMutualExclusion(t *testing.T) {
	target := filepath.Join(t.TempDir(), "x.lock")

	var mu sync.Mutex
	var wg sync.WaitGroup
	inSection := 0
	maxSeen := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lf, err := lockfile.New(target, fastOpts())
			if err != nil {
				t.Error(err)
				return
			}
			err = lf.LockWith(func() error {
				mu.Lock()
				inSection++
				if inSection > maxSeen {
					maxSeen = inSection
				}
				mu.Unlock()

				time.Sleep(2 * time.Millisecond)

				mu.Lock()
				inSection--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("lock with work failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("observed %d concurrent holders", maxSeen)
	}
}
