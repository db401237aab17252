//go:build !windows

package lock

import (
	"errors"
	"syscall"
)

// processAlive probes pid with signal 0. ESRCH proves the process is gone;
// EPERM proves it exists. Any other answer leaves liveness undetermined and
// is reported as an error so callers can leave the pid alone.
func processAlive(pid int) (bool, error) {
	if pid <= 0 {
		return false, errors.New("invalid pid")
	}
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, syscall.ESRCH) {
		return false, nil
	}
	if errors.Is(err, syscall.EPERM) {
		return true, nil
	}
	return false, err
}
