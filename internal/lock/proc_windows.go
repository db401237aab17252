//go:build windows

package lock

import "errors"

func processAlive(pid int) (bool, error) {
	return false, errors.New("pid liveness probes are not supported on windows")
}
