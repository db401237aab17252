//go:build !windows

package cleanup

import (
	"os"
	"syscall"
)

// raise re-delivers sig to the current process.
func raise(sig os.Signal) {
	if s, ok := sig.(syscall.Signal); ok {
		syscall.Kill(os.Getpid(), s)
	}
}
