//go:build windows

package cleanup

import "os"

// raise is a no-op on windows; the handler falls through to os.Exit.
func raise(sig os.Signal) {}
