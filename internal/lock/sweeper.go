package lock

import (
	"os"
	"path/filepath"

	"github.com/linklock-project/linklock/pkg/logging"
)

// sweep removes unique temp debris left next to target by dead same-host
// processes. It is advisory: every failure is logged and ignored. Files
// whose name does not parse as a temp name, whose host differs, or whose pid
// cannot be proven dead are left alone, and the lockfile itself is never
// touched. File contents are not read.
func sweep(target, host string, log *logging.Logger) int {
	dir := filepath.Dir(target)
	base := filepath.Base(target)

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("sweep: cannot list lock directory", map[string]any{
			"dir": dir, "error": err.Error(),
		})
		return 0
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		if name == base || e.IsDir() {
			continue
		}
		candidateHost, pid, ok := parseTempName(name, base)
		if !ok || candidateHost != host {
			continue
		}
		alive, err := processAlive(pid)
		if err != nil || alive {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("sweep: cannot remove stale temp", map[string]any{
				"path": path, "error": err.Error(),
			})
			continue
		}
		log.Debug("sweep: removed stale temp", map[string]any{
			"path": path, "pid": pid,
		})
		removed++
	}
	return removed
}
