package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/linklock-project/linklock/pkg/fsutil"
	"github.com/linklock-project/linklock/pkg/model"
	"github.com/linklock-project/linklock/pkg/uuidutil"
)

// handleSeq numbers handles within this process. Go does not pin goroutines
// to OS threads, so the handle id fills the per-thread slot of the temp
// naming scheme; it serves the same uniqueness purpose.
var handleSeq atomic.Uint64

// tempSeq numbers temp files across all handles in this process.
var tempSeq atomic.Uint64

// tempName builds a unique sibling name for target's basename:
//
//	<base>.<hostname>.<pid>.<handle>.<seq>.<time_ns>.<random>
//
// The hostname lets a sweeper recognize same-host candidates; pid, handle
// id, sequence, nanosecond clock, and random token together make collisions
// across processes and fast restarts effectively impossible.
func tempName(base, host string, handleID uint64) string {
	return fmt.Sprintf("%s.%s.%d.%d.%d.%d.%s",
		base, host, os.Getpid(), handleID, tempSeq.Add(1),
		time.Now().UnixNano(), uuidutil.Short())
}

// parseTempName extracts the hostname and pid embedded in a sibling temp
// name. Hostnames may themselves contain dots, so the five fixed fields are
// peeled off the end first.
func parseTempName(name, base string) (host string, pid int, ok bool) {
	prefix := base + "."
	if !strings.HasPrefix(name, prefix) {
		return "", 0, false
	}
	parts := strings.Split(name[len(prefix):], ".")
	if len(parts) < 6 {
		return "", 0, false
	}

	n := len(parts)
	for _, field := range parts[n-4:] { // handle, seq, time_ns, random
		if field == "" {
			return "", 0, false
		}
	}
	for _, field := range parts[n-4 : n-1] {
		if _, err := strconv.ParseUint(field, 10, 64); err != nil {
			return "", 0, false
		}
	}

	pid, err := strconv.Atoi(parts[n-5])
	if err != nil || pid <= 0 {
		return "", 0, false
	}

	host = strings.Join(parts[:n-5], ".")
	if host == "" {
		return "", 0, false
	}
	return host, pid, true
}

// createUniqueTemp stages a unique temp file next to target carrying the
// owner record, fsynced before return.
func createUniqueTemp(target, host string, handleID uint64) (string, model.Owner, error) {
	owner := model.Owner{
		Host: host,
		PID:  os.Getpid(),
		PPID: os.Getppid(),
		Time: time.Now(),
	}
	path := filepath.Join(filepath.Dir(target), tempName(filepath.Base(target), host, handleID))
	if err := fsutil.WriteFileSync(path, encodeOwner(owner), 0644); err != nil {
		return "", model.Owner{}, fmt.Errorf("create unique temp: %w", err)
	}
	return path, owner, nil
}
