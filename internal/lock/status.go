package lock

import (
	"fmt"
	"os"
	"time"

	"github.com/linklock-project/linklock/pkg/logging"
	"github.com/linklock-project/linklock/pkg/model"
)

// Status describes an on-disk lockfile as seen by an observer that does not
// hold it.
type Status struct {
	Exists bool          `json:"exists"`
	Known  bool          `json:"known"`
	Owner  model.Owner   `json:"owner,omitempty"`
	Age    time.Duration `json:"age_ns"`
}

// Stale reports whether the lockfile is older than maxAge and therefore
// stealable. maxAge zero means never.
func (s Status) Stale(maxAge time.Duration) bool {
	return s.Exists && maxAge > 0 && s.Age > maxAge
}

// Inspect reads the lockfile at path. A missing file is not an error; an
// unreadable owner record reports Known=false.
func Inspect(path string) (Status, error) {
	fi, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("stat %s: %w", path, err)
	}

	st := Status{Exists: true, Age: time.Since(fi.ModTime())}
	data, err := os.ReadFile(path)
	if err != nil {
		return st, nil
	}
	st.Owner, st.Known = decodeOwner(data)
	return st, nil
}

// Sweep runs a standalone sweeper pass for target's directory and returns
// the number of stale same-host temp files removed.
func Sweep(target string, log *logging.Logger) (int, error) {
	host, err := os.Hostname()
	if err != nil {
		return 0, fmt.Errorf("hostname: %w", err)
	}
	if log == nil {
		log = logging.NewFromEnv()
	}
	return sweep(target, host, log), nil
}
