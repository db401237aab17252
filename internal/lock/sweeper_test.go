package lock

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/linklock-project/linklock/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadPID returns the pid of a process that has already exited.
func deadPID(t *testing.T) int {
	t.Helper()
	cmd := exec.Command("true")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	require.NoError(t, cmd.Wait())
	return pid
}

func sibling(t *testing.T, dir, base, host string, pid int) string {
	t.Helper()
	name := fmt.Sprintf("%s.%s.%d.1.1.1234567890.deadbeef", base, host, pid)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("debris"), 0644))
	return path
}

func TestSweep_RemovesDeadSameHostTemps(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "x.lock")
	host, err := os.Hostname()
	require.NoError(t, err)

	dead := sibling(t, dir, "x.lock", host, deadPID(t))

	removed := sweep(target, host, logging.NewLogger(logging.LevelError))
	assert.Equal(t, 1, removed)
	_, statErr := os.Lstat(dead)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSweep_LeavesAmbiguousSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "x.lock")
	host, err := os.Hostname()
	require.NoError(t, err)

	// The lockfile itself, a live same-host temp, a foreign-host temp, and
	// a file whose name does not parse as a temp name: all must survive.
	require.NoError(t, os.WriteFile(target, []byte("held"), 0644))
	live := sibling(t, dir, "x.lock", host, os.Getpid())
	foreign := sibling(t, dir, "x.lock", "elsewhere.example.com", deadPID(t))
	garbage := filepath.Join(dir, "x.lock.not-a-temp")
	require.NoError(t, os.WriteFile(garbage, []byte("?"), 0644))
	unrelated := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("n"), 0644))

	removed := sweep(target, host, logging.NewLogger(logging.LevelError))
	assert.Equal(t, 0, removed)

	for _, p := range []string{target, live, foreign, garbage, unrelated} {
		_, err := os.Lstat(p)
		assert.NoError(t, err, "%s must survive the sweep", p)
	}
}

func TestSweep_MissingDirectory(t *testing.T) {
	removed := sweep(filepath.Join(t.TempDir(), "absent", "x.lock"), "h",
		logging.NewLogger(logging.LevelError))
	assert.Equal(t, 0, removed)
}

func TestSweep_OnlyTargetsOwnBasename(t *testing.T) {
	dir := t.TempDir()
	host, err := os.Hostname()
	require.NoError(t, err)

	// Debris for a different lockfile in the same directory is not ours to
	// reclaim.
	other := sibling(t, dir, "y.lock", host, deadPID(t))

	removed := sweep(filepath.Join(dir, "x.lock"), host, logging.NewLogger(logging.LevelError))
	assert.Equal(t, 0, removed)
	_, statErr := os.Lstat(other)
	assert.NoError(t, statErr)
}
