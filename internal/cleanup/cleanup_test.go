package cleanup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/linklock-project/linklock/internal/cleanup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestRunAll_RemovesRegistered(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "x.lock")
	b := filepath.Join(dir, "x.lock.host.1.2.3.4.deadbeef")
	touch(t, a)
	touch(t, b)

	cleanup.Register(101, a, b)
	cleanup.RunAll()

	_, err := os.Lstat(a)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Lstat(b)
	assert.True(t, os.IsNotExist(err))
}

func TestUnregister_SkipsRemoved(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "y.lock")
	touch(t, a)

	cleanup.Register(102, a)
	cleanup.Unregister(102)
	cleanup.RunAll()

	_, err := os.Lstat(a)
	assert.NoError(t, err, "unregistered path must survive RunAll")
}

func TestRunAll_MissingFilesIgnored(t *testing.T) {
	cleanup.Register(103, filepath.Join(t.TempDir(), "never-created"))
	cleanup.RunAll() // must not panic
}

func TestUnregister_UnknownID(t *testing.T) {
	cleanup.Unregister(99999) // no-op
}
