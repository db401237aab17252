package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/linklock-project/linklock/pkg/fsutil"
	"github.com/linklock-project/linklock/pkg/pathutil"
)

// CreateFile atomically creates and opens path, failing if it already
// exists. O_EXCL is not trustworthy on NFS, so this stages a unique temp
// sibling and hard-links it into place, deciding by inode identity exactly
// like the lock acquire.
func CreateFile(path string) (*os.File, error) {
	if err := pathutil.ValidateTarget(path); err != nil {
		return nil, err
	}
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	temp := filepath.Join(filepath.Dir(path), tempName(filepath.Base(path), host, handleSeq.Add(1)))
	if err := fsutil.WriteFileSync(temp, nil, 0644); err != nil {
		return nil, err
	}
	defer os.Remove(temp)

	os.Link(temp, path) // the identity comparison decides, not the return code
	if !sameFile(temp, path) {
		return nil, &os.PathError{Op: "create", Path: path, Err: os.ErrExist}
	}
	return os.OpenFile(path, os.O_RDWR, 0644)
}
