//go:build !windows

package lock

import "syscall"

// identity is the (device, inode) pair naming a filesystem object.
// Link count is deliberately not part of identity: NFS clients cache
// nlink values that cannot be trusted.
type identity struct {
	dev uint64
	ino uint64
}

// pathIdentity stats path without following symlinks.
func pathIdentity(path string) (identity, error) {
	var st syscall.Stat_t
	if err := syscall.Lstat(path, &st); err != nil {
		return identity{}, err
	}
	return identity{dev: uint64(st.Dev), ino: uint64(st.Ino)}, nil
}

// sameFile reports whether two paths currently name the same inode.
func sameFile(a, b string) bool {
	ia, errA := pathIdentity(a)
	ib, errB := pathIdentity(b)
	return errA == nil && errB == nil && ia == ib
}
