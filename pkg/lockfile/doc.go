// Package lockfile is the public API for NFS-safe advisory file locks.
//
// A lock is the existence of a named regular file. Acquisition stages a
// unique temp sibling, hard-links it onto the target, and trusts only the
// (device, inode) identity comparison; on NFS the return code of link(2)
// is not evidence of anything. Held locks are kept alive by a background
// refresher that touches the lockfile's mtime and reports external removal.
//
//	lf, err := lockfile.New("/shared/jobs/x.lock", model.DefaultOptions())
//	if err != nil { ... }
//	err = lf.LockWith(func() error {
//		// critical section
//		return nil
//	})
package lockfile
