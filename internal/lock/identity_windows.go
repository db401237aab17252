//go:build windows

package lock

import "errors"

type identity struct {
	dev uint64
	ino uint64
}

var errUnsupported = errors.New("lockfile identity checks require a POSIX filesystem")

func pathIdentity(path string) (identity, error) {
	return identity{}, errUnsupported
}

func sameFile(a, b string) bool {
	return false
}
