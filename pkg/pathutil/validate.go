// Package pathutil provides lockfile path validation for linklock.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/linklock-project/linklock/pkg/errclass"
)

// ValidateTarget checks that path is usable as a lockfile target. The
// basename feeds the unique temp naming scheme, so it must be a plain file
// name with no control characters.
func ValidateTarget(path string) error {
	if path == "" {
		return errclass.ErrNameInvalid.WithMessage("lockfile path must not be empty")
	}
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return errclass.ErrNameInvalid.WithMessagef("lockfile path must not end with a separator: %s", path)
	}

	base := norm.NFC.String(filepath.Base(path))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return errclass.ErrNameInvalid.WithMessagef("lockfile path has no usable basename: %s", path)
	}
	for _, r := range base {
		if unicode.IsControl(r) {
			return errclass.ErrNameInvalid.WithMessagef("lockfile name must not contain control characters: %q", base)
		}
	}

	if info, err := os.Lstat(path); err == nil && info.IsDir() {
		return errclass.ErrNameInvalid.WithMessagef("lockfile path is a directory: %s", path)
	}
	return nil
}
