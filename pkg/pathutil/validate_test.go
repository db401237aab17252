package pathutil_test

import (
	"path/filepath"
	"testing"

	"github.com/linklock-project/linklock/pkg/errclass"
	"github.com/linklock-project/linklock/pkg/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTarget(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name string
		path string
		ok   bool
	}{
		{"plain name", filepath.Join(dir, "x.lock"), true},
		{"dotted name", filepath.Join(dir, "a.b.c.lock"), true},
		{"relative", "x.lock", true},
		{"empty", "", false},
		{"trailing separator", dir + string(filepath.Separator), false},
		{"dot", ".", false},
		{"dotdot", "..", false},
		{"control character", filepath.Join(dir, "bad\x01name"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := pathutil.ValidateTarget(tc.path)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				require.ErrorIs(t, err, errclass.ErrNameInvalid)
			}
		})
	}
}

func TestValidateTarget_Directory(t *testing.T) {
	dir := t.TempDir()
	err := pathutil.ValidateTarget(dir)
	require.ErrorIs(t, err, errclass.ErrNameInvalid)
}
