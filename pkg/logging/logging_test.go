package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/linklock-project/linklock/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewLogger(logging.LevelWarn)
	l.SetOutput(&buf)

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("visible")
	l.Error("also visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLogger_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewLogger(logging.LevelDebug)
	l.SetOutput(&buf)

	l.Debug("acquired", map[string]any{"path": "x.lock", "attempt": 3})

	var entry logging.LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, logging.LevelDebug, entry.Level)
	assert.Equal(t, "acquired", entry.Message)
	assert.Equal(t, "x.lock", entry.Fields["path"])
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewLogger(logging.LevelInfo)
	l.SetOutput(&buf)

	child := l.WithFields(map[string]any{"lockfile": "y.lock"})
	child.SetOutput(&buf)
	child.Info("sweep done", map[string]any{"removed": 2})

	var entry logging.LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "y.lock", entry.Fields["lockfile"])
	assert.Equal(t, float64(2), entry.Fields["removed"])
}

func TestLogger_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewLogger(logging.LevelError)
	l.SetOutput(&buf)

	l.ErrorErr("unlink failed", assert.AnError)

	var entry logging.LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, assert.AnError.Error(), entry.Fields["error"])
}

func TestDebugFromEnv(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"1", true},
		{"true", true},
		{"yes", true},
	}
	for _, tc := range cases {
		t.Setenv(logging.DebugEnv, tc.value)
		assert.Equal(t, tc.want, logging.DebugFromEnv(), "LOCKFILE_DEBUG=%q", tc.value)
	}
}
