package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesTerminalAndJSONFile(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	l, err := NewLogger(Options{Dir: dir, Service: "meetapp-test", Out: &out})
	require.NoError(t, err)

	l.Info("meetup", "created 42")
	l.Close()

	assert.Contains(t, out.String(), "created 42")
	assert.Contains(t, out.String(), "MEETUP")

	files, err := filepath.Glob(filepath.Join(dir, "meetapp-test-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "MEETUP", entry.Category)
	assert.Equal(t, "meetapp-test", entry.Service)
	assert.Equal(t, "created 42", entry.Message)
	assert.Equal(t, "logger_test.go", entry.File)
}

func TestLoggerMinLevel(t *testing.T) {
	var out bytes.Buffer
	l, err := NewLogger(Options{Out: &out, MinLevel: WARN})
	require.NoError(t, err)

	l.Debug("APP", "hidden")
	l.Info("APP", "hidden too")
	l.Warn("APP", "shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}

func TestFatalCallsExit(t *testing.T) {
	var out bytes.Buffer
	l, err := NewLogger(Options{Out: &out})
	require.NoError(t, err)

	code := -1
	l.exit = func(c int) { code = c }
	l.Fatal("CONFIG", "missing secret")

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "missing secret")
}

func TestLogDatabase(t *testing.T) {
	var out bytes.Buffer
	l, err := NewLogger(Options{Out: &out})
	require.NoError(t, err)

	l.LogDatabase("MIGRATE", "schema_migrations", "Current schema version: 3")

	assert.Contains(t, out.String(), "DATABASE")
	assert.Contains(t, out.String(), "[MIGRATE] schema_migrations - Current schema version: 3")
}
