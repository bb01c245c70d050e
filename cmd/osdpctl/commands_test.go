package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/fileops"
	"github.com/osdp-go/osdp-go/pkg/keystore"
	"github.com/osdp-go/osdp-go/pkg/log"
)

func mustBuffer() engine.FileOps {
	return fileops.NewBuffer()
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeygenAndShow(t *testing.T) {
	dir := t.TempDir()

	out, err := runCmd(t, "keygen", "--key-dir", dir, "pd-101")
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	assert.Equal(t, "pd-101", fields[0])
	assert.Len(t, fields[1], 2*keystore.DefaultKeyLength)

	_, err = runCmd(t, "keygen", "--key-dir", dir, "pd-101")
	assert.ErrorIs(t, err, keystore.ErrKeyExists)

	shown, err := runCmd(t, "key", "show", "--key-dir", dir, "pd-101")
	require.NoError(t, err)
	assert.Equal(t, out, shown)

	_, err = runCmd(t, "key", "show", "--key-dir", dir, "pd-404")
	assert.ErrorIs(t, err, keystore.ErrKeyNotFound)
}

func TestKeygenDerived(t *testing.T) {
	dir := t.TempDir()
	master := strings.Repeat("11", 32)

	first, err := runCmd(t, "keygen", "--key-dir", dir, "--master", master, "pd-7")
	require.NoError(t, err)
	second, err := runCmd(t, "keygen", "--key-dir", dir, "--master", master, "--force", "pd-7")
	require.NoError(t, err)
	assert.Equal(t, first, second, "derivation is deterministic")

	_, err = runCmd(t, "keygen", "--key-dir", dir, "--master", "xyz", "--force", "pd-7")
	assert.ErrorIs(t, err, keystore.ErrKeyEncoding)
}

func TestTraceCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.cbor")
	fl, err := log.NewFileLogger(path)
	require.NoError(t, err)
	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	fl.Log(log.Event{Timestamp: ts, SessionID: "s1", Category: log.CategoryCommand, Address: 3,
		Command: &log.CommandEvent{Name: "BUZZER", Accepted: true}})
	fl.Log(log.Event{Timestamp: ts, SessionID: "s1", Category: log.CategoryState, Address: log.NoAddress,
		Direction: log.DirectionLocal, StateChange: &log.StateChangeEvent{Entity: log.StateEntitySession, NewState: "RUNNING"}})
	require.NoError(t, fl.Close())

	out, err := runCmd(t, "trace", "view", "--category", "command", path)
	require.NoError(t, err)
	assert.Contains(t, out, "BUZZER")
	assert.NotContains(t, out, "RUNNING")

	out, err = runCmd(t, "trace", "view", "--address=-1", path)
	require.NoError(t, err)
	assert.Contains(t, out, "RUNNING")
	assert.NotContains(t, out, "BUZZER")

	filtered := filepath.Join(t.TempDir(), "f.cbor")
	out, err = runCmd(t, "trace", "filter", "-o", filtered, "--address", "3", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Filtered 1 events")

	out, err = runCmd(t, "trace", "stats", filtered)
	require.NoError(t, err)
	assert.Contains(t, out, "Total Events: 1")

	_, err = runCmd(t, "trace", "view", "--role", "hub", path)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := newLogger(tt.level, &buf)
			require.NoError(t, err)
			assert.True(t, logger.Enabled(t.Context(), tt.want))
			assert.False(t, logger.Enabled(t.Context(), tt.want-1))
		})
	}

	_, err := newLogger("loud", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = runCmd(t, "--log-level", "loud", "trace", "stats", "x")
	assert.Error(t, err)
}

func TestStartRequiresConfig(t *testing.T) {
	_, err := runCmd(t, "start")
	assert.Error(t, err)

	_, err = runCmd(t, "start", "--no-shell", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
