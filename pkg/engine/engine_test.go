package engine

import (
	"log/slog"
	"testing"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		slog slog.Level
	}{
		{"debug", LogDebug, slog.LevelDebug},
		{"INFO", LogInfo, slog.LevelInfo},
		{"notice", LogNotice, slog.LevelInfo},
		{"warning", LogWarning, slog.LevelWarn},
		{"Warn", LogWarning, slog.LevelWarn},
		{"3", LogError, slog.LevelError},
		{"emergency", LogEmergency, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.slog, got.SlogLevel())
		})
	}

	_, err := ParseLogLevel("loud")
	assert.Error(t, err)
	_, err = ParseLogLevel("9")
	assert.Error(t, err)
	assert.Equal(t, "level(9)", LogLevel(9).String())
}

func TestCommandAndEventIDs(t *testing.T) {
	assert.Equal(t, CmdLED, (&LEDCommand{}).CommandID())
	assert.Equal(t, "KEYSET", (&KeysetCommand{}).CommandID().String())
	assert.Equal(t, "CMD(99)", CommandID(99).String())

	assert.Equal(t, EventCardRead, (&CardReadEvent{}).EventType())
	assert.Equal(t, "IO", (&IOEvent{}).EventType().String())
	assert.Equal(t, "sc_status", NotifySCStatus.String())
}

func TestFileTransferCancel(t *testing.T) {
	assert.False(t, (&FileTransferCommand{ID: 1}).Cancel())
	assert.True(t, (&FileTransferCommand{ID: 1, Flags: FileTxFlagCancel}).Cancel())
}

func TestPDIDFromIdentity(t *testing.T) {
	id := PDIDFromIdentity(device.DefaultIdentity())
	assert.Equal(t, uint32(0xCAFEBABE), id.VendorCode)
	assert.Equal(t, uint32(0xDEADBEAF), id.SerialNumber)
	assert.Equal(t, uint32(0xF00D), id.FirmwareVersion)
}
