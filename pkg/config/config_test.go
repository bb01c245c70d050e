package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/keystore"
)

const controllerYAML = `
name: lobby
role: cp
log_level: debug
poll_interval: 20ms
devices:
  - name: door-1
    address: 101
    key: pd-101
    flags: [enforce-secure, enable-notification]
  - name: door-2
    address: 102
`

const peripheralYAML = `
name: door-1
role: pd
devices:
  - address: 101
    key: pd-101
capabilities:
  - function: led-control
    compliance: 1
    items: 2
  - function: output-control
    compliance: 1
    items: 4
identity:
  vendor_code: 42
  serial_number: 7
`

func TestParseController(t *testing.T) {
	cfg, err := Parse([]byte(controllerYAML))
	require.NoError(t, err)

	assert.Equal(t, "lobby", cfg.Name)
	assert.Equal(t, RoleControlPanel, cfg.Role)
	assert.Equal(t, engine.LogDebug, cfg.EngineLogLevel())
	assert.Equal(t, 20*time.Millisecond, cfg.PollInterval)
	require.Len(t, cfg.Devices, 2)
	assert.Equal(t, ChannelSim, cfg.Devices[1].Channel)
	assert.Equal(t, []string{"pd-101"}, cfg.KeyNames())
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("name: x\nrole: cp\ndevices: [{address: 1}]\n"))
	require.NoError(t, err)
	assert.Equal(t, engine.LogInfo, cfg.EngineLogLevel())
	assert.Equal(t, ChannelSim, cfg.Devices[0].Channel)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "role: cp\ndevices: [{address: 1}]"},
		{"bad role", "name: x\nrole: hub\ndevices: [{address: 1}]"},
		{"cp without devices", "name: x\nrole: cp"},
		{"pd with two devices", "name: x\nrole: pd\ndevices: [{address: 1}, {address: 2}]"},
		{"address out of range", "name: x\nrole: cp\ndevices: [{address: 127}]"},
		{"duplicate address", "name: x\nrole: cp\ndevices: [{address: 3}, {address: 3}]"},
		{"unknown flag", "name: x\nrole: cp\ndevices: [{address: 1, flags: [turbo]}]"},
		{"unsupported channel", "name: x\nrole: cp\ndevices: [{address: 1, channel: tcp}]"},
		{"bad log level", "name: x\nrole: cp\nlog_level: loud\ndevices: [{address: 1}]"},
		{"negative poll", "name: x\nrole: cp\npoll_interval: -1s\ndevices: [{address: 1}]"},
		{"unknown capability", "name: x\nrole: pd\ndevices: [{address: 1}]\ncapabilities: [{function: teleport}]"},
		{"cp with identity", "name: x\nrole: cp\ndevices: [{address: 1}]\nidentity: {model: 2}"},
		{"malformed yaml", "name: [x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.ErrorIs(t, err, device.ErrConfig)
		})
	}
}

func TestDescriptors(t *testing.T) {
	ks := keystore.New(keystore.NewMemoryBackend(), device.SCBKLength)
	key, err := ks.NewKey("pd-101", 0, false)
	require.NoError(t, err)

	cfg, err := Parse([]byte(controllerYAML))
	require.NoError(t, err)

	descs, err := cfg.Descriptors(ks)
	require.NoError(t, err)
	require.Len(t, descs, 2)

	assert.Equal(t, "door-1", descs[0].Name)
	assert.Equal(t, 101, descs[0].Address)
	assert.True(t, bytes.Equal(key, descs[0].SCBK))
	assert.True(t, descs[0].Flags.Has(device.FlagEnforceSecure))
	assert.True(t, descs[0].Flags.Has(device.FlagEnableNotification))
	assert.Nil(t, descs[1].SCBK)
	assert.Equal(t, device.DefaultIdentity(), descs[1].Identity)
}

func TestDescriptorsLoadsCommittedKey(t *testing.T) {
	dir := t.TempDir()
	ks, err := keystore.Open(dir)
	require.NoError(t, err)
	key, err := ks.NewKey("pd-101", 0, false)
	require.NoError(t, err)
	require.NoError(t, ks.CommitKey("pd-101"))
	require.NoError(t, ks.Close())

	ks, err = keystore.Open(dir)
	require.NoError(t, err)
	defer ks.Close()

	cfg, err := Parse([]byte(peripheralYAML))
	require.NoError(t, err)
	descs, err := cfg.Descriptors(ks)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, key, descs[0].SCBK)
	assert.Equal(t, uint32(42), descs[0].Identity.VendorCode)
	assert.Equal(t, uint32(7), descs[0].Identity.SerialNumber)
}

func TestDescriptorsMissingKey(t *testing.T) {
	cfg, err := Parse([]byte(controllerYAML))
	require.NoError(t, err)

	_, err = cfg.Descriptors(keystore.New(keystore.NewMemoryBackend(), device.SCBKLength))
	assert.ErrorIs(t, err, keystore.ErrKeyNotFound)

	_, err = cfg.Descriptors(nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDeviceCapabilities(t *testing.T) {
	cfg, err := Parse([]byte(peripheralYAML))
	require.NoError(t, err)

	caps, err := cfg.DeviceCapabilities()
	require.NoError(t, err)

	led, ok := caps.Get(device.CapReaderLEDControl)
	require.True(t, ok)
	assert.Equal(t, uint8(2), led.NumItems)

	out, ok := caps.Get(device.CapOutputControl)
	require.True(t, ok)
	assert.Equal(t, uint8(4), out.NumItems)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(peripheralYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RolePeripheral, cfg.Role)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
