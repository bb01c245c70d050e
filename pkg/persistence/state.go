package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// ErrVersion is returned when a state file was written by a newer format.
var ErrVersion = errors.New("persistence: unsupported state version")

// ControlPanelState contains the runtime state of a controller.
type ControlPanelState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Name is the controller name from the configuration.
	Name string `json:"name,omitempty"`

	// Devices holds one record per configured address, sorted by address.
	Devices []DeviceRecord `json:"devices,omitempty"`
}

// DeviceRecord is what a controller remembers about one peripheral.
type DeviceRecord struct {
	// Address is the bus address.
	Address int `json:"address"`

	// Name is the logical device name.
	Name string `json:"name,omitempty"`

	// KeyName is the keystore entry holding the device's base key.
	KeyName string `json:"key_name,omitempty"`

	// Disabled is set while the device is taken out of the poll rotation.
	Disabled bool `json:"disabled,omitempty"`

	// LastOnlineAt is when the device was last seen online.
	LastOnlineAt time.Time `json:"last_online_at,omitempty"`

	// LastSecureAt is when the device last had an active secure channel.
	LastSecureAt time.Time `json:"last_secure_at,omitempty"`

	// KeyRotatedAt is when a keyset command for the device last succeeded.
	KeyRotatedAt time.Time `json:"key_rotated_at,omitempty"`
}

// Device returns the record for address, adding an empty one if needed.
func (s *ControlPanelState) Device(address int) *DeviceRecord {
	for i := range s.Devices {
		if s.Devices[i].Address == address {
			return &s.Devices[i]
		}
	}
	s.Devices = append(s.Devices, DeviceRecord{Address: address})
	sort.Slice(s.Devices, func(i, j int) bool { return s.Devices[i].Address < s.Devices[j].Address })
	return s.Device(address)
}

// Disabled returns the addresses of disabled devices in ascending order.
func (s *ControlPanelState) Disabled() []int {
	var out []int
	for _, d := range s.Devices {
		if d.Disabled {
			out = append(out, d.Address)
		}
	}
	return out
}

// PeripheralState contains the runtime state of a peripheral.
type PeripheralState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Address is the peripheral's bus address.
	Address int `json:"address"`

	// KeyName is the keystore entry holding the base key.
	KeyName string `json:"key_name,omitempty"`

	// LastOnlineAt is when a controller was last polling this peripheral.
	LastOnlineAt time.Time `json:"last_online_at,omitempty"`

	// Commands counts commands received since the state was created.
	Commands int `json:"commands,omitempty"`

	// Files lists file IDs received completely.
	Files []int `json:"files,omitempty"`
}

// ControlPanelStateStore manages persistence of controller state.
type ControlPanelStateStore struct {
	mu   sync.Mutex
	path string
}

// NewControlPanelStateStore creates a store backed by path.
func NewControlPanelStateStore(path string) *ControlPanelStateStore {
	return &ControlPanelStateStore{path: path}
}

// Save persists the controller state.
func (s *ControlPanelStateStore) Save(state *ControlPanelState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.Version = StateVersion
	state.SavedAt = time.Now()
	return writeJSON(s.path, state)
}

// Load reads the controller state.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *ControlPanelStateStore) Load() (*ControlPanelState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &ControlPanelState{}
	ok, err := readJSON(s.path, state)
	if !ok || err != nil {
		return nil, err
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, state.Version)
	}
	return state, nil
}

// Clear removes the state file.
func (s *ControlPanelStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(s.path)
}

// PeripheralStateStore manages persistence of peripheral state.
type PeripheralStateStore struct {
	mu   sync.Mutex
	path string
}

// NewPeripheralStateStore creates a store backed by path.
func NewPeripheralStateStore(path string) *PeripheralStateStore {
	return &PeripheralStateStore{path: path}
}

// Save persists the peripheral state.
func (s *PeripheralStateStore) Save(state *PeripheralState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.Version = StateVersion
	state.SavedAt = time.Now()
	return writeJSON(s.path, state)
}

// Load reads the peripheral state.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *PeripheralStateStore) Load() (*PeripheralState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &PeripheralState{}
	ok, err := readJSON(s.path, state)
	if !ok || err != nil {
		return nil, err
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, state.Version)
	}
	return state, nil
}

// Clear removes the state file.
func (s *PeripheralStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(s.path)
}

// writeJSON replaces path atomically.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("persistence: create state dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("persistence: encode state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("persistence: write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("persistence: replace state: %w", err)
	}
	return nil
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("persistence: read state: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("persistence: decode state: %w", err)
	}
	return true, nil
}

func removeFile(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
