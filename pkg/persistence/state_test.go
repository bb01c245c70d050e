package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestControlPanelStateStore(t *testing.T) {
	t.Run("LoadNonExistent", func(t *testing.T) {
		store := NewControlPanelStateStore(filepath.Join(t.TempDir(), "nonexistent.json"))

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got != nil {
			t.Errorf("Load() = %v, want nil for non-existent file", got)
		}
	})

	t.Run("DeviceRoundTrip", func(t *testing.T) {
		store := NewControlPanelStateStore(filepath.Join(t.TempDir(), "sub", "cp.json"))

		seen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		state := &ControlPanelState{Name: "lobby"}
		state.Device(102).Name = "door-2"
		rec := state.Device(101)
		rec.Name = "door-1"
		rec.KeyName = "pd-101"
		rec.Disabled = true
		rec.LastOnlineAt = seen

		if err := store.Save(state); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.Version != StateVersion {
			t.Errorf("Version = %d, want %d", got.Version, StateVersion)
		}
		if got.SavedAt.IsZero() {
			t.Error("SavedAt not set")
		}
		if len(got.Devices) != 2 {
			t.Fatalf("len(Devices) = %d, want 2", len(got.Devices))
		}
		if got.Devices[0].Address != 101 || got.Devices[1].Address != 102 {
			t.Errorf("Devices not sorted by address: %+v", got.Devices)
		}
		d := got.Device(101)
		if d.KeyName != "pd-101" || !d.Disabled || !d.LastOnlineAt.Equal(seen) {
			t.Errorf("Device(101) = %+v", d)
		}
		if dis := got.Disabled(); len(dis) != 1 || dis[0] != 101 {
			t.Errorf("Disabled() = %v, want [101]", dis)
		}
	})

	t.Run("NewerVersionRejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cp.json")
		if err := os.WriteFile(path, []byte(`{"version": 99}`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewControlPanelStateStore(path).Load(); err == nil {
			t.Error("Load() error = nil, want version error")
		}
	})

	t.Run("CorruptFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cp.json")
		if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewControlPanelStateStore(path).Load(); err == nil {
			t.Error("Load() error = nil, want decode error")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cp.json")
		store := NewControlPanelStateStore(path)
		if err := store.Save(&ControlPanelState{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("state file still exists: %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Errorf("second Clear() error = %v", err)
		}
	})
}

func TestPeripheralStateStore(t *testing.T) {
	store := NewPeripheralStateStore(filepath.Join(t.TempDir(), "pd.json"))

	state := &PeripheralState{Address: 101, KeyName: "pd-101", Commands: 3, Files: []int{1, 4}}
	if err := store.Save(state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Address != 101 || got.KeyName != "pd-101" || got.Commands != 3 {
		t.Errorf("Load() = %+v", got)
	}
	if len(got.Files) != 2 || got.Files[1] != 4 {
		t.Errorf("Files = %v, want [1 4]", got.Files)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	got, err = store.Load()
	if err != nil || got != nil {
		t.Errorf("Load() after Clear = %v, %v", got, err)
	}
}
