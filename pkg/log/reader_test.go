package log

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTrace(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.otrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, ev)
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	events := []Event{
		{Timestamp: base, SessionID: "a", Address: 101, Direction: DirectionOut, Category: CategoryCommand, LocalRole: RoleControlPanel},
		{Timestamp: base.Add(time.Second), SessionID: "a", Address: 102, Direction: DirectionIn, Category: CategoryEvent, LocalRole: RoleControlPanel},
		{Timestamp: base.Add(2 * time.Second), SessionID: "b", Address: NoAddress, Direction: DirectionLocal, Category: CategoryState, LocalRole: RolePeripheral},
		{Timestamp: base.Add(3 * time.Second), SessionID: "a", Address: 101, Direction: DirectionLocal, Category: CategoryError, LocalRole: RoleControlPanel},
	}
	path := writeTrace(t, events)

	addr101 := 101
	catEvent := CategoryEvent
	dirLocal := DirectionLocal
	rolePD := RolePeripheral
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"session", Filter{SessionID: "a"}, 3},
		{"address", Filter{Address: &addr101}, 2},
		{"category", Filter{Category: &catEvent}, 1},
		{"direction", Filter{Direction: &dirLocal}, 2},
		{"role", Filter{Role: &rolePD}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{SessionID: "a", Direction: &dirLocal}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer r.Close()

			if got := len(readAll(t, r)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderPreservesOrderAndPayload(t *testing.T) {
	path := writeTrace(t, []Event{
		{Timestamp: time.Now(), Address: 1, Category: CategoryState, StateChange: &StateChangeEvent{Entity: StateEntityDevice, OldState: "offline", NewState: "online"}},
		{Timestamp: time.Now(), Address: 1, Category: CategoryEvent, Report: &ReportEvent{Name: "CARDREAD", Status: -1}},
	})

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	got := readAll(t, r)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].StateChange == nil || got[0].StateChange.NewState != "online" {
		t.Errorf("first event StateChange = %+v", got[0].StateChange)
	}
	if got[1].Report == nil || got[1].Report.Status != -1 {
		t.Errorf("second event Report = %+v", got[1].Report)
	}
}

func TestNewReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error")
	}
}

func TestReaderHeader(t *testing.T) {
	before := time.Now().Add(-time.Second)
	path := writeTrace(t, nil)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	if r.Created().Before(before) {
		t.Errorf("Created = %v, want after %v", r.Created(), before)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next on empty trace = %v, want io.EOF", err)
	}
}

func TestReaderRejectsInvalidHeader(t *testing.T) {
	tests := []struct {
		name   string
		header fileHeader
		want   error
	}{
		{"magic", fileHeader{Magic: "PCAP", Version: 1}, ErrNotTrace},
		{"future version", fileHeader{Magic: traceMagic, Version: TraceVersion + 1}, ErrTraceVersion},
		{"zero version", fileHeader{Magic: traceMagic}, ErrTraceVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encMode.Marshal(tt.header)
			if err != nil {
				t.Fatal(err)
			}
			_, err = NewStreamReader(io.NopCloser(bytes.NewReader(data)), Filter{})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("garbage", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk")
		if err := os.WriteFile(path, []byte{0xff, 0x00, 0x13}, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewReader(path); !errors.Is(err, ErrNotTrace) {
			t.Errorf("error = %v, want ErrNotTrace", err)
		}
	})
}

func TestReaderEachStopsOnError(t *testing.T) {
	path := writeTrace(t, []Event{
		{Timestamp: time.Now(), Address: 1},
		{Timestamp: time.Now(), Address: 2},
		{Timestamp: time.Now(), Address: 3},
	})
	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	stop := errors.New("stop")
	seen := 0
	err = r.Each(func(ev Event) error {
		seen++
		if ev.Address == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || seen != 2 {
		t.Errorf("Each = %v after %d events, want stop after 2", err, seen)
	}
}
