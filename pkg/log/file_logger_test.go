package log

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func decodeAll(t *testing.T, path string) []Event {
	t.Helper()
	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("open trace: %v", err)
	}
	defer r.Close()

	var events []Event
	if err := r.Each(func(ev Event) error {
		events = append(events, ev)
		return nil
	}); err != nil {
		t.Fatalf("read trace: %v", err)
	}
	return events
}

func TestFileLoggerWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.otrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	logger.Log(Event{
		Timestamp: time.Now(),
		SessionID: "sess-1",
		Direction: DirectionOut,
		Category:  CategoryCommand,
		LocalRole: RoleControlPanel,
		Address:   101,
		Command:   &CommandEvent{Name: "LED", Accepted: true},
	})
	logger.Close()

	events := decodeAll(t, path)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	got := events[0]
	if got.SessionID != "sess-1" || got.Address != 101 {
		t.Errorf("got session %q address %d", got.SessionID, got.Address)
	}
	if got.Command == nil || got.Command.Name != "LED" || !got.Command.Accepted {
		t.Errorf("Command = %+v", got.Command)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.otrace")

	for _, id := range []string{"first", "second"} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(Event{Timestamp: time.Now(), SessionID: id, Address: NoAddress, Category: CategoryState})
		logger.Close()
	}

	events := decodeAll(t, path)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].SessionID != "first" || events[1].SessionID != "second" {
		t.Errorf("order: %q, %q", events[0].SessionID, events[1].SessionID)
	}
}

func TestFileLoggerThreadSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.otrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(addr int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				logger.Log(Event{Timestamp: time.Now(), Address: addr, Category: CategoryEvent})
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	if n := len(decodeAll(t, path)); n != workers*perWorker {
		t.Errorf("event count: got %d, want %d", n, workers*perWorker)
	}
	if logger.Written() != workers*perWorker {
		t.Errorf("Written = %d", logger.Written())
	}
	if logger.Dropped() != 0 {
		t.Errorf("Dropped = %d", logger.Dropped())
	}
}

func TestFileLoggerClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.otrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Logging after close is ignored.
	logger.Log(Event{Timestamp: time.Now()})
	if n := len(decodeAll(t, path)); n != 0 {
		t.Errorf("got %d events after close, want 0", n)
	}
}

func TestNewFileLoggerBadPath(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "cp.otrace"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestFileLoggerRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileLogger(path)
	if !errors.Is(err, ErrNotTrace) {
		t.Fatalf("NewFileLogger error = %v, want ErrNotTrace", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "hello" {
		t.Errorf("foreign file modified: %q", data)
	}
}
