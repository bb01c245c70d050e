package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func logJSON(t *testing.T, ev Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	adapter.Log(ev)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestSlogAdapterCommand(t *testing.T) {
	entry := logJSON(t, Event{
		Timestamp: time.Now(),
		SessionID: "sess-1",
		Direction: DirectionOut,
		Category:  CategoryCommand,
		Address:   101,
		Device:    "door",
		Command:   &CommandEvent{Name: "BUZZER", Accepted: false},
	})

	checks := map[string]any{
		"msg":        "osdp trace",
		"session_id": "sess-1",
		"role":       "CP",
		"direction":  "OUT",
		"category":   "COMMAND",
		"address":    float64(101),
		"device":     "door",
		"command":    "BUZZER",
		"accepted":   false,
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("%s: got %v, want %v", k, entry[k], want)
		}
	}
}

func TestSlogAdapterOmitsSessionAddress(t *testing.T) {
	entry := logJSON(t, Event{
		Timestamp:   time.Now(),
		Address:     NoAddress,
		Category:    CategoryState,
		StateChange: &StateChangeEvent{Entity: StateEntitySession, OldState: "idle", NewState: "running"},
	})

	if _, ok := entry["address"]; ok {
		t.Error("address should be omitted for session events")
	}
	if entry["entity"] != "SESSION" || entry["new_state"] != "running" {
		t.Errorf("state attrs: %v", entry)
	}
}

func TestSlogAdapterError(t *testing.T) {
	entry := logJSON(t, Event{
		Timestamp: time.Now(),
		Address:   7,
		Category:  CategoryError,
		Error:     &ErrorEventData{Message: "boom", Context: "event handler", Panic: true},
	})

	if entry["error_msg"] != "boom" || entry["panic"] != true {
		t.Errorf("error attrs: %v", entry)
	}
}

func TestSlogAdapterLevel(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil))) // Info level

	adapter.Log(Event{Timestamp: time.Now(), Address: NoAddress})
	if buf.Len() != 0 {
		t.Fatalf("debug event written at info level: %q", buf.String())
	}

	adapter.WithLevel(slog.LevelInfo).Log(Event{Timestamp: time.Now(), Address: NoAddress})
	if buf.Len() == 0 {
		t.Fatal("info event not written")
	}
}

func TestSlogAdapterRaisesErrors(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	adapter.Log(Event{Timestamp: time.Now(), Address: 3, Category: CategoryEvent, Report: &ReportEvent{Name: "KEYPRESS"}})
	if buf.Len() != 0 {
		t.Fatalf("debug event written at warn level: %q", buf.String())
	}

	adapter.Log(Event{Timestamp: time.Now(), Address: 3, Category: CategoryError, Error: &ErrorEventData{Message: "boom"}})
	if !bytes.Contains(buf.Bytes(), []byte("level=WARN")) {
		t.Fatalf("error event not raised to warn: %q", buf.String())
	}
}
