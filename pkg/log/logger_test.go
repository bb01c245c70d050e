package log

import (
	"sync"
	"testing"
	"time"
)

func TestNoopLogger(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Log(Event{Timestamp: time.Now()})
}

func TestMultiLogger(t *testing.T) {
	a := NewMemoryLogger()
	b := NewMemoryLogger()

	multi := NewMultiLogger(a, nil, b)
	if multi.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (nil skipped)", multi.Len())
	}

	multi.Log(Event{SessionID: "s", Address: 3})

	for i, m := range []*MemoryLogger{a, b} {
		events := m.Events()
		if len(events) != 1 || events[0].Address != 3 {
			t.Errorf("logger %d: got %+v", i, events)
		}
	}

	// Empty list must not panic.
	NewMultiLogger().Log(Event{})
}

func TestMemoryLoggerConcurrent(t *testing.T) {
	m := NewMemoryLogger()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				m.Log(Event{Category: CategoryEvent})
			}
		}()
	}
	wg.Wait()

	if n := len(m.Events()); n != 100 {
		t.Errorf("got %d events, want 100", n)
	}

	cat := CategoryState
	if n := len(m.Filter(Filter{Category: &cat})); n != 0 {
		t.Errorf("state events = %d, want 0", n)
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionLocal.String(), "LOCAL"},
		{Direction(9).String(), "UNKNOWN"},
		{CategoryCommand.String(), "COMMAND"},
		{CategoryError.String(), "ERROR"},
		{RolePeripheral.String(), "PD"},
		{StateEntitySecureChannel.String(), "SECURE_CHANNEL"},
		{StateEntity(9).String(), "UNKNOWN"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	if c, ok := ParseCategory("EVENT"); !ok || c != CategoryEvent {
		t.Errorf("ParseCategory(EVENT) = %v, %v", c, ok)
	}
	if _, ok := ParseCategory("nope"); ok {
		t.Error("ParseCategory(nope) succeeded")
	}
}
