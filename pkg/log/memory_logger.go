package log

import "sync"

// MemoryLogger keeps events in memory.
// This is primarily useful for testing.
type MemoryLogger struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryLogger creates an empty MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

// Log appends the event.
func (m *MemoryLogger) Log(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of the recorded events.
func (m *MemoryLogger) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Filter returns the recorded events matching f.
func (m *MemoryLogger) Filter(f Filter) []Event {
	var out []Event
	for _, e := range m.Events() {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Compile-time interface satisfaction check.
var _ Logger = (*MemoryLogger)(nil)
