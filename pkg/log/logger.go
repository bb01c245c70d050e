package log

// Logger receives trace events from a session. Log is called on the poll
// goroutine with the session lock held and must not block.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards every event.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

// MultiLogger fans each event out to several loggers in order.
type MultiLogger []Logger

// NewMultiLogger builds a MultiLogger, skipping nil entries.
func NewMultiLogger(loggers ...Logger) MultiLogger {
	m := make(MultiLogger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			m = append(m, l)
		}
	}
	return m
}

func (m MultiLogger) Log(event Event) {
	for _, l := range m {
		l.Log(event)
	}
}

// Len returns the number of loggers.
func (m MultiLogger) Len() int { return len(m) }

var (
	_ Logger = NoopLogger{}
	_ Logger = MultiLogger(nil)
)
