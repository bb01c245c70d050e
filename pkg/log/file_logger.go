package log

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends trace events to a CBOR trace file. A new file starts
// with a header record; an existing file must already be a trace file.
// FileLogger is safe for concurrent use.
type FileLogger struct {
	mu      sync.Mutex
	f       *os.File
	enc     *cbor.Encoder
	closed  bool
	written int
	dropped int
}

// NewFileLogger opens path for appending, creating it (mode 0o644) if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat trace file: %w", err)
	}

	enc := encMode.NewEncoder(f)
	if info.Size() == 0 {
		err = writeHeader(enc, time.Now())
	} else {
		_, err = readHeader(decMode.NewDecoder(f))
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("trace file %s: %w", path, err)
	}
	return &FileLogger{f: f, enc: enc}, nil
}

// Log appends event. Events logged after Close are discarded.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if err := l.enc.Encode(event); err != nil {
		l.dropped++
		return
	}
	l.written++
}

// Written returns the number of events appended by this logger.
func (l *FileLogger) Written() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written
}

// Dropped returns the number of events that could not be encoded.
func (l *FileLogger) Dropped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Close closes the file. Repeated calls return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.f.Close()
}

var _ Logger = (*FileLogger)(nil)
