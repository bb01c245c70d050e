// Package channel defines the byte-stream endpoint an OSDP engine reads
// frames from and writes frames to.
//
// The engine owns framing and retries; a Channel only moves bytes. Three
// implementations are provided: an in-memory linked pair for tests and
// simulations, a unix domain socket channel, and an adapter for any
// io.ReadWriter (serial ports, pipes).
package channel

import (
	"errors"
	"io"
	"sync/atomic"
)

// Channel errors.
var (
	ErrClosed = errors.New("channel closed")
)

// Channel is a non-blocking byte stream shared between the two protocol
// endpoints.
//
// Read returns at most len(p) bytes and returns 0, nil when nothing is
// pending. Write sends as much of p as possible and reports how many bytes
// were accepted. Flush discards any buffered input, if the stream supports it.
type Channel interface {
	ID() int
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Flush() error
	Close() error
}

var nextID atomic.Int32

// newID returns a process-unique channel identifier.
func newID() int {
	return int(nextID.Add(1))
}

// ReadWriter adapts an io.ReadWriter to the Channel interface.
// Flush is a no-op unless the wrapped value implements interface{ Flush() error }.
type ReadWriter struct {
	id     int
	rw     io.ReadWriter
	closed atomic.Bool
}

// NewReadWriter wraps rw as a Channel.
func NewReadWriter(rw io.ReadWriter) *ReadWriter {
	return &ReadWriter{id: newID(), rw: rw}
}

// ID returns the channel identifier.
func (c *ReadWriter) ID() int { return c.id }

// Read reads from the wrapped stream.
func (c *ReadWriter) Read(p []byte) (int, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	n, err := c.rw.Read(p)
	if errors.Is(err, io.EOF) && n == 0 {
		return 0, nil
	}
	return n, err
}

// Write writes to the wrapped stream.
func (c *ReadWriter) Write(p []byte) (int, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	return c.rw.Write(p)
}

// Flush flushes the wrapped stream when supported.
func (c *ReadWriter) Flush() error {
	if f, ok := c.rw.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close closes the wrapped stream when it is an io.Closer.
func (c *ReadWriter) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if cl, ok := c.rw.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Channel = (*ReadWriter)(nil)
