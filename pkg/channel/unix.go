package channel

import (
	"context"
	"errors"
	"net"
	"os"
	"time"
)

// readPoll bounds how long a Read waits for bytes before reporting none.
const readPoll = time.Millisecond

// Conn is a Channel backed by a stream-oriented net.Conn, typically a unix
// domain socket.
type Conn struct {
	id   int
	conn net.Conn
}

// NewConn wraps an established connection.
func NewConn(conn net.Conn) *Conn {
	return &Conn{id: newID(), conn: conn}
}

// DialUnix connects to a unix socket at path.
func DialUnix(ctx context.Context, path string) (*Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	return NewConn(conn), nil
}

// ListenUnix listens on path, accepts exactly one peer and closes the
// listener. A stale socket file at path is removed first.
func ListenUnix(ctx context.Context, path string) (*Conn, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	defer ln.Close()

	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := ln.Accept()
		ch <- result{conn, err}
	}()

	select {
	case <-ctx.Done():
		_ = ln.Close()
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		return NewConn(r.conn), nil
	}
}

// ID returns the channel identifier.
func (c *Conn) ID() int { return c.id }

// Read returns pending bytes, or 0, nil when none arrive within a short poll
// window.
func (c *Conn) Read(p []byte) (int, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(readPoll)); err != nil {
		return 0, err
	}
	n, err := c.conn.Read(p)
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return n, nil
	}
	return n, err
}

// Write sends p on the connection.
func (c *Conn) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

// Flush drains and discards any input already received.
func (c *Conn) Flush() error {
	buf := make([]byte, 256)
	for {
		n, err := c.Read(buf)
		if err != nil || n == 0 {
			return err
		}
	}
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Compile-time interface satisfaction check.
var _ Channel = (*Conn)(nil)
