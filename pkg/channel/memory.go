package channel

import "sync"

// DefaultMemoryCapacity is the per-direction buffer size of a memory pair.
const DefaultMemoryCapacity = 1024

// ring is a bounded byte buffer shared by the two ends of a memory pair.
type ring struct {
	mu   sync.Mutex
	buf  []byte
	cap  int
	done bool
}

func (r *ring) write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return 0, ErrClosed
	}
	n := min(len(p), r.cap-len(r.buf))
	r.buf = append(r.buf, p[:n]...)
	return n, nil
}

func (r *ring) read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buf) == 0 && r.done {
		return 0, ErrClosed
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *ring) reset() {
	r.mu.Lock()
	r.buf = r.buf[:0]
	r.mu.Unlock()
}

func (r *ring) close() {
	r.mu.Lock()
	r.done = true
	r.mu.Unlock()
}

// Memory is one end of an in-memory linked channel pair.
type Memory struct {
	id   int
	tx   *ring
	rx   *ring
	once sync.Once
}

// NewMemoryPair returns two linked channels: bytes written to one are read
// from the other. Each direction buffers up to DefaultMemoryCapacity bytes;
// writes beyond that are short.
func NewMemoryPair() (*Memory, *Memory) {
	return NewMemoryPairSize(DefaultMemoryCapacity)
}

// NewMemoryPairSize is NewMemoryPair with an explicit per-direction capacity.
func NewMemoryPairSize(capacity int) (*Memory, *Memory) {
	ab := &ring{cap: capacity}
	ba := &ring{cap: capacity}
	return &Memory{id: newID(), tx: ab, rx: ba}, &Memory{id: newID(), tx: ba, rx: ab}
}

// ID returns the channel identifier.
func (m *Memory) ID() int { return m.id }

// Read drains pending bytes written by the peer.
func (m *Memory) Read(p []byte) (int, error) { return m.rx.read(p) }

// Write queues bytes for the peer.
func (m *Memory) Write(p []byte) (int, error) { return m.tx.write(p) }

// Flush discards unread input.
func (m *Memory) Flush() error {
	m.rx.reset()
	return nil
}

// Close closes both directions. The peer drains what is already buffered and
// then sees ErrClosed.
func (m *Memory) Close() error {
	m.once.Do(func() {
		m.tx.close()
		m.rx.close()
	})
	return nil
}

// Compile-time interface satisfaction check.
var _ Channel = (*Memory)(nil)
