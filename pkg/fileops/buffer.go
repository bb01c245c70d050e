package fileops

import (
	"fmt"
	"sync"

	"github.com/osdp-go/osdp-go/pkg/engine"
)

// Buffer is an in-memory FileOps. As a source it serves Files by ID; as a
// sink it collects written data into Files.
type Buffer struct {
	mu     sync.Mutex
	files  map[int][]byte
	open   int
	active bool
	closed []int
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{files: make(map[int][]byte)}
}

// Put stores data as file id.
func (b *Buffer) Put(id int, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[id] = append([]byte(nil), data...)
}

// File returns a copy of file id.
func (b *Buffer) File(id int) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.files[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Closed returns the IDs passed to Close, in order.
func (b *Buffer) Closed() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.closed...)
}

// Open selects file id. A positive size starts a new file of that size
// (sink); zero opens an existing file and returns its size (source).
func (b *Buffer) Open(id int, size int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if size > 0 {
		b.files[id] = make([]byte, size)
	} else if _, ok := b.files[id]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrNoFile, id)
	}
	b.open, b.active = id, true
	return len(b.files[id]), nil
}

func (b *Buffer) Read(size int, offset int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return nil, ErrNotOpen
	}
	data := b.files[b.open]
	if offset >= len(data) {
		return nil, nil
	}
	end := min(offset+size, len(data))
	return append([]byte(nil), data[offset:end]...), nil
}

func (b *Buffer) Write(data []byte, offset int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return 0, ErrNotOpen
	}
	buf := b.files[b.open]
	if offset+len(data) > len(buf) {
		grown := make([]byte, offset+len(data))
		copy(grown, buf)
		buf = grown
	}
	copy(buf[offset:], data)
	b.files[b.open] = buf
	return len(data), nil
}

func (b *Buffer) Close(id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = append(b.closed, id)
	if b.active && b.open == id {
		b.active = false
	}
	return nil
}

var _ engine.FileOps = (*Buffer)(nil)
