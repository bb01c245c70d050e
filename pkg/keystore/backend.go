package keystore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Backend persists encoded key material by name.
// Implementations must be safe for concurrent access.
type Backend interface {
	// Write stores data under name, replacing any previous value.
	Write(name string, data []byte) error

	// Read returns the data stored under name.
	// Returns ErrKeyNotFound if nothing is stored.
	Read(name string) ([]byte, error)

	// Remove deletes the data stored under name. Removing a missing entry
	// is not an error.
	Remove(name string) error

	// List returns the stored names in lexical order.
	List() ([]string, error)

	// Close releases the backend.
	Close() error
}

const (
	keyFilePrefix = "key_"
	keyFileSuffix = ".bin"
	lockFileName  = ".keystore.lock"
	lockTimeout   = 5 * time.Second
	lockRetry     = 100 * time.Millisecond
)

// DirBackend stores one file per key in a directory. Every read and write
// holds a lock file so that two processes sharing the directory never see a
// partially written key.
type DirBackend struct {
	dir   string
	owned bool
	lock  *flock.Flock
}

// NewDirBackend returns a backend rooted at dir, creating it if needed. The
// directory is left in place on Close.
func NewDirBackend(dir string) (*DirBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create key dir: %w", err)
	}
	return &DirBackend{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, lockFileName)),
	}, nil
}

// NewTempDirBackend returns a backend in a fresh temporary directory that
// Close removes.
func NewTempDirBackend() (*DirBackend, error) {
	dir, err := os.MkdirTemp("", "osdp-keys-")
	if err != nil {
		return nil, fmt.Errorf("create temp key dir: %w", err)
	}
	b, err := NewDirBackend(dir)
	if err != nil {
		return nil, err
	}
	b.owned = true
	return b, nil
}

// Dir returns the backing directory.
func (b *DirBackend) Dir() string {
	return b.dir
}

// Path returns the file that holds key name.
func (b *DirBackend) Path(name string) string {
	return filepath.Join(b.dir, keyFilePrefix+name+keyFileSuffix)
}

// Write stores data under name.
func (b *DirBackend) Write(name string, data []byte) error {
	unlock, err := b.acquire(false)
	if err != nil {
		return err
	}
	defer unlock()

	// Write to a sibling file first so readers never observe a torn key.
	tmp := b.Path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write key %s: %w", name, err)
	}
	if err := os.Rename(tmp, b.Path(name)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write key %s: %w", name, err)
	}
	return nil
}

// Read returns the data stored under name.
func (b *DirBackend) Read(name string) ([]byte, error) {
	unlock, err := b.acquire(true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(b.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read key %s: %w", name, err)
	}
	return data, nil
}

// Remove deletes the file for name.
func (b *DirBackend) Remove(name string) error {
	unlock, err := b.acquire(false)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(b.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove key %s: %w", name, err)
	}
	return nil
}

// List returns the names of all key files in the directory.
func (b *DirBackend) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, keyFilePrefix) || !strings.HasSuffix(n, keyFileSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(n, keyFilePrefix), keyFileSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// Close removes the directory if the backend created it.
func (b *DirBackend) Close() error {
	if !b.owned {
		return nil
	}
	if err := os.RemoveAll(b.dir); err != nil {
		return fmt.Errorf("remove key dir: %w", err)
	}
	return nil
}

func (b *DirBackend) acquire(shared bool) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if shared {
		locked, err = b.lock.TryRLockContext(ctx, lockRetry)
	} else {
		locked, err = b.lock.TryLockContext(ctx, lockRetry)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire key dir lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire key dir lock: timeout after %v", lockTimeout)
	}
	return func() { _ = b.lock.Unlock() }, nil
}

// MemoryBackend keeps encoded keys in memory.
// This is primarily useful for testing.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Write stores a copy of data under name.
func (b *MemoryBackend) Write(name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[name] = append([]byte(nil), data...)
	return nil
}

// Read returns a copy of the data stored under name.
func (b *MemoryBackend) Read(name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d, ok := b.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	return append([]byte(nil), d...), nil
}

// Remove deletes name.
func (b *MemoryBackend) Remove(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, name)
	return nil
}

// List returns the stored names.
func (b *MemoryBackend) List() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.data))
	for n := range b.data {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op.
func (b *MemoryBackend) Close() error {
	return nil
}

var (
	_ Backend = (*DirBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
)
