package keystore

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/hkdf"
)

// DefaultKeyLength is the secure channel base key length.
const DefaultKeyLength = 16

// Store holds named secure channel keys. The in-memory map is authoritative;
// a key reaches the backend only through CommitKey.
type Store struct {
	mu        sync.RWMutex
	keys      map[string][]byte
	keyLength int
	backend   Backend
}

// New creates a store over backend. keyLength <= 0 selects DefaultKeyLength.
func New(backend Backend, keyLength int) *Store {
	if keyLength <= 0 {
		keyLength = DefaultKeyLength
	}
	return &Store{
		keys:      make(map[string][]byte),
		keyLength: keyLength,
		backend:   backend,
	}
}

// Open creates a store that persists to dir. The directory is never removed.
func Open(dir string) (*Store, error) {
	b, err := NewDirBackend(dir)
	if err != nil {
		return nil, err
	}
	return New(b, DefaultKeyLength), nil
}

// NewTemp creates a store backed by a fresh temporary directory that Close
// removes.
func NewTemp() (*Store, error) {
	b, err := NewTempDirBackend()
	if err != nil {
		return nil, err
	}
	return New(b, DefaultKeyLength), nil
}

// KeyLength returns the configured key length.
func (s *Store) KeyLength() int {
	return s.keyLength
}

// Backend returns the persistence backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// GenKey returns length bytes from the system random source.
// length <= 0 selects DefaultKeyLength.
func GenKey(length int) ([]byte, error) {
	if length <= 0 {
		length = DefaultKeyLength
	}
	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// DeriveKey derives a key of the given length from master using HKDF-SHA256,
// with info binding it to one device (typically its name or address).
func DeriveKey(master []byte, info string, length int) ([]byte, error) {
	if len(master) == 0 {
		return nil, fmt.Errorf("%w: empty master key", ErrKeyLength)
	}
	if length <= 0 {
		length = DefaultKeyLength
	}
	key := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// NewKey generates and stores a key under name. Unless force is set, an
// existing key is kept and ErrKeyExists returned.
func (s *Store) NewKey(name string, length int, force bool) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if length <= 0 {
		length = s.keyLength
	}
	if length != s.keyLength {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrKeyLength, length, s.keyLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[name]; exists && !force {
		return nil, fmt.Errorf("%w: %s", ErrKeyExists, name)
	}
	key, err := GenKey(length)
	if err != nil {
		return nil, err
	}
	s.keys[name] = key
	return clone(key), nil
}

// GetKey returns a copy of the key stored under name.
func (s *Store) GetKey(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	return clone(key), nil
}

// UpdateKey replaces the key stored under name. The name must already exist.
func (s *Store) UpdateKey(name string, key []byte) error {
	if len(key) != s.keyLength {
		return fmt.Errorf("%w: %d (want %d)", ErrKeyLength, len(key), s.keyLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[name]; !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	s.keys[name] = clone(key)
	return nil
}

// SetKey stores key under name, adding or replacing it.
func (s *Store) SetKey(name string, key []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if len(key) != s.keyLength {
		return fmt.Errorf("%w: %d (want %d)", ErrKeyLength, len(key), s.keyLength)
	}

	s.mu.Lock()
	s.keys[name] = clone(key)
	s.mu.Unlock()
	return nil
}

// CommitKey persists the key stored under name as lowercase hex.
func (s *Store) CommitKey(name string) error {
	s.mu.RLock()
	key, ok := s.keys[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	return s.backend.Write(name, []byte(hex.EncodeToString(key)))
}

// LoadKey reads the persisted key for name into the store and returns it.
// length <= 0 selects the configured key length.
func (s *Store) LoadKey(name string, length int) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if length <= 0 {
		length = s.keyLength
	}

	data, err := s.backend.Read(name)
	if err != nil {
		return nil, err
	}
	// Surrounding whitespace is ignored.
	key, err := hex.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrKeyEncoding, name, err)
	}
	if len(key) == 0 || len(key) != length || length != s.keyLength {
		return nil, fmt.Errorf("%w: %s has %d bytes (want %d)", ErrKeyLength, name, len(key), length)
	}

	s.mu.Lock()
	s.keys[name] = key
	s.mu.Unlock()
	return clone(key), nil
}

// Names returns the names of all keys held in memory.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.keys))
	for n := range s.keys {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close releases the backend. A temporary key directory is removed.
func (s *Store) Close() error {
	return s.backend.Close()
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
