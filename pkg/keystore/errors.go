package keystore

import (
	"errors"
	"fmt"
)

// ErrKeyStore is wrapped by every error returned from this package.
var ErrKeyStore = errors.New("keystore")

// Key store errors.
var (
	ErrKeyNotFound = fmt.Errorf("%w: key not found", ErrKeyStore)
	ErrKeyExists   = fmt.Errorf("%w: key already exists", ErrKeyStore)
	ErrKeyLength   = fmt.Errorf("%w: invalid key length", ErrKeyStore)
	ErrKeyEncoding = fmt.Errorf("%w: invalid key encoding", ErrKeyStore)
	ErrInvalidName = fmt.Errorf("%w: invalid key name", ErrKeyStore)
)
