package session

import (
	"errors"
	"fmt"

	"github.com/osdp-go/osdp-go/pkg/device"
)

// Lifecycle errors.
var (
	ErrAlreadyRunning = errors.New("session already running")
	ErrNotRunning     = errors.New("session not running")
	ErrClosed         = errors.New("session closed")
)

// ErrNilArgument is returned when a nil command or event is submitted.
var ErrNilArgument = errors.New("nil argument")

// ErrInvalidConfig reports an invalid Config. It wraps device.ErrConfig so
// that every configuration problem matches a single sentinel.
var ErrInvalidConfig = fmt.Errorf("%w: invalid session config", device.ErrConfig)
