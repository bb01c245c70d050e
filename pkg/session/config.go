package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/log"
)

// Default timing values.
const (
	DefaultPollInterval = 20 * time.Millisecond
	DefaultWaitInterval = 500 * time.Millisecond
	DefaultJoinTimeout  = 2 * time.Second
)

// EventHandler is an optional application callback for events reported by
// peripherals. It runs on the polling goroutine after the event has been
// queued, with the session lock held; it must not call back into the session.
// A returned error (or a panic) NAKs the event.
type EventHandler interface {
	HandleEvent(address int, ev engine.Event) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(address int, ev engine.Event) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(address int, ev engine.Event) error {
	return f(address, ev)
}

// CommandHandler is an optional application callback for commands received by
// a peripheral. It runs on the polling goroutine after the command has been
// queued, with the session lock held. A non-nil reply is sent instead of a
// plain ACK; a returned error (or a panic) NAKs the command.
type CommandHandler interface {
	HandleCommand(cmd engine.Command) (engine.Event, error)
}

// CommandHandlerFunc adapts a function to CommandHandler.
type CommandHandlerFunc func(cmd engine.Command) (engine.Event, error)

// HandleCommand calls f.
func (f CommandHandlerFunc) HandleCommand(cmd engine.Command) (engine.Event, error) {
	return f(cmd)
}

// Config configures a ControlPanel or Peripheral.
type Config struct {
	// LogLevel is passed to the engine.
	LogLevel engine.LogLevel

	// PollInterval is the sleep between poll iterations.
	PollInterval time.Duration

	// WaitInterval is the re-check period of the wait primitives.
	WaitInterval time.Duration

	// JoinTimeout bounds each wait for the polling goroutine in Stop.
	// Stop keeps waiting (and warns) until the goroutine exits.
	JoinTimeout time.Duration

	// SessionID correlates trace events. Generated when empty.
	SessionID string

	// Logger is used for operational logging. Nil discards.
	Logger *slog.Logger

	// Trace receives protocol trace events. Nil disables tracing.
	Trace log.Logger

	// Metrics collects session metrics. Nil disables collection.
	Metrics *Metrics

	// EventHandler is invoked for every event (controller only).
	EventHandler EventHandler

	// CommandHandler is invoked for every command (peripheral only).
	CommandHandler CommandHandler
}

// DefaultConfig returns a Config with default timing.
func DefaultConfig() Config {
	return Config{
		LogLevel:     engine.LogInfo,
		PollInterval: DefaultPollInterval,
		WaitInterval: DefaultWaitInterval,
		JoinTimeout:  DefaultJoinTimeout,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}
	if c.WaitInterval <= 0 {
		return fmt.Errorf("%w: wait interval must be positive", ErrInvalidConfig)
	}
	if c.JoinTimeout <= 0 {
		return fmt.Errorf("%w: join timeout must be positive", ErrInvalidConfig)
	}
	if !c.LogLevel.Valid() {
		return fmt.Errorf("%w: log level %d", ErrInvalidConfig, int(c.LogLevel))
	}
	return nil
}
