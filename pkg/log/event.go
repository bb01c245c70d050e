package log

import (
	"time"
)

// NoAddress marks events that concern the whole session rather than one device.
const NoAddress = -1

// Event represents a trace event captured by a session.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates flow relative to the application.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// LocalRole indicates whether this session is a control panel or a peripheral.
	LocalRole Role `cbor:"5,keyasint"`

	// Address is the device bus address, or NoAddress.
	Address int `cbor:"6,keyasint"`

	// Device is the logical device name, if configured.
	Device string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Command     *CommandEvent     `cbor:"10,keyasint,omitempty"`
	Report      *ReportEvent      `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"`
}

// Direction indicates the direction of flow.
type Direction uint8

const (
	// DirectionIn indicates something the engine delivered to the application.
	DirectionIn Direction = 0
	// DirectionOut indicates something the application submitted to the engine.
	DirectionOut Direction = 1
	// DirectionLocal indicates a session-internal occurrence.
	DirectionLocal Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionLocal:
		return "LOCAL"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCommand indicates a command (controller to peripheral).
	CategoryCommand Category = 0
	// CategoryEvent indicates an event report (peripheral to controller).
	CategoryEvent Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCommand:
		return "COMMAND"
	case CategoryEvent:
		return "EVENT"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name as produced by Category.String.
func ParseCategory(s string) (Category, bool) {
	for c := CategoryCommand; c <= CategoryError; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Role indicates which side of the bus the session plays.
type Role uint8

const (
	// RoleControlPanel indicates a controller session.
	RoleControlPanel Role = 0
	// RolePeripheral indicates a peripheral session.
	RolePeripheral Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleControlPanel:
		return "CP"
	case RolePeripheral:
		return "PD"
	default:
		return "UNKNOWN"
	}
}

// CommandEvent captures a command submitted to or received from the engine.
type CommandEvent struct {
	// Name is the command name (LED, BUZZER, ...).
	Name string `cbor:"1,keyasint"`

	// Accepted reports whether the engine queued the command
	// (controller) or the handler acknowledged it (peripheral).
	Accepted bool `cbor:"2,keyasint"`

	// Payload is the command body (CBOR-compatible representation).
	Payload any `cbor:"3,keyasint,omitempty"`
}

// ReportEvent captures an event report submitted to or received from the engine.
type ReportEvent struct {
	// Name is the event type name (CARDREAD, KEYPRESS, ...).
	Name string `cbor:"1,keyasint"`

	// Status is the value returned to the engine (0 ack, negative nak).
	Status int `cbor:"2,keyasint"`

	// Payload is the event body (CBOR-compatible representation).
	Payload any `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures session and device lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntitySession indicates a session lifecycle change.
	StateEntitySession StateEntity = 0
	// StateEntityDevice indicates a device online/offline or enable/disable change.
	StateEntityDevice StateEntity = 1
	// StateEntitySecureChannel indicates a secure channel change.
	StateEntitySecureChannel StateEntity = 2
	// StateEntityFileTransfer indicates a file transfer change.
	StateEntityFileTransfer StateEntity = 3
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntitySession:
		return "SESSION"
	case StateEntityDevice:
		return "DEVICE"
	case StateEntitySecureChannel:
		return "SECURE_CHANNEL"
	case StateEntityFileTransfer:
		return "FILE_TRANSFER"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors raised while servicing the engine.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`

	// Panic is set when the error was recovered from a panic.
	Panic bool `cbor:"3,keyasint,omitempty"`
}
