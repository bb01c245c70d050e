package engine

import (
	"github.com/osdp-go/osdp-go/pkg/device"
)

// Reply status codes returned from engine callbacks.
const (
	// StatusAck accepts the event or command.
	StatusAck = 0

	// StatusNak marks the callback as handled but failed. The engine replies
	// with a negative acknowledgement and no body.
	StatusNak = -1
)

// EventHandler receives events reported by peripherals. It is invoked on the
// goroutine that called Poll, while the session lock is held.
type EventHandler interface {
	HandleEvent(address int, ev Event) int
}

// CommandHandler receives commands addressed to this peripheral. It is invoked
// on the goroutine that called Poll, while the session lock is held. A
// negative status NAKs the command; a non-nil reply is sent in place of the
// plain ACK.
type CommandHandler interface {
	HandleCommand(cmd Command) (status int, reply Event)
}

// FileTxStatus is a file transfer progress snapshot.
type FileTxStatus struct {
	Size   int
	Offset int
}

// Engine is the call surface shared by both roles. Implementations need not
// be safe for concurrent use; callers serialize every call.
type Engine interface {
	// Poll drives the protocol state machine once.
	Poll()

	// Status returns the online bitmask over all configured devices.
	Status() device.Mask

	// SCStatus returns the secure channel bitmask over all configured devices.
	SCStatus() device.Mask

	// RegisterFileOps installs file callbacks for the device at index.
	RegisterFileOps(index int, ops FileOps) bool

	// FileTxStatus reports transfer progress for the device at index. ok is
	// false when no transfer is active.
	FileTxStatus(index int) (status FileTxStatus, ok bool)

	// Close releases the engine context.
	Close()
}

// ControlPanelEngine is the controller-side engine.
type ControlPanelEngine interface {
	Engine

	SetEventHandler(h EventHandler)
	SubmitCommand(index int, cmd Command) bool
	PDID(index int) (PDID, bool)
	CheckCapability(index int, code device.FunctionCode) (device.Capability, bool)
	EnablePD(index int) bool
	DisablePD(index int) bool
	IsPDEnabled(index int) bool
	ModifyFlag(index int, flags device.Flags, set bool) bool
}

// PeripheralEngine is the peripheral-side engine. It manages exactly one
// device at index 0.
type PeripheralEngine interface {
	Engine

	SetCommandHandler(h CommandHandler)
	SubmitEvent(ev Event) bool
}

// Provider creates engine contexts for a session.
type Provider interface {
	OpenControlPanel(descs []device.Descriptor, level LogLevel) (ControlPanelEngine, error)
	OpenPeripheral(desc device.Descriptor, caps device.Capabilities, level LogLevel) (PeripheralEngine, error)
}

// PDID is the identification block a peripheral reports.
type PDID struct {
	Version         int
	Model           int
	VendorCode      uint32
	SerialNumber    uint32
	FirmwareVersion uint32
}

// PDIDFromIdentity converts a configured identity to a PDID.
func PDIDFromIdentity(id device.Identity) PDID {
	return PDID{
		Version:         id.Version,
		Model:           id.Model,
		VendorCode:      id.VendorCode,
		SerialNumber:    id.SerialNumber,
		FirmwareVersion: id.FirmwareVersion,
	}
}
