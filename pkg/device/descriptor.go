package device

import (
	"errors"
	"fmt"

	"github.com/osdp-go/osdp-go/pkg/channel"
)

// Address limits. 0x7F is the broadcast address and is never configured.
const (
	MinAddress = 0
	MaxAddress = 126
)

// SCBKLength is the length of a secure channel base key in bytes.
const SCBKLength = 16

// MaxDevices is the largest number of devices a single session manages.
// Status bitmasks are 64 bits wide.
const MaxDevices = 64

// Default peripheral identity, reported in reply to an ID request.
const (
	DefaultVersion         = 1
	DefaultModel           = 1
	DefaultVendorCode      = 0xCAFEBABE
	DefaultSerialNumber    = 0xDEADBEAF
	DefaultFirmwareVersion = 0x0000F00D
)

// ErrConfig is wrapped by every configuration error in this package.
var ErrConfig = errors.New("configuration error")

// Configuration errors.
var (
	ErrInvalidAddress   = fmt.Errorf("%w: invalid address", ErrConfig)
	ErrDuplicateAddress = fmt.Errorf("%w: duplicate address", ErrConfig)
	ErrUnknownAddress   = fmt.Errorf("%w: unknown address", ErrConfig)
	ErrTooManyDevices   = fmt.Errorf("%w: too many devices", ErrConfig)
	ErrNoDevices        = fmt.Errorf("%w: no devices", ErrConfig)
	ErrInvalidKey       = fmt.Errorf("%w: invalid secure channel key", ErrConfig)
)

// Identity is the peripheral identification block. Only meaningful when this
// process plays the peripheral role.
type Identity struct {
	Version         int
	Model           int
	VendorCode      uint32
	SerialNumber    uint32
	FirmwareVersion uint32
}

// DefaultIdentity returns the identity used when none is configured.
func DefaultIdentity() Identity {
	return Identity{
		Version:         DefaultVersion,
		Model:           DefaultModel,
		VendorCode:      DefaultVendorCode,
		SerialNumber:    DefaultSerialNumber,
		FirmwareVersion: DefaultFirmwareVersion,
	}
}

// Descriptor configures one device in a session.
type Descriptor struct {
	// Name is a logical name used in logs and key lookups.
	Name string

	// Address is the OSDP bus address (0-126).
	Address int

	// Channel is the byte-stream endpoint to the peer.
	Channel channel.Channel

	// SCBK is the secure channel base key. Nil puts the device in
	// install/plain mode.
	SCBK []byte

	// Flags modifies engine behavior for this device.
	Flags Flags

	// Identity is reported by a peripheral.
	Identity Identity
}

// NewDescriptor returns a descriptor with the default identity.
func NewDescriptor(name string, address int, ch channel.Channel, scbk []byte, flags ...Flag) Descriptor {
	return Descriptor{
		Name:     name,
		Address:  address,
		Channel:  ch,
		SCBK:     scbk,
		Flags:    NewFlags(flags...),
		Identity: DefaultIdentity(),
	}
}

// Secure reports whether a base key is configured.
func (d Descriptor) Secure() bool {
	return d.SCBK != nil
}

// Validate checks the descriptor for structural errors.
func (d Descriptor) Validate() error {
	if d.Address < MinAddress || d.Address > MaxAddress {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidAddress, d.Address, MinAddress, MaxAddress)
	}
	if d.SCBK != nil && len(d.SCBK) != SCBKLength {
		return fmt.Errorf("%w: address %d has %d-byte key (want %d)", ErrInvalidKey, d.Address, len(d.SCBK), SCBKLength)
	}
	if d.Flags.Has(FlagEnforceSecure) && d.SCBK == nil && !d.Flags.Has(FlagInstallMode) {
		return fmt.Errorf("%w: address %d enforces secure channel without a key", ErrInvalidKey, d.Address)
	}
	return nil
}

// String returns a short identifier for logs.
func (d Descriptor) String() string {
	if d.Name == "" {
		return fmt.Sprintf("pd-%d", d.Address)
	}
	return fmt.Sprintf("%s(%d)", d.Name, d.Address)
}
