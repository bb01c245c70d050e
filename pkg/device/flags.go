package device

import (
	"fmt"
	"strings"
)

// Flag is a single per-device behavior bit.
type Flag uint32

const (
	// FlagEnforceSecure refuses to talk to the device without a secure channel.
	FlagEnforceSecure Flag = 1 << 16

	// FlagInstallMode allows the device to accept a new SCBK over an
	// unauthenticated channel.
	FlagInstallMode Flag = 1 << 17

	// FlagIgnoreUnsolicited drops replies that were not solicited.
	FlagIgnoreUnsolicited Flag = 1 << 18

	// FlagEnableNotification delivers engine notifications (online/offline,
	// secure channel changes, command completion) as events.
	FlagEnableNotification Flag = 1 << 19

	// FlagCapturePackets records raw packets for offline analysis.
	FlagCapturePackets Flag = 1 << 20

	// FlagAllowEmptyEncryptedDataBlock tolerates zero-length encrypted blocks.
	FlagAllowEmptyEncryptedDataBlock Flag = 1 << 21
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{FlagEnforceSecure, "enforce-secure"},
	{FlagInstallMode, "install-mode"},
	{FlagIgnoreUnsolicited, "ignore-unsolicited"},
	{FlagEnableNotification, "enable-notification"},
	{FlagCapturePackets, "capture-packets"},
	{FlagAllowEmptyEncryptedDataBlock, "allow-empty-encrypted-block"},
}

// String returns the flag name.
func (f Flag) String() string {
	for _, fn := range flagNames {
		if fn.flag == f {
			return fn.name
		}
	}
	return fmt.Sprintf("flag(0x%x)", uint32(f))
}

// ParseFlag parses a flag name as produced by Flag.String.
func ParseFlag(s string) (Flag, error) {
	for _, fn := range flagNames {
		if strings.EqualFold(fn.name, s) {
			return fn.flag, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown flag %q", ErrConfig, s)
}

// Flags is a set of Flag bits.
type Flags uint32

// NewFlags combines flags into a set.
func NewFlags(flags ...Flag) Flags {
	var f Flags
	for _, fl := range flags {
		f |= Flags(fl)
	}
	return f
}

// Has reports whether flag is set.
func (f Flags) Has(flag Flag) bool {
	return f&Flags(flag) != 0
}

// With returns f with flag set.
func (f Flags) With(flag Flag) Flags {
	return f | Flags(flag)
}

// Without returns f with flag cleared.
func (f Flags) Without(flag Flag) Flags {
	return f &^ Flags(flag)
}

// List returns the individual flags set in f.
func (f Flags) List() []Flag {
	var out []Flag
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			out = append(out, fn.flag)
		}
	}
	return out
}

// String returns the set as a comma separated list of names.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	names := make([]string, 0, len(flagNames))
	for _, fl := range f.List() {
		names = append(names, fl.String())
	}
	return strings.Join(names, ",")
}
