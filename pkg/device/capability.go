package device

import (
	"fmt"
	"sort"
)

// FunctionCode identifies a peripheral capability.
type FunctionCode uint8

// Capability function codes.
const (
	CapUnused FunctionCode = iota
	CapContactStatusMonitoring
	CapOutputControl
	CapCardDataFormat
	CapReaderLEDControl
	CapReaderAudibleOutput
	CapReaderTextOutput
	CapTimeKeeping
	CapCheckCharacterSupport
	CapCommunicationSecurity
	CapReceiveBufferSize
	CapLargestCombinedMessageSize
	CapSmartCardSupport
	CapReaders
	CapBiometrics
	capSentinel
)

var functionCodeNames = [...]string{
	CapUnused:                     "unused",
	CapContactStatusMonitoring:    "contact-status-monitoring",
	CapOutputControl:              "output-control",
	CapCardDataFormat:             "card-data-format",
	CapReaderLEDControl:           "led-control",
	CapReaderAudibleOutput:        "audible-output",
	CapReaderTextOutput:           "text-output",
	CapTimeKeeping:                "time-keeping",
	CapCheckCharacterSupport:      "check-character",
	CapCommunicationSecurity:      "communication-security",
	CapReceiveBufferSize:          "receive-buffer-size",
	CapLargestCombinedMessageSize: "combined-message-size",
	CapSmartCardSupport:           "smart-card",
	CapReaders:                    "readers",
	CapBiometrics:                 "biometrics",
}

// Valid reports whether c is a known function code.
func (c FunctionCode) Valid() bool {
	return c < capSentinel
}

// String returns the capability name.
func (c FunctionCode) String() string {
	if c.Valid() {
		return functionCodeNames[c]
	}
	return fmt.Sprintf("capability(%d)", uint8(c))
}

// ParseFunctionCode parses a capability name as produced by String.
func ParseFunctionCode(s string) (FunctionCode, error) {
	for i, name := range functionCodeNames {
		if name == s {
			return FunctionCode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown capability %q", ErrConfig, s)
}

// Capability is one entry of a peripheral's capability report.
type Capability struct {
	FunctionCode    FunctionCode
	ComplianceLevel uint8
	NumItems        uint8
}

// Capabilities maps function codes to capability entries. A later entry for
// the same function code replaces the earlier one.
type Capabilities map[FunctionCode]Capability

// NewCapabilities builds a capability set from entries in order.
func NewCapabilities(entries ...Capability) Capabilities {
	caps := make(Capabilities, len(entries))
	for _, e := range entries {
		caps.Set(e)
	}
	return caps
}

// Set adds or replaces an entry.
func (c Capabilities) Set(e Capability) {
	c[e.FunctionCode] = e
}

// Get returns the entry for code.
func (c Capabilities) Get(code FunctionCode) (Capability, bool) {
	e, ok := c[code]
	return e, ok
}

// List returns all entries ordered by function code.
func (c Capabilities) List() []Capability {
	out := make([]Capability, 0, len(c))
	for _, e := range c {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FunctionCode < out[j].FunctionCode })
	return out
}
