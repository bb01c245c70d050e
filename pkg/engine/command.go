package engine

import "fmt"

// CommandID identifies a command type.
type CommandID uint8

// Command identifiers.
const (
	CmdOutput CommandID = iota + 1
	CmdLED
	CmdBuzzer
	CmdText
	CmdKeyset
	CmdComset
	CmdManufacturer
	CmdFileTransfer
	CmdStatus
)

// String returns the command name.
func (c CommandID) String() string {
	switch c {
	case CmdOutput:
		return "OUTPUT"
	case CmdLED:
		return "LED"
	case CmdBuzzer:
		return "BUZZER"
	case CmdText:
		return "TEXT"
	case CmdKeyset:
		return "KEYSET"
	case CmdComset:
		return "COMSET"
	case CmdManufacturer:
		return "MFG"
	case CmdFileTransfer:
		return "FILE_TX"
	case CmdStatus:
		return "STATUS"
	default:
		return fmt.Sprintf("CMD(%d)", uint8(c))
	}
}

// Command is a request sent from the controller to a peripheral.
type Command interface {
	CommandID() CommandID
}

// LEDColor is a reader LED colour.
type LEDColor uint8

// LED colours.
const (
	LEDColorNone LEDColor = iota
	LEDColorRed
	LEDColorGreen
	LEDColorAmber
	LEDColorBlue
	LEDColorMagenta
	LEDColorCyan
	LEDColorWhite
)

// FileTxFlagCancel aborts an in-progress file transfer.
const FileTxFlagCancel uint32 = 1 << 31

// KeysetTypeSCBK is the only key type defined for the keyset command.
const KeysetTypeSCBK = 1

// OutputCommand drives an output (relay) on the peripheral.
type OutputCommand struct {
	OutputNo    int
	ControlCode int
	TimerCount  int
}

// LEDParams is one LED program (temporary or permanent).
type LEDParams struct {
	ControlCode int
	OnCount     int
	OffCount    int
	OnColor     LEDColor
	OffColor    LEDColor
	TimerCount  int
}

// LEDCommand programs a reader LED.
type LEDCommand struct {
	Reader    int
	LEDNumber int
	Temporary *LEDParams
	Permanent *LEDParams
}

// BuzzerCommand drives the reader buzzer.
type BuzzerCommand struct {
	Reader      int
	ControlCode int
	OnCount     int
	OffCount    int
	RepCount    int
}

// TextCommand writes text to a reader display.
type TextCommand struct {
	Reader      int
	ControlCode int
	TempTime    int
	OffsetRow   int
	OffsetCol   int
	Data        string
}

// KeysetCommand installs a new secure channel base key on the peripheral.
type KeysetCommand struct {
	Type int
	Data []byte
}

// ComsetCommand changes the peripheral address and baud rate.
type ComsetCommand struct {
	Address  int
	BaudRate int
}

// ManufacturerCommand carries vendor specific data.
type ManufacturerCommand struct {
	VendorCode uint32
	Data       []byte
}

// FileTransferCommand starts (or, with FileTxFlagCancel, aborts) a file
// transfer identified by ID.
type FileTransferCommand struct {
	ID    int
	Flags uint32
}

// StatusCommand queries a status report.
type StatusCommand struct {
	Type   StatusReportType
	Report []byte
}

// Cancel reports whether this command aborts a transfer.
func (c *FileTransferCommand) Cancel() bool {
	return c.Flags&FileTxFlagCancel != 0
}

func (*OutputCommand) CommandID() CommandID       { return CmdOutput }
func (*LEDCommand) CommandID() CommandID          { return CmdLED }
func (*BuzzerCommand) CommandID() CommandID       { return CmdBuzzer }
func (*TextCommand) CommandID() CommandID         { return CmdText }
func (*KeysetCommand) CommandID() CommandID       { return CmdKeyset }
func (*ComsetCommand) CommandID() CommandID       { return CmdComset }
func (*ManufacturerCommand) CommandID() CommandID { return CmdManufacturer }
func (*FileTransferCommand) CommandID() CommandID { return CmdFileTransfer }
func (*StatusCommand) CommandID() CommandID       { return CmdStatus }
