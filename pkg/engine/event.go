package engine

import "fmt"

// EventType identifies an event type.
type EventType uint8

// Event types.
const (
	EventCardRead EventType = iota + 1
	EventKeyPress
	EventManufacturerReply
	EventIO
	EventStatus
	EventNotification
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventCardRead:
		return "CARDREAD"
	case EventKeyPress:
		return "KEYPRESS"
	case EventManufacturerReply:
		return "MFGREP"
	case EventIO:
		return "IO"
	case EventStatus:
		return "STATUS"
	case EventNotification:
		return "NOTIFICATION"
	default:
		return fmt.Sprintf("EVENT(%d)", uint8(t))
	}
}

// Event is a report sent from a peripheral to the controller.
type Event interface {
	EventType() EventType
}

// CardFormat is the encoding of card data.
type CardFormat uint8

// Card formats.
const (
	CardFormatRawUnspecified CardFormat = iota
	CardFormatRawWiegand
	CardFormatASCII
)

// StatusReportType selects a status report.
type StatusReportType uint8

// Status report types.
const (
	StatusReportInput StatusReportType = iota
	StatusReportOutput
	StatusReportLocal
	StatusReportRemote
)

// NotificationType classifies engine notifications.
type NotificationType uint8

// Notification types.
const (
	NotifyCommandCompletion NotificationType = iota + 1
	NotifySCStatus
	NotifyPDStatus
)

// String returns the notification name.
func (n NotificationType) String() string {
	switch n {
	case NotifyCommandCompletion:
		return "command"
	case NotifySCStatus:
		return "sc_status"
	case NotifyPDStatus:
		return "pd_status"
	default:
		return fmt.Sprintf("notification(%d)", uint8(n))
	}
}

// CardReadEvent reports a presented credential. Length is in bits for raw
// formats and in bytes otherwise.
type CardReadEvent struct {
	Reader    int
	Format    CardFormat
	Direction int
	Length    int
	Data      []byte
}

// KeyPressEvent reports keypad input.
type KeyPressEvent struct {
	Reader int
	Data   []byte
}

// ManufacturerReplyEvent carries vendor specific reply data.
type ManufacturerReplyEvent struct {
	VendorCode uint32
	Data       []byte
}

// IOEvent reports the input or output pin state as a bitmask. Type 0 is
// inputs, 1 is outputs.
type IOEvent struct {
	Type   int
	Status uint32
}

// StatusEvent reports input, output or tamper/power state.
type StatusEvent struct {
	Type   StatusReportType
	Report []byte
}

// NotificationEvent is generated locally by the engine, never sent on the
// wire. Delivered only for devices with FlagEnableNotification.
type NotificationEvent struct {
	Type NotificationType
	Arg0 int
	Arg1 int
}

func (*CardReadEvent) EventType() EventType          { return EventCardRead }
func (*KeyPressEvent) EventType() EventType          { return EventKeyPress }
func (*ManufacturerReplyEvent) EventType() EventType { return EventManufacturerReply }
func (*IOEvent) EventType() EventType                { return EventIO }
func (*StatusEvent) EventType() EventType            { return EventStatus }
func (*NotificationEvent) EventType() EventType      { return EventNotification }
