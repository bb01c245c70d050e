package sim

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
)

// Defaults for Config.
const (
	DefaultOnlineAfter = 3
	DefaultChunkSize   = 128
	DefaultQueueDepth  = 16
)

// ErrAddressInUse is returned when two engines of the same role claim one address.
var ErrAddressInUse = errors.New("sim: address already attached")

// scbkDefault is the well-known key used while a device is in install mode.
var scbkDefault = []byte{
	0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37,
	0x38, 0x39, 0x3A, 0x3B, 0x3C, 0x3D, 0x3E, 0x3F,
}

// Config configures a Bus.
type Config struct {
	// OnlineAfter is the number of controller polls before a device is
	// reported online.
	OnlineAfter int

	// ChunkSize is the number of file bytes moved per controller poll.
	ChunkSize int

	// QueueDepth bounds pending commands per device and pending events per
	// peripheral.
	QueueDepth int

	// Virtual makes the bus answer for addresses that have no peripheral
	// engine attached. A virtual peripheral shares the controller's key,
	// acknowledges every command and reports the default identity.
	Virtual bool

	// Logger receives engine debug output. Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns the default bus configuration.
func DefaultConfig() Config {
	return Config{
		OnlineAfter: DefaultOnlineAfter,
		ChunkSize:   DefaultChunkSize,
		QueueDepth:  DefaultQueueDepth,
	}
}

// Bus links simulated controller and peripheral engines by address. It
// implements engine.Provider.
type Bus struct {
	mu     sync.Mutex
	cfg    Config
	logger *slog.Logger
	links  map[int]*link
}

// NewBus creates an empty bus.
func NewBus(cfg Config) *Bus {
	def := DefaultConfig()
	if cfg.OnlineAfter <= 0 {
		cfg.OnlineAfter = def.OnlineAfter
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = def.QueueDepth
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		cfg:    cfg,
		logger: logger,
		links:  make(map[int]*link),
	}
}

// link is the shared state of one address. Guarded by Bus.mu.
type link struct {
	address int

	cp      *controlPanel
	cpKey   []byte
	cpFlags device.Flags
	enabled bool

	pd       *peripheral
	pdKey    []byte
	pdFlags  device.Flags
	identity engine.PDID
	caps     device.Capabilities

	polls  int
	online bool
	sc     bool

	commands []engine.Command // waiting at the controller
	toPD     []engine.Command // sent, not yet handled by the peripheral
	toCP     []report         // reported, not yet delivered to the controller
	chunks   []chunk          // file data in flight to the peripheral
}

// report is an event travelling to the controller. Unsolicited reports are
// dropped when the controller sets FlagIgnoreUnsolicited.
type report struct {
	ev        engine.Event
	solicited bool
}

// chunk is one unit of file transfer traffic.
type chunk struct {
	open   bool
	cancel bool
	id     int
	size   int
	offset int
	data   []byte
}

func (b *Bus) linkLocked(address int) *link {
	l, ok := b.links[address]
	if !ok {
		l = &link{address: address}
		b.links[address] = l
	}
	return l
}

// present reports whether something answers at the address.
func (b *Bus) presentLocked(l *link) bool {
	return l.pd != nil || b.cfg.Virtual
}

// effective keys after install mode substitution.
func (l *link) keys(virtual bool) (cp, pd []byte) {
	cp = l.cpKey
	if cp == nil && l.cpFlags.Has(device.FlagInstallMode) {
		cp = scbkDefault
	}
	if l.pd == nil && virtual {
		return cp, cp
	}
	pd = l.pdKey
	if pd == nil && l.pdFlags.Has(device.FlagInstallMode) {
		pd = cp
	}
	return cp, pd
}

func (l *link) reset() {
	l.polls = 0
	l.online = false
	l.sc = false
	l.commands = nil
	l.toPD = nil
	l.chunks = nil
}

// LinkState is a snapshot of one address.
type LinkState struct {
	Address    int
	Controller bool
	Peripheral bool
	Enabled    bool
	Online     bool
	SCActive   bool
	CPKey      []byte
	PDKey      []byte
}

// Link returns the state of address.
func (b *Bus) Link(address int) (LinkState, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.links[address]
	if !ok {
		return LinkState{}, false
	}
	return LinkState{
		Address:    l.address,
		Controller: l.cp != nil,
		Peripheral: l.pd != nil,
		Enabled:    l.enabled,
		Online:     l.online,
		SCActive:   l.sc,
		CPKey:      bytes.Clone(l.cpKey),
		PDKey:      bytes.Clone(l.pdKey),
	}, true
}

// OpenControlPanel attaches a controller for descs.
func (b *Bus) OpenControlPanel(descs []device.Descriptor, level engine.LogLevel) (engine.ControlPanelEngine, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, d := range descs {
		if l, ok := b.links[d.Address]; ok && l.cp != nil {
			return nil, fmt.Errorf("%w: controller at %d", ErrAddressInUse, d.Address)
		}
	}

	cp := &controlPanel{
		bus:     b,
		level:   level,
		links:   make([]*link, len(descs)),
		fileOps: make([]engine.FileOps, len(descs)),
		tx:      make([]*transfer, len(descs)),
		pending: make([]int, len(descs)),
	}
	for i, d := range descs {
		l := b.linkLocked(d.Address)
		l.cp = cp
		l.cpKey = bytes.Clone(d.SCBK)
		l.cpFlags = d.Flags
		l.enabled = true
		l.reset()
		cp.links[i] = l
		cp.pending[i] = -1
	}
	b.logger.Debug("sim: control panel attached", "devices", len(descs))
	return cp, nil
}

// OpenPeripheral attaches a peripheral for desc.
func (b *Bus) OpenPeripheral(desc device.Descriptor, caps device.Capabilities, level engine.LogLevel) (engine.PeripheralEngine, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	l := b.linkLocked(desc.Address)
	if l.pd != nil {
		return nil, fmt.Errorf("%w: peripheral at %d", ErrAddressInUse, desc.Address)
	}

	pd := &peripheral{bus: b, link: l, level: level}
	l.pd = pd
	l.pdKey = bytes.Clone(desc.SCBK)
	l.pdFlags = desc.Flags
	l.identity = engine.PDIDFromIdentity(desc.Identity)
	l.caps = caps
	l.reset()
	b.logger.Debug("sim: peripheral attached", "address", desc.Address)
	return pd, nil
}

// virtualCapabilities are reported by virtual peripherals.
func virtualCapabilities() device.Capabilities {
	return device.NewCapabilities(
		device.Capability{FunctionCode: device.CapOutputControl, ComplianceLevel: 1, NumItems: 1},
		device.Capability{FunctionCode: device.CapReaderLEDControl, ComplianceLevel: 1, NumItems: 1},
		device.Capability{FunctionCode: device.CapReaderAudibleOutput, ComplianceLevel: 1, NumItems: 1},
		device.Capability{FunctionCode: device.CapReaderTextOutput, ComplianceLevel: 1, NumItems: 1},
		device.Capability{FunctionCode: device.CapCommunicationSecurity, ComplianceLevel: 1, NumItems: 1},
	)
}
