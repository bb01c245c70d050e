package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/log"
)

const rolePeripheral = "pd"

// Peripheral is a peripheral session. It manages exactly one device.
// All methods are safe for concurrent use.
type Peripheral struct {
	*driver

	eng      engine.PeripheralEngine
	desc     device.Descriptor
	commands *commandDispatcher
}

// NewPeripheral opens a peripheral engine for desc through p.
func NewPeripheral(p engine.Provider, desc device.Descriptor, caps device.Capabilities, cfg Config) (*Peripheral, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	index, err := device.NewAddressIndex([]device.Descriptor{desc})
	if err != nil {
		return nil, err
	}

	eng, err := p.OpenPeripheral(desc, caps, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open peripheral engine: %w", err)
	}

	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	d := newDriver(rolePeripheral, cfg, index, eng, newTracer(cfg.SessionID, log.RolePeripheral, cfg.Trace, []device.Descriptor{desc}))

	pd := &Peripheral{
		driver: d,
		eng:    eng,
		desc:   desc,
		commands: &commandDispatcher{
			dispatcher: newDispatcher[engine.Command](d, 1),
			address:    desc.Address,
			handler:    cfg.CommandHandler,
		},
	}
	d.release = pd.commands.close
	eng.SetCommandHandler(pd.commands)

	d.logger.Info("peripheral created", "address", desc.Address)
	return pd, nil
}

// Address returns the bus address of this peripheral.
func (p *Peripheral) Address() int {
	return p.desc.Address
}

// GetCommand dequeues the oldest received command. timeout < 0 waits
// indefinitely, 0 returns immediately and > 0 waits at most that long. Nil
// means the wait timed out.
func (p *Peripheral) GetCommand(timeout time.Duration) engine.Command {
	cmd, _ := p.commands.pop(0, timeout)
	return cmd
}

// SubmitEvent queues ev for delivery to the controller on its next poll.
func (p *Peripheral) SubmitEvent(ev engine.Event) (bool, error) {
	if ev == nil {
		return false, ErrNilArgument
	}
	ok, err := withEngine(p.driver, func() bool {
		return p.eng.SubmitEvent(ev)
	})
	if err != nil {
		return false, err
	}
	p.metrics.submitted(p.role, ok)
	p.trace.report(log.DirectionOut, p.desc.Address, ev.EventType().String(), boolStatus(ok), ev)
	return ok, nil
}

// IsOnline reports whether the controller is polling this peripheral.
func (p *Peripheral) IsOnline() (bool, error) {
	return p.isOnline(p.desc.Address)
}

// IsSCActive reports whether the secure channel is active.
func (p *Peripheral) IsSCActive() (bool, error) {
	return p.isSCActive(p.desc.Address)
}

// OnlineWait waits until the peripheral is online.
func (p *Peripheral) OnlineWait(ctx context.Context, timeout time.Duration) bool {
	ok, _ := p.waitBit(ctx, p.desc.Address, timeout, p.status)
	return ok
}

// SCWait waits until the secure channel is active.
func (p *Peripheral) SCWait(ctx context.Context, timeout time.Duration) bool {
	ok, _ := p.waitBit(ctx, p.desc.Address, timeout, p.scStatus)
	return ok
}

// RegisterFileOps installs file callbacks used to store incoming files.
func (p *Peripheral) RegisterFileOps(ops engine.FileOps) (bool, error) {
	return p.registerFileOps(0, ops)
}

// FileTxStatus returns the transfer progress, or nil when no transfer is active.
func (p *Peripheral) FileTxStatus() (*engine.FileTxStatus, error) {
	return p.fileTxStatus(0)
}

// FileTransferState classifies the current transfer.
func (p *Peripheral) FileTransferState() (TransferState, error) {
	st, err := p.fileTxStatus(0)
	if err != nil {
		return TransferNone, err
	}
	return ClassifyTransfer(st), nil
}

func boolStatus(ok bool) int {
	if ok {
		return engine.StatusAck
	}
	return engine.StatusNak
}
