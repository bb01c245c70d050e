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

const roleControlPanel = "cp"

// ControlPanel is a controller session managing one or more peripherals.
// All methods are safe for concurrent use.
type ControlPanel struct {
	*driver

	eng    engine.ControlPanelEngine
	descs  []device.Descriptor
	events *eventDispatcher
}

// NewControlPanel opens a controller engine for descs through p. The order of
// descs fixes the bit layout of every status mask.
func NewControlPanel(p engine.Provider, descs []device.Descriptor, cfg Config) (*ControlPanel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	index, err := device.NewAddressIndex(descs)
	if err != nil {
		return nil, err
	}

	eng, err := p.OpenControlPanel(descs, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open control panel engine: %w", err)
	}

	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	d := newDriver(roleControlPanel, cfg, index, eng, newTracer(cfg.SessionID, log.RoleControlPanel, cfg.Trace, descs))

	cp := &ControlPanel{
		driver: d,
		eng:    eng,
		descs:  append([]device.Descriptor(nil), descs...),
		events: &eventDispatcher{
			dispatcher: newDispatcher[engine.Event](d, index.Len()),
			index:      index,
			handler:    cfg.EventHandler,
		},
	}
	d.release = cp.events.close
	eng.SetEventHandler(cp.events)

	d.logger.Info("control panel created", "devices", index.Len())
	return cp, nil
}

// Addresses returns the configured addresses in index order.
func (c *ControlPanel) Addresses() []int {
	return c.index.Addresses()
}

// Descriptors returns a copy of the configured descriptors.
func (c *ControlPanel) Descriptors() []device.Descriptor {
	return append([]device.Descriptor(nil), c.descs...)
}

// SubmitCommand queues cmd for the device at address. false means the engine
// rejected it (for example, the device is disabled or its queue is full).
func (c *ControlPanel) SubmitCommand(address int, cmd engine.Command) (bool, error) {
	if cmd == nil {
		return false, ErrNilArgument
	}
	i, err := c.index.Index(address)
	if err != nil {
		return false, err
	}
	ok, err := withEngine(c.driver, func() bool {
		return c.eng.SubmitCommand(i, cmd)
	})
	if err != nil {
		return false, err
	}

	c.metrics.submitted(c.role, ok)
	c.trace.command(log.DirectionOut, address, cmd.CommandID().String(), ok, cmd)
	if !ok {
		c.logger.Debug("command rejected", "address", address, "command", cmd.CommandID())
	}
	return ok, nil
}

// GetEvent dequeues the oldest event reported by the device at address.
// timeout < 0 waits indefinitely, 0 returns immediately and > 0 waits at most
// that long. A nil event means the wait timed out.
func (c *ControlPanel) GetEvent(address int, timeout time.Duration) (engine.Event, error) {
	i, err := c.index.Index(address)
	if err != nil {
		return nil, err
	}
	ev, _ := c.events.pop(i, timeout)
	return ev, nil
}

// PendingEvents returns the number of queued events for address.
func (c *ControlPanel) PendingEvents(address int) (int, error) {
	i, err := c.index.Index(address)
	if err != nil {
		return 0, err
	}
	return c.events.queues[i].size(), nil
}

// Status returns the online bitmask.
func (c *ControlPanel) Status() (device.Mask, error) {
	return c.status()
}

// SCStatus returns the secure channel bitmask.
func (c *ControlPanel) SCStatus() (device.Mask, error) {
	return c.scStatus()
}

// IsOnline reports whether the device at address is online.
func (c *ControlPanel) IsOnline(address int) (bool, error) {
	return c.isOnline(address)
}

// IsSCActive reports whether the device at address has an active secure channel.
func (c *ControlPanel) IsSCActive(address int) (bool, error) {
	return c.isSCActive(address)
}

// NumOnline returns the number of online devices.
func (c *ControlPanel) NumOnline() (int, error) {
	m, err := c.status()
	return m.Count(), err
}

// NumSCActive returns the number of devices with an active secure channel.
func (c *ControlPanel) NumSCActive() (int, error) {
	m, err := c.scStatus()
	return m.Count(), err
}

// OnlineWait waits until the device at address is online.
func (c *ControlPanel) OnlineWait(ctx context.Context, address int, timeout time.Duration) (bool, error) {
	return c.waitBit(ctx, address, timeout, c.status)
}

// SCWait waits until the device at address has an active secure channel.
func (c *ControlPanel) SCWait(ctx context.Context, address int, timeout time.Duration) (bool, error) {
	return c.waitBit(ctx, address, timeout, c.scStatus)
}

// OnlineWaitAll waits until every configured device is online.
func (c *ControlPanel) OnlineWaitAll(ctx context.Context, timeout time.Duration) bool {
	return c.waitAll(ctx, timeout, c.status)
}

// SCWaitAll waits until every configured device has an active secure channel.
func (c *ControlPanel) SCWaitAll(ctx context.Context, timeout time.Duration) bool {
	return c.waitAll(ctx, timeout, c.scStatus)
}

// EnablePD re-enables a disabled device. Enabling an enabled device returns
// false.
func (c *ControlPanel) EnablePD(address int) (bool, error) {
	return c.hotplug(address, "enabled", c.eng.EnablePD)
}

// DisablePD takes a device out of the poll rotation. Disabling a disabled
// device returns false.
func (c *ControlPanel) DisablePD(address int) (bool, error) {
	return c.hotplug(address, "disabled", c.eng.DisablePD)
}

func (c *ControlPanel) hotplug(address int, to string, fn func(int) bool) (bool, error) {
	i, err := c.index.Index(address)
	if err != nil {
		return false, err
	}
	ok, err := withEngine(c.driver, func() bool { return fn(i) })
	if err != nil {
		return false, err
	}
	if ok {
		c.trace.state(log.StateEntityDevice, address, "", to, "hot-plug")
		c.logger.Info("device "+to, "address", address)
	}
	return ok, nil
}

// IsPDEnabled reports whether the device at address is enabled.
func (c *ControlPanel) IsPDEnabled(address int) (bool, error) {
	i, err := c.index.Index(address)
	if err != nil {
		return false, err
	}
	return withEngine(c.driver, func() bool { return c.eng.IsPDEnabled(i) })
}

// SetFlag sets a runtime flag on the device at address.
func (c *ControlPanel) SetFlag(address int, flag device.Flag) (bool, error) {
	return c.modifyFlag(address, flag, true)
}

// ClearFlag clears a runtime flag on the device at address.
func (c *ControlPanel) ClearFlag(address int, flag device.Flag) (bool, error) {
	return c.modifyFlag(address, flag, false)
}

func (c *ControlPanel) modifyFlag(address int, flag device.Flag, set bool) (bool, error) {
	i, err := c.index.Index(address)
	if err != nil {
		return false, err
	}
	return withEngine(c.driver, func() bool {
		return c.eng.ModifyFlag(i, device.NewFlags(flag), set)
	})
}

// PDID returns the identification reported by the device at address.
// ok is false until the device has reported it.
func (c *ControlPanel) PDID(address int) (id engine.PDID, ok bool, err error) {
	i, err := c.index.Index(address)
	if err != nil {
		return engine.PDID{}, false, err
	}
	type result struct {
		id engine.PDID
		ok bool
	}
	r, err := withEngine(c.driver, func() result {
		id, ok := c.eng.PDID(i)
		return result{id, ok}
	})
	return r.id, r.ok, err
}

// CheckCapability returns the capability the device at address reported for
// code. ok is false if it reported none.
func (c *ControlPanel) CheckCapability(address int, code device.FunctionCode) (capability device.Capability, ok bool, err error) {
	i, err := c.index.Index(address)
	if err != nil {
		return device.Capability{}, false, err
	}
	type result struct {
		c  device.Capability
		ok bool
	}
	r, err := withEngine(c.driver, func() result {
		capability, ok := c.eng.CheckCapability(i, code)
		return result{capability, ok}
	})
	return r.c, r.ok, err
}

// RegisterFileOps installs file callbacks used to read outgoing files for the
// device at address.
func (c *ControlPanel) RegisterFileOps(address int, ops engine.FileOps) (bool, error) {
	i, err := c.index.Index(address)
	if err != nil {
		return false, err
	}
	return c.registerFileOps(i, ops)
}

// FileTxStatus returns the transfer progress for the device at address, or
// nil when no transfer is active.
func (c *ControlPanel) FileTxStatus(address int) (*engine.FileTxStatus, error) {
	i, err := c.index.Index(address)
	if err != nil {
		return nil, err
	}
	return c.fileTxStatus(i)
}

// FileTransferState classifies the transfer for the device at address.
func (c *ControlPanel) FileTransferState(address int) (TransferState, error) {
	st, err := c.FileTxStatus(address)
	if err != nil {
		return TransferNone, err
	}
	return ClassifyTransfer(st), nil
}
