package sim

import (
	"bytes"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
)

// controlPanel is the simulated controller engine. Like a real engine it is
// not safe for concurrent use; the session serializes calls.
type controlPanel struct {
	bus     *Bus
	level   engine.LogLevel
	handler engine.EventHandler
	links   []*link

	fileOps []engine.FileOps
	tx      []*transfer
	pending []int
}

// transfer tracks one file transfer on either side.
type transfer struct {
	id        int
	size      int
	offset    int
	done      bool
	cancelled bool
}

type delivery struct {
	address int
	ev      engine.Event
}

func (c *controlPanel) valid(i int) bool {
	return i >= 0 && i < len(c.links)
}

func (c *controlPanel) SetEventHandler(h engine.EventHandler) {
	c.handler = h
}

// Poll advances every link by one step, moves one file chunk per active
// transfer and then delivers collected events.
func (c *controlPanel) Poll() {
	var out []delivery

	c.bus.mu.Lock()
	for i, l := range c.links {
		out = c.stepLocked(i, l, out)
	}
	c.bus.mu.Unlock()

	for i := range c.links {
		c.pumpFile(i)
	}

	if c.handler == nil {
		return
	}
	for _, d := range out {
		if st := c.handler.HandleEvent(d.address, d.ev); st < 0 && c.level >= engine.LogDebug {
			c.bus.logger.Debug("sim: event nak", "address", d.address, "event", d.ev.EventType())
		}
	}
}

func (c *controlPanel) stepLocked(i int, l *link, out []delivery) []delivery {
	cfg := c.bus.cfg
	wasOnline, wasSC := l.online, l.sc

	if !l.enabled || !c.bus.presentLocked(l) {
		l.polls, l.online, l.sc = 0, false, false
	} else {
		l.polls++
		ready := l.polls >= cfg.OnlineAfter
		cpKey, pdKey := l.keys(cfg.Virtual)
		l.sc = ready && cpKey != nil && bytes.Equal(cpKey, pdKey)
		l.online = ready && (l.sc || !l.cpFlags.Has(device.FlagEnforceSecure))
	}
	if l.pd == nil {
		l.toPD, l.chunks = nil, nil
	}

	if l.cpFlags.Has(device.FlagEnableNotification) {
		if l.online != wasOnline {
			out = append(out, delivery{l.address, &engine.NotificationEvent{Type: engine.NotifyPDStatus, Arg0: boolInt(l.online)}})
		}
		if l.sc != wasSC {
			out = append(out, delivery{l.address, &engine.NotificationEvent{Type: engine.NotifySCStatus, Arg0: boolInt(l.sc)}})
		}
	}
	if !l.online {
		return out
	}

	if len(l.commands) > 0 {
		cmd := l.commands[0]
		l.commands = l.commands[1:]
		out = c.sendLocked(i, l, cmd, out)
	}

	for _, r := range l.toCP {
		if !r.solicited && l.cpFlags.Has(device.FlagIgnoreUnsolicited) {
			continue
		}
		out = append(out, delivery{l.address, r.ev})
	}
	l.toCP = nil
	return out
}

func (c *controlPanel) sendLocked(i int, l *link, cmd engine.Command, out []delivery) []delivery {
	if ft, ok := cmd.(*engine.FileTransferCommand); ok {
		if ft.Cancel() {
			if t := c.tx[i]; t != nil {
				t.cancelled = true
			}
			c.pending[i] = -1
			l.chunks = append(l.chunks, chunk{cancel: true, id: ft.ID})
		} else {
			c.pending[i] = ft.ID
		}
		return out
	}

	if l.pd != nil {
		l.toPD = append(l.toPD, cmd)
		return out
	}

	// Virtual peripheral: accept everything.
	if ks, ok := cmd.(*engine.KeysetCommand); ok {
		l.cpKey = bytes.Clone(ks.Data)
	}
	if l.cpFlags.Has(device.FlagEnableNotification) {
		out = append(out, delivery{l.address, &engine.NotificationEvent{
			Type: engine.NotifyCommandCompletion,
			Arg0: int(cmd.CommandID()),
			Arg1: engine.StatusAck,
		}})
	}
	return out
}

// pumpFile runs file callbacks for device i without holding the bus lock.
func (c *controlPanel) pumpFile(i int) {
	ops := c.fileOps[i]
	if ops == nil {
		return
	}
	l := c.links[i]

	if t := c.tx[i]; t != nil && t.cancelled {
		if !t.done {
			_ = ops.Close(t.id)
		}
		c.tx[i] = nil
	}

	if id := c.pending[i]; id >= 0 {
		c.pending[i] = -1
		if t := c.tx[i]; t != nil && !t.done {
			_ = ops.Close(t.id)
		}
		c.tx[i] = nil

		size, err := ops.Open(id, 0)
		if err != nil || size <= 0 {
			c.bus.logger.Debug("sim: file open failed", "address", l.address, "file", id, "err", err)
			return
		}
		c.tx[i] = &transfer{id: id, size: size}
		c.bus.mu.Lock()
		l.chunks = append(l.chunks, chunk{open: true, id: id, size: size})
		c.bus.mu.Unlock()
		return
	}

	t := c.tx[i]
	if t == nil || t.done {
		return
	}

	c.bus.mu.Lock()
	online := l.online
	c.bus.mu.Unlock()
	if !online {
		return
	}

	n := min(c.bus.cfg.ChunkSize, t.size-t.offset)
	data, err := ops.Read(n, t.offset)
	if err != nil || len(data) == 0 {
		_ = ops.Close(t.id)
		c.tx[i] = nil
		c.bus.mu.Lock()
		l.chunks = append(l.chunks, chunk{cancel: true, id: t.id})
		c.bus.mu.Unlock()
		return
	}
	if len(data) > n {
		data = data[:n]
	}

	c.bus.mu.Lock()
	l.chunks = append(l.chunks, chunk{id: t.id, size: t.size, offset: t.offset, data: bytes.Clone(data)})
	c.bus.mu.Unlock()

	t.offset += len(data)
	if t.offset >= t.size {
		t.offset = t.size
		t.done = true
		_ = ops.Close(t.id)
	}
}

func (c *controlPanel) Status() device.Mask {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	var m device.Mask
	for i, l := range c.links {
		if l.online {
			m = m.Set(i)
		}
	}
	return m
}

func (c *controlPanel) SCStatus() device.Mask {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	var m device.Mask
	for i, l := range c.links {
		if l.sc {
			m = m.Set(i)
		}
	}
	return m
}

func (c *controlPanel) SubmitCommand(i int, cmd engine.Command) bool {
	if !c.valid(i) || cmd == nil {
		return false
	}
	switch cmd := cmd.(type) {
	case *engine.FileTransferCommand:
		if !cmd.Cancel() && c.fileOps[i] == nil {
			return false
		}
	case *engine.KeysetCommand:
		if cmd.Type != engine.KeysetTypeSCBK || len(cmd.Data) != device.SCBKLength {
			return false
		}
	}

	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	l := c.links[i]
	if !l.enabled || !l.online {
		return false
	}
	if _, ok := cmd.(*engine.KeysetCommand); ok && !l.sc {
		return false
	}
	if len(l.commands) >= c.bus.cfg.QueueDepth {
		return false
	}
	l.commands = append(l.commands, cmd)
	return true
}

func (c *controlPanel) PDID(i int) (engine.PDID, bool) {
	if !c.valid(i) {
		return engine.PDID{}, false
	}
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	l := c.links[i]
	if !l.online {
		return engine.PDID{}, false
	}
	if l.pd == nil {
		return engine.PDIDFromIdentity(device.DefaultIdentity()), true
	}
	return l.identity, true
}

func (c *controlPanel) CheckCapability(i int, code device.FunctionCode) (device.Capability, bool) {
	if !c.valid(i) {
		return device.Capability{}, false
	}
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	l := c.links[i]
	if !l.online {
		return device.Capability{}, false
	}
	caps := l.caps
	if l.pd == nil {
		caps = virtualCapabilities()
	}
	return caps.Get(code)
}

func (c *controlPanel) EnablePD(i int) bool {
	if !c.valid(i) {
		return false
	}
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	l := c.links[i]
	if l.enabled {
		return false
	}
	l.enabled = true
	return true
}

func (c *controlPanel) DisablePD(i int) bool {
	if !c.valid(i) {
		return false
	}
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	l := c.links[i]
	if !l.enabled {
		return false
	}
	l.enabled = false
	l.reset()
	return true
}

func (c *controlPanel) IsPDEnabled(i int) bool {
	if !c.valid(i) {
		return false
	}
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()
	return c.links[i].enabled
}

func (c *controlPanel) ModifyFlag(i int, flags device.Flags, set bool) bool {
	if !c.valid(i) || flags == 0 {
		return false
	}
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	l := c.links[i]
	if set {
		l.cpFlags |= flags
	} else {
		l.cpFlags &^= flags
	}
	return true
}

func (c *controlPanel) RegisterFileOps(i int, ops engine.FileOps) bool {
	if !c.valid(i) || ops == nil {
		return false
	}
	c.fileOps[i] = ops
	return true
}

func (c *controlPanel) FileTxStatus(i int) (engine.FileTxStatus, bool) {
	if !c.valid(i) || c.tx[i] == nil {
		return engine.FileTxStatus{}, false
	}
	t := c.tx[i]
	return engine.FileTxStatus{Size: t.size, Offset: t.offset}, true
}

func (c *controlPanel) Close() {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()

	for _, l := range c.links {
		if l.cp == c {
			l.cp = nil
			l.enabled = false
			l.reset()
		}
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ engine.ControlPanelEngine = (*controlPanel)(nil)
