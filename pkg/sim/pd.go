package sim

import (
	"bytes"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
)

// peripheral is the simulated peripheral engine for one address.
type peripheral struct {
	bus     *Bus
	link    *link
	level   engine.LogLevel
	handler engine.CommandHandler

	fileOps engine.FileOps
	rx      *transfer
}

func (p *peripheral) SetCommandHandler(h engine.CommandHandler) {
	p.handler = h
}

// Poll handles commands the controller has sent since the last poll and
// writes any received file data.
func (p *peripheral) Poll() {
	l := p.link

	p.bus.mu.Lock()
	if l.pd != p {
		p.bus.mu.Unlock()
		return
	}
	cmds, chunks := l.toPD, l.chunks
	l.toPD, l.chunks = nil, nil
	p.bus.mu.Unlock()

	for _, cmd := range cmds {
		p.handle(cmd)
	}
	for _, ch := range chunks {
		p.receive(ch)
	}
}

func (p *peripheral) handle(cmd engine.Command) {
	status, reply := engine.StatusAck, engine.Event(nil)
	if p.handler != nil {
		status, reply = p.handler.HandleCommand(cmd)
	}
	if p.level >= engine.LogDebug {
		p.bus.logger.Debug("sim: command handled", "address", p.link.address, "command", cmd.CommandID(), "status", status)
	}

	l := p.link
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()

	if ks, ok := cmd.(*engine.KeysetCommand); ok && status >= 0 {
		// Both ends switch to the new key; the session is re-established.
		l.pdKey = bytes.Clone(ks.Data)
		l.cpKey = bytes.Clone(ks.Data)
		l.pdFlags = l.pdFlags.Without(device.FlagInstallMode)
		l.polls, l.sc = 0, false
	}
	if reply != nil && status >= 0 {
		l.toCP = append(l.toCP, report{ev: reply, solicited: true})
	}
	if l.cpFlags.Has(device.FlagEnableNotification) {
		l.toCP = append(l.toCP, report{
			ev: &engine.NotificationEvent{
				Type: engine.NotifyCommandCompletion,
				Arg0: int(cmd.CommandID()),
				Arg1: status,
			},
			solicited: true,
		})
	}
}

func (p *peripheral) receive(ch chunk) {
	ops := p.fileOps
	if ops == nil {
		return
	}

	switch {
	case ch.cancel:
		if p.rx != nil && !p.rx.done {
			_ = ops.Close(p.rx.id)
		}
		p.rx = nil

	case ch.open:
		if p.rx != nil && !p.rx.done {
			_ = ops.Close(p.rx.id)
		}
		p.rx = nil
		if _, err := ops.Open(ch.id, ch.size); err != nil {
			p.bus.logger.Debug("sim: file open refused", "address", p.link.address, "file", ch.id, "err", err)
			return
		}
		p.rx = &transfer{id: ch.id, size: ch.size}

	default:
		rx := p.rx
		if rx == nil || rx.done || rx.id != ch.id {
			return
		}
		n, err := ops.Write(ch.data, ch.offset)
		if err != nil || n <= 0 {
			_ = ops.Close(rx.id)
			p.rx = nil
			return
		}
		rx.offset = ch.offset + n
		if rx.offset >= rx.size {
			rx.offset = rx.size
			rx.done = true
			_ = ops.Close(rx.id)
		}
	}
}

func (p *peripheral) Status() device.Mask {
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()

	if p.link.pd == p && p.link.online {
		return 1
	}
	return 0
}

func (p *peripheral) SCStatus() device.Mask {
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()

	if p.link.pd == p && p.link.sc {
		return 1
	}
	return 0
}

func (p *peripheral) SubmitEvent(ev engine.Event) bool {
	if ev == nil {
		return false
	}
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()

	l := p.link
	if l.pd != p || len(l.toCP) >= p.bus.cfg.QueueDepth {
		return false
	}
	l.toCP = append(l.toCP, report{ev: ev})
	return true
}

func (p *peripheral) RegisterFileOps(index int, ops engine.FileOps) bool {
	if index != 0 || ops == nil {
		return false
	}
	p.fileOps = ops
	return true
}

func (p *peripheral) FileTxStatus(index int) (engine.FileTxStatus, bool) {
	if index != 0 || p.rx == nil {
		return engine.FileTxStatus{}, false
	}
	return engine.FileTxStatus{Size: p.rx.size, Offset: p.rx.offset}, true
}

func (p *peripheral) Close() {
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()

	l := p.link
	if l.pd == p {
		l.pd = nil
		l.pdKey = nil
		l.toPD = nil
		l.toCP = nil
		l.chunks = nil
	}
}

var _ engine.PeripheralEngine = (*peripheral)(nil)
