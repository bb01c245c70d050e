package session

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/log"
)

// dispatcher fans engine callbacks out to queues. A controller has one queue
// per configured address; a peripheral has a single shared queue.
type dispatcher[T any] struct {
	role    string
	queues  []*queue[T]
	logger  *slog.Logger
	trace   *tracer
	metrics *Metrics
}

func newDispatcher[T any](d *driver, n int) *dispatcher[T] {
	qs := make([]*queue[T], n)
	for i := range qs {
		qs[i] = newQueue[T]()
	}
	return &dispatcher[T]{
		role:    d.role,
		queues:  qs,
		logger:  d.logger,
		trace:   d.trace,
		metrics: d.metrics,
	}
}

// pop dequeues from queue i. See queue.pop for timeout semantics.
func (p *dispatcher[T]) pop(i int, timeout time.Duration) (T, bool) {
	return p.queues[i].pop(timeout)
}

func (p *dispatcher[T]) close() {
	for _, q := range p.queues {
		q.close()
	}
}

// invoke runs a user handler, converting a returned error or a panic into an
// error so that the polling goroutine survives.
func (p *dispatcher[T]) invoke(address int, context string, fn func() error) (err error) {
	panicked := false
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			err = fmt.Errorf("%s panicked: %v", context, r)
			p.logger.Error("handler panic", "address", address, "handler", context, "panic", r, "stack", string(debug.Stack()))
		}
		if err != nil {
			if !panicked {
				p.logger.Warn("handler failed", "address", address, "handler", context, "err", err)
			}
			p.metrics.handlerFault(p.role)
			p.trace.fault(address, context, err, panicked)
		}
	}()
	return fn()
}

// eventDispatcher receives controller-side events from the engine.
type eventDispatcher struct {
	*dispatcher[engine.Event]
	index   *device.AddressIndex
	handler EventHandler
}

// HandleEvent queues ev for its device and then runs the user handler.
func (p *eventDispatcher) HandleEvent(address int, ev engine.Event) int {
	i, err := p.index.Index(address)
	if err != nil {
		p.logger.Warn("event from unconfigured address", "address", address, "err", err)
		p.trace.fault(address, "event dispatch", err, false)
		return engine.StatusNak
	}

	p.queues[i].push(ev)
	p.metrics.delivered(p.role, ev.EventType().String())

	status := engine.StatusAck
	if p.handler != nil {
		if err := p.invoke(address, "event handler", func() error {
			return p.handler.HandleEvent(address, ev)
		}); err != nil {
			status = engine.StatusNak
		}
	}

	p.trace.report(log.DirectionIn, address, ev.EventType().String(), status, ev)
	return status
}

// commandDispatcher receives peripheral-side commands from the engine.
type commandDispatcher struct {
	*dispatcher[engine.Command]
	address int
	handler CommandHandler
}

// HandleCommand queues cmd and then runs the user handler.
func (p *commandDispatcher) HandleCommand(cmd engine.Command) (int, engine.Event) {
	p.queues[0].push(cmd)
	p.metrics.delivered(p.role, cmd.CommandID().String())

	status := engine.StatusAck
	var reply engine.Event
	if p.handler != nil {
		if err := p.invoke(p.address, "command handler", func() error {
			var err error
			reply, err = p.handler.HandleCommand(cmd)
			return err
		}); err != nil {
			status = engine.StatusNak
			reply = nil
		}
	}

	p.trace.command(log.DirectionIn, p.address, cmd.CommandID().String(), status == engine.StatusAck, cmd)
	return status, reply
}

var (
	_ engine.EventHandler   = (*eventDispatcher)(nil)
	_ engine.CommandHandler = (*commandDispatcher)(nil)
)
