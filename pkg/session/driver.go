package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/log"
)

// driver owns an engine context, the polling goroutine and the lock that
// serializes every engine call. ControlPanel and Peripheral embed it.
type driver struct {
	role    string
	cfg     Config
	logger  *slog.Logger
	trace   *tracer
	metrics *Metrics
	index   *device.AddressIndex

	// mu is held for every engine call, including each poll iteration.
	// Never held across a sleep or a queue wait.
	mu        sync.Mutex
	eng       engine.Engine
	closed    bool
	online    device.Mask
	secure    device.Mask
	transfers []TransferState

	// life guards the polling goroutine handles.
	life    sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	state   atomic.Uint32
	release func()
}

func newDriver(role string, cfg Config, index *device.AddressIndex, eng engine.Engine, tr *tracer) *driver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &driver{
		role:    role,
		cfg:     cfg,
		logger:  logger.With("role", role, "session", tr.id),
		trace:   tr,
		metrics: cfg.Metrics,
		index:   index,
		eng:     eng,

		transfers: make([]TransferState, index.Len()),
	}
}

// ID returns the session identifier used in trace events.
func (d *driver) ID() string {
	return d.trace.id
}

// State returns the lifecycle state.
func (d *driver) State() State {
	return State(d.state.Load())
}

// Running reports whether the polling goroutine is attached.
func (d *driver) Running() bool {
	return d.State() == StateRunning
}

func (d *driver) setState(s State, reason string) {
	old := State(d.state.Swap(uint32(s)))
	if old == s {
		return
	}
	d.trace.state(log.StateEntitySession, log.NoAddress, old.String(), s.String(), reason)
	d.logger.Debug("session state changed", "from", old, "to", s)
}

// Start launches the polling goroutine.
func (d *driver) Start() error {
	d.life.Lock()
	defer d.life.Unlock()

	if d.done != nil {
		return ErrAlreadyRunning
	}
	if d.isClosed() {
		return ErrClosed
	}

	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.run(d.stop, d.done)

	d.setState(StateRunning, "start")
	return nil
}

// Stop signals the polling goroutine and waits for it to exit.
func (d *driver) Stop() error {
	d.life.Lock()
	defer d.life.Unlock()
	return d.stopLocked()
}

// Teardown stops the polling goroutine and releases the engine. Every later
// engine-touching call returns ErrClosed.
func (d *driver) Teardown() error {
	d.life.Lock()
	defer d.life.Unlock()

	if err := d.stopLocked(); err != nil {
		return err
	}
	d.releaseLocked()
	return nil
}

// Close releases the session whether or not it is running. It is safe to
// call more than once.
func (d *driver) Close() error {
	d.life.Lock()
	defer d.life.Unlock()

	if d.done != nil {
		if err := d.stopLocked(); err != nil {
			return err
		}
	}
	d.releaseLocked()
	return nil
}

func (d *driver) stopLocked() error {
	if d.done == nil {
		return ErrNotRunning
	}

	close(d.stop)
	for {
		select {
		case <-d.done:
			d.stop, d.done = nil, nil
			d.setState(StateStopped, "stop")
			return nil
		case <-time.After(d.cfg.JoinTimeout):
			d.logger.Warn("poll loop did not exit in time, still waiting", "timeout", d.cfg.JoinTimeout)
		}
	}
}

func (d *driver) releaseLocked() {
	d.mu.Lock()
	if !d.closed {
		d.eng.Close()
		d.closed = true
	}
	d.mu.Unlock()

	if d.release != nil {
		d.release()
	}
	d.setState(StateClosed, "teardown")
}

func (d *driver) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// run is the polling loop. Stop is checked once per iteration and during the
// sleep between iterations.
func (d *driver) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(d.cfg.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		default:
		}

		d.pollOnce()

		timer.Reset(d.cfg.PollInterval)
		select {
		case <-stop:
			return
		case <-timer.C:
		}
	}
}

func (d *driver) pollOnce() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	start := time.Now()
	d.eng.Poll()
	d.metrics.observePoll(d.role, time.Since(start))

	d.observeOnlineLocked(d.eng.Status())
	d.observeSecureLocked(d.eng.SCStatus())
	d.metrics.setStatus(d.role, d.online.Count(), d.secure.Count())
}

// withEngine runs fn under the session lock.
func withEngine[T any](d *driver, fn func() T) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		var zero T
		return zero, ErrClosed
	}
	return fn(), nil
}

// observeOnlineLocked records the online mask and traces every change.
func (d *driver) observeOnlineLocked(m device.Mask) {
	prev := d.online
	d.online = m
	d.traceTransitions(log.StateEntityDevice, prev, m, "offline", "online")
}

func (d *driver) observeSecureLocked(m device.Mask) {
	prev := d.secure
	d.secure = m
	d.traceTransitions(log.StateEntitySecureChannel, prev, m, "inactive", "active")
}

func (d *driver) traceTransitions(entity log.StateEntity, prev, next device.Mask, off, on string) {
	if prev == next {
		return
	}
	for i := 0; i < d.index.Len(); i++ {
		was, is := prev.Has(i), next.Has(i)
		if was == is {
			continue
		}
		addr, _ := d.index.Address(i)
		from, to := off, on
		if was {
			from, to = on, off
		}
		d.trace.state(entity, addr, from, to, "")
		d.logger.Info("device state changed", "address", addr, "entity", entity, "state", to)
	}
}

// errPending marks a wait condition that is not yet satisfied.
var errPending = errors.New("condition not met")

// wait evaluates check immediately, then every WaitInterval, and once more
// when timeout elapses. Errors and cancellation of ctx end the wait with
// false.
func (d *driver) wait(ctx context.Context, timeout time.Duration, check func() (bool, error)) bool {
	op := func() (bool, error) {
		ok, err := check()
		if err != nil {
			return false, backoff.Permanent(err)
		}
		if !ok {
			return false, errPending
		}
		return true, nil
	}

	if timeout <= 0 {
		ok, _ := op()
		return ok
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := backoff.Retry(waitCtx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(d.cfg.WaitInterval)),
		backoff.WithMaxElapsedTime(0),
	)
	if err == nil {
		return ok
	}
	if ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
		ok, _ = op()
		return ok
	}
	return false
}
