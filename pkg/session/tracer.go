package session

import (
	"time"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/log"
)

// tracer stamps trace events with the session identity.
type tracer struct {
	id    string
	role  log.Role
	out   log.Logger
	names map[int]string
}

func newTracer(id string, role log.Role, out log.Logger, descs []device.Descriptor) *tracer {
	if out == nil {
		out = log.NoopLogger{}
	}
	names := make(map[int]string, len(descs))
	for _, d := range descs {
		names[d.Address] = d.Name
	}
	return &tracer{id: id, role: role, out: out, names: names}
}

func (t *tracer) emit(ev log.Event) {
	ev.Timestamp = time.Now()
	ev.SessionID = t.id
	ev.LocalRole = t.role
	if ev.Address != log.NoAddress {
		ev.Device = t.names[ev.Address]
	}
	t.out.Log(ev)
}

func (t *tracer) state(entity log.StateEntity, address int, from, to, reason string) {
	t.emit(log.Event{
		Direction: log.DirectionLocal,
		Category:  log.CategoryState,
		Address:   address,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: from,
			NewState: to,
			Reason:   reason,
		},
	})
}

func (t *tracer) command(dir log.Direction, address int, name string, accepted bool, payload any) {
	t.emit(log.Event{
		Direction: dir,
		Category:  log.CategoryCommand,
		Address:   address,
		Command:   &log.CommandEvent{Name: name, Accepted: accepted, Payload: payload},
	})
}

func (t *tracer) report(dir log.Direction, address int, name string, status int, payload any) {
	t.emit(log.Event{
		Direction: dir,
		Category:  log.CategoryEvent,
		Address:   address,
		Report:    &log.ReportEvent{Name: name, Status: status, Payload: payload},
	})
}

func (t *tracer) fault(address int, context string, err error, panicked bool) {
	t.emit(log.Event{
		Direction: log.DirectionLocal,
		Category:  log.CategoryError,
		Address:   address,
		Error:     &log.ErrorEventData{Message: err.Error(), Context: context, Panic: panicked},
	})
}
