package log

import (
	"context"
	"log/slog"
)

// SlogAdapter mirrors trace events onto an slog.Logger. Handler faults
// (CategoryError) are always written at Warn so they survive a quiet
// console; everything else uses the adapter level.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter returns an adapter writing at Debug.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

func (a *SlogAdapter) Log(event Event) {
	level := a.level
	if event.Category == CategoryError && level < slog.LevelWarn {
		level = slog.LevelWarn
	}

	attrs := make([]slog.Attr, 0, 10)
	attrs = append(attrs,
		slog.String("session_id", event.SessionID),
		slog.String("role", event.LocalRole.String()),
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	)
	if event.Address != NoAddress {
		attrs = append(attrs, slog.Int("address", event.Address))
	}
	if event.Device != "" {
		attrs = append(attrs, slog.String("device", event.Device))
	}
	attrs = append(attrs, bodyAttrs(event)...)

	a.logger.LogAttrs(context.Background(), level, "osdp trace", attrs...)
}

func bodyAttrs(event Event) []slog.Attr {
	if c := event.Command; c != nil {
		return []slog.Attr{slog.String("command", c.Name), slog.Bool("accepted", c.Accepted)}
	}
	if r := event.Report; r != nil {
		return []slog.Attr{slog.String("event", r.Name), slog.Int("status", r.Status)}
	}
	if sc := event.StateChange; sc != nil {
		out := []slog.Attr{
			slog.String("entity", sc.Entity.String()),
			slog.String("old_state", sc.OldState),
			slog.String("new_state", sc.NewState),
		}
		if sc.Reason != "" {
			out = append(out, slog.String("reason", sc.Reason))
		}
		return out
	}
	if e := event.Error; e != nil {
		out := []slog.Attr{slog.String("error_msg", e.Message), slog.String("error_context", e.Context)}
		if e.Panic {
			out = append(out, slog.Bool("panic", true))
		}
		return out
	}
	return nil
}

var _ Logger = (*SlogAdapter)(nil)
