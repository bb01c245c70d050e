// Package trace implements the osdpctl trace commands over CBOR trace files.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/osdp-go/osdp-go/pkg/log"
)

const timeFormat = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// timestamp [sess:id] DIRECTION ROLE pd-ADDR Label
	ts := event.Timestamp.UTC().Format(timeFormat)
	fmt.Fprintf(w, "%s [sess:%s] %-5s %s %s %s\n",
		ts, shortenID(event.SessionID), event.Direction, event.LocalRole, target(event), label(event))

	switch {
	case event.Command != nil:
		fmt.Fprintf(w, "  Accepted: %t\n", event.Command.Accepted)
		formatPayload(w, event.Command.Payload)
	case event.Report != nil:
		fmt.Fprintf(w, "  Status: %s (%d)\n", statusName(event.Report.Status), event.Report.Status)
		formatPayload(w, event.Report.Payload)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// label names the event body.
func label(event log.Event) string {
	switch {
	case event.Command != nil:
		return event.Command.Name
	case event.Report != nil:
		return event.Report.Name
	case event.StateChange != nil:
		return "State"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// target renders the device the event concerns.
func target(event log.Event) string {
	if event.Address == log.NoAddress {
		return "session"
	}
	if event.Device != "" {
		return fmt.Sprintf("%s(%d)", event.Device, event.Address)
	}
	return fmt.Sprintf("pd-%d", event.Address)
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func statusName(status int) string {
	if status < 0 {
		return "NAK"
	}
	return "ACK"
}

func formatPayload(w io.Writer, payload any) {
	if payload == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err == nil {
		fmt.Fprintf(w, "  Payload: %s\n", data)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity)
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
	if e.Panic {
		fmt.Fprintln(w, "  Panic: true")
	}
}

// ParseDirection parses a direction flag (case-insensitive).
func ParseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	case "local":
		return log.DirectionLocal, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in, out, or local)", s)
	}
}

// ParseCategory parses a category flag (case-insensitive).
func ParseCategory(s string) (log.Category, error) {
	c, ok := log.ParseCategory(strings.ToUpper(s))
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be command, event, state, or error)", s)
	}
	return c, nil
}

// ParseRole parses a role flag (case-insensitive).
func ParseRole(s string) (log.Role, error) {
	switch strings.ToLower(s) {
	case "cp":
		return log.RoleControlPanel, nil
	case "pd":
		return log.RolePeripheral, nil
	default:
		return 0, fmt.Errorf("invalid role: %s (must be cp or pd)", s)
	}
}

// RunView prints every event of the trace at path matching filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	return reader.Each(func(event log.Event) error {
		formatEvent(output, event)
		return nil
	})
}
