package trace

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/osdp-go/osdp-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	EventsByRole      map[log.Role]int
	Sessions          map[string]*SessionStats
	Devices           map[int]*DeviceStats
	Errors            int
	Panics            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single session.
type SessionStats struct {
	Role      log.Role
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
}

// DeviceStats holds per-address counters.
type DeviceStats struct {
	Name     string
	Commands int
	Rejected int
	Reports  int
	Naks     int
	States   int
}

// Collect reads the trace at path and aggregates it.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		EventsByRole:      make(map[log.Role]int),
		Sessions:          make(map[string]*SessionStats),
		Devices:           make(map[int]*DeviceStats),
	}

	err = reader.Each(func(event log.Event) error {
		stats.add(event)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++
	s.EventsByRole[event.LocalRole]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{Role: event.LocalRole, FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}

	if event.Error != nil {
		s.Errors++
		if event.Error.Panic {
			s.Panics++
		}
	}

	if event.Address == log.NoAddress {
		return
	}
	dev, ok := s.Devices[event.Address]
	if !ok {
		dev = &DeviceStats{}
		s.Devices[event.Address] = dev
	}
	if event.Device != "" {
		dev.Name = event.Device
	}
	switch {
	case event.Command != nil:
		dev.Commands++
		if !event.Command.Accepted {
			dev.Rejected++
		}
	case event.Report != nil:
		dev.Reports++
		if event.Report.Status < 0 {
			dev.Naks++
		}
	case event.StateChange != nil:
		dev.States++
	}
}

// RunStats analyzes the trace at path and prints statistics to w.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== OSDP Session Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryCommand, log.CategoryEvent, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut, log.DirectionLocal} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %s %d events, duration %s\n", shortenID(s.id), s.stats.Role, s.stats.Events, duration)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Devices: %d\n", len(stats.Devices))
	addrs := make([]int, 0, len(stats.Devices))
	for a := range stats.Devices {
		addrs = append(addrs, a)
	}
	sort.Ints(addrs)
	for _, a := range addrs {
		d := stats.Devices[a]
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("pd-%d", a)
		}
		fmt.Fprintf(w, "  %-16s commands=%d rejected=%d reports=%d nak=%d state=%d\n",
			fmt.Sprintf("%s(%d)", name, a), d.Commands, d.Rejected, d.Reports, d.Naks, d.States)
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d (panics: %d)\n", stats.Errors, stats.Panics)
	}
}
