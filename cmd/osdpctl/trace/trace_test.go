package trace

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/osdp-go/osdp-go/pkg/log"
)

var ts = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func createTestTrace(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.cbor")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}
	return path
}

func sampleEvents() []log.Event {
	return []log.Event{
		{
			Timestamp: ts,
			SessionID: "a1b2c3d4-0000",
			Direction: log.DirectionLocal,
			Category:  log.CategoryState,
			LocalRole: log.RoleControlPanel,
			Address:   log.NoAddress,
			StateChange: &log.StateChangeEvent{
				Entity: log.StateEntitySession, OldState: "IDLE", NewState: "RUNNING",
			},
		},
		{
			Timestamp: ts.Add(time.Second),
			SessionID: "a1b2c3d4-0000",
			Direction: log.DirectionOut,
			Category:  log.CategoryCommand,
			LocalRole: log.RoleControlPanel,
			Address:   101,
			Device:    "door-1",
			Command:   &log.CommandEvent{Name: "LED", Accepted: true, Payload: map[string]any{"reader": 0}},
		},
		{
			Timestamp: ts.Add(2 * time.Second),
			SessionID: "a1b2c3d4-0000",
			Direction: log.DirectionIn,
			Category:  log.CategoryEvent,
			LocalRole: log.RoleControlPanel,
			Address:   101,
			Device:    "door-1",
			Report:    &log.ReportEvent{Name: "CARD_READ", Status: -1},
		},
		{
			Timestamp: ts.Add(3 * time.Second),
			SessionID: "ffff0000-1111",
			Direction: log.DirectionLocal,
			Category:  log.CategoryError,
			LocalRole: log.RolePeripheral,
			Address:   101,
			Error:     &log.ErrorEventData{Message: "handler panic: boom", Context: "command", Panic: true},
		},
	}
}

func TestRunView(t *testing.T) {
	path := createTestTrace(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"2026-03-02T09:30:00.000000Z [sess:a1b2c3d4] LOCAL CP session State",
		"IDLE -> RUNNING",
		"OUT   CP door-1(101) LED",
		"Accepted: true",
		`Payload: {"reader":0}`,
		"Status: NAK (-1)",
		"[sess:ffff0000] LOCAL PD pd-101 Error",
		"Context: command",
		"Panic: true",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := createTestTrace(t, sampleEvents())

	cat := log.CategoryCommand
	var buf bytes.Buffer
	if err := RunView(path, log.Filter{Category: &cat}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if strings.Contains(buf.String(), "State") {
		t.Errorf("state event not filtered:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "LED") {
		t.Errorf("command event missing:\n%s", buf.String())
	}
}

func TestRunViewMissingFile(t *testing.T) {
	err := RunView(filepath.Join(t.TempDir(), "nope.cbor"), log.Filter{}, io.Discard)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseFlags(t *testing.T) {
	if d, err := ParseDirection("LOCAL"); err != nil || d != log.DirectionLocal {
		t.Errorf("ParseDirection(LOCAL) = %v, %v", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected direction error")
	}
	if c, err := ParseCategory("event"); err != nil || c != log.CategoryEvent {
		t.Errorf("ParseCategory(event) = %v, %v", c, err)
	}
	if _, err := ParseCategory("frame"); err == nil {
		t.Error("expected category error")
	}
	if r, err := ParseRole("PD"); err != nil || r != log.RolePeripheral {
		t.Errorf("ParseRole(PD) = %v, %v", r, err)
	}
	if _, err := ParseRole("hub"); err == nil {
		t.Error("expected role error")
	}
}

func TestExportJSONL(t *testing.T) {
	path := createTestTrace(t, sampleEvents())
	outPath := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	var ev log.Event
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if ev.Command == nil || ev.Command.Name != "LED" || ev.Address != 101 {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestExportCSV(t *testing.T) {
	path := createTestTrace(t, sampleEvents())
	outPath := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 rows, got %d", len(lines))
	}
	if lines[0] != "timestamp,session_id,direction,role,category,address,device,name,detail" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasSuffix(lines[1], ",,,State,SESSION IDLE->RUNNING") {
		t.Errorf("unexpected session row: %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",101,door-1,LED,accepted") {
		t.Errorf("unexpected command row: %s", lines[2])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestTrace(t, sampleEvents())
	err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out"))
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestRunFilter(t *testing.T) {
	tests := []struct {
		name string
		opts FilterOptions
		want int
	}{
		{"all", FilterOptions{Address: NoAddressFilter}, 4},
		{"session", FilterOptions{Address: NoAddressFilter, SessionID: "a1b2c3d4-0000"}, 3},
		{"address", FilterOptions{Address: 101}, 3},
		{"role", FilterOptions{Address: NoAddressFilter, Role: "pd"}, 1},
		{"direction", FilterOptions{Address: NoAddressFilter, Direction: "in"}, 1},
		{"category", FilterOptions{Address: NoAddressFilter, Category: "error"}, 1},
		{"time window", FilterOptions{
			Address:   NoAddressFilter,
			TimeStart: ts.Add(time.Second).Format(time.RFC3339),
			TimeEnd:   ts.Add(3 * time.Second).Format(time.RFC3339),
		}, 2},
	}

	path := createTestTrace(t, sampleEvents())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outPath := filepath.Join(t.TempDir(), "filtered.cbor")
			n, err := RunFilter(path, outPath, tt.opts)
			if err != nil {
				t.Fatalf("RunFilter failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("filtered %d events, want %d", n, tt.want)
			}

			stats, err := Collect(outPath)
			if err != nil {
				t.Fatalf("Collect failed: %v", err)
			}
			if stats.TotalEvents != tt.want {
				t.Errorf("output has %d events, want %d", stats.TotalEvents, tt.want)
			}
		})
	}
}

func TestRunFilterBadOptions(t *testing.T) {
	path := createTestTrace(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.cbor")

	for _, opts := range []FilterOptions{
		{Address: NoAddressFilter, TimeStart: "yesterday"},
		{Address: NoAddressFilter, TimeEnd: "tomorrow"},
		{Address: NoAddressFilter, Role: "hub"},
		{Address: NoAddressFilter, Direction: "up"},
		{Address: NoAddressFilter, Category: "frame"},
	} {
		if _, err := RunFilter(path, out, opts); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}

func TestStats(t *testing.T) {
	path := createTestTrace(t, sampleEvents())

	stats, err := Collect(path)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if stats.TotalEvents != 4 {
		t.Errorf("TotalEvents = %d, want 4", stats.TotalEvents)
	}
	if len(stats.Sessions) != 2 {
		t.Errorf("Sessions = %d, want 2", len(stats.Sessions))
	}
	if stats.Errors != 1 || stats.Panics != 1 {
		t.Errorf("Errors/Panics = %d/%d, want 1/1", stats.Errors, stats.Panics)
	}
	dev := stats.Devices[101]
	if dev == nil {
		t.Fatal("no stats for address 101")
	}
	if dev.Name != "door-1" || dev.Commands != 1 || dev.Reports != 1 || dev.Naks != 1 {
		t.Errorf("unexpected device stats: %+v", dev)
	}

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()
	for _, want := range []string{
		"Total Events: 4",
		"COMMAND:",
		"LOCAL:",
		"Sessions: 2",
		"[a1b2c3d4] CP 3 events, duration 2s",
		"door-1(101)",
		"Errors: 1 (panics: 1)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}
