package trace

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/osdp-go/osdp-go/pkg/log"
)

// RunExport exports the trace at path to output (stdout when empty) in the
// given format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	return reader.Each(func(event log.Event) error {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "direction", "role", "category", "address", "device", "name", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	return reader.Each(func(event log.Event) error {
		address := ""
		if event.Address != log.NoAddress {
			address = strconv.Itoa(event.Address)
		}

		row := []string{
			event.Timestamp.UTC().Format(timeFormat),
			event.SessionID,
			event.Direction.String(),
			event.LocalRole.String(),
			event.Category.String(),
			address,
			event.Device,
			label(event),
			detail(event),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		return nil
	})
}

// detail is the one-column summary of the event body.
func detail(event log.Event) string {
	switch {
	case event.Command != nil:
		if event.Command.Accepted {
			return "accepted"
		}
		return "rejected"
	case event.Report != nil:
		return statusName(event.Report.Status)
	case event.StateChange != nil:
		return fmt.Sprintf("%s %s->%s", event.StateChange.Entity, event.StateChange.OldState, event.StateChange.NewState)
	case event.Error != nil:
		return event.Error.Message
	default:
		return ""
	}
}
