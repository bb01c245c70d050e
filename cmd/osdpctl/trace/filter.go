package trace

import (
	"fmt"
	"time"

	"github.com/osdp-go/osdp-go/pkg/log"
)

// FilterOptions holds the raw filter flags shared by view and filter.
type FilterOptions struct {
	SessionID string
	Address   int
	TimeStart string
	TimeEnd   string
	Role      string
	Direction string
	Category  string
}

// NoAddressFilter disables the address criterion in FilterOptions.
const NoAddressFilter = -2

// Build converts the flags into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{SessionID: o.SessionID}

	if o.Address != NoAddressFilter {
		addr := o.Address
		filter.Address = &addr
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if o.Role != "" {
		r, err := ParseRole(o.Role)
		if err != nil {
			return filter, err
		}
		filter.Role = &r
	}

	if o.Direction != "" {
		d, err := ParseDirection(o.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}

	if o.Category != "" {
		c, err := ParseCategory(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}

	return filter, nil
}

// RunFilter copies the events of path matching opts into a new trace file
// at output and returns how many were written.
func RunFilter(path, output string, opts FilterOptions) (int, error) {
	filter, err := opts.Build()
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output trace: %w", err)
	}

	err = reader.Each(func(event log.Event) error {
		logger.Log(event)
		return nil
	})
	closeErr := logger.Close()
	if err != nil {
		return logger.Written(), fmt.Errorf("failed to read event: %w", err)
	}
	if closeErr != nil {
		return logger.Written(), fmt.Errorf("failed to close output trace: %w", closeErr)
	}
	return logger.Written(), nil
}
