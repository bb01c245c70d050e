package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Reader streams events from a trace file written by FileLogger.
type Reader struct {
	src     io.ReadCloser
	dec     *cbor.Decoder
	filter  Filter
	created time.Time
}

// NewReader opens path and returns every event in it.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens path and returns only events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewStreamReader(f, filter)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// NewStreamReader reads a trace from src, which Close closes.
func NewStreamReader(src io.ReadCloser, filter Filter) (*Reader, error) {
	dec := decMode.NewDecoder(src)
	h, err := readHeader(dec)
	if err != nil {
		return nil, err
	}
	return &Reader{src: src, dec: dec, filter: filter, created: h.Created}, nil
}

// Created returns the time the trace file was started.
func (r *Reader) Created() time.Time {
	return r.created
}

// Next returns the next matching event, or io.EOF at the end of the trace.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		err := r.dec.Decode(&event)
		if errors.Is(err, io.EOF) {
			return Event{}, io.EOF
		}
		if err != nil {
			return Event{}, fmt.Errorf("decode trace event: %w", err)
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Each calls fn for every remaining matching event and stops at the first
// error fn returns.
func (r *Reader) Each(fn func(Event) error) error {
	for {
		event, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}

// Close closes the underlying source.
func (r *Reader) Close() error {
	return r.src.Close()
}
