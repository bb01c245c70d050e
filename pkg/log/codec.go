package log

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// TraceVersion is the trace file format version written by FileLogger.
const TraceVersion = 1

const traceMagic = "OSDPTRACE"

// Trace file errors.
var (
	ErrNotTrace     = errors.New("not an osdp trace file")
	ErrTraceVersion = errors.New("unsupported trace version")
)

// fileHeader is the first CBOR item of every trace file.
type fileHeader struct {
	Magic   string    `cbor:"1,keyasint"`
	Version uint8     `cbor:"2,keyasint"`
	Created time.Time `cbor:"3,keyasint"`
}

var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	opts.NilContainers = cbor.NilContainerAsNull
	m, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace encoder: %v", err))
	}
	return m
}

func mustDecMode() cbor.DecMode {
	// Payloads decode into string-keyed maps so they can be re-exported as JSON.
	m, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		DupMapKey:      cbor.DupMapKeyQuiet,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("trace decoder: %v", err))
	}
	return m
}

func writeHeader(enc *cbor.Encoder, now time.Time) error {
	return enc.Encode(fileHeader{Magic: traceMagic, Version: TraceVersion, Created: now.UTC()})
}

func readHeader(dec *cbor.Decoder) (fileHeader, error) {
	var h fileHeader
	if err := dec.Decode(&h); err != nil {
		return fileHeader{}, fmt.Errorf("%w: %v", ErrNotTrace, err)
	}
	if h.Magic != traceMagic {
		return fileHeader{}, ErrNotTrace
	}
	if h.Version == 0 || h.Version > TraceVersion {
		return fileHeader{}, fmt.Errorf("%w: %d", ErrTraceVersion, h.Version)
	}
	return h, nil
}
