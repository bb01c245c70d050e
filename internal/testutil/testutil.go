// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/sim"
)

// Key returns a deterministic secure channel base key filled with seed.
func Key(seed byte) []byte {
	return bytes.Repeat([]byte{seed}, device.SCBKLength)
}

// Peer returns the peripheral-side descriptor matching a controller-side
// one: same address, name and key, no controller flags.
func Peer(d device.Descriptor) device.Descriptor {
	return device.NewDescriptor(d.Name, d.Address, nil, bytes.Clone(d.SCBK))
}

// NewBus returns a simulated bus that brings devices online after a
// single controller poll.
func NewBus(t testing.TB, virtual bool) *sim.Bus {
	t.Helper()
	return sim.NewBus(sim.Config{
		OnlineAfter: 1,
		ChunkSize:   64,
		QueueDepth:  32,
		Virtual:     virtual,
		Logger:      Logger(t),
	})
}

// Logger returns a debug logger that writes through t.Log.
func Logger(t testing.TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(writer{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type writer struct{ t testing.TB }

func (w writer) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}
