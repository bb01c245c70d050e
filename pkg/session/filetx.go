package session

import (
	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/log"
)

// TransferState classifies a file transfer status snapshot.
type TransferState uint8

const (
	// TransferNone - no transfer is active, or the last one was aborted.
	TransferNone TransferState = iota

	// TransferInProgress - bytes remain to be sent.
	TransferInProgress

	// TransferComplete - every byte has been sent.
	TransferComplete
)

// String returns the state name.
func (s TransferState) String() string {
	switch s {
	case TransferNone:
		return "none"
	case TransferInProgress:
		return "in-progress"
	case TransferComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ClassifyTransfer derives the transfer state from a status snapshot. A nil
// status or a non-positive size means no transfer.
func ClassifyTransfer(status *engine.FileTxStatus) TransferState {
	switch {
	case status == nil || status.Size <= 0:
		return TransferNone
	case status.Offset == status.Size:
		return TransferComplete
	default:
		return TransferInProgress
	}
}

// fileTxStatus queries the engine for device i and traces state changes.
func (d *driver) fileTxStatus(i int) (*engine.FileTxStatus, error) {
	return withEngine(d, func() *engine.FileTxStatus {
		var status *engine.FileTxStatus
		if st, ok := d.eng.FileTxStatus(i); ok {
			status = &st
		}

		state := ClassifyTransfer(status)
		if prev := d.transfers[i]; prev != state {
			d.transfers[i] = state
			addr, _ := d.index.Address(i)
			d.trace.state(log.StateEntityFileTransfer, addr, prev.String(), state.String(), "")
		}
		return status
	})
}

func (d *driver) registerFileOps(i int, ops engine.FileOps) (bool, error) {
	return withEngine(d, func() bool {
		return d.eng.RegisterFileOps(i, ops)
	})
}
