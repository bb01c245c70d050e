// Package log provides structured protocol tracing for OSDP sessions.
//
// This package defines the Logger interface and Event types for capturing
// what crosses the boundary between an application and the protocol engine:
// commands, event reports, device and session state changes, and handler
// faults. It is separate from operational logging (slog); the trace is a
// machine-readable record for debugging and offline analysis.
//
// # Basic Usage
//
//	// For development: trace to console via slog
//	cfg.Trace = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Trace, _ = log.NewFileLogger("/var/log/osdp/cp.otrace")
//
//	// Both: use MultiLogger
//	cfg.Trace = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// A trace file is a sequence of CBOR items: one header record naming the
// format and TraceVersion, followed by one item per Event. FileLogger appends
// to existing trace files and refuses anything else. Reader streams events
// back with an optional Filter; "osdpctl trace view" is built on it.
package log
