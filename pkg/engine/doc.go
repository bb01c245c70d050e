// Package engine defines the call surface of an OSDP protocol engine.
//
// The engine owns framing, sequencing, secure channel cryptography and the
// per-device state machines. A session (see package session) drives it by
// calling Poll periodically and serializes every other call behind one lock.
// Engines are not safe for concurrent use on their own.
//
// Callbacks (EventHandler, CommandHandler, FileOps) run on the goroutine
// that called Poll. They must not call back into the session.
package engine
