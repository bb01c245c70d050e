// Package session coordinates application goroutines with an OSDP protocol
// engine.
//
// A session (ControlPanel or Peripheral) owns an engine context, a dedicated
// polling goroutine and a single lock. Every engine call, including each poll
// iteration, runs under that lock, so the engine never sees concurrent calls.
// Engine callbacks fire on the polling goroutine; the session queues them
// (one queue per device for a controller, one shared queue for a peripheral)
// before running the optional application handler. A handler that fails or
// panics NAKs the callback without stopping the loop.
//
// # Example
//
//	cp, err := session.NewControlPanel(provider, descs, session.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer cp.Close()
//
//	if err := cp.Start(); err != nil {
//	    return err
//	}
//	if !cp.SCWaitAll(ctx, 10*time.Second) {
//	    return errors.New("secure channel not established")
//	}
//	ok, err := cp.SubmitCommand(101, &engine.BuzzerCommand{OnCount: 10, OffCount: 10, RepCount: 1})
//	ev, err := cp.GetEvent(101, time.Second)
package session
