package session

// State is the lifecycle state of a session.
type State uint8

const (
	// StateIdle - created but never started.
	StateIdle State = iota

	// StateRunning - the polling goroutine is attached.
	StateRunning

	// StateStopped - the polling goroutine has exited; Start may be called again.
	StateStopped

	// StateClosed - the engine has been released.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
