package emulator

// Status represents the status of the emulator. It can be one
// of the following:
//
//   - Running
//   - Paused
//   - Errored
//   - Closed
type Status int32

const (
	// Running represents the status of the
	// emulator when it is producing frames.
	Running Status = iota
	// Paused represents the status of the
	// emulator when it is waiting to be resumed.
	Paused
	// Errored represents the status of the
	// emulator when the CPU has encountered an
	// unexpected error. Only a reset resumes it.
	Errored
	// Closed represents the status of the
	// emulator once it has shut down.
	Closed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Errored:
		return "Errored"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

func (s Status) IsRunning() bool {
	return s == Running
}

func (s Status) IsPaused() bool {
	return s == Paused
}

func (s Status) IsErrored() bool {
	return s == Errored
}

func (s Status) IsClosed() bool {
	return s == Closed
}
