package emulator

import "errors"

// ErrUnknownCommand is returned in the response to a command the
// emulator does not understand.
var ErrUnknownCommand = errors.New("emulator: unknown command")

// CommandPacket is a command packet that is sent to the
// emulator to control it.
type CommandPacket struct {
	Command Command
	Data    []byte

	reply chan ResponsePacket
}

// Command is a command that is sent to the emulator to
// control it.
type Command int

// ResponsePacket is a response packet that is sent
// from the emulator to the client.
type ResponsePacket struct {
	Command Command
	Data    []byte
	Error   error
}

const (
	// CommandPause pauses the emulator.
	CommandPause Command = iota
	// CommandResume resumes the emulator.
	CommandResume
	// CommandClose closes the emulator. No further commands are
	// accepted afterwards.
	CommandClose
	// CommandReset resets the emulator, clearing an error.
	CommandReset
	// CommandSaveState responds with a save state in Data.
	CommandSaveState
	// CommandLoadState loads the save state held in Data.
	CommandLoadState
	// CommandStepFrame runs a single frame, useful while paused.
	CommandStepFrame
	// CommandSetSpeed sets the speed of the emulator, as a
	// multiple of the real hardware held in Data[0]. A speed of
	// 0 runs the emulation as fast as possible.
	CommandSetSpeed
)

func (c Command) String() string {
	switch c {
	case CommandPause:
		return "Pause"
	case CommandResume:
		return "Resume"
	case CommandClose:
		return "Close"
	case CommandReset:
		return "Reset"
	case CommandSaveState:
		return "SaveState"
	case CommandLoadState:
		return "LoadState"
	case CommandStepFrame:
		return "StepFrame"
	case CommandSetSpeed:
		return "SetSpeed"
	default:
		return "Unknown"
	}
}
