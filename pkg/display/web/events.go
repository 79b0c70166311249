package web

// Event is a hub setting, sent by a client as [10, Event, value].
type Event = uint8

const (
	_ Event = iota
	Compression
	CompressionLevel
	FramePatching
	FrameSkipping
	ClientStatus
	FramePatchingRatio
	FrameCaching
	KeepAlive = 254
	Closing   = 255
)

// settingsMessage prefixes a message changing a hub setting.
const settingsMessage = 10

// PlayerEvent describes a change to the emulator, sent to clients
// as [PlayerInfo, PlayerEvent, value].
type PlayerEvent = uint8

const (
	PausePlay PlayerEvent = iota
	Status
)

// Type is the first byte of every message sent to a client.
type Type = uint8

const (
	Frame Type = iota
	FramePatch
	FrameSkip
	ClientInfo
	PatchCache
	PatchCacheSync
	FrameCache
	FrameCacheSync
	FrameSync
	ClientClosing
	ServerInfo
	PlayerInfo
)
