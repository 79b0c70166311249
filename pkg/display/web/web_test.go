package web

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/coreboy/internal/joypad"
	"github.com/thelolagemann/coreboy/internal/ppu"
	"github.com/thelolagemann/coreboy/internal/types"
	"github.com/thelolagemann/coreboy/pkg/emulator"
	"github.com/thelolagemann/coreboy/pkg/log"
)

type fakeEmulator struct {
	mu     sync.Mutex
	paused bool
	input  joypad.Input
	frames chan *ppu.Frame
}

func newFakeEmulator() *fakeEmulator {
	return &fakeEmulator{frames: make(chan *ppu.Frame, 1)}
}

func (f *fakeEmulator) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = true
}

func (f *fakeEmulator) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = false
}

func (f *fakeEmulator) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *fakeEmulator) Status() emulator.Status {
	if f.Paused() {
		return emulator.Paused
	}
	return emulator.Running
}

func (f *fakeEmulator) Press(b joypad.Button) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = f.input.Press(b)
}

func (f *fakeEmulator) Release(b joypad.Button) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = f.input.Release(b)
}

func (f *fakeEmulator) Input() joypad.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

func (f *fakeEmulator) Frames() <-chan *ppu.Frame {
	return f.frames
}

func filled(v uint8) ppu.Frame {
	var f ppu.Frame
	for i := range f {
		f[i] = v
	}
	return f
}

func decompress(t *testing.T, b []byte) []byte {
	t.Helper()
	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(b)))
	require.NoError(t, err)
	return out
}

var defaults = settings{
	compression:      true,
	compressionLevel: 7,
	framePatching:    true,
	framePatchRatio:  1,
	frameSkipping:    true,
	frameCaching:     true,
}

func TestPlayer_Encode(t *testing.T) {
	p := newPlayer()
	white := filled(0xFF)

	msgs, err := p.encode(&white, defaults)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte{Frame, 0, 0}, msgs[0][:3])
	assert.Equal(t, white[:], decompress(t, msgs[0][3:]))

	// an unchanged frame is only counted
	msgs, err = p.encode(&white, defaults)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// a single pixel changes, which is sent as a patch
	dirty := white
	copy(dirty[4:8], []uint8{0x00, 0x00, 0x00, 0xFF})
	msgs, err = p.encode(&dirty, defaults)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, []byte{FrameSkip, 1, 0, 0, 0}, msgs[0])
	assert.Equal(t, []byte{FramePatch, 0, 0}, msgs[1][:3])
	patch := decompress(t, msgs[1][3:])
	assert.Equal(t, []uint8{0x00, 0x00, 0x00, 0xFF}, patch[4:8])
	assert.Equal(t, []uint8{0x00, 0x00, 0x00, 0x00}, patch[0:4])

	// back to the first frame, which is still cached
	s := defaults
	s.framePatching = false
	msgs, err = p.encode(&white, s)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{FrameCache, 0, 0}}, msgs)

	// without caching, the frame is sent again in full
	s.frameCaching = false
	s.frameSkipping = false
	msgs, err = p.encode(&white, s)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte{Frame, 1, 0}, msgs[0][:3])
}

func TestPlayer_EncodeUncompressed(t *testing.T) {
	p := newPlayer()
	white := filled(0xFF)

	s := defaults
	s.compression = false
	msgs, err := p.encode(&white, s)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, white[:], msgs[0][3:])
}

func TestCache(t *testing.T) {
	c := newCache(2)
	assert.Equal(t, -1, c.index(0), "empty entries never match")

	assert.Equal(t, 0, c.add(1, []byte{0xA}))
	assert.Equal(t, 1, c.add(2, []byte{0xB}))
	assert.Equal(t, 0, c.add(3, []byte{0xC}))
	assert.Equal(t, -1, c.index(1))
	assert.Equal(t, 1, c.index(2))
	assert.Equal(t, 0, c.index(3))

	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0xC, 1, 0, 0, 0, 1, 0, 0xB}, c.sync())

	c.enabled = false
	assert.Equal(t, -1, c.index(3))
}

func TestHub_Settings(t *testing.T) {
	h := NewHub(newFakeEmulator(), log.NewNullLogger())

	assert.True(t, h.set(CompressionLevel, 50))
	assert.Equal(t, brotli.BestCompression, h.currentSettings().compressionLevel)
	assert.True(t, h.set(FramePatchingRatio, 0))
	assert.Equal(t, 1, h.currentSettings().framePatchRatio)
	assert.False(t, h.set(99, 1))

	assert.Equal(t, types.Bit0|types.Bit2|types.Bit3|types.Bit4|types.Bit6, h.info())
}

// readType reads messages until one of type typ arrives.
func readType(t *testing.T, conn *websocket.Conn, typ Type) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		if len(msg) > 0 && msg[0] == typ {
			return msg
		}
	}
}

func TestHub_Client(t *testing.T) {
	emu := newFakeEmulator()
	h := NewHub(emu, log.NewNullLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { errs <- h.Run(ctx) }()
	defer func() {
		cancel()
		assert.ErrorIs(t, <-errs, context.Canceled)
	}()

	srv := httptest.NewServer(h)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	info := readType(t, conn, ClientInfo)
	assert.Equal(t, []byte{ClientInfo, ClientStatus, h.info(), 7, 1}, info)

	synced := readType(t, conn, FrameSync)
	assert.Len(t, decompress(t, synced[1:]), len(ppu.Frame{}))

	white := filled(0xFF)
	emu.frames <- &white
	frame := readType(t, conn, Frame)
	assert.Equal(t, white[:], decompress(t, frame[3:]))

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{joypad.ButtonA, 1}))
	require.Eventually(t, func() bool { return emu.Input().A }, 5*time.Second, time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0}))
	require.Eventually(t, emu.Paused, 5*time.Second, time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{settingsMessage, Compression, 0}))
	require.Eventually(t, func() bool {
		return !h.currentSettings().compression
	}, 5*time.Second, time.Millisecond)
}
