package web

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/cespare/xxhash"
	"github.com/thelolagemann/coreboy/internal/ppu"
)

const (
	pixels = ppu.ScreenWidth * ppu.ScreenHeight
	// patchStep is the dirty pixel count of one step of the frame
	// patching ratio, a fifth of the screen.
	patchStep = pixels / 5
	cacheSize = 64
)

// Player turns the frames of an emulator into messages for the
// clients of a hub.
type Player struct {
	currentFrame ppu.Frame
	dirtied      ppu.Frame

	framesSkipped          uint32
	patchCache, frameCache *cache

	mu sync.Mutex
}

func newPlayer() *Player {
	return &Player{
		patchCache: newCache(cacheSize),
		frameCache: newCache(cacheSize),
	}
}

// run encodes every frame received from frames, and hands the
// messages to send.
func (p *Player) run(ctx context.Context, frames <-chan *ppu.Frame, opts func() settings, send func([]byte)) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-frames:
			msgs, err := p.encode(f, opts())
			if err != nil {
				continue
			}
			for _, msg := range msgs {
				send(msg)
			}
		}
	}
}

// encode compares f against the frame currently shown by the
// clients, and returns the messages bringing them up to date.
//
// A frame identical to the last is skipped when frame skipping is
// enabled, and only counted. A frame with few dirty pixels is sent
// as a patch holding just those pixels. Either is replaced by an
// index when the same data is already in the cache.
func (p *Player) encode(f *ppu.Frame, s settings) ([][]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.patchCache.enabled = s.frameCaching
	p.frameCache.enabled = s.frameCaching

	p.dirtied = ppu.Frame{}
	dirtiedPixelCount := 0
	for i := 0; i < len(f); i += 4 {
		if !bytes.Equal(p.currentFrame[i:i+4], f[i:i+4]) {
			copy(p.dirtied[i:i+4], f[i:i+4])
			p.dirtied[i+3] = 0xFF
			dirtiedPixelCount++
		}
	}
	p.currentFrame = *f

	if dirtiedPixelCount == 0 && s.frameSkipping {
		p.framesSkipped++
		return nil, nil
	}

	var msgs [][]byte
	if p.framesSkipped > 0 {
		msgs = append(msgs, binary.LittleEndian.AppendUint32([]byte{FrameSkip}, p.framesSkipped))
		p.framesSkipped = 0
	}

	kind, c, buffer := Frame, p.frameCache, p.currentFrame[:]
	if s.framePatching && dirtiedPixelCount < s.framePatchRatio*patchStep {
		kind, c, buffer = FramePatch, p.patchCache, p.dirtied[:]
	}

	output := buffer
	if s.compression {
		var err error
		if output, err = compress(buffer, s.compressionLevel); err != nil {
			return msgs, err
		}
	} else {
		output = append([]byte(nil), buffer...)
	}

	hash := xxhash.Sum64(output)
	if idx := c.index(hash); idx != -1 {
		cached := FrameCache
		if kind == FramePatch {
			cached = PatchCache
		}
		return append(msgs, binary.LittleEndian.AppendUint16([]byte{cached}, uint16(idx))), nil
	}

	idx := c.add(hash, output)
	msg := binary.LittleEndian.AppendUint16([]byte{kind}, uint16(idx))
	return append(msgs, append(msg, output...)), nil
}

// sync returns the messages a newly connected client needs: the
// current frame and the contents of both caches.
func (p *Player) sync() ([][]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frame, err := compress(p.currentFrame[:], brotli.BestCompression)
	if err != nil {
		return nil, err
	}
	return [][]byte{
		append([]byte{FrameSync}, frame...),
		append([]byte{PatchCacheSync}, p.patchCache.sync()...),
		append([]byte{FrameCacheSync}, p.frameCache.sync()...),
	}, nil
}

func compress(b []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, level)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
