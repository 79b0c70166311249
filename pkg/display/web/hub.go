// Package web streams an emulator to browsers over websockets.
//
// Every connected client receives the frames produced by the
// emulator, and may press buttons or pause the emulation. Frames
// are brotli compressed, patched when only a few pixels change and
// replaced by a cache index when they repeat.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gorilla/websocket"
	"github.com/thelolagemann/coreboy/internal/types"
	"github.com/thelolagemann/coreboy/pkg/emulator"
	"github.com/thelolagemann/coreboy/pkg/log"
	"github.com/thelolagemann/coreboy/pkg/utils"
)

// settings are the encoding options shared by every client.
type settings struct {
	compression      bool
	compressionLevel int
	framePatching    bool
	framePatchRatio  int
	frameSkipping    bool
	frameCaching     bool
}

type message struct {
	data   []byte
	except *Client
}

// Hub serves an emulator to websocket clients. It implements
// http.Handler; Run must be running for clients to be served.
type Hub struct {
	emu    emulator.Controller
	log    log.Logger
	player *Player

	clients              map[*Client]bool
	broadcast            chan message
	register, unregister chan *Client
	done                 chan struct{}

	settings  settings
	currentID uint8

	mu sync.Mutex
}

// NewHub returns a Hub serving emu.
func NewHub(emu emulator.Controller, l log.Logger) *Hub {
	return &Hub{
		emu:        emu,
		log:        l,
		player:     newPlayer(),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		settings: settings{
			compression:      true,
			compressionLevel: 7,
			framePatching:    true,
			framePatchRatio:  1,
			frameSkipping:    true,
			frameCaching:     true,
		},
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeHTTP upgrades the request to a websocket connection and
// registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("web: upgrading %s: %v", r.RemoteAddr, err)
		return
	}

	c := h.newClient(conn, r)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.ReadPump()
	go c.WritePump()
}

// Run serves the clients until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	go h.player.run(ctx, h.emu.Frames(), h.currentSettings, func(b []byte) {
		h.send(message{data: b})
	})

	t := time.NewTicker(time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.Send)
				delete(h.clients, c)
			}
			return ctx.Err()
		case <-t.C:
			h.sendAll(message{data: []byte{ServerInfo, uint8(len(h.clients))}})
		case c := <-h.register:
			h.clients[c] = true
			h.log.Infof("web: client %d connected from %s", c.ID, c.Metadata.RemoteAddr)

			c.Send <- []byte{ClientInfo, ClientStatus, h.info(), uint8(h.currentSettings().compressionLevel), uint8(h.currentSettings().framePatchRatio)}
			msgs, err := h.player.sync()
			if err != nil {
				h.log.Errorf("web: syncing client %d: %v", c.ID, err)
				continue
			}
			for _, msg := range msgs {
				c.Send <- msg
			}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; !ok {
				continue
			}
			delete(h.clients, c)
			close(c.Send)
			h.log.Infof("web: client %d disconnected", c.ID)

			// notify connected clients that this client has disconnected
			h.sendAll(message{data: []byte{ClientClosing, c.ID}})
		case msg := <-h.broadcast:
			h.sendAll(msg)
		}
	}
}

// sendAll sends msg to every client but msg.except. A client that
// can not keep up is dropped.
func (h *Hub) sendAll(msg message) {
	for c := range h.clients {
		if c == msg.except {
			continue
		}
		select {
		case c.Send <- msg.data:
		default:
			close(c.Send)
			delete(h.clients, c)
		}
	}
}

// send queues msg for broadcasting.
func (h *Hub) send(msg message) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// info returns a byte of information containing the various
// hub settings. The byte is constructed as follows:
//
//	Bit 0: Emulator running
//	Bit 2: Compression enabled
//	Bit 3: Frame patching enabled
//	Bit 4: Frame skipping enabled
//	Bit 5: Emulator paused
//	Bit 6: Frame caching enabled
func (h *Hub) info() byte {
	s := h.currentSettings()
	info := uint8(0)
	switch {
	case h.emu.Paused():
		info |= types.Bit5
	case h.emu.Status().IsRunning():
		info |= types.Bit0
	}

	if s.compression {
		info |= types.Bit2
	}
	if s.framePatching {
		info |= types.Bit3
	}
	if s.frameSkipping {
		info |= types.Bit4
	}
	if s.frameCaching {
		info |= types.Bit6
	}

	return info
}

func (h *Hub) currentSettings() settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settings
}

// set changes a hub setting, reporting whether setting is known.
func (h *Hub) set(setting Event, value uint8) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch setting {
	case Compression:
		h.settings.compression = value == 1
	case CompressionLevel:
		h.settings.compressionLevel = utils.Clamp(brotli.BestSpeed, int(value), brotli.BestCompression)
	case FramePatching:
		h.settings.framePatching = value == 1
	case FramePatchingRatio:
		h.settings.framePatchRatio = utils.Clamp(1, int(value), 5)
	case FrameSkipping:
		h.settings.frameSkipping = value == 1
	case FrameCaching:
		h.settings.frameCaching = value == 1
	default:
		return false
	}
	return true
}

// newClient creates a new client for conn.
func (h *Hub) newClient(conn *websocket.Conn, r *http.Request) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentID++

	c := &Client{
		hub:  h,
		conn: conn,
		Send: make(chan []byte, 256),
		ID:   h.currentID,
		Metadata: struct {
			RemoteAddr string
			UserAgent  string
		}{RemoteAddr: r.RemoteAddr, UserAgent: r.Header.Get("User-Agent")},
		connectedAt: time.Now(),
	}
	return c
}

// ListenAndServe serves emu on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, emu emulator.Controller, l log.Logger) error {
	h := NewHub(emu, l)
	srv := &http.Server{Addr: addr, Handler: h}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 1)
	go func() {
		l.Infof("web: listening on %s", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		cancel()
	}()

	err := h.Run(ctx)
	shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	srv.Shutdown(shutdown)

	select {
	case err = <-errs:
		return err
	default:
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
