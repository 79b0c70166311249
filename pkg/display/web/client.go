package web

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/coreboy/internal/joypad"
)

const writeWait = 10 * time.Second

// Client is a websocket connection served by a Hub.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	Send     chan []byte
	ID       uint8
	Metadata struct {
		RemoteAddr string
		UserAgent  string
	}
	connectedAt time.Time
}

// ReadPump reads the messages of the client until the connection
// closes. Messages are one of:
//
//	[0] or [1]             pause or resume the emulator
//	[10, Event, value]     change a hub setting
//	[254]                  keep the connection alive
//	[255]                  close the connection
//	[button, state]        press (state 1) or release a button
func (c *Client) ReadPump() {
	// deferred function to handle unregistering client
	// and closing connection
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(msg) == 0 {
			continue
		}

		switch {
		case msg[0] == KeepAlive:
		case len(msg) == 1 && msg[0] == Closing:
			return
		case len(msg) == 1:
			c.pausePlay(msg[0] == 1)
		case msg[0] == settingsMessage && len(msg) == 3:
			if !c.hub.set(msg[1], msg[2]) {
				c.hub.log.Debugf("web: client %d sent unknown setting %d", c.ID, msg[1])
				continue
			}
			c.hub.send(message{data: []byte{ClientInfo, msg[1], msg[2]}, except: c})
		case msg[0] <= joypad.ButtonDown:
			if msg[1] == 0 {
				c.hub.emu.Release(msg[0])
			} else {
				c.hub.emu.Press(msg[0])
			}
		default:
			c.hub.log.Debugf("web: client %d sent unknown message %v", c.ID, msg)
		}
	}
}

func (c *Client) pausePlay(play bool) {
	state := uint8(0)
	if play {
		c.hub.emu.Resume()
		state = 1
	} else {
		c.hub.emu.Pause()
	}
	c.hub.send(message{data: []byte{PlayerInfo, PausePlay, state}, except: c})
}

// WritePump writes the messages queued on Send until the hub
// closes it.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for b := range c.Send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
			return
		}
	}

	// hub closed the channel
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
