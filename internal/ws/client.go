package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"subspace_duel/internal/events"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Client is one spectator connection. PlayerID is zero for anonymous viewers.
// A non-zero Filter restricts the feed to events involving that player.
type Client struct {
	PlayerID int64
	Filter   int64
	Conn     *websocket.Conn
	Send     chan []byte

	hub *Hub
}

func NewClient(hub *Hub, conn *websocket.Conn, playerID, filter int64) *Client {
	return &Client{
		PlayerID: playerID,
		Filter:   filter,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		hub:      hub,
	}
}

func (c *Client) wants(e events.Event) bool {
	if c.Filter == 0 {
		return true
	}
	if e.PlayerID == c.Filter || e.TargetID == c.Filter {
		return true
	}
	return e.PlayerID == 0 && e.TargetID == 0
}

// readPump only services control frames; spectators have nothing to say.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
