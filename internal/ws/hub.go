package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"subspace_duel/internal/events"
	"subspace_duel/internal/logger"
)

type broadcast struct {
	event events.Event
	data  []byte
}

// Hub fans engine events out to connected spectators. It is an
// events.Observer; Notify never blocks the engine.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcast
	done       chan struct{}

	dropped atomic.Int64
	log     *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcast, 1024),
		done:       make(chan struct{}),
		log:        logger.OrDefault(log).With("component", "ws_hub"),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Debug("spectator joined", "player_id", c.PlayerID, "filter", c.Filter, "clients", len(h.clients))
			h.deliver(c, mustEnvelope(Envelope{Type: MsgReady}))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.log.Debug("spectator left", "player_id", c.PlayerID, "clients", len(h.clients))
			}

		case b := <-h.broadcast:
			for c := range h.clients {
				if c.wants(b.event) {
					h.deliver(c, b.data)
				}
			}
		}
	}
}

// Register adds c to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) Notify(e events.Event) {
	data, err := json.Marshal(Envelope{Type: MsgEvent, Event: e})
	if err != nil {
		h.log.Error("encode event", "kind", e.Kind, "error", err)
		return
	}
	select {
	case h.broadcast <- broadcast{event: e, data: data}:
	default:
		h.dropped.Add(1)
	}
}

// Dropped counts events discarded because the broadcast buffer was full.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

// deliver disconnects clients that cannot keep up.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.Send <- data:
	default:
		h.log.Warn("spectator too slow, disconnecting", "player_id", c.PlayerID)
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.Send)
}

func mustEnvelope(e Envelope) []byte {
	data, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	return data
}
