package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/command-pidog/pidog-api/internal/log"
)

// Hub is the registry of live WebSocket connections. The registry lock is
// held only for short read/modify/write sections, never across a network
// send; actual writes happen on each client's write pump.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

// Connect registers a new connection, subscribed to all channels by
// default, and returns its client. The caller runs client.Run().
func (h *Hub) Connect(conn *websocket.Conn) *Client {
	c := newClient(h, conn)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	log.Info("websocket connected", "component", "hub", "client", c.ID, "total", count)
	return c
}

// Disconnect removes a client from the registry. Safe to call multiple
// times; repeated calls are no-ops.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.closeSend()
		log.Info("websocket disconnected", "component", "hub", "client", c.ID, "total", count)
	}
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends data to every client subscribed to channel, wrapped in
// the {type, timestamp, data} envelope. Clients whose send buffer is full
// are treated as stale and evicted after the pass completes; the registry
// is never mutated while iterating it.
func (h *Hub) Broadcast(channel string, data any) {
	payload, err := json.Marshal(Envelope{
		Type:      channel,
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
		Data:      data,
	})
	if err != nil {
		log.Error("broadcast marshal failed", "component", "hub", "channel", channel, "error", err)
		return
	}

	h.mu.RLock()
	snapshot := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	var stale []*Client
	for _, c := range snapshot {
		if !c.SubscribedTo(channel) {
			continue
		}
		if !c.enqueue(payload) {
			stale = append(stale, c)
		}
	}

	for _, c := range stale {
		log.Warn("dropping slow websocket client", "component", "hub", "client", c.ID)
		h.Disconnect(c)
	}
}
