package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/command-pidog/pidog-api/internal/log"
)

const (
	// writeWait is how long to wait for a write to complete
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound client messages
	maxMessageSize = 4 * 1024
)

// Client is one live WebSocket connection plus its channel subscriptions.
// New clients start subscribed to every channel.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// sendMu serializes enqueue against closeSend. A broadcast pass may
	// race a disconnect; once sendClosed is set, enqueue must refuse
	// rather than send on the closed channel.
	sendMu     sync.Mutex
	sendClosed bool

	mu       sync.RWMutex
	channels map[string]struct{}
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:       uuid.NewString(),
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 64), // buffered for backpressure
		channels: allChannels(),
	}
}

// SetChannels replaces the subscription set with the intersection of the
// requested names and the valid channel set.
func (c *Client) SetChannels(requested []string) {
	set := intersectValid(requested)
	c.mu.Lock()
	c.channels = set
	c.mu.Unlock()
	log.Info("client subscriptions updated", "component", "hub", "client", c.ID, "channels", requested)
}

// SubscribedTo reports whether the client is subscribed to channel.
func (c *Client) SubscribedTo(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.channels[channel]
	return ok
}

// enqueue hands a frame to the write pump without blocking. Returns false
// when the client is already disconnected or its buffer is full (slow or
// broken client).
func (c *Client) enqueue(payload []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// closeSend closes the outbound queue exactly once. Safe to race with
// enqueue.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return
	}
	c.sendClosed = true
	close(c.send)
}

// Run starts the write pump and blocks in the read pump until the
// connection closes. Call from the websocket handler goroutine.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump consumes client messages (subscription changes) and detects
// disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug("ignoring malformed client message", "component", "hub", "client", c.ID)
			continue
		}
		if msg.Type == "subscribe" {
			c.SetChannels(msg.Channels)
		}
	}
}

// writePump is the only goroutine writing to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub evicted us - send close frame
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
