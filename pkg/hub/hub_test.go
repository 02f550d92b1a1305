package hub

import (
	"encoding/json"
	"testing"
)

// register adds a connection-less client directly, good enough for
// exercising registry and fan-out logic without sockets.
func register(h *Hub) *Client {
	c := newClient(h, nil)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func drain(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case payload := <-c.send:
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		return env
	default:
		t.Fatal("no payload queued")
		return Envelope{}
	}
}

func TestDefaultSubscriptionIsAllChannels(t *testing.T) {
	h := New()
	c := register(h)
	for ch := range ValidChannels {
		if !c.SubscribedTo(ch) {
			t.Errorf("new client not subscribed to %q", ch)
		}
	}
}

func TestBroadcastEnvelope(t *testing.T) {
	h := New()
	c := register(h)

	h.Broadcast(ChannelSensors, map[string]any{"distance": 42.0})

	env := drain(t, c)
	if env.Type != ChannelSensors {
		t.Errorf("type = %q", env.Type)
	}
	if env.Timestamp <= 0 {
		t.Errorf("timestamp = %v", env.Timestamp)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["distance"] != 42.0 {
		t.Errorf("data = %#v", env.Data)
	}
}

func TestSubscriptionFiltering(t *testing.T) {
	h := New()
	logsOnly := register(h)
	all := register(h)

	logsOnly.SetChannels([]string{"logs"})

	h.Broadcast(ChannelSensors, "s")
	h.Broadcast(ChannelLogs, "l")

	// logs-only client sees only the logs broadcast.
	env := drain(t, logsOnly)
	if env.Type != ChannelLogs {
		t.Errorf("logs-only client got %q", env.Type)
	}
	select {
	case extra := <-logsOnly.send:
		t.Errorf("logs-only client got extra payload: %s", extra)
	default:
	}

	// The unfiltered client sees both, in issue order.
	if env := drain(t, all); env.Type != ChannelSensors {
		t.Errorf("first broadcast = %q, want sensors", env.Type)
	}
	if env := drain(t, all); env.Type != ChannelLogs {
		t.Errorf("second broadcast = %q, want logs", env.Type)
	}
}

func TestSubscribeDropsUnknownChannels(t *testing.T) {
	h := New()
	c := register(h)

	c.SetChannels([]string{"logs", "warp_core", "sensors"})
	if !c.SubscribedTo(ChannelLogs) || !c.SubscribedTo(ChannelSensors) {
		t.Error("valid channels dropped")
	}
	if c.SubscribedTo("warp_core") {
		t.Error("unknown channel retained")
	}
	if c.SubscribedTo(ChannelStatus) {
		t.Error("subscribe must replace, not extend, the set")
	}
}

func TestSlowClientEvicted(t *testing.T) {
	h := New()
	slow := register(h)
	healthy := register(h)

	// Fill the slow client's buffer so the next broadcast cannot enqueue.
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- []byte("{}")
	}

	h.Broadcast(ChannelStatus, "s")

	if h.ClientCount() != 1 {
		t.Fatalf("client count = %d, want 1 after eviction", h.ClientCount())
	}
	if env := drain(t, healthy); env.Type != ChannelStatus {
		t.Errorf("healthy client got %q", env.Type)
	}

	// Evicted clients receive nothing further.
	h.Broadcast(ChannelStatus, "again")
	seen := 0
	for {
		select {
		case _, ok := <-slow.send:
			if !ok {
				if seen != cap(slow.send) {
					t.Errorf("slow client drained %d payloads, want %d pre-fill only", seen, cap(slow.send))
				}
				return
			}
			seen++
		default:
			t.Fatal("slow client send channel not closed after eviction")
		}
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	h := New()
	c := register(h)

	h.Disconnect(c)
	h.Disconnect(c) // second call must be a no-op
	if h.ClientCount() != 0 {
		t.Errorf("client count = %d", h.ClientCount())
	}
}

// A broadcast pass snapshots the registry before sending, so a client can
// be disconnected between the snapshot and its enqueue. The enqueue must
// refuse quietly, never send on the closed channel.
func TestEnqueueAfterDisconnect(t *testing.T) {
	h := New()
	c := register(h)

	h.Disconnect(c)
	if c.enqueue([]byte(`{}`)) {
		t.Error("enqueue after disconnect reported success")
	}
}

func TestBroadcastDuringDisconnect(t *testing.T) {
	h := New()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			c := register(h)
			h.Broadcast(ChannelSensors, i)
			h.Disconnect(c)
		}
	}()

	for i := 0; i < 2000; i++ {
		h.Broadcast(ChannelLogs, i)
	}
	<-done
}
