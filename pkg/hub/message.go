// Package hub provides the WebSocket connection registry with per-client
// channel subscriptions and broadcast fan-out.
package hub

// Telemetry channel names a client may subscribe to.
const (
	ChannelSensors      = "sensors"
	ChannelActionStatus = "action_status"
	ChannelStatus       = "status"
	ChannelLogs         = "logs"
)

// ValidChannels is the set of recognized channel names.
var ValidChannels = map[string]struct{}{
	ChannelSensors:      {},
	ChannelActionStatus: {},
	ChannelStatus:       {},
	ChannelLogs:         {},
}

// Envelope wraps every broadcast payload.
type Envelope struct {
	Type      string  `json:"type"`
	Timestamp float64 `json:"timestamp"` // epoch seconds
	Data      any     `json:"data"`
}

// clientMessage is what clients may send us. The only recognized type is
// "subscribe", which replaces the subscription set.
type clientMessage struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

// allChannels returns a fresh subscription set covering every channel.
func allChannels() map[string]struct{} {
	set := make(map[string]struct{}, len(ValidChannels))
	for ch := range ValidChannels {
		set[ch] = struct{}{}
	}
	return set
}

// intersectValid keeps only recognized channel names; unknown names are
// silently dropped, not errored.
func intersectValid(requested []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, ch := range requested {
		if _, ok := ValidChannels[ch]; ok {
			set[ch] = struct{}{}
		}
	}
	return set
}
