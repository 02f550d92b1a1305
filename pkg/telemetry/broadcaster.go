// Package telemetry runs the background loop that multiplexes robot
// state onto the hub's channels: sensors and action_status every tick,
// the full status at a slower cadence, and log entries as they arrive.
package telemetry

import (
	"context"
	"time"

	"github.com/command-pidog/pidog-api/internal/log"
	"github.com/command-pidog/pidog-api/pkg/dog"
	"github.com/command-pidog/pidog-api/pkg/hub"
)

// Source is the read-only robot state consumed each tick.
type Source interface {
	GetSensorData() dog.SensorData
	GetQueueStatus() dog.QueueStatus
	GetStatus() dog.Status
}

// Sink receives the broadcasts, normally *hub.Hub.
type Sink interface {
	Broadcast(channel string, data any)
}

// Stream is the telemetry broadcaster. One instance runs for the process
// lifetime: started at boot, cancelled at shutdown.
type Stream struct {
	source Source
	sink   Sink

	sensorInterval time.Duration
	statusInterval time.Duration

	logs <-chan log.Entry // nil disables log forwarding
}

// NewStream creates a broadcaster polling at sensorHz with full status
// at statusHz.
func NewStream(source Source, sink Sink, sensorHz, statusHz float64) *Stream {
	if sensorHz <= 0 {
		sensorHz = 5.0
	}
	if statusHz <= 0 {
		statusHz = 0.2
	}
	return &Stream{
		source:         source,
		sink:           sink,
		sensorInterval: time.Duration(float64(time.Second) / sensorHz),
		statusInterval: time.Duration(float64(time.Second) / statusHz),
	}
}

// ForwardLogs attaches the bounded log entry channel; each entry is
// pushed on the "logs" channel as it arrives. Call before Run.
func (s *Stream) ForwardLogs(entries <-chan log.Entry) {
	s.logs = entries
}

// Run blocks until ctx is cancelled, broadcasting on every tick. A
// panicking tick is logged and retried after a 1-second backoff; the
// loop only terminates through cancellation.
func (s *Stream) Run(ctx context.Context) {
	log.Info("telemetry stream started", "component", "telemetry",
		"sensor_interval", s.sensorInterval, "status_interval", s.statusInterval)

	if s.logs != nil {
		go s.forwardLogs(ctx)
	}

	lastStatus := time.Time{}
	for {
		backoff := s.safeTick(&lastStatus)

		wait := s.sensorInterval
		if backoff {
			wait = time.Second
		}
		select {
		case <-ctx.Done():
			log.Info("telemetry stream stopped", "component", "telemetry")
			return
		case <-time.After(wait):
		}
	}
}

// safeTick runs one tick, converting a panic into a logged error plus a
// request for backoff.
func (s *Stream) safeTick(lastStatus *time.Time) (backoff bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("telemetry tick failed", "component", "telemetry", "panic", r)
			backoff = true
		}
	}()

	s.sink.Broadcast(hub.ChannelSensors, s.source.GetSensorData())
	s.sink.Broadcast(hub.ChannelActionStatus, s.source.GetQueueStatus())

	if time.Since(*lastStatus) >= s.statusInterval {
		s.sink.Broadcast(hub.ChannelStatus, s.source.GetStatus())
		*lastStatus = time.Now()
	}
	return false
}

func (s *Stream) forwardLogs(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-s.logs:
			s.sink.Broadcast(hub.ChannelLogs, entry)
		}
	}
}
