package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/command-pidog/pidog-api/internal/log"
	"github.com/command-pidog/pidog-api/pkg/dog"
)

type fakeSource struct {
	mu     sync.Mutex
	panics bool
}

func (f *fakeSource) GetSensorData() dog.SensorData {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("sensor bus glitch")
	}
	return dog.SensorData{Distance: 42}
}

func (f *fakeSource) GetQueueStatus() dog.QueueStatus {
	return dog.QueueStatus{State: dog.StateStandby, Posture: "lie"}
}

func (f *fakeSource) GetStatus() dog.Status {
	return dog.Status{Posture: "lie"}
}

type recordingSink struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingSink) Broadcast(channel string, data any) {
	r.mu.Lock()
	r.calls = append(r.calls, channel)
	r.mu.Unlock()
}

func (r *recordingSink) count(channel string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ch := range r.calls {
		if ch == channel {
			n++
		}
	}
	return n
}

func TestStreamCadence(t *testing.T) {
	source := &fakeSource{}
	sink := &recordingSink{}
	// 100Hz sensors, 10Hz status: over ~100ms expect many sensor ticks
	// but far fewer status broadcasts.
	stream := NewStream(source, sink, 100, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		stream.Run(ctx)
		close(done)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop promptly after cancel")
	}

	sensors := sink.count("sensors")
	actions := sink.count("action_status")
	status := sink.count("status")

	if sensors < 5 {
		t.Errorf("sensors broadcast %d times, want several", sensors)
	}
	if actions != sensors {
		t.Errorf("action_status %d != sensors %d; both run every tick", actions, sensors)
	}
	if status == 0 || status >= sensors {
		t.Errorf("status broadcast %d times against %d sensor ticks", status, sensors)
	}
}

func TestStreamSurvivesPanicsAndBacksOff(t *testing.T) {
	source := &fakeSource{panics: true}
	sink := &recordingSink{}
	stream := NewStream(source, sink, 100, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		stream.Run(ctx)
		close(done)
	}()

	// Let a failing tick happen, then heal the source.
	time.Sleep(30 * time.Millisecond)
	source.mu.Lock()
	source.panics = false
	source.mu.Unlock()

	// Backoff after the failed tick is 1s; wait past it.
	time.Sleep(1100 * time.Millisecond)
	cancel()
	<-done

	if sink.count("sensors") == 0 {
		t.Error("stream never recovered after tick failure")
	}
}

func TestStreamForwardsLogs(t *testing.T) {
	source := &fakeSource{}
	sink := &recordingSink{}
	stream := NewStream(source, sink, 100, 10)

	entries := make(chan log.Entry, 4)
	stream.ForwardLogs(entries)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		stream.Run(ctx)
		close(done)
	}()

	entries <- log.Entry{Level: "INFO", Message: "hello"}
	entries <- log.Entry{Level: "ERROR", Message: "world"}

	deadline := time.After(time.Second)
	for sink.count("logs") < 2 {
		select {
		case <-deadline:
			t.Fatal("log entries not forwarded")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}
