package dog

import (
	"sync"

	"github.com/command-pidog/pidog-api/internal/log"
)

// FlowState is the externally observable state of the action queue.
type FlowState string

const (
	StateStandby     FlowState = "standby"
	StateThink       FlowState = "think"
	StateActions     FlowState = "actions"
	StateActionsDone FlowState = "actions_done"
)

// QueueStatus is a snapshot of the action flow.
type QueueStatus struct {
	State         FlowState `json:"state"`
	CurrentAction *string   `json:"current_action"`
	QueueSize     int       `json:"queue_size"`
	Posture       string    `json:"posture"`
}

type queuedAction struct {
	name  string
	speed int
}

// Flow drains queued actions through the mover on a background goroutine.
// Queued actions execute in FIFO order; state transitions
// standby -> actions -> actions_done are observable via Status while the
// queue drains. Both the real driver and the mock share this path.
type Flow struct {
	mover Mover

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []queuedAction
	current string
	state   FlowState
	posture string
	stopped bool

	done chan struct{}
}

// NewFlow creates a flow for the given mover. Start must be called before
// actions are queued.
func NewFlow(mover Mover) *Flow {
	f := &Flow{
		mover:   mover,
		state:   StateStandby,
		posture: "lie",
		done:    make(chan struct{}),
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Start launches the drain goroutine.
func (f *Flow) Start() {
	go f.run()
	log.Info("action flow started", "component", "dog.flow")
}

// Stop discards pending actions and terminates the drain goroutine after
// any in-flight action completes. Call once at shutdown.
func (f *Flow) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.queue = nil
	f.cond.Broadcast()
	f.mu.Unlock()
	<-f.done
	log.Info("action flow stopped", "component", "dog.flow")
}

// Add queues actions for execution in order.
func (f *Flow) Add(names []string, speed int) {
	f.mu.Lock()
	for _, name := range names {
		f.queue = append(f.queue, queuedAction{name: name, speed: speed})
	}
	f.cond.Broadcast()
	f.mu.Unlock()
}

// Clear discards all pending actions and resets the state to standby.
// An in-flight action is not interrupted; the caller stops the body
// separately.
func (f *Flow) Clear() {
	f.mu.Lock()
	f.queue = nil
	f.state = StateStandby
	f.cond.Broadcast()
	f.mu.Unlock()
}

// Wait blocks until the queue is drained and no action is in flight.
func (f *Flow) Wait() {
	f.mu.Lock()
	for len(f.queue) > 0 || f.current != "" {
		f.cond.Wait()
	}
	f.mu.Unlock()
}

// Status returns a snapshot of the flow.
func (f *Flow) Status() QueueStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := QueueStatus{
		State:     f.state,
		QueueSize: len(f.queue),
		Posture:   f.posture,
	}
	if f.current != "" {
		current := f.current
		st.CurrentAction = &current
	}
	return st
}

// Posture returns the current gross body position.
func (f *Flow) Posture() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posture
}

func (f *Flow) run() {
	defer close(f.done)
	for {
		f.mu.Lock()
		for len(f.queue) == 0 && !f.stopped {
			f.cond.Wait()
		}
		if f.stopped {
			f.mu.Unlock()
			return
		}
		item := f.queue[0]
		f.queue = f.queue[1:]
		f.state = StateActions
		f.current = item.name
		f.mu.Unlock()

		if err := f.mover.DoAction(item.name, item.speed); err != nil {
			log.Error("action failed", "component", "dog.flow", "action", item.name, "error", err)
		}

		f.mu.Lock()
		f.applyPosture(item.name)
		f.current = ""
		if len(f.queue) == 0 && f.state == StateActions {
			f.state = StateActionsDone
		}
		f.cond.Broadcast()
		f.mu.Unlock()
	}
}

// applyPosture tracks posture changes caused by postural actions.
// Caller holds f.mu.
func (f *Flow) applyPosture(action string) {
	switch action {
	case "stand", "push up", "bark harder":
		f.posture = "stand"
	case "sit", "howling":
		f.posture = "sit"
	case "lie", "doze off":
		f.posture = "lie"
	}
}
