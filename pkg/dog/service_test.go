package dog

import (
	"reflect"
	"testing"
	"time"
)

func newTestService(t *testing.T) (*Service, *MockDevice) {
	t.Helper()
	svc, mock := NewMockService(6.5)
	t.Cleanup(func() { svc.Close() })
	return svc, mock
}

func TestExecuteActionsFIFO(t *testing.T) {
	svc, mock := newTestService(t)

	queued := svc.ExecuteActions([]string{"sit", "wag tail", "bark"}, 50)
	if !reflect.DeepEqual(queued, []string{"sit", "wag tail", "bark"}) {
		t.Fatalf("queued = %v", queued)
	}

	svc.Flow().Wait()
	if got := mock.Executed(); !reflect.DeepEqual(got, []string{"sit", "wag tail", "bark"}) {
		t.Errorf("executed = %v, want FIFO order", got)
	}
}

func TestQueueStateTransitions(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ActionDelay = 20 * time.Millisecond

	if st := svc.GetQueueStatus(); st.State != StateStandby {
		t.Fatalf("initial state = %v, want standby", st.State)
	}

	svc.ExecuteActions([]string{"wag tail", "bark"}, 50)

	// The drain goroutine should report "actions" while busy.
	deadline := time.After(time.Second)
	for {
		st := svc.GetQueueStatus()
		if st.State == StateActions {
			break
		}
		select {
		case <-deadline:
			t.Fatal("never observed actions state")
		case <-time.After(time.Millisecond):
		}
	}

	svc.Flow().Wait()
	if st := svc.GetQueueStatus(); st.State != StateActionsDone {
		t.Errorf("final state = %v, want actions_done", st.State)
	}
	if st := svc.GetQueueStatus(); st.CurrentAction != nil {
		t.Errorf("current action = %v, want nil", *st.CurrentAction)
	}
}

func TestPostureFollowsActions(t *testing.T) {
	svc, _ := newTestService(t)

	if p := svc.Flow().Posture(); p != "lie" {
		t.Fatalf("initial posture = %q, want lie", p)
	}

	svc.ExecuteActions([]string{"stand"}, 50)
	svc.Flow().Wait()
	if p := svc.Flow().Posture(); p != "stand" {
		t.Errorf("posture = %q, want stand", p)
	}

	svc.ExecuteActions([]string{"sit"}, 50)
	svc.Flow().Wait()
	if p := svc.Flow().Posture(); p != "sit" {
		t.Errorf("posture = %q, want sit", p)
	}
}

func TestEmergencyStopClearsQueue(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ActionDelay = 50 * time.Millisecond

	svc.ExecuteActions([]string{"forward", "forward", "forward", "forward"}, 50)
	if err := svc.EmergencyStop(); err != nil {
		t.Fatalf("EmergencyStop: %v", err)
	}

	svc.Flow().Wait()
	if got := len(mock.Executed()); got >= 4 {
		t.Errorf("executed %d actions after stop, want fewer than 4", got)
	}
	// Queue must be empty after the stop.
	if st := svc.GetQueueStatus(); st.QueueSize != 0 {
		t.Errorf("queue size = %d, want 0", st.QueueSize)
	}
}

func TestServoPositionSnapshots(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.SetHead(10, -5, -20, 60); err != nil {
		t.Fatalf("SetHead: %v", err)
	}
	if err := svc.SetTail(30, 50); err != nil {
		t.Fatalf("SetTail: %v", err)
	}
	legs := [8]float64{1, 2, 3, 4, 5, 6, 7, 8}
	if err := svc.SetLegs(legs, 50); err != nil {
		t.Fatalf("SetLegs: %v", err)
	}

	pos := svc.GetServoPositions()
	if !reflect.DeepEqual(pos.Head, []float64{10, -5, -20}) {
		t.Errorf("head = %v", pos.Head)
	}
	if !reflect.DeepEqual(pos.Tail, []float64{30}) {
		t.Errorf("tail = %v", pos.Tail)
	}
	if !reflect.DeepEqual(pos.Legs, []float64{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("legs = %v", pos.Legs)
	}
}

func TestDefaultLegPose(t *testing.T) {
	svc, _ := newTestService(t)
	pos := svc.GetServoPositions()
	want := []float64{45, -45, -45, 45, 45, -45, -45, 45}
	if !reflect.DeepEqual(pos.Legs, want) {
		t.Errorf("default legs = %v, want %v", pos.Legs, want)
	}
}

func TestBatteryLowDerivation(t *testing.T) {
	svc, mock := newTestService(t)

	if b := svc.GetBattery(); b.Low {
		t.Errorf("7.8V reported low")
	}

	mock.SetBatteryVoltage(6.0)
	if b := svc.GetBattery(); !b.Low {
		t.Errorf("6.0V not reported low")
	}

	// Negative voltage is a sensor error, never "low".
	mock.SetBatteryVoltage(-1.0)
	if b := svc.GetBattery(); b.Low {
		t.Errorf("-1.0V reported low, sensor errors must not trip the flag")
	}
}

func TestSensorSnapshot(t *testing.T) {
	svc, mock := newTestService(t)

	data := svc.GetSensorData()
	if data.Distance != 42.0 || data.Touch != "N" || data.SoundDirection != -1 {
		t.Errorf("unexpected default sensors: %+v", data)
	}

	mock.SetTouch("LS")
	mock.SetSound(true, 90)
	data = svc.GetSensorData()
	if data.Touch != "LS" || data.SoundDirection != 90 {
		t.Errorf("unexpected sensors after override: %+v", data)
	}
}

func TestStatusAggregate(t *testing.T) {
	svc, _ := newTestService(t)

	st := svc.GetStatus()
	if st.Battery.Voltage != 7.8 {
		t.Errorf("battery = %v", st.Battery.Voltage)
	}
	if st.Posture != "lie" || st.ActionState != StateStandby {
		t.Errorf("posture=%q state=%q", st.Posture, st.ActionState)
	}
	if st.Uptime < 0 {
		t.Errorf("uptime = %v", st.Uptime)
	}
}
