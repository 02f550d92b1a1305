package dog

import (
	"math"
	"sync"
	"time"

	"github.com/command-pidog/pidog-api/internal/log"
)

// IMUData is the pitch/roll reading in degrees.
type IMUData struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// SensorData aggregates all sensor readings.
type SensorData struct {
	Distance       float64 `json:"distance"` // cm, -1 on sensor error
	IMU            IMUData `json:"imu"`
	Touch          string  `json:"touch"`           // N, L, R, LS, RS
	SoundDirection int     `json:"sound_direction"` // 0-355 degrees, -1 if none
}

// ServoPositions is the last commanded position of every servo.
type ServoPositions struct {
	Head []float64 `json:"head"` // [yaw, roll, pitch]
	Legs []float64 `json:"legs"` // 8 leg servo angles
	Tail []float64 `json:"tail"` // [tail angle]
}

// BatteryInfo is the pack voltage plus the derived low flag.
type BatteryInfo struct {
	Voltage float64 `json:"voltage"`
	Low     bool    `json:"low"`
}

// Status is the full aggregate robot status.
type Status struct {
	Battery       BatteryInfo    `json:"battery"`
	Posture       string         `json:"posture"`
	ActionState   FlowState      `json:"action_state"`
	CurrentAction *string        `json:"current_action"`
	QueueSize     int            `json:"queue_size"`
	Servos        ServoPositions `json:"servos"`
	Uptime        float64        `json:"uptime"` // seconds since service start
}

// Service is the single authoritative gateway to robot state. Every
// mutation holds one mutex for the duration of the hardware call, so at
// most one command is in flight at a time. Reads are unlocked snapshots;
// telemetry is advisory, not transactional.
type Service struct {
	dev        *Device
	flow       *Flow
	minVoltage float64
	start      time.Time

	mu sync.Mutex // serializes hardware mutations

	posMu sync.RWMutex
	head  [3]float64
	legs  [8]float64
	tail  float64
}

// NewService wraps a device and starts its action flow.
func NewService(dev *Device, minBatteryVoltage float64) *Service {
	s := &Service{
		dev:        dev,
		flow:       NewFlow(dev.Mover),
		minVoltage: minBatteryVoltage,
		start:      time.Now(),
		legs:       [8]float64{45, -45, -45, 45, 45, -45, -45, 45},
	}
	s.flow.Start()
	log.Info("robot service initialized", "component", "dog.service")
	return s
}

// NewMockService builds a Service on a fresh mock device.
func NewMockService(minBatteryVoltage float64) (*Service, *MockDevice) {
	mock := NewMockDevice()
	return NewService(mock.Device(), minBatteryVoltage), mock
}

// Flow exposes the action flow, mainly for tests that wait for the queue
// to drain.
func (s *Service) Flow() *Flow {
	return s.flow
}

// ExecuteActions queues the named actions in order and returns the
// accepted list. The queue drains asynchronously; progress is observable
// via GetQueueStatus.
func (s *Service) ExecuteActions(names []string, speed int) []string {
	s.mu.Lock()
	s.flow.Add(names, speed)
	s.mu.Unlock()
	log.Info("actions queued", "component", "dog.service", "actions", names, "speed", speed)
	return names
}

// SetHead moves the head servos and records the new position snapshot.
func (s *Service) SetHead(yaw, roll, pitch float64, speed int) error {
	s.mu.Lock()
	err := s.dev.Mover.MoveHead(yaw, roll, pitch, speed)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.posMu.Lock()
	s.head = [3]float64{yaw, roll, pitch}
	s.posMu.Unlock()
	log.Info("head moved", "component", "dog.service", "yaw", yaw, "roll", roll, "pitch", pitch)
	return nil
}

// SetLegs moves all 8 leg servos and records the new position snapshot.
func (s *Service) SetLegs(angles [8]float64, speed int) error {
	s.mu.Lock()
	err := s.dev.Mover.MoveLegs(angles, speed)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.posMu.Lock()
	s.legs = angles
	s.posMu.Unlock()
	log.Info("legs moved", "component", "dog.service", "speed", speed)
	return nil
}

// SetTail moves the tail servo and records the new position snapshot.
func (s *Service) SetTail(angle float64, speed int) error {
	s.mu.Lock()
	err := s.dev.Mover.MoveTail(angle, speed)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.posMu.Lock()
	s.tail = angle
	s.posMu.Unlock()
	log.Info("tail moved", "component", "dog.service", "angle", angle)
	return nil
}

// SetRGB delegates to the LED strip driver.
func (s *Service) SetRGB(style string, color [3]int, bps, brightness float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dev.RGB.SetMode(style, color, bps, brightness); err != nil {
		return err
	}
	log.Info("rgb mode set", "component", "dog.service", "style", style)
	return nil
}

// PlaySound plays a bundled sound. Fire-and-forget: the speaker is
// non-blocking and mutates no serialized state, so no lock is taken.
func (s *Service) PlaySound(name string, volume int) error {
	if err := s.dev.Speaker.Play(name, volume); err != nil {
		return err
	}
	log.Info("sound playing", "component", "dog.service", "name", name, "volume", volume)
	return nil
}

// EmergencyStop immediately halts movement, bypassing the queue, and
// clears all pending queue state.
func (s *Service) EmergencyStop() error {
	s.mu.Lock()
	err := s.dev.Mover.StopBody()
	s.mu.Unlock()
	s.flow.Clear()
	log.Warn("emergency stop executed", "component", "dog.service")
	return err
}

// GetSensorData returns a snapshot of all sensors. Absent optional
// modules read as their "nothing" values.
func (s *Service) GetSensorData() SensorData {
	pitch, roll := s.dev.Sensors.IMU()
	data := SensorData{
		Distance:       round2(s.dev.Sensors.Distance()),
		IMU:            IMUData{Pitch: round2(pitch), Roll: round2(roll)},
		Touch:          "N",
		SoundDirection: -1,
	}
	if s.dev.Touch != nil {
		data.Touch = s.dev.Touch.Read()
	}
	if s.dev.Ears != nil && s.dev.Ears.Detected() {
		data.SoundDirection = s.dev.Ears.Direction()
	}
	return data
}

// GetBattery returns the pack voltage and the derived low flag. Negative
// readings denote a sensor error and never count as low.
func (s *Service) GetBattery() BatteryInfo {
	voltage := round2(s.dev.Sensors.BatteryVoltage())
	return BatteryInfo{
		Voltage: voltage,
		Low:     voltage >= 0 && voltage < s.minVoltage,
	}
}

// GetServoPositions returns the last commanded servo positions.
func (s *Service) GetServoPositions() ServoPositions {
	s.posMu.RLock()
	defer s.posMu.RUnlock()
	return ServoPositions{
		Head: []float64{s.head[0], s.head[1], s.head[2]},
		Legs: append([]float64(nil), s.legs[:]...),
		Tail: []float64{s.tail},
	}
}

// GetQueueStatus returns the current action queue snapshot.
func (s *Service) GetQueueStatus() QueueStatus {
	return s.flow.Status()
}

// GetStatus returns the full aggregate status.
func (s *Service) GetStatus() Status {
	queue := s.flow.Status()
	return Status{
		Battery:       s.GetBattery(),
		Posture:       queue.Posture,
		ActionState:   queue.State,
		CurrentAction: queue.CurrentAction,
		QueueSize:     queue.QueueSize,
		Servos:        s.GetServoPositions(),
		Uptime:        math.Round(time.Since(s.start).Seconds()*10) / 10,
	}
}

// Close stops the action flow, then releases hardware resources. Call
// once at shutdown.
func (s *Service) Close() error {
	s.flow.Stop()
	if s.dev.Close != nil {
		if err := s.dev.Close(); err != nil {
			return err
		}
	}
	log.Info("robot service closed", "component", "dog.service")
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
