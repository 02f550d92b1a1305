package dog

import (
	"sync"
	"time"

	"github.com/command-pidog/pidog-api/internal/log"
)

// MockDevice simulates PiDog hardware in memory so the service layer and
// its tests run without I2C/GPIO. It satisfies every capability interface
// including the optional touch and ears modules.
type MockDevice struct {
	mu sync.Mutex

	// Simulated sensor values, settable from tests.
	distance  float64
	voltage   float64
	pitch     float64
	roll      float64
	touch     string
	soundDir  int
	soundSeen bool

	// ActionDelay is how long each DoAction call takes, giving the flow's
	// status transitions an observable window. Zero means instant.
	ActionDelay time.Duration

	executed []string // actions run, in order
}

// NewMockDevice returns a mock with the simulated defaults of an idle,
// healthy robot.
func NewMockDevice() *MockDevice {
	return &MockDevice{
		distance: 42.0,
		voltage:  7.8,
		touch:    "N",
		soundDir: -1,
	}
}

// Device wraps the mock in a capability Device.
func (m *MockDevice) Device() *Device {
	return &Device{
		Mover:   m,
		Sensors: m,
		Touch:   m,
		Ears:    m,
		RGB:     m,
		Speaker: m,
		Close: func() error {
			log.Debug("mock device closed", "component", "dog.mock")
			return nil
		},
	}
}

func (m *MockDevice) DoAction(name string, speed int) error {
	if m.ActionDelay > 0 {
		time.Sleep(m.ActionDelay)
	}
	m.mu.Lock()
	m.executed = append(m.executed, name)
	m.mu.Unlock()
	log.Debug("mock action", "component", "dog.mock", "action", name, "speed", speed)
	return nil
}

func (m *MockDevice) MoveHead(yaw, roll, pitch float64, speed int) error {
	log.Debug("mock head move", "component", "dog.mock", "yaw", yaw, "roll", roll, "pitch", pitch)
	return nil
}

func (m *MockDevice) MoveLegs(angles [8]float64, speed int) error {
	log.Debug("mock legs move", "component", "dog.mock", "speed", speed)
	return nil
}

func (m *MockDevice) MoveTail(angle float64, speed int) error {
	log.Debug("mock tail move", "component", "dog.mock", "angle", angle)
	return nil
}

func (m *MockDevice) StopBody() error {
	log.Debug("mock body stop", "component", "dog.mock")
	return nil
}

func (m *MockDevice) Distance() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.distance
}

func (m *MockDevice) IMU() (pitch, roll float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pitch, m.roll
}

func (m *MockDevice) BatteryVoltage() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.voltage
}

func (m *MockDevice) Read() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.touch
}

func (m *MockDevice) Detected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.soundSeen
}

func (m *MockDevice) Direction() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.soundDir
}

func (m *MockDevice) SetMode(style string, color [3]int, bps, brightness float64) error {
	log.Debug("mock rgb", "component", "dog.mock", "style", style, "bps", bps)
	return nil
}

func (m *MockDevice) Play(name string, volume int) error {
	log.Debug("mock sound", "component", "dog.mock", "name", name, "volume", volume)
	return nil
}

// SetBatteryVoltage overrides the simulated battery reading.
func (m *MockDevice) SetBatteryVoltage(v float64) {
	m.mu.Lock()
	m.voltage = v
	m.mu.Unlock()
}

// SetDistance overrides the simulated ultrasonic reading.
func (m *MockDevice) SetDistance(d float64) {
	m.mu.Lock()
	m.distance = d
	m.mu.Unlock()
}

// SetTouch overrides the simulated touch state.
func (m *MockDevice) SetTouch(state string) {
	m.mu.Lock()
	m.touch = state
	m.mu.Unlock()
}

// SetSound overrides the simulated sound-direction reading.
func (m *MockDevice) SetSound(detected bool, direction int) {
	m.mu.Lock()
	m.soundSeen = detected
	m.soundDir = direction
	m.mu.Unlock()
}

// Executed returns the actions run so far, in execution order.
func (m *MockDevice) Executed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.executed))
	copy(out, m.executed)
	return out
}
