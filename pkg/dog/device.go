// Package dog provides the robot state service: the single serialized
// gateway to PiDog hardware (real or simulated), the asynchronous action
// flow, and the snapshot read model consumed by the API and telemetry.
//
// Hardware access is split into small capability interfaces so consumers
// depend only on what they use; optional sensors are explicit fields on
// Device rather than runtime attribute probing.
package dog

// Mover drives the servos and executes named actions.
type Mover interface {
	// DoAction runs one catalog action to completion.
	DoAction(name string, speed int) error

	// MoveHead sets head yaw, roll, pitch in degrees.
	MoveHead(yaw, roll, pitch float64, speed int) error

	// MoveLegs sets all 8 leg servo angles in degrees.
	MoveLegs(angles [8]float64, speed int) error

	// MoveTail sets the tail angle in degrees.
	MoveTail(angle float64, speed int) error

	// StopBody halts all in-flight movement immediately.
	StopBody() error
}

// BaseSensors are present on every PiDog.
type BaseSensors interface {
	// Distance returns the ultrasonic reading in cm, negative on sensor error.
	Distance() float64

	// IMU returns pitch and roll in degrees.
	IMU() (pitch, roll float64)

	// BatteryVoltage returns the pack voltage in volts, negative on sensor error.
	BatteryVoltage() float64
}

// TouchSensor is the dual-touch module on the head.
// States: N (none), L, R, LS, RS.
type TouchSensor interface {
	Read() string
}

// SoundSensor is the sound-direction module in the ears.
type SoundSensor interface {
	Detected() bool
	Direction() int // 0-355 degrees, -1 when nothing detected
}

// RGBStrip is the LED strip driver.
type RGBStrip interface {
	SetMode(style string, color [3]int, bps, brightness float64) error
}

// Speaker plays bundled sound files. Play is non-blocking.
type Speaker interface {
	Play(name string, volume int) error
}

// Device bundles the hardware capabilities of one robot. Touch and Ears
// are nil when the corresponding module is absent.
type Device struct {
	Mover   Mover
	Sensors BaseSensors
	Touch   TouchSensor // optional
	Ears    SoundSensor // optional
	RGB     RGBStrip
	Speaker Speaker

	// Close releases hardware resources. May be nil for devices that
	// need no teardown.
	Close func() error
}
