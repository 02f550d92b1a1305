// Package safety is the validation layer in front of every actuator
// command. Requests that violate a constraint fail with *safety.Error (a
// client fault, mapped to HTTP 422 by the web layer) before any hardware
// call is made. All checks are stateless except the sliding-window action
// rate counter.
package safety

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/command-pidog/pidog-api/pkg/actions"
	"github.com/command-pidog/pidog-api/pkg/dog"
)

// Servo travel limits in degrees, mirroring the physical hardware.
var (
	HeadYawRange   = [2]float64{-90, 90}
	HeadRollRange  = [2]float64{-70, 70}
	HeadPitchRange = [2]float64{-45, 30}
	TailRange      = [2]float64{-90, 90}
	SpeedRange     = [2]int{0, 100}
)

// Error is a safety constraint violation.
type Error struct {
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func errf(format string, args ...any) *Error {
	return &Error{Detail: fmt.Sprintf(format, args...)}
}

// Validator checks every hardware command against physical limits, the
// action catalog, and the battery/rate safety gates.
type Validator struct {
	minBatteryVoltage float64
	maxActionRate     int

	mu     sync.Mutex
	window []time.Time

	now func() time.Time // monotonic clock, overridable in tests
}

// NewValidator creates a validator with the given battery threshold and
// process-wide action rate limit (accepted requests per second).
func NewValidator(minBatteryVoltage float64, maxActionRate int) *Validator {
	return &Validator{
		minBatteryVoltage: minBatteryVoltage,
		maxActionRate:     maxActionRate,
		now:               time.Now,
	}
}

// ValidateActions checks every name against the action catalog. The error
// lists all invalid names plus the full valid set, not just the first
// failure.
func (v *Validator) ValidateActions(names []string) error {
	var invalid []string
	for _, name := range names {
		if !actions.Exists(name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return errf("Unknown actions: [%s]. Valid actions: [%s]",
			strings.Join(invalid, ", "), strings.Join(actions.Names(), ", "))
	}
	return nil
}

// ValidateHead checks head angles against servo travel limits. Each axis
// is checked independently; the first violated bound is reported.
func (v *Validator) ValidateHead(yaw, roll, pitch float64) error {
	if yaw < HeadYawRange[0] || yaw > HeadYawRange[1] {
		return errf("Head yaw %g° out of range [%g, %g]", yaw, HeadYawRange[0], HeadYawRange[1])
	}
	if roll < HeadRollRange[0] || roll > HeadRollRange[1] {
		return errf("Head roll %g° out of range [%g, %g]", roll, HeadRollRange[0], HeadRollRange[1])
	}
	if pitch < HeadPitchRange[0] || pitch > HeadPitchRange[1] {
		return errf("Head pitch %g° out of range [%g, %g]", pitch, HeadPitchRange[0], HeadPitchRange[1])
	}
	return nil
}

// ValidateTail checks the tail angle against servo travel limits.
func (v *Validator) ValidateTail(angle float64) error {
	if angle < TailRange[0] || angle > TailRange[1] {
		return errf("Tail angle %g° out of range [%g, %g]", angle, TailRange[0], TailRange[1])
	}
	return nil
}

// ValidateSpeed checks movement speed for all movement commands.
func (v *Validator) ValidateSpeed(speed int) error {
	if speed < SpeedRange[0] || speed > SpeedRange[1] {
		return errf("Speed %d out of range [%d, %d]", speed, SpeedRange[0], SpeedRange[1])
	}
	return nil
}

// ValidateBattery rejects movement when the battery is low. Non-positive
// readings denote a sensor error ("unavailable", not "low") and pass.
func (v *Validator) ValidateBattery(voltage float64) error {
	if voltage > 0 && voltage < v.minBatteryVoltage {
		return errf("Battery too low (%gV). Minimum: %gV. Charge the battery before executing movement commands.",
			voltage, v.minBatteryVoltage)
	}
	return nil
}

// ValidateRGBStyle checks the style against the fixed style set.
func (v *Validator) ValidateRGBStyle(style string) error {
	if !dog.ValidRGBStyle(style) {
		return errf("Unknown RGB style %q. Valid: [%s]", style, strings.Join(dog.RGBStyles, ", "))
	}
	return nil
}

// CheckRateLimit enforces the process-wide sliding 1-second window over
// all action-execute requests. Timestamps older than one second are
// dropped from the front; when the window is full the call fails without
// being recorded, otherwise it records now and succeeds.
func (v *Validator) CheckRateLimit() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	cutoff := now.Add(-time.Second)
	keep := 0
	for keep < len(v.window) && !v.window[keep].After(cutoff) {
		keep++
	}
	v.window = v.window[keep:]

	if len(v.window) >= v.maxActionRate {
		return errf("Rate limit exceeded: max %d action requests/second", v.maxActionRate)
	}
	v.window = append(v.window, now)
	return nil
}
