package safety

import (
	"strings"
	"testing"
	"time"

	"github.com/command-pidog/pidog-api/pkg/actions"
)

func newValidator() *Validator {
	return NewValidator(6.5, 10)
}

func TestValidateActionsCatalog(t *testing.T) {
	v := newValidator()

	// Every catalog entry passes.
	if err := v.ValidateActions(actions.Names()); err != nil {
		t.Fatalf("catalog names rejected: %v", err)
	}

	// Any unknown name fails, even mixed with valid ones.
	err := v.ValidateActions([]string{"wag tail", "fly away", "teleport"})
	if err == nil {
		t.Fatal("expected error for unknown actions")
	}
	if !strings.Contains(err.Error(), "fly away") || !strings.Contains(err.Error(), "teleport") {
		t.Errorf("error should list every invalid name: %v", err)
	}
	if !strings.Contains(err.Error(), "wag tail") {
		t.Errorf("error should include the valid set: %v", err)
	}
}

func TestValidateHeadBounds(t *testing.T) {
	v := newValidator()

	cases := []struct {
		name             string
		yaw, roll, pitch float64
		ok               bool
	}{
		{"center", 0, 0, 0, true},
		{"yaw max", 90, 0, 0, true},
		{"yaw over", 91, 0, 0, false},
		{"yaw min", -90, 0, 0, true},
		{"yaw under", -91, 0, 0, false},
		{"roll max", 0, 70, 0, true},
		{"roll over", 0, 71, 0, false},
		{"pitch max", 0, 0, 30, true},
		{"pitch over", 0, 0, 31, false},
		{"pitch min", 0, 0, -45, true},
		{"pitch under", 0, 0, -46, false},
	}
	for _, tc := range cases {
		err := v.ValidateHead(tc.yaw, tc.roll, tc.pitch)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestValidateTail(t *testing.T) {
	v := newValidator()
	if err := v.ValidateTail(-90); err != nil {
		t.Errorf("-90 rejected: %v", err)
	}
	if err := v.ValidateTail(90.5); err == nil {
		t.Error("90.5 accepted")
	}
}

func TestValidateSpeed(t *testing.T) {
	v := newValidator()
	for _, speed := range []int{0, 50, 100} {
		if err := v.ValidateSpeed(speed); err != nil {
			t.Errorf("speed %d rejected: %v", speed, err)
		}
	}
	for _, speed := range []int{-1, 101} {
		if err := v.ValidateSpeed(speed); err == nil {
			t.Errorf("speed %d accepted", speed)
		}
	}
}

func TestValidateBattery(t *testing.T) {
	v := newValidator()

	// Boundary is inclusive-low: exactly the minimum passes.
	if err := v.ValidateBattery(6.5); err != nil {
		t.Errorf("6.5V rejected: %v", err)
	}
	if err := v.ValidateBattery(6.0); err == nil {
		t.Error("6.0V accepted")
	}
	// Sensor-error bypass: non-positive readings pass.
	if err := v.ValidateBattery(-1.0); err != nil {
		t.Errorf("-1.0V rejected: %v", err)
	}
	if err := v.ValidateBattery(0); err != nil {
		t.Errorf("0V rejected: %v", err)
	}
}

func TestValidateRGBStyle(t *testing.T) {
	v := newValidator()
	for _, style := range []string{"monochromatic", "breath", "boom", "bark", "speak", "listen"} {
		if err := v.ValidateRGBStyle(style); err != nil {
			t.Errorf("style %q rejected: %v", style, err)
		}
	}
	if err := v.ValidateRGBStyle("disco"); err == nil {
		t.Error(`style "disco" accepted`)
	}
}

func TestRateLimitWindow(t *testing.T) {
	v := NewValidator(6.5, 3)
	clock := time.Now()
	v.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if err := v.CheckRateLimit(); err != nil {
			t.Fatalf("call %d rejected: %v", i+1, err)
		}
	}
	// Fourth call inside the same window fails and is not recorded.
	if err := v.CheckRateLimit(); err == nil {
		t.Fatal("fourth call within window accepted")
	}

	// After the window slides past, calls succeed again.
	clock = clock.Add(1100 * time.Millisecond)
	if err := v.CheckRateLimit(); err != nil {
		t.Fatalf("call after window rejected: %v", err)
	}
}

func TestRateLimitRejectedCallsNotRecorded(t *testing.T) {
	v := NewValidator(6.5, 1)
	clock := time.Now()
	v.now = func() time.Time { return clock }

	if err := v.CheckRateLimit(); err != nil {
		t.Fatal(err)
	}
	// Hammer the limiter; rejections must not extend the window.
	for i := 0; i < 5; i++ {
		clock = clock.Add(100 * time.Millisecond)
		if err := v.CheckRateLimit(); err == nil {
			t.Fatal("expected rejection inside window")
		}
	}
	clock = clock.Add(600 * time.Millisecond) // > 1s after the accepted call
	if err := v.CheckRateLimit(); err != nil {
		t.Errorf("rejected after window passed: %v", err)
	}
}
