package motor

import (
	"testing"

	"github.com/mverne/LumeGo/internal/hw/gpio"
	"github.com/mverne/LumeGo/internal/logic/pid"
)

func newMockMotor() (*Motor, *gpio.MockDriver) {
	drv := gpio.NewMockDriver()
	m := NewMotor(drv, Config{ForwardPin: 1, ReversePin: 2, PWMPin: 3})
	return m, drv
}

// lastPWM returns the duty of the most recent WritePWM on a pin.
func lastPWM(t *testing.T, drv *gpio.MockDriver, pin int) int {
	t.Helper()
	duty := -1
	for _, op := range drv.Ops() {
		if op.Name == "WritePWM" && op.Pin == pin {
			duty = op.Value.(int)
		}
	}
	if duty < 0 {
		t.Fatalf("no WritePWM recorded on pin %d", pin)
	}
	return duty
}

// lastLevel returns the most recent level written to a pin.
func lastLevel(t *testing.T, drv *gpio.MockDriver, pin int) gpio.Level {
	t.Helper()
	var level gpio.Level
	found := false
	for _, op := range drv.Ops() {
		if op.Name == "WritePin" && op.Pin == pin {
			level = op.Value.(gpio.Level)
			found = true
		}
	}
	if !found {
		t.Fatalf("no WritePin recorded on pin %d", pin)
	}
	return level
}

func TestMotor_Forward(t *testing.T) {
	m, drv := newMockMotor()
	if err := m.Start(60); err != nil {
		t.Fatal(err)
	}
	if got := lastLevel(t, drv, 1); got != gpio.High {
		t.Error("forward pin should be high")
	}
	if got := lastLevel(t, drv, 2); got != gpio.Low {
		t.Error("reverse pin should be low")
	}
	if got := lastPWM(t, drv, 3); got != 60 {
		t.Errorf("duty = %d, want 60", got)
	}
}

func TestMotor_Reverse(t *testing.T) {
	m, drv := newMockMotor()
	if err := m.Start(-45); err != nil {
		t.Fatal(err)
	}
	if got := lastLevel(t, drv, 1); got != gpio.Low {
		t.Error("forward pin should be low")
	}
	if got := lastLevel(t, drv, 2); got != gpio.High {
		t.Error("reverse pin should be high")
	}
	if got := lastPWM(t, drv, 3); got != 45 {
		t.Errorf("duty = %d, want 45 (magnitude)", got)
	}
}

func TestMotor_ClampsPower(t *testing.T) {
	cases := []struct {
		power int
		duty  int
	}{
		{250, 100},
		{-250, 100},
		{100, 100},
		{1, 1},
	}
	for _, tc := range cases {
		m, drv := newMockMotor()
		if err := m.Start(tc.power); err != nil {
			t.Fatal(err)
		}
		if got := lastPWM(t, drv, 3); got != tc.duty {
			t.Errorf("Start(%d): duty = %d, want %d", tc.power, got, tc.duty)
		}
	}
}

func TestMotor_ZeroStops(t *testing.T) {
	m, drv := newMockMotor()
	if err := m.Start(0); err != nil {
		t.Fatal(err)
	}
	if got := lastLevel(t, drv, 1); got != gpio.Low {
		t.Error("forward pin should be low after Start(0)")
	}
	if got := lastLevel(t, drv, 2); got != gpio.Low {
		t.Error("reverse pin should be low after Start(0)")
	}
	if got := lastPWM(t, drv, 3); got != 0 {
		t.Errorf("duty = %d, want 0", got)
	}
}

func TestDrive_ForwardsCommand(t *testing.T) {
	drv := gpio.NewMockDriver()
	left := NewMotor(drv, Config{ForwardPin: 1, ReversePin: 2, PWMPin: 3})
	right := NewMotor(drv, Config{ForwardPin: 4, ReversePin: 5, PWMPin: 6})
	d := NewDrive(left, right)

	if err := d.Drive(pid.Command{Left: -30, Right: 30}); err != nil {
		t.Fatal(err)
	}
	if got := lastLevel(t, drv, 2); got != gpio.High {
		t.Error("left reverse pin should be high for negative power")
	}
	if got := lastPWM(t, drv, 3); got != 30 {
		t.Errorf("left duty = %d, want 30", got)
	}
	if got := lastLevel(t, drv, 4); got != gpio.High {
		t.Error("right forward pin should be high")
	}
	if got := lastPWM(t, drv, 6); got != 30 {
		t.Errorf("right duty = %d, want 30", got)
	}
}

func TestDrive_StopCutsBothWheels(t *testing.T) {
	drv := gpio.NewMockDriver()
	left := NewMotor(drv, Config{ForwardPin: 1, ReversePin: 2, PWMPin: 3})
	right := NewMotor(drv, Config{ForwardPin: 4, ReversePin: 5, PWMPin: 6})
	d := NewDrive(left, right)

	if err := d.Drive(pid.Command{Left: 50, Right: 50}); err != nil {
		t.Fatal(err)
	}
	if err := d.Stop(); err != nil {
		t.Fatal(err)
	}
	if got := lastPWM(t, drv, 3); got != 0 {
		t.Errorf("left duty = %d, want 0", got)
	}
	if got := lastPWM(t, drv, 6); got != 0 {
		t.Errorf("right duty = %d, want 0", got)
	}
}
