// Package motor drives the two DC wheel motors through an H-bridge:
// two direction pins select forward/reverse, a PWM pin sets the speed.
package motor

import (
	"github.com/mverne/LumeGo/internal/debug"
	"github.com/mverne/LumeGo/internal/hw/gpio"
)

// maxPower is the largest magnitude accepted by Start; larger values
// are clamped. It maps to a 100% PWM duty cycle.
const maxPower = 100

// Config holds the hardware configuration for one motor.
type Config struct {
	ForwardPin int // H-bridge input A (BCM)
	ReversePin int // H-bridge input B (BCM)
	PWMPin     int // H-bridge enable pin, hardware PWM capable
}

// Motor controls a single DC motor.
type Motor struct {
	gpio gpio.Driver
	cfg  Config
}

// NewMotor creates a motor controller and puts the bridge in a safe
// stopped state.
func NewMotor(g gpio.Driver, cfg Config) *Motor {
	_ = g.SetupPin(cfg.ForwardPin, gpio.Output)
	_ = g.SetupPin(cfg.ReversePin, gpio.Output)
	_ = g.SetupPin(cfg.PWMPin, gpio.PWM)

	m := &Motor{gpio: g, cfg: cfg}
	_ = m.Stop()
	return m
}

// Start runs the motor at a signed power level. Positive is forward,
// negative reverse, zero stops. Magnitudes above 100 are clamped.
func (m *Motor) Start(power int) error {
	if power == 0 {
		return m.Stop()
	}

	forward := power > 0
	if !forward {
		power = -power
	}
	if power > maxPower {
		power = maxPower
	}

	direction := "forward"
	if !forward {
		direction = "reverse"
	}
	debug.Trace("Motor pwm=%d: %s at %d%%", m.cfg.PWMPin, direction, power)

	if err := m.gpio.WritePin(m.cfg.ForwardPin, gpio.Level(forward)); err != nil {
		return err
	}
	if err := m.gpio.WritePin(m.cfg.ReversePin, gpio.Level(!forward)); err != nil {
		return err
	}
	return m.gpio.WritePWM(m.cfg.PWMPin, power)
}

// Stop cuts power and releases both bridge inputs (coast, no brake).
func (m *Motor) Stop() error {
	if err := m.gpio.WritePin(m.cfg.ForwardPin, gpio.Low); err != nil {
		return err
	}
	if err := m.gpio.WritePin(m.cfg.ReversePin, gpio.Low); err != nil {
		return err
	}
	return m.gpio.WritePWM(m.cfg.PWMPin, 0)
}
