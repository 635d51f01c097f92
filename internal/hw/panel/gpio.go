package panel

import (
	"context"
	"time"

	"github.com/mverne/LumeGo/internal/debug"
	"github.com/mverne/LumeGo/internal/hw/gpio"
)

// buttonPollInterval is how often the button input is sampled while
// waiting for a press.
const buttonPollInterval = 10 * time.Millisecond

// debounceDelay is how long the input must be ignored after a press.
const debounceDelay = 50 * time.Millisecond

// GPIOBuzzer drives an active piezo buzzer on a single output pin.
type GPIOBuzzer struct {
	gpio gpio.Driver
	pin  int
}

// NewGPIOBuzzer creates a buzzer on the given pin.
func NewGPIOBuzzer(g gpio.Driver, pin int) *GPIOBuzzer {
	_ = g.SetupPin(pin, gpio.Output)
	_ = g.WritePin(pin, gpio.Low)
	return &GPIOBuzzer{gpio: g, pin: pin}
}

// Beep holds the buzzer pin high for the duration.
func (b *GPIOBuzzer) Beep(d time.Duration) error {
	debug.Trace("Buzzer pin %d: beep %v", b.pin, d)
	if err := b.gpio.WritePin(b.pin, gpio.High); err != nil {
		return err
	}
	time.Sleep(d)
	return b.gpio.WritePin(b.pin, gpio.Low)
}

// GPIOButton reads a push button wired active-high on an input pin.
type GPIOButton struct {
	gpio gpio.Driver
	pin  int
}

// NewGPIOButton creates a button on the given pin.
func NewGPIOButton(g gpio.Driver, pin int) *GPIOButton {
	_ = g.SetupPin(pin, gpio.Input)
	return &GPIOButton{gpio: g, pin: pin}
}

// WaitPress polls the pin until it reads high, then debounces.
func (b *GPIOButton) WaitPress(ctx context.Context) error {
	debug.Trace("Button pin %d: waiting for press", b.pin)
	ticker := time.NewTicker(buttonPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			level, err := b.gpio.ReadPin(b.pin)
			if err != nil {
				return err
			}
			if level == gpio.High {
				time.Sleep(debounceDelay)
				debug.Trace("Button pin %d: pressed", b.pin)
				return nil
			}
		}
	}
}
