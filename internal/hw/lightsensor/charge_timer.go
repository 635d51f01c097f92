package lightsensor

import (
	"time"

	"github.com/mverne/LumeGo/internal/debug"
	"github.com/mverne/LumeGo/internal/hw/gpio"
)

// ChargeTimer reads a photoresistor/capacitor divider on a single GPIO.
// The pin first drains the capacitor, then switches to input and the
// time until the pin reads high is measured: the brighter the light,
// the lower the LDR resistance and the faster the charge.
//
// Readings are mapped to the 0-100 ambient scale, 100 meaning the
// capacitor charged instantly (full light) and 0 meaning it never
// charged within the timeout (dark).
type ChargeTimer struct {
	gpio    gpio.Driver
	pin     int
	timeout time.Duration
}

// dischargeTime is how long the pin is held low to drain the capacitor
// before a measurement.
const dischargeTime = 2 * time.Millisecond

// NewChargeTimer creates a charge-timing sensor on the given pin.
// timeout bounds a single measurement; it corresponds to a fully dark
// reading. If 0, a 300ms default is used.
func NewChargeTimer(g gpio.Driver, pin int, timeout time.Duration) *ChargeTimer {
	if timeout <= 0 {
		timeout = 300 * time.Millisecond
	}
	return &ChargeTimer{gpio: g, pin: pin, timeout: timeout}
}

// ReadAmbient performs one charge-timing measurement.
func (c *ChargeTimer) ReadAmbient() (float64, error) {
	// Drain the capacitor.
	if err := c.gpio.SetupPin(c.pin, gpio.Output); err != nil {
		return 0, err
	}
	if err := c.gpio.WritePin(c.pin, gpio.Low); err != nil {
		return 0, err
	}
	time.Sleep(dischargeTime)

	// Release the pin and time the charge.
	if err := c.gpio.SetupPin(c.pin, gpio.Input); err != nil {
		return 0, err
	}

	start := time.Now()
	for {
		level, err := c.gpio.ReadPin(c.pin)
		if err != nil {
			return 0, err
		}
		elapsed := time.Since(start)
		if level == gpio.High {
			value := 100 * (1 - elapsed.Seconds()/c.timeout.Seconds())
			if value < 0 {
				value = 0
			}
			debug.Trace("ChargeTimer pin %d: charged in %v -> %.1f", c.pin, elapsed, value)
			return value, nil
		}
		if elapsed >= c.timeout {
			debug.Trace("ChargeTimer pin %d: timeout -> 0.0", c.pin)
			return 0, nil
		}
	}
}
