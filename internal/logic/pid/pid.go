// Package pid implements the dual-channel closed-loop controller that
// steers the platform toward a light source. Each side (left/right wheel)
// runs its own PID loop against the same target intensity; the two loops
// share nothing except the paired sample they are fed each tick.
package pid

// Gains holds the three PID coefficients for one channel.
type Gains struct {
	P float64
	I float64
	D float64
}

// DefaultGains are the tuned coefficients for the stock chassis.
var DefaultGains = Gains{P: 0.3, I: 0.0001, D: 0.4}

// DefaultTarget is the default light intensity to steer toward,
// on the sensor's native 0-100 ambient scale.
const DefaultTarget = 90.0

// Sample is one simultaneous ambient-light reading pair.
// Both channels of a tick must come from the same Sample.
type Sample struct {
	Left  float64
	Right float64
}

// Command is a pair of signed wheel power levels.
type Command struct {
	Left  int
	Right int
}

// SampleSource supplies one Sample per call, synchronously.
// Next may block on the underlying sensor.
type SampleSource interface {
	Next() (Sample, error)
}

// Actuator consumes drive commands. Stop cuts power to both wheels;
// the tracker calls it exactly once when the loop exits.
type Actuator interface {
	Drive(cmd Command) error
	Stop() error
}

// channel is the mutable state of one side's controller.
type channel struct {
	gains   Gains
	errSum  float64
	prevErr float64
}

// accumulate applies the anti-windup-on-arrival rule: once this side's
// instantaneous error is exactly zero the integral sum is cleared so
// accumulated history cannot push the wheel past the target.
func (c *channel) accumulate(err float64) {
	if err == 0 {
		c.errSum = 0
		return
	}
	c.errSum += err
}

// output converts the current error and differential term to a signed
// power level. The float sum is truncated toward zero, not rounded and
// not floored: small negative sums near zero must become 0, not -1.
func (c *channel) output(err, errDiff float64) int {
	return int(c.gains.P*err + c.gains.I*c.errSum + c.gains.D*errDiff)
}
