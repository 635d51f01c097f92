// Package lightsensor provides ambient-light sensing behind a small
// interface so the control loops can run against real hardware (GPIO
// charge timing, a serial-attached bridge) or canned values in tests.
package lightsensor

import (
	"fmt"

	"github.com/mverne/LumeGo/internal/logic/pid"
)

// Sensor reads one ambient-light value on a 0-100 scale, synchronously.
type Sensor interface {
	ReadAmbient() (float64, error)
}

// SensorFunc adapts a plain function to the Sensor interface.
type SensorFunc func() (float64, error)

func (f SensorFunc) ReadAmbient() (float64, error) { return f() }

// PairSource reads the left and right sensors back to back and hands the
// tracker one paired sample per tick. Both values belong to the same tick;
// a failed read fails the whole pair rather than mixing stale readings.
type PairSource struct {
	Left  Sensor
	Right Sensor
}

// Next implements pid.SampleSource.
func (p *PairSource) Next() (pid.Sample, error) {
	left, err := p.Left.ReadAmbient()
	if err != nil {
		return pid.Sample{}, fmt.Errorf("left sensor: %w", err)
	}
	right, err := p.Right.ReadAmbient()
	if err != nil {
		return pid.Sample{}, fmt.Errorf("right sensor: %w", err)
	}
	return pid.Sample{Left: left, Right: right}, nil
}
