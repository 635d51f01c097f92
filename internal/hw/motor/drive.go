package motor

import (
	"github.com/mverne/LumeGo/internal/logic/pid"
)

// Drive composes the left and right wheel motors into the actuator
// consumed by the tracking loop.
type Drive struct {
	left  *Motor
	right *Motor
}

// NewDrive creates a two-wheel drive from the individual motors.
func NewDrive(left, right *Motor) *Drive {
	return &Drive{left: left, right: right}
}

// Drive implements pid.Actuator.
func (d *Drive) Drive(cmd pid.Command) error {
	if err := d.left.Start(cmd.Left); err != nil {
		return err
	}
	return d.right.Start(cmd.Right)
}

// Stop cuts power to both wheels. Both motors are always commanded,
// even if the first one fails.
func (d *Drive) Stop() error {
	leftErr := d.left.Stop()
	rightErr := d.right.Stop()
	if leftErr != nil {
		return leftErr
	}
	return rightErr
}
