// Package panel covers the operator interaction surface: a piezo buzzer
// for audible prompts and a push button pacing the sampling protocol.
package panel

import (
	"context"
	"time"
)

// Buzzer emits an audible tone for a duration. Beep blocks until the
// tone ends.
type Buzzer interface {
	Beep(d time.Duration) error
}

// Button waits for one operator press. WaitPress blocks until the
// button is pressed or ctx is cancelled.
type Button interface {
	WaitPress(ctx context.Context) error
}
