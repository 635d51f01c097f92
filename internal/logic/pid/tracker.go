package pid

import (
	"context"
	"fmt"
	"time"

	"github.com/mverne/LumeGo/internal/debug"
)

// Options configures a Tracker.
type Options struct {
	Gains Gains

	// DecoupledDiff selects fully independent differential terms.
	// The stock behavior couples the channels: whenever either side's
	// differential is exactly zero, both sides' differentials are forced
	// to zero for that tick, stopping both wheels together on arrival.
	DecoupledDiff bool
}

// Tracker runs the dual-channel light-following loop against an injected
// sample source and actuator. A Tracker is good for repeated Track calls;
// per-run channel state is reset at the start of every run.
type Tracker struct {
	source SampleSource
	act    Actuator
	opts   Options
}

// NewTracker creates a tracker. Zero-valued Gains fall back to DefaultGains.
func NewTracker(source SampleSource, act Actuator, opts Options) *Tracker {
	if opts.Gains == (Gains{}) {
		opts.Gains = DefaultGains
	}
	return &Tracker{source: source, act: act, opts: opts}
}

// Track follows the light for the given duration, steering toward target.
// It loops as fast as the sample source allows until the monotonic elapsed
// time exceeds duration or ctx is cancelled, then cuts power to both wheels
// exactly once. The target is a value on the sensor's native scale; no
// bounds are enforced, an unreachable target simply never converges.
func (t *Tracker) Track(ctx context.Context, duration time.Duration, target float64) error {
	left := channel{gains: t.opts.Gains}
	right := channel{gains: t.opts.Gains}

	debug.Section("Light Following")
	debug.Value("Duration", duration)
	debug.Value("Target light", target)

	var loopErr error
	start := time.Now()

	for time.Since(start) <= duration {
		select {
		case <-ctx.Done():
			loopErr = ctx.Err()
		default:
		}
		if loopErr != nil {
			break
		}

		sample, err := t.source.Next()
		if err != nil {
			loopErr = fmt.Errorf("read sample: %w", err)
			break
		}

		leftErr := target - sample.Left
		rightErr := target - sample.Right

		left.accumulate(leftErr)
		right.accumulate(rightErr)

		leftDiff := leftErr - left.prevErr
		rightDiff := rightErr - right.prevErr

		// Coupled stop: either side holding steady zeroes both
		// differential terms for this tick.
		if !t.opts.DecoupledDiff && (leftDiff == 0 || rightDiff == 0) {
			leftDiff = 0
			rightDiff = 0
		}

		left.prevErr = leftErr
		right.prevErr = rightErr

		leftPower := left.output(leftErr, leftDiff)
		rightPower := right.output(rightErr, rightDiff)

		debug.Tick("left", leftErr, left.errSum, leftDiff, leftPower)
		debug.Tick("right", rightErr, right.errSum, rightDiff, rightPower)

		// The left channel is mirrored so both wheels turn the chassis
		// toward the brighter side.
		cmd := Command{Left: -leftPower, Right: rightPower}
		debug.Drive(cmd.Left, cmd.Right)
		if err := t.act.Drive(cmd); err != nil {
			loopErr = fmt.Errorf("drive: %w", err)
			break
		}
	}

	if err := t.act.Stop(); err != nil {
		if loopErr != nil {
			return loopErr
		}
		return fmt.Errorf("stop: %w", err)
	}
	return loopErr
}
