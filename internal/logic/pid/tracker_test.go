package pid

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// scriptSource replays a fixed sample sequence, repeating the last
// sample once the script is exhausted.
type scriptSource struct {
	mu      sync.Mutex
	samples []Sample
	idx     int
	err     error
}

func (s *scriptSource) Next() (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Sample{}, s.err
	}
	if len(s.samples) == 0 {
		return Sample{}, nil
	}
	sample := s.samples[s.idx]
	if s.idx < len(s.samples)-1 {
		s.idx++
	}
	return sample, nil
}

// recordActuator records every command and counts stops.
type recordActuator struct {
	mu    sync.Mutex
	cmds  []Command
	stops int
	err   error
}

func (a *recordActuator) Drive(cmd Command) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.cmds = append(a.cmds, cmd)
	return nil
}

func (a *recordActuator) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stops++
	return nil
}

func (a *recordActuator) commands() []Command {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Command, len(a.cmds))
	copy(out, a.cmds)
	return out
}

func (a *recordActuator) stopCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stops
}

func TestTrack_ExactlyOneStop(t *testing.T) {
	durations := []time.Duration{0, time.Millisecond, 20 * time.Millisecond}
	for _, d := range durations {
		src := &scriptSource{samples: []Sample{{Left: 50, Right: 50}}}
		act := &recordActuator{}
		tr := NewTracker(src, act, Options{})

		if err := tr.Track(context.Background(), d, 90); err != nil {
			t.Fatalf("Track(%v): %v", d, err)
		}
		if got := act.stopCount(); got != 1 {
			t.Errorf("duration %v: %d stops, want exactly 1", d, got)
		}
	}
}

func TestTrack_StopsOnSourceError(t *testing.T) {
	src := &scriptSource{err: errors.New("sensor unplugged")}
	act := &recordActuator{}
	tr := NewTracker(src, act, Options{})

	err := tr.Track(context.Background(), time.Second, 90)
	if err == nil {
		t.Fatal("expected error from failing source")
	}
	if got := act.stopCount(); got != 1 {
		t.Errorf("%d stops, want exactly 1", got)
	}
}

func TestTrack_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &scriptSource{samples: []Sample{{Left: 50, Right: 50}}}
	act := &recordActuator{}
	tr := NewTracker(src, act, Options{})

	err := tr.Track(ctx, time.Hour, 90)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if got := act.stopCount(); got != 1 {
		t.Errorf("%d stops, want exactly 1", got)
	}
}

func TestTrack_LeftChannelMirrored(t *testing.T) {
	// Constant positive error on both sides: left power must come out
	// negated, right positive.
	src := &scriptSource{samples: []Sample{{Left: 40, Right: 40}}}
	act := &recordActuator{}
	tr := NewTracker(src, act, Options{})

	if err := tr.Track(context.Background(), 5*time.Millisecond, 90); err != nil {
		t.Fatal(err)
	}
	cmds := act.commands()
	if len(cmds) == 0 {
		t.Fatal("no commands issued")
	}
	for _, cmd := range cmds {
		if cmd.Left > 0 {
			t.Fatalf("left power %d is positive, want mirrored (negative)", cmd.Left)
		}
		if cmd.Right < 0 {
			t.Fatalf("right power %d is negative, want positive", cmd.Right)
		}
	}
}

func TestChannel_ArrivalResetsOwnSumOnly(t *testing.T) {
	left := channel{gains: DefaultGains}
	right := channel{gains: DefaultGains}

	// Accumulate some history on both sides.
	left.accumulate(10)
	right.accumulate(10)
	if left.errSum != 10 || right.errSum != 10 {
		t.Fatalf("errSum = %v/%v, want 10/10", left.errSum, right.errSum)
	}

	// Left arrives, right does not.
	left.accumulate(0)
	right.accumulate(5)
	if left.errSum != 0 {
		t.Errorf("left errSum = %v, want 0 after arrival", left.errSum)
	}
	if right.errSum != 15 {
		t.Errorf("right errSum = %v, want 15 (unaffected)", right.errSum)
	}
}

func TestChannel_OutputTruncatesTowardZero(t *testing.T) {
	c := channel{gains: Gains{P: 1, I: 0, D: 0}}
	cases := []struct {
		err  float64
		want int
	}{
		{0.9, 0},
		{-0.9, 0}, // toward zero, not floor (-1)
		{1.5, 1},
		{-1.5, -1},
		{3.0, 3},
		{-3.0, -3},
	}
	for _, tc := range cases {
		if got := c.output(tc.err, 0); got != tc.want {
			t.Errorf("output(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

// coupleProbe builds a two-tick scenario where the left error repeats
// (left diff 0 on the second tick) while the right error changes.
func coupleProbe(t *testing.T, decoupled bool) []Command {
	t.Helper()
	src := &scriptSource{samples: []Sample{
		{Left: 40, Right: 40},
		{Left: 40, Right: 60},
	}}
	act := &recordActuator{}
	tr := NewTracker(src, act, Options{
		Gains:         Gains{P: 0, I: 0, D: 1}, // isolate the differential term
		DecoupledDiff: decoupled,
	})
	// Long enough for at least two ticks; the source then repeats the
	// second sample, which keeps both diffs at zero.
	if err := tr.Track(context.Background(), 5*time.Millisecond, 90); err != nil {
		t.Fatal(err)
	}
	cmds := act.commands()
	if len(cmds) < 2 {
		t.Fatalf("only %d commands, need at least 2", len(cmds))
	}
	return cmds
}

func TestTrack_CoupledDiffZeroesBothSides(t *testing.T) {
	cmds := coupleProbe(t, false)
	// Tick 2: left diff is 0, so the right diff (-20) is suppressed too.
	if got := cmds[1].Right; got != 0 {
		t.Errorf("coupled: right power = %d, want 0", got)
	}
}

func TestTrack_DecoupledDiffIndependent(t *testing.T) {
	cmds := coupleProbe(t, true)
	// Tick 2: right error went from 50 to 30, diff -20, Kd=1.
	if got := cmds[1].Right; got != -20 {
		t.Errorf("decoupled: right power = %d, want -20", got)
	}
	if got := cmds[1].Left; got != 0 {
		t.Errorf("decoupled: left power = %d, want 0", got)
	}
}

func TestTrack_SameTickPairing(t *testing.T) {
	// First tick must use the first sample for both channels: errors
	// 90-20=70 and 90-80=10 with P=1 give powers -70/10, not a mix.
	src := &scriptSource{samples: []Sample{
		{Left: 20, Right: 80},
	}}
	act := &recordActuator{}
	tr := NewTracker(src, act, Options{Gains: Gains{P: 1, I: 0, D: 0}})

	if err := tr.Track(context.Background(), time.Millisecond, 90); err != nil {
		t.Fatal(err)
	}
	cmds := act.commands()
	if len(cmds) == 0 {
		t.Fatal("no commands issued")
	}
	if cmds[0].Left != -70 || cmds[0].Right != 10 {
		t.Errorf("first command = %+v, want Left=-70 Right=10", cmds[0])
	}
}
