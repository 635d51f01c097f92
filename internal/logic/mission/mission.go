// Package mission contains the high-level demo flow: calibrate the
// light references, follow the light source, then take externally paced
// readings and decode them as one word of Morse code.
package mission

import (
	"context"
	"fmt"
	"time"

	"github.com/mverne/LumeGo/internal/debug"
	"github.com/mverne/LumeGo/internal/hw/lightsensor"
	"github.com/mverne/LumeGo/internal/hw/panel"
	"github.com/mverne/LumeGo/internal/logic/morse"
	"github.com/mverne/LumeGo/internal/logic/pid"
)

// Params defines one mission run.
type Params struct {
	FollowDuration time.Duration // how long to follow the light
	Target         float64       // follow target; 0 means the calibrated max reference
	Readings       int           // number of Morse samples to take
	PreReadDelay   time.Duration // settle delay before each reading prompt
	BeepUnit       time.Duration // playback beep length per Morse unit

	// Pre-established references. When both are zero the mission runs
	// the interactive calibration instead.
	MaxRef float64
	MinRef float64
}

// Result is what a completed mission hands to the presentation layer.
type Result struct {
	Word   string
	Runs   []int
	MaxRef float64
	MinRef float64
}

// Publisher receives the decode result. Optional; per-tick drive
// telemetry is published by wrapping the actuator instead.
type Publisher interface {
	PublishResult(word string, runs []int) error
}

// Mission wires the tracker and the Morse pipeline to the hardware
// boundary: a paired sample source for following, the left sensor for
// calibration and sampling, the drive actuator, and the operator panel.
type Mission struct {
	tracker *pid.Tracker
	act     pid.Actuator
	left    lightsensor.Sensor
	buzzer  panel.Buzzer
	button  panel.Button
	dict    *morse.Dictionary
	pub     Publisher
}

// New creates a mission. pub may be nil.
func New(tracker *pid.Tracker, act pid.Actuator, left lightsensor.Sensor, buzzer panel.Buzzer, button panel.Button, dict *morse.Dictionary, pub Publisher) *Mission {
	return &Mission{
		tracker: tracker,
		act:     act,
		left:    left,
		buzzer:  buzzer,
		button:  button,
		dict:    dict,
		pub:     pub,
	}
}

// promptBeep is the length of an operator prompt beep.
const promptBeep = 100 * time.Millisecond

// Run executes the full demo flow and returns the decode result.
func (m *Mission) Run(ctx context.Context, p Params) (*Result, error) {
	maxRef, minRef := p.MaxRef, p.MinRef
	if maxRef == 0 && minRef == 0 {
		var err error
		maxRef, minRef, err = m.Calibrate(ctx)
		if err != nil {
			return nil, fmt.Errorf("calibrate: %w", err)
		}
	}
	debug.Value("Max light reference", maxRef)
	debug.Value("Min light reference", minRef)

	target := p.Target
	if target == 0 {
		target = maxRef
	}

	// Triple beep: ready to follow the light.
	if err := m.readyPrompt(ctx); err != nil {
		return nil, err
	}
	if err := m.tracker.Track(ctx, p.FollowDuration, target); err != nil {
		return nil, fmt.Errorf("follow light: %w", err)
	}

	// Triple beep: ready to receive Morse code.
	if err := m.readyPrompt(ctx); err != nil {
		return nil, err
	}
	samples, err := m.acquire(ctx, p, morse.Classifier{MaxRef: maxRef, MinRef: minRef})
	if err != nil {
		return nil, fmt.Errorf("acquire samples: %w", err)
	}

	word, runs := morse.Decode(samples, m.dict)
	debug.Runs(runs)
	debug.Word(word, len(word))

	if m.pub != nil {
		if err := m.pub.PublishResult(word, runs); err != nil {
			debug.Error(err)
		}
	}

	m.present(word, runs, p.BeepUnit)

	return &Result{Word: word, Runs: runs, MaxRef: maxRef, MinRef: minRef}, nil
}

// Calibrate records the two light references: shine the light at the
// left sensor and press the button, then turn it off and press again.
func (m *Mission) Calibrate(ctx context.Context) (maxRef, minRef float64, err error) {
	debug.Section("Calibration")

	debug.Info("Calibration: shine the light at the left sensor, then press the button")
	if err := m.buzzer.Beep(promptBeep); err != nil {
		return 0, 0, err
	}
	if err := m.button.WaitPress(ctx); err != nil {
		return 0, 0, err
	}
	maxRef, err = m.left.ReadAmbient()
	if err != nil {
		return 0, 0, fmt.Errorf("max reference: %w", err)
	}

	time.Sleep(1 * time.Second)

	debug.Info("Calibration: turn the light off, then press the button")
	if err := m.buzzer.Beep(promptBeep); err != nil {
		return 0, 0, err
	}
	if err := m.button.WaitPress(ctx); err != nil {
		return 0, 0, err
	}
	minRef, err = m.left.ReadAmbient()
	if err != nil {
		return 0, 0, fmt.Errorf("min reference: %w", err)
	}

	return maxRef, minRef, nil
}

// readyPrompt beeps three times and waits for the operator.
func (m *Mission) readyPrompt(ctx context.Context) error {
	for i := 0; i < 3; i++ {
		if err := m.buzzer.Beep(promptBeep); err != nil {
			return err
		}
	}
	return m.button.WaitPress(ctx)
}

// acquire takes p.Readings externally paced samples: settle, beep,
// wait for the button, read the left sensor, classify. One sample per
// press, no timing tolerance needed at this layer.
func (m *Mission) acquire(ctx context.Context, p Params, cls morse.Classifier) ([]bool, error) {
	debug.Section("Morse Acquisition")
	samples := make([]bool, 0, p.Readings)

	for i := 0; i < p.Readings; i++ {
		time.Sleep(p.PreReadDelay)

		if err := m.buzzer.Beep(promptBeep); err != nil {
			return nil, err
		}
		if err := m.button.WaitPress(ctx); err != nil {
			return nil, err
		}

		reading, err := m.left.ReadAmbient()
		if err != nil {
			return nil, fmt.Errorf("reading %d: %w", i+1, err)
		}
		debug.Reading(i+1, p.Readings, reading)
		samples = append(samples, cls.IsOn(reading))
	}

	return samples, nil
}

// present reports the decoded word. A non-empty word is echoed back in
// beeps, one BeepUnit per Morse unit, pausing one unit per gap entry.
func (m *Mission) present(word string, runs []int, unit time.Duration) {
	if word == "" {
		debug.Info("No letters recognized in the transmission")
		return
	}

	debug.Summary(debug.Fmt("Decoded word: %s", word))

	if unit <= 0 {
		return
	}
	for _, length := range runs {
		if length > 0 {
			if err := m.buzzer.Beep(time.Duration(length) * unit); err != nil {
				debug.Error(err)
				return
			}
		} else {
			time.Sleep(unit)
		}
	}
}
