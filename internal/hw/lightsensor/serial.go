package lightsensor

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	serial "go.bug.st/serial"

	"github.com/mverne/LumeGo/internal/debug"
	"github.com/mverne/LumeGo/internal/logic/pid"
)

// SerialBridge reads paired ambient-light values from a microcontroller
// attached over a serial port. The bridge firmware emits one line per
// sample in the form "left,right" with values on the 0-100 scale.
type SerialBridge struct {
	port serial.Port
	r    *bufio.Reader
}

// OpenSerialBridge opens the serial device with the given path and baud rate.
func OpenSerialBridge(device string, baud int) (*SerialBridge, error) {
	p, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial bridge %s: %w", device, err)
	}
	debug.Info("Serial bridge open on %s (baud %d)", device, baud)
	return &SerialBridge{port: p, r: bufio.NewReader(p)}, nil
}

// Next implements pid.SampleSource. It blocks until the bridge sends the
// next "left,right" line; blank lines are skipped.
func (b *SerialBridge) Next() (pid.Sample, error) {
	for {
		line, err := b.r.ReadString('\n')
		if err != nil {
			return pid.Sample{}, fmt.Errorf("read serial bridge: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sample, err := parsePairLine(line)
		if err != nil {
			debug.Verbose("Serial bridge: skipping malformed line %q: %v", line, err)
			continue
		}
		return sample, nil
	}
}

// parsePairLine parses one "left,right" telemetry line.
func parsePairLine(line string) (pid.Sample, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return pid.Sample{}, fmt.Errorf("expected 2 fields, got %d", len(parts))
	}
	left, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return pid.Sample{}, fmt.Errorf("left value: %w", err)
	}
	right, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return pid.Sample{}, fmt.Errorf("right value: %w", err)
	}
	return pid.Sample{Left: left, Right: right}, nil
}

// LeftSensor returns a Sensor view of the bridge reading only the left
// value of the next pair. Used for calibration and Morse acquisition,
// which sample a single side.
func (b *SerialBridge) LeftSensor() Sensor {
	return SensorFunc(func() (float64, error) {
		sample, err := b.Next()
		if err != nil {
			return 0, err
		}
		return sample.Left, nil
	})
}

// RequestSample asks the bridge firmware for an immediate reading.
// Optional: firmwares that stream continuously ignore it.
func (b *SerialBridge) RequestSample() error {
	_, err := b.port.Write([]byte("R\n"))
	return err
}

// Close closes the underlying serial port.
func (b *SerialBridge) Close() error {
	if b.port == nil {
		return nil
	}
	return b.port.Close()
}

// SetReadTimeout bounds a single line read on the underlying port.
func (b *SerialBridge) SetReadTimeout(d time.Duration) error {
	return b.port.SetReadTimeout(d)
}
