package gpio

import (
	"sync"

	"github.com/mverne/LumeGo/internal/debug"
)

// Level represents the logical state of a GPIO pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// PinMode indicates whether a GPIO is input, output or PWM.
type PinMode int

const (
	Input PinMode = iota
	Output
	PWM
)

// Driver defines the abstract interface for controlling GPIOs.
// This allows plugging in a real Raspberry Pi implementation
// or a mock for development on PC.
type Driver interface {
	SetupPin(pin int, mode PinMode) error
	WritePin(pin int, level Level) error
	ReadPin(pin int) (Level, error)
	// WritePWM sets the duty cycle (0-100) of a pin configured as PWM.
	WritePWM(pin int, duty int) error
	Close() error
}

// NewDriver creates a GPIO driver based on the chosen mode.
// If mock is true, returns a MockDriver (for dev/test).
// If mock is false, returns a real RPiDriver (for Raspberry Pi).
func NewDriver(mock bool) (Driver, error) {
	if mock {
		debug.Info("Using MOCK GPIO driver (development mode)")
		return NewMockDriver(), nil
	}
	return NewRPiRealDriver()
}

// Op records a single operation performed on the mock driver.
type Op struct {
	Name  string
	Pin   int
	Value interface{}
}

// MockDriver is a test implementation that logs actions and records
// them so tests can assert on the operations performed.
// Levels returns canned input values via the Inputs map.
type MockDriver struct {
	mu     sync.Mutex
	ops    []Op
	Inputs map[int]Level
}

// NewMockDriver creates an empty mock GPIO driver.
func NewMockDriver() *MockDriver {
	return &MockDriver{Inputs: make(map[int]Level)}
}

// Ops returns a copy of the operations recorded so far.
func (m *MockDriver) Ops() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Op, len(m.ops))
	copy(out, m.ops)
	return out
}

func (m *MockDriver) record(name string, pin int, value interface{}) {
	m.mu.Lock()
	m.ops = append(m.ops, Op{Name: name, Pin: pin, Value: value})
	m.mu.Unlock()
}

func (m *MockDriver) SetupPin(pin int, mode PinMode) error {
	debug.GPIO("SetupPin", pin, mode)
	m.record("SetupPin", pin, mode)
	return nil
}

func (m *MockDriver) WritePin(pin int, level Level) error {
	debug.GPIO("WritePin", pin, level)
	m.record("WritePin", pin, level)
	return nil
}

func (m *MockDriver) ReadPin(pin int) (Level, error) {
	debug.GPIO("ReadPin", pin, nil)
	m.record("ReadPin", pin, nil)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Inputs[pin], nil
}

func (m *MockDriver) WritePWM(pin int, duty int) error {
	debug.GPIO("WritePWM", pin, duty)
	m.record("WritePWM", pin, duty)
	return nil
}

func (m *MockDriver) Close() error {
	debug.Trace("GPIO Close (mock)")
	return nil
}
