package lightsensor

import "sync"

// MockSensor returns a scripted sequence of readings. Once the script is
// exhausted the last value repeats, so a follow loop can keep ticking.
// Used for development on PC and in tests.
type MockSensor struct {
	mu     sync.Mutex
	values []float64
	idx    int
	reads  int
}

// NewMockSensor creates a mock sensor replaying the given values.
// With no values it always reads 0.
func NewMockSensor(values ...float64) *MockSensor {
	return &MockSensor{values: values}
}

func (m *MockSensor) ReadAmbient() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if len(m.values) == 0 {
		return 0, nil
	}
	v := m.values[m.idx]
	if m.idx < len(m.values)-1 {
		m.idx++
	}
	return v, nil
}

// Reads returns how many readings have been taken.
func (m *MockSensor) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}
