package panel

import (
	"context"
	"sync"
	"time"
)

// MockBuzzer records beeps instead of making noise. Beep returns
// immediately; the requested durations are kept for assertions.
type MockBuzzer struct {
	mu    sync.Mutex
	beeps []time.Duration
}

func (m *MockBuzzer) Beep(d time.Duration) error {
	m.mu.Lock()
	m.beeps = append(m.beeps, d)
	m.mu.Unlock()
	return nil
}

// Beeps returns a copy of the recorded beep durations.
func (m *MockBuzzer) Beeps() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.beeps))
	copy(out, m.beeps)
	return out
}

// MockButton auto-presses: WaitPress returns immediately and counts the
// presses, so a mission can run unattended in dev mode and tests.
type MockButton struct {
	mu      sync.Mutex
	presses int
}

func (m *MockButton) WaitPress(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.presses++
	m.mu.Unlock()
	return nil
}

// Presses returns how many times WaitPress has been answered.
func (m *MockButton) Presses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presses
}
