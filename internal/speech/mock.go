package speech

import "sync"

// MockSpeaker records spoken text for tests.
type MockSpeaker struct {
	mu     sync.Mutex
	spoken []string
	err    error
}

// NewMockSpeaker creates a new MockSpeaker instance.
func NewMockSpeaker() *MockSpeaker {
	return &MockSpeaker{}
}

// SetError sets the error that will be returned by Speak.
func (m *MockSpeaker) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Speak records the text or returns the configured error.
func (m *MockSpeaker) Speak(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.spoken = append(m.spoken, text)
	return nil
}

// Spoken returns a copy of everything spoken so far.
func (m *MockSpeaker) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// Close is a no-op for the mock speaker.
func (m *MockSpeaker) Close() error {
	return nil
}
