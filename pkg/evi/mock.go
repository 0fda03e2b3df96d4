package evi

import (
	"context"
	"sync"
)

// Mock is a mock Session for testing.
type Mock struct {
	mu    sync.RWMutex
	state State

	// Callbacks
	onAudio        func(data string)
	onTranscript   func(role Role, text string)
	onInterruption func()
	onError        func(err error)
	onClose        func()

	// Configurable behavior
	ConnectFunc   func(ctx context.Context, creds Credentials, cfg SessionConfig) error
	SendAudioFunc func(encoded []byte) error

	// Captured calls for assertions
	ConnectCalls    int
	DisconnectCalls int
	AudioSent       [][]byte
	LastConfig      SessionConfig
	LastCreds       Credentials
}

// NewMock creates a Mock in the Closed state.
func NewMock() *Mock {
	return &Mock{state: StateClosed}
}

// Connect implements Session.
func (m *Mock) Connect(ctx context.Context, creds Credentials, cfg SessionConfig) error {
	m.mu.Lock()
	m.ConnectCalls++
	m.LastCreds = creds
	m.LastConfig = cfg
	m.mu.Unlock()

	if m.ConnectFunc != nil {
		if err := m.ConnectFunc(ctx, creds, cfg); err != nil {
			m.SetState(StateFailed)
			return err
		}
	}
	m.SetState(StateOpen)
	return nil
}

// Disconnect implements Session.
func (m *Mock) Disconnect() error {
	m.mu.Lock()
	m.DisconnectCalls++
	m.state = StateClosed
	onClose := m.onClose
	m.mu.Unlock()
	if onClose != nil {
		onClose()
	}
	return nil
}

// SendAudio implements Session.
func (m *Mock) SendAudio(encoded []byte) error {
	if m.SendAudioFunc != nil {
		return m.SendAudioFunc(encoded)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateOpen {
		return ErrNotOpen
	}
	buf := make([]byte, len(encoded))
	copy(buf, encoded)
	m.AudioSent = append(m.AudioSent, buf)
	return nil
}

// State implements Session.
func (m *Mock) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsOpen implements Session.
func (m *Mock) IsOpen() bool {
	return m.State() == StateOpen
}

// SetState forces the mock into a state.
func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

// OnAudio implements Session.
func (m *Mock) OnAudio(fn func(data string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAudio = fn
}

// OnTranscript implements Session.
func (m *Mock) OnTranscript(fn func(role Role, text string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTranscript = fn
}

// OnInterruption implements Session.
func (m *Mock) OnInterruption(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onInterruption = fn
}

// OnError implements Session.
func (m *Mock) OnError(fn func(err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

// OnClose implements Session.
func (m *Mock) OnClose(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClose = fn
}

// Simulate helpers deliver events as the vendor would.

// SimulateAudio delivers an audio_output event.
func (m *Mock) SimulateAudio(data string) {
	m.mu.RLock()
	fn := m.onAudio
	m.mu.RUnlock()
	if fn != nil {
		fn(data)
	}
}

// SimulateTranscript delivers a transcript event.
func (m *Mock) SimulateTranscript(role Role, text string) {
	m.mu.RLock()
	fn := m.onTranscript
	m.mu.RUnlock()
	if fn != nil {
		fn(role, text)
	}
}

// SimulateInterruption delivers a user_interruption event.
func (m *Mock) SimulateInterruption() {
	m.mu.RLock()
	fn := m.onInterruption
	m.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// SimulateError delivers a vendor error and marks the session Failed.
func (m *Mock) SimulateError(err error) {
	m.SetState(StateFailed)
	m.mu.RLock()
	fn := m.onError
	m.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}
