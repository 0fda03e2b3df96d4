package evi

import "context"

// Session is the interface the orchestrator consumes. *Client is the
// production implementation; *Mock backs tests.
type Session interface {
	// Connect dials and configures the session.
	Connect(ctx context.Context, creds Credentials, cfg SessionConfig) error

	// Disconnect closes the session; idempotent from any state.
	Disconnect() error

	// SendAudio forwards one encoded audio chunk.
	SendAudio(encoded []byte) error

	// State returns the connection state.
	State() State

	// IsOpen reports whether the session is streaming.
	IsOpen() bool

	// Callbacks
	OnAudio(fn func(data string))
	OnTranscript(fn func(role Role, text string))
	OnInterruption(fn func())
	OnError(fn func(err error))
	OnClose(fn func())
}

// Ensure implementations satisfy Session.
var (
	_ Session = (*Client)(nil)
	_ Session = (*Mock)(nil)
)
