package evi

import (
	"errors"
	"fmt"
)

// Sentinel errors for the evi package.
var (
	// ErrMissingAPIKey indicates credentials were not provided.
	ErrMissingAPIKey = errors.New("evi: API key is required")

	// ErrNotOpen indicates an operation that requires an open session.
	// Sends while not open are rejected synchronously, never queued.
	ErrNotOpen = errors.New("evi: session not open")

	// ErrAlreadyConnected indicates Connect on a live session.
	ErrAlreadyConnected = errors.New("evi: already connected")

	// ErrSessionFailed indicates the session is in its terminal failed
	// state and must be recreated.
	ErrSessionFailed = errors.New("evi: session failed")
)

// TransportError represents a websocket connect/send/receive failure.
// The session moves to Failed; the client never auto-retries.
type TransportError struct {
	// Op is the operation that failed ("dial", "send", "receive").
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("evi: transport %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ConfigError represents a session-settings send failure. Audio never
// reaches a misconfigured session; this is fatal like a transport error.
type ConfigError struct {
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("evi: session configuration failed: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// VendorError is an error event delivered by the voice API itself.
type VendorError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *VendorError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("evi: vendor error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("evi: vendor error: %s", e.Message)
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsConfig reports whether err is a session configuration failure.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
