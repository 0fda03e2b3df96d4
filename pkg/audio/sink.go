package audio

import (
	"context"
	"io"
)

// Sink plays audio to a speaker or other output device.
type Sink interface {
	// Start begins audio playback.
	Start(ctx context.Context) error

	// Stop halts audio playback.
	// It is safe to call Stop multiple times.
	Stop() error

	// Write sends PCM16 audio to the output device. Write blocks until
	// the audio has been handed to the device, which is what serializes
	// playback in the queue.
	Write(ctx context.Context, pcm []byte) error

	// Clear discards all buffered audio immediately.
	// Use this to interrupt playback when the user starts speaking.
	Clear() error

	// Name returns the backend name (e.g., "mock").
	Name() string

	// Close releases all resources.
	io.Closer
}
