package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Device errors. Both indicate capture can never start for this session.
var (
	// ErrNoDevice indicates no usable audio input device was found.
	ErrNoDevice = errors.New("audio: no usable input device")

	// ErrAmbiguousDevice indicates more than one usable input device was
	// found and no explicit selection was made. Ambiguous selection is
	// rejected rather than guessed.
	ErrAmbiguousDevice = errors.New("audio: ambiguous input device selection")
)

// IsDeviceError reports whether err is a device resolution failure.
func IsDeviceError(err error) bool {
	return errors.Is(err, ErrNoDevice) || errors.Is(err, ErrAmbiguousDevice)
}

// Chunk represents a chunk of captured audio.
type Chunk struct {
	// Samples contains PCM16 audio samples (little-endian).
	Samples []int16

	// SampleRate is the sample rate of this chunk.
	SampleRate int

	// Channels is the number of channels in this chunk.
	Channels int
}

// Bytes returns the raw PCM16 bytes of the chunk.
func (c *Chunk) Bytes() []byte {
	return SamplesToBytes(c.Samples)
}

// Duration returns the duration of this chunk in seconds.
func (c *Chunk) Duration() float64 {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate*c.Channels)
}

// Source captures audio from a microphone or other input device.
// A Source is not restartable: once stopped, a new practice session
// creates a new Source with its own handle.
type Source interface {
	// Start begins audio capture.
	Start(ctx context.Context) error

	// Stop halts audio capture and releases the underlying device.
	// It is safe to call Stop multiple times.
	Stop() error

	// Stream returns a channel that receives audio chunks.
	// The channel is closed when the source is stopped.
	Stream() <-chan Chunk

	// SampleRate returns the native sample rate of the device.
	SampleRate() int

	// Name returns the backend name (e.g., "mock").
	Name() string

	// Close releases all resources.
	io.Closer
}

// DeviceInfo describes an audio input device.
type DeviceInfo struct {
	ID    string
	Label string
	// Usable reports whether the device currently has a live audio track.
	Usable bool
}

// ResolveInput picks the single usable input device from devices.
// Exactly one usable device must be present: zero yields ErrNoDevice,
// more than one yields ErrAmbiguousDevice.
func ResolveInput(devices []DeviceInfo) (DeviceInfo, error) {
	var found []DeviceInfo
	for _, d := range devices {
		if d.Usable {
			found = append(found, d)
		}
	}

	switch len(found) {
	case 0:
		return DeviceInfo{}, ErrNoDevice
	case 1:
		return found[0], nil
	default:
		return DeviceInfo{}, fmt.Errorf("%w: %d usable devices", ErrAmbiguousDevice, len(found))
	}
}

// Enumerator lists available audio input devices.
type Enumerator interface {
	InputDevices(ctx context.Context) ([]DeviceInfo, error)
}
