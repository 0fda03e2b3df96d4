// Package audio provides microphone capture and ordered playback for
// voice practice sessions.
//
// Capture chunks microphone audio on a fixed interval and hands encoded
// chunks to the voice session for transmission. Playback is a strict
// FIFO queue of base64 segments received from the session, played one
// at a time. Mock source and sink implementations allow hardware-free
// tests.
package audio

import (
	"fmt"
	"time"
)

// Codec names understood by NewCodec.
const (
	CodecLinear16 = "linear16"
	CodecOpus     = "opus"
)

// Config holds audio configuration shared by capture and playback.
type Config struct {
	// SampleRate is the session audio sample rate in Hz.
	// Default: 16000 (linear16 voice sessions)
	SampleRate int `koanf:"sample_rate" json:"sample_rate"`

	// Channels is the number of audio channels. Default: 1 (mono).
	Channels int `koanf:"channels" json:"channels"`

	// Interval is the capture chunk interval. Default: 100ms.
	Interval time.Duration `koanf:"interval" json:"interval"`

	// Codec selects the chunk encoding: "linear16" or "opus".
	Codec string `koanf:"codec" json:"codec"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		Channels:   1,
		Interval:   100 * time.Millisecond,
		Codec:      CodecLinear16,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channels must be positive, got %d", c.Channels)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	switch c.Codec {
	case "", CodecLinear16, CodecOpus:
	default:
		return fmt.Errorf("unknown codec %q", c.Codec)
	}
	return nil
}

// ChunkSamples returns the number of samples per capture chunk.
func (c *Config) ChunkSamples() int {
	return int(float64(c.SampleRate) * c.Interval.Seconds())
}

// ChunkBytes returns the size of a capture chunk in bytes (PCM16).
func (c *Config) ChunkBytes() int {
	return c.ChunkSamples() * c.Channels * 2
}
