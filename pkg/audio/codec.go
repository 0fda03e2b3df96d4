package audio

import (
	"encoding/binary"
	"fmt"

	"gopkg.in/hraban/opus.v2"
)

// Codec encodes capture chunks for transmission and decodes received
// playback segments back to PCM16.
type Codec interface {
	// Encode converts a PCM16 chunk to the wire encoding.
	Encode(pcm []byte) ([]byte, error)

	// Decode converts a wire payload back to PCM16.
	Decode(data []byte) ([]byte, error)

	// Name returns the codec name ("linear16", "opus").
	Name() string
}

// NewCodec creates the codec named in cfg.Codec at cfg.SampleRate.
func NewCodec(cfg Config) (Codec, error) {
	switch cfg.Codec {
	case "", CodecLinear16:
		return Linear16{}, nil
	case CodecOpus:
		return NewOpusCodec(cfg.SampleRate, cfg.Channels)
	default:
		return nil, fmt.Errorf("audio: unknown codec %q", cfg.Codec)
	}
}

// Linear16 is the identity codec: raw PCM16 on the wire.
type Linear16 struct{}

// Encode returns pcm unchanged.
func (Linear16) Encode(pcm []byte) ([]byte, error) { return pcm, nil }

// Decode returns data unchanged.
func (Linear16) Decode(data []byte) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("audio: linear16 payload has odd length %d", len(data))
	}
	return data, nil
}

// Name returns "linear16".
func (Linear16) Name() string { return CodecLinear16 }

// opus payloads carry a sequence of 20ms opus frames, each prefixed
// with a big-endian uint16 length, so a 100ms capture chunk is five
// frames in one payload.
const opusFrameMs = 20

// OpusCodec compresses chunks with libopus (VoIP profile).
type OpusCodec struct {
	sampleRate int
	channels   int
	enc        *opus.Encoder
	dec        *opus.Decoder
	frameSize  int // samples per channel per frame
}

// NewOpusCodec creates an opus encoder/decoder pair.
func NewOpusCodec(sampleRate, channels int) (*OpusCodec, error) {
	enc, err := opus.NewEncoder(sampleRate, channels, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("audio: create opus encoder: %w", err)
	}
	dec, err := opus.NewDecoder(sampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("audio: create opus decoder: %w", err)
	}
	return &OpusCodec{
		sampleRate: sampleRate,
		channels:   channels,
		enc:        enc,
		dec:        dec,
		frameSize:  sampleRate * opusFrameMs / 1000,
	}, nil
}

// Encode compresses a PCM16 chunk into length-prefixed opus frames.
// The chunk must be a whole number of 20ms frames.
func (c *OpusCodec) Encode(pcm []byte) ([]byte, error) {
	samples := BytesToSamples(pcm)
	frame := c.frameSize * c.channels
	if len(samples)%frame != 0 {
		return nil, fmt.Errorf("audio: opus chunk of %d samples is not a whole number of %dms frames", len(samples), opusFrameMs)
	}

	out := make([]byte, 0, len(pcm)/4)
	buf := make([]byte, 4000) // libopus max packet size
	for off := 0; off < len(samples); off += frame {
		n, err := c.enc.Encode(samples[off:off+frame], buf)
		if err != nil {
			return nil, fmt.Errorf("audio: opus encode: %w", err)
		}
		out = binary.BigEndian.AppendUint16(out, uint16(n))
		out = append(out, buf[:n]...)
	}
	return out, nil
}

// Decode expands length-prefixed opus frames back to PCM16.
func (c *OpusCodec) Decode(data []byte) ([]byte, error) {
	var samples []int16
	frameBuf := make([]int16, c.frameSize*c.channels*3) // allow up to 60ms frames
	for len(data) > 0 {
		if len(data) < 2 {
			return nil, fmt.Errorf("audio: truncated opus frame header")
		}
		n := int(binary.BigEndian.Uint16(data))
		data = data[2:]
		if n > len(data) {
			return nil, fmt.Errorf("audio: opus frame length %d exceeds payload", n)
		}
		decoded, err := c.dec.Decode(data[:n], frameBuf)
		if err != nil {
			return nil, fmt.Errorf("audio: opus decode: %w", err)
		}
		samples = append(samples, frameBuf[:decoded*c.channels]...)
		data = data[n:]
	}
	return SamplesToBytes(samples), nil
}

// Name returns "opus".
func (c *OpusCodec) Name() string { return CodecOpus }
