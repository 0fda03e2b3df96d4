package audio

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrSendNotReady is returned by a ChunkHandler when the transport is
// not ready to accept a chunk. The chunk is dropped with a warning, not
// buffered: stale audio is useless in a live conversation.
var ErrSendNotReady = errors.New("audio: transport not ready")

// ChunkHandler receives each encoded capture chunk. Returning
// ErrSendNotReady (or any error) drops the chunk.
type ChunkHandler func(encoded []byte) error

// Capture owns a microphone Source for the lifetime of one session.
// It aggregates source chunks to the configured interval, resamples to
// the session rate, encodes, and hands chunks to the handler.
//
// A Capture is single-use: Stop releases the device exactly once and
// the capture cannot be restarted. A new session creates a new Capture.
type Capture struct {
	cfg    Config
	src    Source
	codec  Codec
	logger *slog.Logger

	mu      sync.Mutex
	started bool

	stopOnce sync.Once
	stopErr  error
	done     chan struct{}

	chunksSent    atomic.Int64
	chunksDropped atomic.Int64
}

// NewCapture creates a Capture over src. The enumerator, when non-nil,
// is consulted first: exactly one usable input device must resolve or
// capture fails with a device error before the source is touched.
func NewCapture(ctx context.Context, cfg Config, src Source, codec Codec, enum Enumerator, logger *slog.Logger) (*Capture, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	if enum != nil {
		devices, err := enum.InputDevices(ctx)
		if err != nil {
			return nil, err
		}
		dev, err := ResolveInput(devices)
		if err != nil {
			return nil, err
		}
		logger.Debug("resolved input device", "id", dev.ID, "label", dev.Label)
	}

	return &Capture{
		cfg:    cfg,
		src:    src,
		codec:  codec,
		logger: logger,
		done:   make(chan struct{}),
	}, nil
}

// Start begins capture. Chunks arrive on onChunk every cfg.Interval
// until Stop is called or ctx is cancelled.
func (c *Capture) Start(ctx context.Context, onChunk ChunkHandler) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("audio: capture already started")
	}
	c.started = true
	c.mu.Unlock()

	if err := c.src.Start(ctx); err != nil {
		// Release the device on the failure path too.
		_ = c.Stop()
		return err
	}

	go c.pumpLoop(ctx, onChunk)

	c.logger.Info("audio capture started",
		"backend", c.src.Name(),
		"codec", c.codec.Name(),
		"interval_ms", c.cfg.Interval.Milliseconds(),
	)

	return nil
}

func (c *Capture) pumpLoop(ctx context.Context, onChunk ChunkHandler) {
	var pending []int16
	target := c.cfg.ChunkSamples() * c.cfg.Channels

	for {
		select {
		case <-ctx.Done():
			_ = c.Stop()
			return
		case <-c.done:
			return
		case chunk, ok := <-c.src.Stream():
			if !ok {
				return
			}

			samples := chunk.Samples
			if chunk.SampleRate != c.cfg.SampleRate {
				samples = Resample(samples, chunk.SampleRate, c.cfg.SampleRate)
			}
			pending = append(pending, samples...)

			for len(pending) >= target {
				c.emit(pending[:target], onChunk)
				pending = pending[target:]
			}
		}
	}
}

func (c *Capture) emit(samples []int16, onChunk ChunkHandler) {
	encoded, err := c.codec.Encode(SamplesToBytes(samples))
	if err != nil {
		c.chunksDropped.Add(1)
		c.logger.Warn("encode failed, dropping chunk", "error", err)
		return
	}

	if err := onChunk(encoded); err != nil {
		c.chunksDropped.Add(1)
		if errors.Is(err, ErrSendNotReady) {
			c.logger.Warn("transport not ready, dropping chunk", "bytes", len(encoded))
		} else {
			c.logger.Warn("send failed, dropping chunk", "error", err)
		}
		return
	}
	c.chunksSent.Add(1)
}

// Stop halts capture and releases the microphone. Safe to call from
// any exit path; the underlying device is released exactly once.
func (c *Capture) Stop() error {
	c.stopOnce.Do(func() {
		close(c.done)
		c.stopErr = c.src.Stop()
		c.logger.Info("audio capture stopped",
			"chunks_sent", c.chunksSent.Load(),
			"chunks_dropped", c.chunksDropped.Load(),
		)
	})
	return c.stopErr
}
