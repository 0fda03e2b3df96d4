package audio

import (
	"context"
	"io"
	"testing"
	"time"
)

func mockCfg() Config {
	cfg := DefaultConfig()
	cfg.Interval = time.Millisecond
	return cfg
}

func TestMockSourceStartStopCycles(t *testing.T) {
	src := NewMockSource(mockCfg(), nil, WithSineWave(440, 0.2))

	for i := 0; i < 200; i++ {
		if err := src.Start(context.Background()); err != nil {
			t.Fatalf("Start #%d: %v", i, err)
		}

		stream := src.Stream()
		drained := make(chan struct{})
		go func() {
			for range stream {
			}
			close(drained)
		}()

		if err := src.Stop(); err != nil {
			t.Fatalf("Stop #%d: %v", i, err)
		}

		// The generator closes the stream on its way out.
		select {
		case <-drained:
		case <-time.After(2 * time.Second):
			t.Fatalf("stream not closed after Stop #%d", i)
		}
	}
}

func TestMockSourceStopIdempotent(t *testing.T) {
	src := NewMockSource(mockCfg(), nil)
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := src.Stop(); err != nil {
			t.Fatalf("Stop #%d: %v", i+1, err)
		}
	}
}

func TestMockSourceEmitsSine(t *testing.T) {
	src := NewMockSource(mockCfg(), nil, WithSineWave(440, 0.5))
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer src.Stop()

	select {
	case chunk := <-src.Stream():
		if len(chunk.Samples) != mockCfg().ChunkSamples() {
			t.Errorf("chunk samples = %d, want %d", len(chunk.Samples), mockCfg().ChunkSamples())
		}
		var nonZero bool
		for _, s := range chunk.Samples {
			if s != 0 {
				nonZero = true
				break
			}
		}
		if !nonZero {
			t.Error("sine chunk is all zeros")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no chunk emitted")
	}
}

func TestMockSourceClosedRejectsStart(t *testing.T) {
	src := NewMockSource(mockCfg(), nil)
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := src.Start(context.Background()); err != io.ErrClosedPipe {
		t.Fatalf("Start after Close = %v, want io.ErrClosedPipe", err)
	}
}
