package audio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// stubEnumerator returns a fixed device list.
type stubEnumerator struct {
	devices []DeviceInfo
	err     error
}

func (s *stubEnumerator) InputDevices(ctx context.Context) ([]DeviceInfo, error) {
	return s.devices, s.err
}

func TestResolveInput(t *testing.T) {
	tests := []struct {
		name    string
		devices []DeviceInfo
		wantErr error
	}{
		{"no devices", nil, ErrNoDevice},
		{"no usable devices", []DeviceInfo{{ID: "a", Usable: false}}, ErrNoDevice},
		{"one usable", []DeviceInfo{{ID: "a", Usable: true}}, nil},
		{"one usable among unusable", []DeviceInfo{{ID: "a"}, {ID: "b", Usable: true}}, nil},
		{"ambiguous", []DeviceInfo{{ID: "a", Usable: true}, {ID: "b", Usable: true}}, ErrAmbiguousDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, err := ResolveInput(tt.devices)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveInput() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !dev.Usable {
				t.Error("resolved an unusable device")
			}
		})
	}
}

func TestNewCaptureDeviceError(t *testing.T) {
	cfg := DefaultConfig()
	src := NewMockSource(cfg, nil)

	t.Run("zero devices", func(t *testing.T) {
		_, err := NewCapture(context.Background(), cfg, src, Linear16{}, &stubEnumerator{}, nil)
		if !IsDeviceError(err) {
			t.Fatalf("err = %v, want device error", err)
		}
	})

	t.Run("ambiguous devices", func(t *testing.T) {
		enum := &stubEnumerator{devices: []DeviceInfo{
			{ID: "a", Usable: true}, {ID: "b", Usable: true},
		}}
		_, err := NewCapture(context.Background(), cfg, src, Linear16{}, enum, nil)
		if !errors.Is(err, ErrAmbiguousDevice) {
			t.Fatalf("err = %v, want ErrAmbiguousDevice", err)
		}
	})

	// The source must not have been touched on either failure path.
	if src.ChunksRead() != 0 {
		t.Error("source was started despite device error")
	}
}

func TestCaptureEmitsChunks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interval = 20 * time.Millisecond

	src := NewMockSource(cfg, nil, WithSineWave(440, 0.5))
	cap, err := NewCapture(context.Background(), cfg, src, Linear16{}, nil, nil)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	defer cap.Stop()

	var mu sync.Mutex
	var sizes []int
	err = cap.Start(context.Background(), func(encoded []byte) error {
		mu.Lock()
		sizes = append(sizes, len(encoded))
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(sizes) >= 3
	})

	want := cfg.ChunkBytes()
	mu.Lock()
	defer mu.Unlock()
	for i, n := range sizes {
		if n != want {
			t.Errorf("chunk %d has %d bytes, want %d", i, n, want)
		}
	}
}

func TestCaptureDropsWhenNotReady(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interval = 20 * time.Millisecond

	src := NewMockSource(cfg, nil)
	cap, err := NewCapture(context.Background(), cfg, src, Linear16{}, nil, nil)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	defer cap.Stop()

	err = cap.Start(context.Background(), func([]byte) error {
		return ErrSendNotReady
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Dropped chunks must not stop the pump.
	waitFor(t, 2*time.Second, func() bool { return cap.chunksDropped.Load() >= 3 })
	if cap.chunksSent.Load() != 0 {
		t.Error("chunks counted as sent despite handler rejection")
	}
}

func TestCaptureStopReleasesOnce(t *testing.T) {
	cfg := DefaultConfig()
	src := NewMockSource(cfg, nil)
	cap, err := NewCapture(context.Background(), cfg, src, Linear16{}, nil, nil)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	if err := cap.Start(context.Background(), func([]byte) error { return nil }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := cap.Stop(); err != nil {
			t.Fatalf("Stop #%d: %v", i+1, err)
		}
	}
}

func TestCaptureRestartRejected(t *testing.T) {
	cfg := DefaultConfig()
	src := NewMockSource(cfg, nil)
	cap, err := NewCapture(context.Background(), cfg, src, Linear16{}, nil, nil)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	defer cap.Stop()

	if err := cap.Start(context.Background(), func([]byte) error { return nil }); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := cap.Start(context.Background(), func([]byte) error { return nil }); err == nil {
		t.Fatal("second Start succeeded, capture should be single-use")
	}
}
