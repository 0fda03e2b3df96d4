package audio

import (
	"encoding/base64"
	"fmt"
	"sync"
	"testing"
	"time"
)

func enc(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestQueueFIFOOrder(t *testing.T) {
	sink := NewMockSink()
	q := NewQueue(Linear16{}, sink, nil)
	defer q.Close()

	const n = 20
	want := make([][]byte, n)
	for i := 0; i < n; i++ {
		want[i] = []byte{byte(i), byte(i + 1)}
		q.Enqueue(enc(want[i]))
	}

	waitFor(t, 2*time.Second, func() bool { return sink.WriteCount() == n })
	q.Close()

	for i, got := range sink.Writes {
		if string(got) != string(want[i]) {
			t.Errorf("write %d = %v, want %v", i, got, want[i])
		}
	}
}

func TestQueuePlayingChangeOrdered(t *testing.T) {
	sink := NewMockSink()
	q := NewQueue(Linear16{}, sink, nil)
	defer q.Close()

	var mu sync.Mutex
	var flips []bool
	q.OnPlayingChange(func(playing bool) {
		mu.Lock()
		flips = append(flips, playing)
		mu.Unlock()
	})

	const cycles = 50
	for i := 0; i < cycles; i++ {
		q.Enqueue(enc([]byte{byte(i), 0}))
		waitFor(t, 2*time.Second, func() bool { return !q.Playing() })
	}

	// Each cycle flips exactly twice; fast flips must still arrive in
	// the order they happened, never a false before its true.
	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(flips) == 2*cycles
	})

	mu.Lock()
	defer mu.Unlock()
	for i, playing := range flips {
		if want := i%2 == 0; playing != want {
			t.Fatalf("flip %d = %v, want %v (sequence %v)", i, playing, want, flips)
		}
	}
}

func TestQueueSingleInFlight(t *testing.T) {
	sink := NewMockSink()
	sink.PlayDelay = 20 * time.Millisecond
	q := NewQueue(Linear16{}, sink, nil)
	defer q.Close()

	for i := 0; i < 4; i++ {
		q.Enqueue(enc([]byte{byte(i), 0}))
	}

	// With a blocking sink write, drains must be strictly serialized:
	// after one play delay, at most one or two writes can have landed.
	time.Sleep(30 * time.Millisecond)
	if c := sink.WriteCount(); c > 2 {
		t.Fatalf("got %d writes after one play cycle, playback is not serialized", c)
	}
	waitFor(t, 2*time.Second, func() bool { return sink.WriteCount() == 4 })
}

func TestQueuePlayingFlag(t *testing.T) {
	sink := NewMockSink()
	q := NewQueue(Linear16{}, sink, nil)
	defer q.Close()

	if q.Playing() {
		t.Fatal("new queue reports playing")
	}

	q.Enqueue(enc([]byte{1, 2}))
	q.Enqueue(enc([]byte{3, 4}))
	waitFor(t, 2*time.Second, func() bool { return sink.WriteCount() == 2 })
	waitFor(t, time.Second, func() bool { return !q.Playing() })
}

func TestQueueInterrupt(t *testing.T) {
	sink := NewMockSink()
	sink.PlayDelay = 50 * time.Millisecond
	q := NewQueue(Linear16{}, sink, nil)
	defer q.Close()

	for i := 0; i < 10; i++ {
		q.Enqueue(enc([]byte{byte(i), 0}))
	}
	waitFor(t, time.Second, func() bool { return sink.WriteCount() >= 1 })

	q.Interrupt()

	if q.Playing() {
		t.Error("playing flag still true after interrupt")
	}
	if q.Len() != 0 {
		t.Errorf("queue length = %d after interrupt, want 0", q.Len())
	}
	if sink.ClearCalls == 0 {
		t.Error("sink was not cleared on interrupt")
	}

	// Nothing enqueued before the interruption may play afterwards.
	before := sink.WriteCount()
	time.Sleep(150 * time.Millisecond)
	// The one write that was already in flight when Interrupt ran may
	// complete, but no further segment may start.
	if after := sink.WriteCount(); after > before {
		t.Errorf("%d segments played after interrupt", after-before)
	}
}

func TestQueueEnqueueAfterInterruptPlays(t *testing.T) {
	sink := NewMockSink()
	q := NewQueue(Linear16{}, sink, nil)
	defer q.Close()

	q.Enqueue(enc([]byte{1, 1}))
	q.Interrupt()
	q.Enqueue(enc([]byte{2, 2}))

	waitFor(t, 2*time.Second, func() bool { return sink.WriteCount() >= 1 })
	q.Close()

	last := sink.Writes[len(sink.Writes)-1]
	if string(last) != string([]byte{2, 2}) {
		t.Errorf("segment enqueued after interrupt did not play: got %v", last)
	}
}

func TestQueueCorruptSegmentDropped(t *testing.T) {
	sink := NewMockSink()
	q := NewQueue(Linear16{}, sink, nil)
	defer q.Close()

	q.Enqueue("***not-base64***")
	q.Enqueue(enc([]byte{9, 9}))

	// The corrupt segment must not stall the drain.
	waitFor(t, 2*time.Second, func() bool { return sink.WriteCount() == 1 })
	q.Close()
	if string(sink.Writes[0]) != string([]byte{9, 9}) {
		t.Errorf("unexpected write %v", sink.Writes[0])
	}
}

func TestQueueCloseStopsDrain(t *testing.T) {
	sink := NewMockSink()
	q := NewQueue(Linear16{}, sink, nil)

	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	q.Enqueue(enc([]byte{1, 2}))
	time.Sleep(20 * time.Millisecond)
	if sink.WriteCount() != 0 {
		t.Error("segment played after Close")
	}
}

func TestQueuePlayingChangeCallback(t *testing.T) {
	sink := NewMockSink()
	q := NewQueue(Linear16{}, sink, nil)
	defer q.Close()

	changes := make(chan bool, 8)
	q.OnPlayingChange(func(p bool) { changes <- p })

	q.Enqueue(enc([]byte{1, 2}))

	for _, want := range []bool{true, false} {
		select {
		case got := <-changes:
			if got != want {
				t.Fatalf("playing change = %v, want %v", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no playing-change callback (want %v)", want)
		}
	}
}

func TestQueueOrderProperty(t *testing.T) {
	// Tagged segments over several sizes: playback order must equal
	// enqueue order for every sequence.
	for _, n := range []int{1, 5, 50} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			sink := NewMockSink()
			q := NewQueue(Linear16{}, sink, nil)
			defer q.Close()

			for i := 0; i < n; i++ {
				q.Enqueue(enc([]byte{byte(i >> 8), byte(i)}))
			}
			waitFor(t, 5*time.Second, func() bool { return sink.WriteCount() == n })
			q.Close()

			for i, got := range sink.Writes {
				tag := int(got[0])<<8 | int(got[1])
				if tag != i {
					t.Fatalf("position %d played tag %d", i, tag)
				}
			}
		})
	}
}
