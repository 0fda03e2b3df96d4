package audio

import (
	"context"
	"encoding/base64"
	"log/slog"
	"sync"
)

// Queue plays received audio segments strictly in arrival order, one
// at a time. A segment is never started while another is still playing.
//
// Each session owns exactly one Queue; the queue and its playing flag
// are never shared between sessions.
type Queue struct {
	codec  Codec
	sink   Sink
	logger *slog.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	segments []string
	playing  bool
	inFlight bool
	gen      uint64 // bumped on Interrupt; stale segments are discarded
	closed   bool

	// Playing-flag flips are queued under the lock and delivered by a
	// single dispatcher, so observers see them in flip order.
	notifyCond    *sync.Cond
	notifyPending []bool

	onPlayingChange func(bool)
}

// NewQueue creates a playback queue draining into sink. The drain loop
// runs until Close.
func NewQueue(codec Codec, sink Sink, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		codec:  codec,
		sink:   sink,
		logger: logger,
	}
	q.cond = sync.NewCond(&q.mu)
	q.notifyCond = sync.NewCond(&q.mu)
	go q.drainLoop()
	go q.notifyLoop()
	return q
}

// OnPlayingChange sets the callback invoked whenever the playing flag
// flips. Used to drive the speaking indicator.
func (q *Queue) OnPlayingChange(fn func(playing bool)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onPlayingChange = fn
}

// Enqueue adds a base64-encoded audio segment to the back of the queue.
func (q *Queue) Enqueue(segment string) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.segments = append(q.segments, segment)
	q.setPlayingLocked(true)
	q.mu.Unlock()
	q.cond.Signal()
}

// Playing reports whether a segment is playing or queued.
func (q *Queue) Playing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.playing
}

// Len returns the number of queued (not yet started) segments.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.segments)
}

// Interrupt discards every queued segment and forces the playing flag
// false immediately. Nothing enqueued before the interruption will
// play afterwards, even if a decode or play is in flight.
func (q *Queue) Interrupt() {
	q.mu.Lock()
	q.segments = nil
	q.gen++
	q.setPlayingLocked(false)
	q.mu.Unlock()

	if err := q.sink.Clear(); err != nil {
		q.logger.Warn("sink clear failed", "error", err)
	}
}

// Close stops the drain loop and releases the sink.
func (q *Queue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.segments = nil
	q.setPlayingLocked(false)
	q.mu.Unlock()
	q.cond.Broadcast()
	q.notifyCond.Broadcast()
	return q.sink.Close()
}

func (q *Queue) drainLoop() {
	for {
		q.mu.Lock()
		for len(q.segments) == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.closed {
			q.mu.Unlock()
			return
		}

		segment := q.segments[0]
		q.segments = q.segments[1:]
		gen := q.gen
		q.inFlight = true
		q.mu.Unlock()

		q.playSegment(segment, gen)

		q.mu.Lock()
		q.inFlight = false
		if len(q.segments) == 0 {
			q.setPlayingLocked(false)
		}
		q.mu.Unlock()
	}
}

// playSegment decodes and plays one segment. A corrupt segment is
// logged and dropped so the queue never stalls.
func (q *Queue) playSegment(segment string, gen uint64) {
	raw, err := base64.StdEncoding.DecodeString(segment)
	if err != nil {
		q.logger.Warn("dropping segment: base64 decode failed", "error", err)
		return
	}

	pcm, err := q.codec.Decode(raw)
	if err != nil {
		q.logger.Warn("dropping segment: audio decode failed", "error", err)
		return
	}

	// Interrupted while decoding: the segment predates the interruption
	// and must not play.
	q.mu.Lock()
	stale := gen != q.gen
	q.mu.Unlock()
	if stale {
		return
	}

	if err := q.sink.Write(context.Background(), pcm); err != nil {
		q.logger.Warn("dropping segment: sink write failed", "error", err)
	}
}

// setPlayingLocked updates the flag and queues the change for the
// notify loop. Caller must hold q.mu.
func (q *Queue) setPlayingLocked(playing bool) {
	if q.playing == playing {
		return
	}
	q.playing = playing
	q.notifyPending = append(q.notifyPending, playing)
	q.notifyCond.Signal()
}

// notifyLoop delivers queued flag changes one at a time, in the order
// they happened. Pending changes still drain after Close so the final
// flip to false is never lost.
func (q *Queue) notifyLoop() {
	q.mu.Lock()
	for {
		for len(q.notifyPending) == 0 && !q.closed {
			q.notifyCond.Wait()
		}
		if len(q.notifyPending) == 0 {
			q.mu.Unlock()
			return
		}
		playing := q.notifyPending[0]
		q.notifyPending = q.notifyPending[1:]
		fn := q.onPlayingChange
		q.mu.Unlock()

		if fn != nil {
			fn(playing)
		}
		q.mu.Lock()
	}
}
