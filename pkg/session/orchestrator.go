package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marcusbk37/go-roleplay/internal/log"
	"github.com/marcusbk37/go-roleplay/pkg/audio"
	"github.com/marcusbk37/go-roleplay/pkg/evi"
	"github.com/marcusbk37/go-roleplay/pkg/feedback"
	"github.com/marcusbk37/go-roleplay/pkg/scenario"
)

var (
	// ErrSessionActive is returned when a second session is started
	// while one is running. The microphone and output device are
	// singly-owned, so concurrent sessions are rejected outright.
	ErrSessionActive = errors.New("session: a session is already active")

	// ErrNoSession is returned by EndSession with nothing running.
	ErrNoSession = errors.New("session: no active session")
)

// Capturer is the slice of audio.Capture the orchestrator drives.
type Capturer interface {
	Start(ctx context.Context, onChunk audio.ChunkHandler) error
	Stop() error
}

// Player is the slice of audio.Queue the orchestrator drives.
type Player interface {
	Enqueue(segment string)
	Interrupt()
	Playing() bool
	OnPlayingChange(fn func(playing bool))
	Close() error
}

// Analyzer produces feedback for a finished transcript.
type Analyzer interface {
	Analyze(ctx context.Context, transcript []feedback.TranscriptEntry, objectives []string, scenarioType scenario.Type) (*feedback.Result, *feedback.Usage, error)
}

// CredentialSource exchanges a scenario id for voice-API credentials.
type CredentialSource func(scenarioID string) (evi.Credentials, error)

// Factories let tests substitute mocks for the device-backed parts.
type Factories struct {
	NewSession func() evi.Session
	NewCapture func(ctx context.Context) (Capturer, error)
	NewPlayer  func() (Player, error)
}

// Orchestrator runs one practice session at a time through the
// Ready -> Active -> Analyzing -> Ready loop.
type Orchestrator struct {
	creds     CredentialSource
	analyzer  Analyzer
	factories Factories
	events    Sink
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	current *Record
	sess    evi.Session
	capture Capturer
	player  Player
	history []*Record // newest first
}

// NewOrchestrator wires an orchestrator. A nil events sink is
// replaced with a no-op.
func NewOrchestrator(creds CredentialSource, analyzer Analyzer, factories Factories, events Sink) *Orchestrator {
	if events == nil {
		events = nopSink{}
	}
	return &Orchestrator{
		creds:     creds,
		analyzer:  analyzer,
		factories: factories,
		events:    events,
		logger:    log.Component("session"),
		state:     StateReady,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Current returns the active session record, or nil.
func (o *Orchestrator) Current() *Record {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// History returns completed session records, newest first.
func (o *Orchestrator) History() []*Record {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*Record, len(o.history))
	copy(out, o.history)
	return out
}

// Transcript returns a snapshot of the active session's transcript.
func (o *Orchestrator) Transcript() []feedback.TranscriptEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return nil
	}
	out := make([]feedback.TranscriptEntry, len(o.current.Transcript))
	copy(out, o.current.Transcript)
	return out
}

// StartSession resolves the microphone, connects the voice session,
// and begins streaming audio. The session reaches Active only after
// the transport is open and configured; device resolution happens
// first, so a missing or ambiguous microphone never touches the
// network.
func (o *Orchestrator) StartSession(ctx context.Context, scenarioID string) (*Record, error) {
	o.mu.Lock()
	if o.state != StateReady {
		o.mu.Unlock()
		return nil, ErrSessionActive
	}
	o.state = StateConnecting
	o.mu.Unlock()

	rec, err := o.startSession(ctx, scenarioID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.state = StateReady
		return nil, err
	}
	o.state = StateActive
	o.publishLocked(Event{Type: "status", SessionID: rec.ID, State: StateActive.String()})
	return rec, nil
}

func (o *Orchestrator) startSession(ctx context.Context, scenarioID string) (*Record, error) {
	sc, err := scenario.Get(scenarioID)
	if err != nil {
		return nil, err
	}

	capture, err := o.factories.NewCapture(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: resolve capture: %w", err)
	}

	player, err := o.factories.NewPlayer()
	if err != nil {
		_ = capture.Stop()
		return nil, fmt.Errorf("session: open playback: %w", err)
	}

	creds, err := o.creds(scenarioID)
	if err != nil {
		_ = capture.Stop()
		_ = player.Close()
		return nil, err
	}

	rec := &Record{
		ID:         uuid.NewString(),
		ScenarioID: scenarioID,
		StartedAt:  time.Now(),
		Transcript: []feedback.TranscriptEntry{},
	}

	sess := o.factories.NewSession()
	o.wireCallbacks(sess, player, rec)

	// The record is visible before the transport opens so transcript
	// events delivered during connect are never dropped.
	o.mu.Lock()
	o.current = rec
	o.sess = sess
	o.capture = capture
	o.player = player
	o.mu.Unlock()

	cleanup := func() {
		o.mu.Lock()
		o.current, o.sess, o.capture, o.player = nil, nil, nil, nil
		o.mu.Unlock()
	}

	cfg := evi.SessionConfig{
		SystemPrompt: scenario.BuildSystemPrompt(sc),
	}
	if sc.Persona != nil {
		cfg.Voice = sc.Persona.Voice
	}
	if err := sess.Connect(ctx, creds, cfg); err != nil {
		cleanup()
		_ = capture.Stop()
		_ = player.Close()
		return nil, err
	}

	// Capture starts only after session settings are accepted, so no
	// speech reaches a misconfigured session. Chunks produced while
	// the transport is not ready are dropped inside Capture.
	if err := capture.Start(ctx, func(encoded []byte) error {
		if err := sess.SendAudio(encoded); err != nil {
			if errors.Is(err, evi.ErrNotOpen) {
				return audio.ErrSendNotReady
			}
			return err
		}
		return nil
	}); err != nil {
		cleanup()
		_ = sess.Disconnect()
		_ = capture.Stop()
		_ = player.Close()
		return nil, fmt.Errorf("session: start capture: %w", err)
	}

	o.logger.Info("session started", "session_id", rec.ID, "scenario", scenarioID)
	return rec, nil
}

func (o *Orchestrator) wireCallbacks(sess evi.Session, player Player, rec *Record) {
	sess.OnAudio(func(data string) {
		player.Enqueue(data)
	})
	sess.OnTranscript(func(role evi.Role, text string) {
		entry := feedback.TranscriptEntry{
			Speaker:       string(role),
			Text:          text,
			OffsetSeconds: time.Since(rec.StartedAt).Seconds(),
		}
		o.mu.Lock()
		// Entries are appended in delivery order; the transport's
		// ordering is the transcript's ordering.
		if o.current == rec {
			rec.Transcript = append(rec.Transcript, entry)
		}
		o.mu.Unlock()
		o.events.Publish(Event{
			Type:      "transcript",
			SessionID: rec.ID,
			Speaker:   entry.Speaker,
			Text:      entry.Text,
			Offset:    entry.OffsetSeconds,
		})
	})
	sess.OnInterruption(func() {
		player.Interrupt()
		o.events.Publish(Event{Type: "speaking", SessionID: rec.ID, Speaking: false})
	})
	sess.OnError(func(err error) {
		o.logger.Error("voice session error", "session_id", rec.ID, "error", err)
		o.events.Publish(Event{Type: "error", SessionID: rec.ID, Error: err.Error()})
	})
	player.OnPlayingChange(func(playing bool) {
		o.events.Publish(Event{Type: "speaking", SessionID: rec.ID, Speaking: playing})
	})
}

// EndSession disconnects, releases the audio devices, and runs
// feedback analysis when the transcript is non-empty. An empty
// transcript skips analysis and returns directly to Ready; a failed
// analysis still records the session with a degraded placeholder
// rather than discarding the transcript.
func (o *Orchestrator) EndSession(ctx context.Context) (*Record, error) {
	o.mu.Lock()
	if o.state != StateActive || o.current == nil {
		o.mu.Unlock()
		return nil, ErrNoSession
	}
	rec := o.current
	sess, capture, player := o.sess, o.capture, o.player
	o.current, o.sess, o.capture, o.player = nil, nil, nil, nil
	o.state = StateAnalyzing
	o.mu.Unlock()

	// Resource release happens on every path, including analyzer
	// failure below.
	if err := capture.Stop(); err != nil {
		o.logger.Warn("capture stop failed", "error", err)
	}
	if err := sess.Disconnect(); err != nil {
		o.logger.Warn("disconnect failed", "error", err)
	}
	if err := player.Close(); err != nil {
		o.logger.Warn("playback close failed", "error", err)
	}

	rec.EndedAt = time.Now()

	if len(rec.Transcript) == 0 {
		o.logger.Info("session ended with empty transcript, skipping analysis", "session_id", rec.ID)
		o.finish(rec)
		return rec, nil
	}

	o.events.Publish(Event{Type: "status", SessionID: rec.ID, State: StateAnalyzing.String()})

	sc, err := scenario.Get(rec.ScenarioID)
	var objectives []string
	var scType scenario.Type
	if err == nil {
		objectives = sc.Objectives
		scType = sc.Type
	}

	result, usage, err := o.analyzer.Analyze(ctx, rec.Transcript, objectives, scType)
	if err != nil {
		o.logger.Error("analysis failed, attaching placeholder", "session_id", rec.ID, "error", err)
		rec.Analysis = feedback.DegradedResult()
	} else {
		rec.Analysis = result
		rec.Usage = usage
	}

	o.finish(rec)
	return rec, nil
}

func (o *Orchestrator) finish(rec *Record) {
	o.mu.Lock()
	o.history = append([]*Record{rec}, o.history...)
	o.state = StateReady
	o.publishLocked(Event{Type: "status", SessionID: rec.ID, State: StateReady.String()})
	o.mu.Unlock()
	o.logger.Info("session recorded", "session_id", rec.ID, "entries", len(rec.Transcript))
}

func (o *Orchestrator) publishLocked(ev Event) {
	// Sinks must not block; publish inline.
	o.events.Publish(ev)
}
