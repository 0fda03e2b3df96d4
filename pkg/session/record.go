// Package session owns the conversation lifecycle: it wires audio
// capture, the playback queue, and the voice session client together,
// accumulates the transcript, and hands finished sessions to the
// feedback analyzer.
package session

import (
	"time"

	"github.com/marcusbk37/go-roleplay/pkg/feedback"
)

// State is the orchestrator lifecycle state.
type State int

const (
	StateReady State = iota
	StateConnecting
	StateActive
	StateAnalyzing
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateAnalyzing:
		return "analyzing"
	default:
		return "unknown"
	}
}

// Record is one completed (or in-progress) practice session. The
// transcript is append-only while the session is active and immutable
// once analysis is attached.
type Record struct {
	ID         string                     `json:"id"`
	ScenarioID string                     `json:"scenario_id"`
	StartedAt  time.Time                  `json:"started_at"`
	EndedAt    time.Time                  `json:"ended_at,omitempty"`
	Transcript []feedback.TranscriptEntry `json:"transcript"`
	Analysis   *feedback.Result           `json:"analysis,omitempty"`
	Usage      *feedback.Usage            `json:"usage,omitempty"`
}

// Event is published to observers (the live dashboard) as the session
// progresses.
type Event struct {
	Type      string  `json:"type"` // status, transcript, speaking, error, analysis
	SessionID string  `json:"session_id,omitempty"`
	State     string  `json:"state,omitempty"`
	Speaker   string  `json:"speaker,omitempty"`
	Text      string  `json:"text,omitempty"`
	Offset    float64 `json:"offset_seconds,omitempty"`
	Speaking  bool    `json:"speaking,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// Sink receives orchestrator events. Publish must not block.
type Sink interface {
	Publish(Event)
}

// nopSink drops events when no observer is wired.
type nopSink struct{}

func (nopSink) Publish(Event) {}
