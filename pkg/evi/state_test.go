package evi

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpening, "opening"},
		{StateOpen, "open"},
		{StateClosing, "closing"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []Transition{
		{StateClosed, StateOpening},
		{StateOpening, StateOpen},
		{StateOpening, StateFailed},
		{StateOpening, StateClosing},
		{StateOpen, StateClosing},
		{StateOpen, StateFailed},
		{StateClosing, StateClosed},
		{StateClosing, StateFailed},
		{StateFailed, StateClosing},
	}
	for _, tr := range allowed {
		if !CanTransition(tr.From, tr.To) {
			t.Errorf("transition %v -> %v should be allowed", tr.From, tr.To)
		}
	}

	forbidden := []Transition{
		{StateClosed, StateOpen},    // must pass through Opening
		{StateClosed, StateFailed},  // Failed is only reachable from live states
		{StateOpen, StateOpening},   // no re-negotiation on a live session
		{StateFailed, StateOpen},    // a failed session is never resurrected
		{StateFailed, StateOpening}, // reconnect means a fresh client
		{StateClosing, StateOpen},
	}
	for _, tr := range forbidden {
		if CanTransition(tr.From, tr.To) {
			t.Errorf("transition %v -> %v should be forbidden", tr.From, tr.To)
		}
	}

	// Self-transitions are no-ops, always permitted.
	for _, s := range []State{StateClosed, StateOpening, StateOpen, StateClosing, StateFailed} {
		if !CanTransition(s, s) {
			t.Errorf("self transition %v rejected", s)
		}
	}
}
