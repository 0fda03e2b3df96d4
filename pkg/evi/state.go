package evi

// State is the voice session connection state.
type State int

const (
	// StateClosed indicates no connection.
	StateClosed State = iota
	// StateOpening indicates the websocket dial and session
	// configuration are in progress.
	StateOpening
	// StateOpen indicates the session is configured and streaming.
	StateOpen
	// StateClosing indicates a graceful shutdown is in progress.
	StateClosing
	// StateFailed is terminal for the session instance: the caller
	// decides whether to retry by creating a fresh connection.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transition is a state machine edge. Transitions are first-class so
// tests can assert reachable and unreachable edges without a socket.
type Transition struct {
	From, To State
}

// transitions is the set of legal edges. Disconnect is legal from any
// state and always lands in Closed; Failed is reachable from any
// non-Closed state.
var transitions = map[Transition]bool{
	{StateClosed, StateOpening}:  true,
	{StateOpening, StateOpen}:    true,
	{StateOpening, StateClosing}: true, // cancelled mid-connect
	{StateOpening, StateFailed}:  true,
	{StateOpen, StateClosing}:    true,
	{StateOpen, StateFailed}:     true,
	{StateClosing, StateClosed}:  true,
	{StateClosing, StateFailed}:  true,
	{StateFailed, StateClosing}:  true, // disconnect after failure
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to State) bool {
	if from == to {
		return true
	}
	return transitions[Transition{from, to}]
}
