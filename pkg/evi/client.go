// Package evi implements the client side of a streaming empathic voice
// session: a persistent websocket that carries microphone audio up and
// synthesized audio plus transcript events down.
//
// The connection lifecycle is an explicit state machine
// (Closed -> Opening -> Open -> Closing -> Closed, with a terminal
// Failed state) rather than ad hoc booleans, so lifecycle bugs are
// testable without a live socket. The client never reconnects on its
// own: resuming a voice conversation mid-sentence has no well-defined
// semantics, so retry is always a fresh session started by the caller.
package evi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultBaseURL is the production voice API endpoint.
	DefaultBaseURL = "wss://api.hume.ai/v0/evi/chat"

	// handshakeTimeout bounds the websocket dial. The vendor documents
	// no default, so one is imposed here.
	handshakeTimeout = 10 * time.Second

	readTimeout = 60 * time.Second
)

// Client is a voice session client. One Client instance corresponds to
// at most one session; after Failed it must be recreated.
type Client struct {
	baseURL string
	logger  *slog.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	state     State
	cancelCtx context.CancelFunc

	// Callbacks. Set before Connect.
	onAudio        func(data string) // base64 segment
	onTranscript   func(role Role, text string)
	onInterruption func()
	onError        func(err error)
	onClose        func()
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the voice API endpoint (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a voice session client in the Closed state.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		state:   StateClosed,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "evi.client")
	return c
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsOpen reports whether the session is open and streaming.
func (c *Client) IsOpen() bool {
	return c.State() == StateOpen
}

// OnAudio sets the callback for inbound audio segments (base64).
func (c *Client) OnAudio(fn func(data string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAudio = fn
}

// OnTranscript sets the callback for transcript events.
func (c *Client) OnTranscript(fn func(role Role, text string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTranscript = fn
}

// OnInterruption sets the callback for user interruption events.
func (c *Client) OnInterruption(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onInterruption = fn
}

// OnError sets the callback for transport and vendor errors.
func (c *Client) OnError(fn func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// OnClose sets the callback invoked when the session ends for any
// reason, after resources are released.
func (c *Client) OnClose(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
}

// Connect dials the voice API and negotiates the session. The
// session_settings message (system prompt, voice, audio format) is
// sent exactly once, before Connect returns, so no audio can reach a
// misconfigured session. On success the state is Open.
func (c *Client) Connect(ctx context.Context, creds Credentials, cfg SessionConfig) error {
	if creds.APIKey == "" {
		return ErrMissingAPIKey
	}

	c.mu.Lock()
	switch c.state {
	case StateClosed:
	case StateFailed:
		c.mu.Unlock()
		return ErrSessionFailed
	default:
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.advanceLocked(StateOpening)
	c.mu.Unlock()

	wsURL, err := url.Parse(c.baseURL)
	if err != nil {
		c.advance(StateFailed)
		return fmt.Errorf("evi: invalid URL: %w", err)
	}
	q := wsURL.Query()
	q.Set("api_key", creds.APIKey)
	if creds.ConfigID != "" {
		q.Set("config_id", creds.ConfigID)
	}
	wsURL.RawQuery = q.Encode()

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	c.logger.Info("connecting to voice session", "config_id", creds.ConfigID != "")

	conn, resp, err := dialer.DialContext(ctx, wsURL.String(), http.Header{})
	if err != nil {
		// A Disconnect issued mid-dial already moved the state to
		// Closed; the unwinding dial must not override that.
		c.advance(StateFailed)
		if resp != nil {
			return &TransportError{Op: fmt.Sprintf("dial (status %d)", resp.StatusCode), Cause: err}
		}
		return &TransportError{Op: "dial", Cause: err}
	}

	c.mu.Lock()
	// Disconnect may have raced the dial; never leave an orphaned
	// transport open.
	if c.state != StateOpening {
		c.mu.Unlock()
		conn.Close()
		return &TransportError{Op: "dial", Cause: context.Canceled}
	}
	c.conn = conn
	c.mu.Unlock()

	if err := c.sendSettings(conn, cfg); err != nil {
		c.mu.Lock()
		c.advanceLocked(StateFailed)
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
		return &ConfigError{Cause: err}
	}

	msgCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if !c.advanceLocked(StateOpen) {
		c.mu.Unlock()
		cancel()
		conn.Close()
		return &TransportError{Op: "dial", Cause: context.Canceled}
	}
	c.cancelCtx = cancel
	c.mu.Unlock()

	go c.readLoop(msgCtx)

	c.logger.Info("voice session open", "voice", cfg.Voice)
	return nil
}

func (c *Client) sendSettings(conn *websocket.Conn, cfg SessionConfig) error {
	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "linear16"
	}
	rate := cfg.SampleRate
	if rate == 0 {
		rate = 16000
	}

	settings := sessionSettings{
		Type:         "session_settings",
		SystemPrompt: cfg.SystemPrompt,
		VoiceName:    cfg.Voice,
		Audio: audioSettings{
			Encoding:   encoding,
			SampleRate: rate,
			Channels:   1,
		},
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// SendAudio forwards one encoded audio chunk. Sends while the session
// is not Open are rejected synchronously with ErrNotOpen rather than
// queued: the capture layer drops the chunk.
func (c *Client) SendAudio(encoded []byte) error {
	c.mu.RLock()
	conn := c.conn
	state := c.state
	c.mu.RUnlock()

	if state != StateOpen || conn == nil {
		return ErrNotOpen
	}

	msg := audioInput{
		Type: "audio_input",
		Data: base64.StdEncoding.EncodeToString(encoded),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("evi: marshal failed: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen || c.conn == nil {
		return ErrNotOpen
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return &TransportError{Op: "send", Cause: err}
	}
	return nil
}

// Disconnect closes the session. Idempotent and safe from any state,
// including Opening (a racing connect will find the state changed and
// close its own transport) and Failed. Always ends in Closed.
func (c *Client) Disconnect() error {
	c.mu.Lock()

	if c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}

	c.advanceLocked(StateClosing)

	if c.cancelCtx != nil {
		c.cancelCtx()
		c.cancelCtx = nil
	}

	conn := c.conn
	c.conn = nil
	c.advanceLocked(StateClosed)
	onClose := c.onClose
	c.mu.Unlock()

	if conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			deadline,
		)
		conn.Close()
	}

	c.logger.Info("voice session closed")
	if onClose != nil {
		onClose()
	}
	return nil
}

// readLoop processes inbound events in delivery order. No reordering,
// no batching: transcript causality is approximated by delivery order.
func (c *Client) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()
		if conn == nil {
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info("connection closed normally")
				c.Disconnect()
				return
			}
			select {
			case <-ctx.Done():
				// Local disconnect; not an error.
				return
			default:
			}
			c.fail(&TransportError{Op: "receive", Cause: err})
			return
		}

		var msg incoming
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("failed to parse event", "error", err)
			continue
		}

		c.handleEvent(msg)
	}
}

// handleEvent demultiplexes one inbound event by kind.
func (c *Client) handleEvent(msg incoming) {
	switch msg.Type {
	case "audio_output":
		if msg.Data != "" {
			c.emitAudio(msg.Data)
		}

	case "user_message":
		if cm, ok := msg.chat(); ok {
			c.emitTranscript(RoleUser, cm.Content)
		}

	case "assistant_message":
		if cm, ok := msg.chat(); ok {
			c.emitTranscript(RoleAgent, cm.Content)
		}

	case "user_interruption":
		c.emitInterruption()

	case "error":
		c.fail(&VendorError{Code: msg.Code, Message: msg.errorText()})

	case "chat_metadata":
		c.logger.Debug("chat metadata", "chat_id", msg.ChatID)

	default:
		c.logger.Debug("unhandled event type", "type", msg.Type)
	}
}

// fail marks the session Failed, releases the transport, and surfaces
// the error to the caller.
func (c *Client) fail(err error) {
	c.mu.Lock()
	alreadyDone := c.state == StateClosed || c.state == StateFailed
	if !alreadyDone {
		c.advanceLocked(StateFailed)
	}
	if c.cancelCtx != nil {
		c.cancelCtx()
		c.cancelCtx = nil
	}
	conn := c.conn
	c.conn = nil
	onClose := c.onClose
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if alreadyDone {
		return
	}

	c.logger.Error("voice session failed", "error", err)
	c.emitError(err)
	if onClose != nil {
		onClose()
	}
}

// Emit helpers: callbacks run outside the lock.

func (c *Client) emitAudio(data string) {
	c.mu.RLock()
	fn := c.onAudio
	c.mu.RUnlock()
	if fn != nil {
		fn(data)
	}
}

func (c *Client) emitTranscript(role Role, text string) {
	c.mu.RLock()
	fn := c.onTranscript
	c.mu.RUnlock()
	if fn != nil {
		fn(role, text)
	}
}

func (c *Client) emitInterruption() {
	c.mu.RLock()
	fn := c.onInterruption
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) emitError(err error) {
	c.mu.RLock()
	fn := c.onError
	c.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

// advanceLocked moves the state machine along a legal edge and reports
// whether the move happened. Illegal moves are rejected, so a
// Disconnect that races a Connect wins: once the state has left
// Opening, the unwinding Connect cannot override it. Caller holds c.mu.
func (c *Client) advanceLocked(to State) bool {
	if !CanTransition(c.state, to) {
		return false
	}
	c.state = to
	return true
}

func (c *Client) advance(to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceLocked(to)
}
