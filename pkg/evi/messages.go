package evi

import "encoding/json"

// Wire messages for the empathic voice API. The protocol is a JSON
// text stream over a single websocket; every message carries a type
// discriminator.

// Credentials are the short-lived keys obtained from the credential
// broker. They never appear in logs.
type Credentials struct {
	APIKey    string `json:"apiKey"`
	SecretKey string `json:"secretKey"`
	ConfigID  string `json:"configId,omitempty"`
}

// SessionConfig is negotiated once, immediately after the transport
// opens and before any audio is accepted.
type SessionConfig struct {
	// SystemPrompt defines the roleplay persona.
	SystemPrompt string

	// Voice selects the synthesized voice (e.g. "KORA", "ITO").
	Voice string

	// Encoding is the audio encoding for both directions
	// ("linear16" or "opus"). Empty means linear16.
	Encoding string

	// SampleRate is the PCM sample rate in Hz. Zero means 16000.
	SampleRate int
}

// sessionSettings is the outbound configuration message.
type sessionSettings struct {
	Type         string        `json:"type"` // "session_settings"
	SystemPrompt string        `json:"system_prompt"`
	VoiceName    string        `json:"voice_name,omitempty"`
	Audio        audioSettings `json:"audio"`
}

type audioSettings struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// audioInput is the outbound audio chunk message.
type audioInput struct {
	Type string `json:"type"` // "audio_input"
	Data string `json:"data"` // base64 encoded chunk
}

// incoming covers every inbound event kind we consume. The message
// field is a JSON object for user_message/assistant_message and a
// plain string for error events, so it stays raw until the type is
// known.
type incoming struct {
	Type string `json:"type"`

	// audio_output
	Data string `json:"data,omitempty"`

	// user_message / assistant_message / error
	Message json.RawMessage `json:"message,omitempty"`

	// error
	Code string `json:"code,omitempty"`

	// chat_metadata
	ChatID string `json:"chat_id,omitempty"`
}

// chat decodes the message field as a chat message.
func (m *incoming) chat() (chatMessage, bool) {
	var cm chatMessage
	if len(m.Message) == 0 || json.Unmarshal(m.Message, &cm) != nil {
		return chatMessage{}, false
	}
	return cm, cm.Content != ""
}

// errorText decodes the message field as an error string.
func (m *incoming) errorText() string {
	var s string
	if len(m.Message) > 0 && json.Unmarshal(m.Message, &s) == nil {
		return s
	}
	return ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Role identifies the speaker of a transcript event.
type Role string

const (
	// RoleUser is the person practicing.
	RoleUser Role = "user"
	// RoleAgent is the AI roleplay persona.
	RoleAgent Role = "agent"
)
