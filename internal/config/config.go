// Package config loads go-roleplay configuration from the environment.
//
// All settings use the ROLEPLAY_ prefix, e.g. ROLEPLAY_SERVER_PORT=8090
// maps to server.port. Secrets (vendor API keys) are never logged.
package config

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Voice     VoiceConfig     `koanf:"voice"`
	Anthropic AnthropicConfig `koanf:"anthropic"`
	Pinecone  PineconeConfig  `koanf:"pinecone"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig configures the HTTP/WS server.
type ServerConfig struct {
	Port int `koanf:"port"`
}

// VoiceConfig holds the empathic-voice vendor credentials.
// These stay server-side; clients obtain them via the credential broker.
type VoiceConfig struct {
	APIKey    string `koanf:"api_key"`
	SecretKey string `koanf:"secret_key"`
	ConfigID  string `koanf:"config_id"`
}

// AnthropicConfig configures the feedback analysis model.
type AnthropicConfig struct {
	APIKey    string `koanf:"api_key"`
	Model     string `koanf:"model"`
	MaxTokens int    `koanf:"max_tokens"`
}

// PineconeConfig configures semantic retrieval. Optional: analysis
// proceeds without augmentation when the key is empty.
type PineconeConfig struct {
	APIKey    string `koanf:"api_key"`
	IndexHost string `koanf:"index_host"`
	Namespace string `koanf:"namespace"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Load reads configuration from ROLEPLAY_-prefixed environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	// ROLEPLAY_ANTHROPIC_API_KEY -> anthropic.api_key: only the first
	// underscore separates the section from the key.
	if err := k.Load(env.Provider("ROLEPLAY_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "ROLEPLAY_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8090)
	}
	if !k.Exists("anthropic.model") {
		k.Set("anthropic.model", "claude-sonnet-4-20250514")
	}
	if !k.Exists("anthropic.max_tokens") {
		k.Set("anthropic.max_tokens", 4000)
	}
	if !k.Exists("pinecone.namespace") {
		k.Set("pinecone.namespace", "stories")
	}
	if !k.Exists("log.level") {
		k.Set("log.level", "info")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
