package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "https://api.openai.com/v1", cfg.ChatHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-3.5-turbo-16k", cfg.ChatModel)
}

func TestNewConfigOptions(t *testing.T) {
	t.Run("WithHost sets both hosts", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/v1"))
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	})

	t.Run("separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://localhost:11434/v1"),
			WithChatHost("https://api.openai.com/v1"),
			WithEmbeddingModel("embeddinggemma"),
			WithChatModel("gpt-4o-mini"),
			WithToken("sk-test"),
		)
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "https://api.openai.com/v1", cfg.ChatHost)
		assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
		assert.Equal(t, "sk-test", cfg.Token)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash first", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"keeps existing v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
			assert.Equal(t, tt.expected, cfg.ChatHost)
		})
	}

	t.Run("empty token falls back to none", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Normalize()
		assert.Equal(t, "none", cfg.Token)
	})

	t.Run("set token is preserved", func(t *testing.T) {
		cfg := NewConfig(WithToken("sk-real"))
		cfg.Normalize()
		assert.Equal(t, "sk-real", cfg.Token)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing chat host", func(c *Config) { c.ChatHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing chat model", func(c *Config) { c.ChatModel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("validate normalizes hosts", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}
