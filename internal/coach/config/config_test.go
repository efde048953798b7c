package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ProviderNone, cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(20), cfg.SummaryHistoryLength)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"gemini without key", Config{Provider: "gemini"}, "gemini_api_key"},
		{"openai without key", Config{Provider: "OpenAI"}, "openai_api_key"},
		{"unknown provider", Config{Provider: "claude"}, "ai_provider must be"},
		{"gemini with key", Config{Provider: " Gemini ", GeminiAPIKey: "k"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, ProviderGemini, tt.cfg.Provider)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
