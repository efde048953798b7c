package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config holds the configuration of the generative coach.
type Config struct {
	Provider string `env:"AI_PROVIDER" envDefault:"none"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	RequestTimeout time.Duration `env:"AI_REQUEST_TIMEOUT" envDefault:"30s"`
	Temperature    float64       `env:"AI_TEMPERATURE" envDefault:"0.7"`

	// Number of past workout summaries kept per user.
	SummaryHistoryLength int64  `env:"SUMMARY_HISTORY_LENGTH" envDefault:"20"`
	SummaryKeyPrefix     string `env:"SUMMARY_KEY_PREFIX" envDefault:"calisthenics:summaries:"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load coach configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the provider name and checks its credentials.
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("gemini_api_key is required when ai_provider is gemini")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("openai_api_key is required when ai_provider is openai")
		}
	case ProviderNone, "":
		c.Provider = ProviderNone
	default:
		return fmt.Errorf("ai_provider must be one of gemini, openai or none, got %q", c.Provider)
	}
	if c.SummaryHistoryLength <= 0 {
		c.SummaryHistoryLength = 20
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	return nil
}
