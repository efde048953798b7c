package config

import (
	"errors"
	"strings"
	"time"

	"calisthenics-ai/internal/shared/database"

	"github.com/caarlos0/env/v6"
)

const (
	DriverMongoDB = "mongodb"
	DriverMemory  = "memory"
)

// Config holds all configuration for the workout module.
type Config struct {
	StoreDriver    string        `env:"STORE_DRIVER" envDefault:"mongodb"`
	MongoDBURI     string        `env:"MONGODB_URI"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`

	// CEL expression over principal and owner deciding partition access.
	// Empty keeps the built-in owner-only rule.
	PartitionRule string `env:"PARTITION_RULE"`

	// Number of recent logs the coach sees when generating suggestions.
	SuggestionHistory int `env:"SUGGESTION_HISTORY" envDefault:"5"`

	Partitions database.PartitionConfig
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load workout configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Partitions); err != nil {
		return nil, errors.New("failed to load partition configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the driver and checks the store settings.
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverMongoDB:
		if c.MongoDBURI == "" {
			return errors.New("MONGODB_URI environment variable is not set")
		}
	case DriverMemory:
	default:
		return errors.New("store_driver must be one of 'mongodb' or 'memory'")
	}
	if c.SuggestionHistory <= 0 {
		c.SuggestionHistory = 5
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	return nil
}

// DefaultConfig returns an in-memory configuration for development and tests.
func DefaultConfig() *Config {
	return &Config{
		StoreDriver:       DriverMemory,
		ConnectTimeout:    10 * time.Second,
		SuggestionHistory: 5,
		Partitions: database.PartitionConfig{
			DatabaseName:       "calisthenics_ai",
			AutoCreateDatabase: true,
			OperationTimeout:   10 * time.Second,
		},
	}
}
