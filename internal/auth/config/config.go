package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	ProviderLocal    = "local"
	ProviderFirebase = "firebase"

	// SessionCookieName is the cookie that carries the session token.
	SessionCookieName = "firebaseAuthToken"
)

// Config holds all configuration for the auth module.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Identity provider
	IdentityProvider     string        `env:"IDENTITY_PROVIDER" envDefault:"local"`
	FirebaseAPIKey       string        `env:"FIREBASE_API_KEY"`
	FirebaseAuthEndpoint string        `env:"FIREBASE_AUTH_ENDPOINT" envDefault:"https://identitytoolkit.googleapis.com/v1"`
	ProviderTimeout      time.Duration `env:"IDENTITY_PROVIDER_TIMEOUT" envDefault:"10s"`

	// JWT Configuration, used by the local provider
	JWTSecretKey string        `env:"JWT_SECRET_KEY"`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"calisthenics-ai"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// Cookie Configuration
	CookieName     string `env:"COOKIE_NAME" envDefault:"firebaseAuthToken"`
	CookiePath     string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"`

	// Rate limiting of login and signup
	RateLimit  int           `env:"AUTH_RATE_LIMIT" envDefault:"20"`
	RateWindow time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"1m"`
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error() +
			". Please ensure all required environment variables are set.")
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.IdentityProvider = strings.ToLower(strings.TrimSpace(c.IdentityProvider))
	switch c.IdentityProvider {
	case ProviderLocal:
		if c.JWTSecretKey == "" {
			return errors.New("jwt_secret_key is required for the local identity provider")
		}
	case ProviderFirebase:
		if c.FirebaseAPIKey == "" {
			return errors.New("firebase_api_key is required for the firebase identity provider")
		}
	default:
		return errors.New("identity_provider must be one of 'local' or 'firebase'")
	}

	// Normalize and validate CookieSameSite
	s := strings.ToLower(c.CookieSameSite)
	if s == "" {
		s = "lax"
	}
	c.CookieSameSite = strings.ToUpper(s[:1]) + s[1:]
	if !(c.CookieSameSite == "Lax" || c.CookieSameSite == "Strict" || c.CookieSameSite == "None") {
		return errors.New("cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}

	if c.IsProduction() {
		c.CookieSecure = true
	}
	if c.CookieName == "" {
		c.CookieName = SessionCookieName
	}
	if c.CookiePath == "" {
		c.CookiePath = "/"
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 2 * time.Hour
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 20
	}
	if c.RateWindow <= 0 {
		c.RateWindow = time.Minute
	}
	return nil
}
