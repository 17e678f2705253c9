package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the diary service.
// Environment variables are parsed from the DIARY_ prefix,
// e.g. DIARY_HTTP_PORT, DIARY_POSTGRES_DSN.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"3000"`

	// Store configuration. DBDriver selects the adapter: postgres for
	// deployments, sqlite for local single-binary runs.
	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// Token signing
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"1h"`

	// Feedback (chat-completion) API
	FeedbackBaseURL     string  `envconfig:"FEEDBACK_BASE_URL" default:"https://api.openai.com"`
	FeedbackAPIKey      string  `envconfig:"FEEDBACK_API_KEY" default:""`
	FeedbackModel       string  `envconfig:"FEEDBACK_MODEL" default:"gpt-3.5-turbo"`
	FeedbackTemperature float64 `envconfig:"FEEDBACK_TEMPERATURE" default:"0.7"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"5"`
}

// New creates a Config by parsing DIARY_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DIARY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks driver selection and the settings it requires.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DIARY_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("DIARY_SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("DIARY_JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("DIARY_TOKEN_TTL must be positive")
	}
	return nil
}

// NewForTesting creates a config suitable for unit tests.
func NewForTesting() *Config {
	return &Config{
		HTTPPort:                  3000,
		DBDriver:                  "sqlite",
		SQLitePath:                ":memory:",
		JWTSecret:                 "test-secret",
		TokenTTL:                  time.Hour,
		FeedbackBaseURL:           "http://localhost:11434",
		FeedbackModel:             "gpt-3.5-turbo",
		FeedbackTemperature:       0.7,
		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 5,
	}
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
