package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration, parsed from environment
// variables (a .env file is loaded first when present).
type Config struct {
	Port        string `env:"PORT" envDefault:"3333"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	ClerkSecretKey string `env:"CLERK_SECRET_KEY,required,notEmpty"`

	MetricsUser string `env:"METRICS_USER"`
	MetricsPass string `env:"METRICS_PASS"`
	PprofSecret string `env:"PPROF_SECRET"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Base64-encoded service account JSON takes priority over the file.
	FCMServiceAccountJSON string `env:"FCM_SERVICE_ACCOUNT_JSON"`
	FCMCredentialsFile    string `env:"FCM_CREDENTIALS_FILE" envDefault:"./serviceAccountKey.json"`

	// QRBaseURI is the scheme prefix embedded in generated merchant QR codes.
	QRBaseURI string `env:"QR_BASE_URI" envDefault:"fidelya://comercio"`

	FeedPollInterval time.Duration `env:"FEED_POLL_INTERVAL" envDefault:"2s"`
	FeedWaitTimeout  time.Duration `env:"FEED_WAIT_TIMEOUT" envDefault:"25s"`
}

// Load reads the .env file (if any) and parses the configuration.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values env tags cannot express.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.LogFormat)
	}

	if c.FeedPollInterval <= 0 {
		return fmt.Errorf("feed poll interval must be positive")
	}

	if c.FeedWaitTimeout < c.FeedPollInterval {
		return fmt.Errorf("feed wait timeout cannot be shorter than the poll interval")
	}

	return nil
}
