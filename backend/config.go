package main

import (
	"errors"
	"fmt"
	"time"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// envPrefix namespaces every variable; unprefixed names such as DATABASE_URL
// are honoured as fallbacks.
const envPrefix = "DANCEME"

// Config is the server configuration, read from the environment.
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" default:"user=admin password=password dbname=dancemedb sslmode=disable"`
	JWTSecret   string `envconfig:"JWT_SECRET"   default:"your_secret_key_please_change_in_production"`
	Addr        string `envconfig:"ADDR"         default:":8080"`

	LogLevel  string `envconfig:"LOG_LEVEL"  default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173,http://localhost:3001,http://127.0.0.1:3001"`

	DiscoverDefaultLimit  int           `envconfig:"DISCOVER_DEFAULT_LIMIT"   default:"20"`
	DiscoverMaxLimit      int           `envconfig:"DISCOVER_MAX_LIMIT"       default:"100"`
	DiscoverMaxCandidates int           `envconfig:"DISCOVER_MAX_CANDIDATES"  default:"5000"`
	DiscoverTimeout       time.Duration `envconfig:"DISCOVER_CONTEXT_TIMEOUT" default:"5s"`
}

// loadConfig reads and validates the environment.
func loadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("missing required config: DATABASE_URL")
	}
	if c.JWTSecret == "" {
		return errors.New("missing required config: JWT_SECRET")
	}
	if c.Addr == "" {
		return errors.New("missing required config: ADDR")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid LOG_FORMAT %q: want json or console", c.LogFormat)
	}
	if c.DiscoverTimeout <= 0 {
		return errors.New("DISCOVER_CONTEXT_TIMEOUT must be positive")
	}
	if err := c.engineConfig().Validate(); err != nil {
		return fmt.Errorf("discover limits: %w", err)
	}
	return nil
}

func (c *Config) engineConfig() *discovery.Config {
	return &discovery.Config{
		DefaultLimit:  c.DiscoverDefaultLimit,
		MaxLimit:      c.DiscoverMaxLimit,
		MaxCandidates: c.DiscoverMaxCandidates,
	}
}
