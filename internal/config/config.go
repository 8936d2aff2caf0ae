package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Every field can be set through the
// environment; cobra flags override individual fields after loading.
type Config struct {
	// APIBaseURL is the root of the CogniPath API.
	APIBaseURL string `env:"COGNIPATH_API_URL,default=http://127.0.0.1:8000"`

	// RequestTimeout bounds every HTTP request at the transport level.
	// The quiz controller itself never times out an in-flight submission.
	RequestTimeout time.Duration `env:"COGNIPATH_TIMEOUT,default=30s"`

	// DBPath overrides the default XDG location of the local cache.
	DBPath string `env:"COGNIPATH_DB"`

	// LogFile enables debug logging to the given file. The TUI owns
	// stdout, so there is no console logging mode.
	LogFile string `env:"COGNIPATH_LOG"`
}

// Load reads an optional .env file and decodes the environment into a
// Config. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &cfg, nil
}
