// Package config loads notifier settings from the environment and alias
// tables from YAML files.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"notifier-go/core/tracelog"
)

// Config holds the process-level notifier settings.
type Config struct {
	// TraceMode selects dispatch tracing; see tracelog.ParseMode.
	TraceMode tracelog.Mode `env:"NOTIFIER_TRACE"`
	// LogDir overrides the directory for the application and trace logs.
	LogDir string `env:"NOTIFIER_LOG_DIR"`
	// AliasFile names an optional YAML file of extra event aliases.
	AliasFile string `env:"NOTIFIER_ALIAS_FILE"`

	MongoURI      string `env:"NOTIFIER_MONGO_URI"`
	MongoDatabase string `env:"NOTIFIER_MONGO_DATABASE" envDefault:"notifier"`

	OTelEndpoint string `env:"NOTIFIER_OTEL_ENDPOINT"`
	ServiceName  string `env:"NOTIFIER_SERVICE_NAME" envDefault:"notifier"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses a Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MongoEnabled reports whether traces should also be stored in MongoDB.
func (c *Config) MongoEnabled() bool {
	return c.MongoURI != ""
}
