// Package config loads service configuration from the environment and
// validates it at startup. Missing required credentials are a fatal
// configuration error, not a per-request condition.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
type Config struct {
	// ListenAddr is the HTTP bind address.
	ListenAddr string `mapstructure:"LISTEN_ADDR"`

	// OpenAIAPIKey enables summary generation. When empty the service
	// still runs but every summary is skipped with a warning.
	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`

	// InternalAPIKey is the bearer token required on /api/v1 requests.
	InternalAPIKey string `mapstructure:"INTERNAL_API_KEY"`

	// DatabasePath is the SQLite file used by the local backend.
	DatabasePath string `mapstructure:"DATABASE_PATH"`

	// StoreURL, when set, switches persistence to the remote function
	// backend; StoreServiceKey is its service-role credential.
	StoreURL        string `mapstructure:"STORE_URL"`
	StoreServiceKey string `mapstructure:"STORE_SERVICE_KEY"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":8089")
	v.SetDefault("DATABASE_PATH", "./linklens.db")
	v.SetDefault("LOG_LEVEL", "info")

	// AutomaticEnv alone does not surface env vars through Unmarshal;
	// each key has to be bound explicitly.
	for _, key := range []string{
		"LISTEN_ADDR", "OPENAI_API_KEY", "INTERNAL_API_KEY",
		"DATABASE_PATH", "STORE_URL", "STORE_SERVICE_KEY", "LOG_LEVEL",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.InternalAPIKey == "" {
		return Config{}, fmt.Errorf("INTERNAL_API_KEY is not set")
	}
	if config.StoreURL != "" && config.StoreServiceKey == "" {
		return Config{}, fmt.Errorf("STORE_SERVICE_KEY is required when STORE_URL is set")
	}

	return config, nil
}
