// Package config provides functionality for managing configuration options
// for the client using a YAML file and environment variables.
package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Options holds the configuration values for the client.
type Options struct {
	// BaseURL is the root URL of the CareLink API. It is passed explicitly
	// into the HTTP client at construction; there is no global.
	BaseURL string `yaml:"base_url" env:"CARELINK_API_URL" env-default:"http://localhost/carelink_api"`

	// StoragePath is the file backing the persisted session store.
	StoragePath string `yaml:"storage_path" env:"CARELINK_STORAGE" env-default:"session.json"`

	// LogLevel sets the zap logger level.
	LogLevel string `yaml:"log_level" env:"CARELINK_LOG_LEVEL" env-default:"info"`

	// RequestTimeout bounds every HTTP request issued by the client.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"CARELINK_TIMEOUT" env-default:"15s"`
}

// Load reads configuration from the YAML file at path (when it exists)
// and from the environment. Environment variables win over file values.
func Load(path string) (*Options, error) {
	cfg := &Options{}
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
