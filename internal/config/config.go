// Package config loads the image-drop service configuration from the
// environment. The resulting Config is built once at startup and passed
// explicitly to the server; nothing reads the environment after that.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultMaxUploadBytes is the largest accepted image part (10 decimal megabytes).
const DefaultMaxUploadBytes int64 = 10 * 1000 * 1000

type (
	Config struct {
		HTTP    HTTP
		Auth    Auth
		Storage Storage
		Log     Log
	}

	HTTP struct {
		Port              string        `env:"PORT" envDefault:"5000"`
		HostURL           string        `env:"HOST_URL,required,notEmpty"`
		UploadRoute       string        `env:"UPLOAD_ROUTE" envDefault:"/"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
		ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	// Auth holds the single Basic-Auth credential pair. When PasswordHash is
	// set it takes precedence over Password.
	Auth struct {
		Username     string `env:"BA_USERNAME,required,notEmpty"`
		Password     string `env:"BA_PASSWORD"`
		PasswordHash string `env:"BA_PASSWORD_HASH"`
		Realm        string `env:"BA_REALM" envDefault:"image-drop"`
	}

	Storage struct {
		UploadPath     string `env:"UPLOAD_PATH,required,notEmpty"`
		MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10000000"`
	}

	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"text"`
	}
)

// New parses the environment and validates the result.
func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr is the listen address derived from the port.
func (c *Config) Addr() string {
	return ":" + c.HTTP.Port
}
