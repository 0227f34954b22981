package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config is built once at startup and injected into the handlers; core logic
// never reads the environment directly.
//
// WebhookSecret is deliberately not required here: its absence is a
// misconfiguration reported per-request by the webhook endpoint, so the
// query side keeps serving even when the secret is missing.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	WebhookSecret  string `env:"HELIO_WEBHOOK_SECRET"`
	StoreNamespace string `env:"MEMBERS_NAMESPACE" envDefault:"members"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"members.db"`
	RedisURL      string `env:"REDIS_URL"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"120"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func New() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports every store/runtime problem at once instead of failing on
// the first one.
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.StorageDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			result = multierror.Append(result, fmt.Errorf("SQLITE_PATH is required with the sqlite driver"))
		}
	case DriverRedis:
		if c.RedisURL == "" {
			result = multierror.Append(result, fmt.Errorf("REDIS_URL is required with the redis driver"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	if c.StoreNamespace == "" {
		result = multierror.Append(result, fmt.Errorf("MEMBERS_NAMESPACE must not be empty"))
	}

	if c.RateLimitMax <= 0 {
		result = multierror.Append(result, fmt.Errorf("RATE_LIMIT_MAX must be positive"))
	}

	return result.ErrorOrNil()
}
