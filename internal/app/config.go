package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	TenantID string `envconfig:"TENANT_ID" default:"demo-venue"`

	RedisAddr   string        `envconfig:"REDIS_ADDR" default:""`
	POSCacheTTL time.Duration `envconfig:"POS_CACHE_TTL" default:"5m"`

	// PublicationAuditCron schedules the consistency check; empty disables
	// the embedded worker entirely.
	PublicationAuditCron string `envconfig:"PUBLICATION_AUDIT_CRON" default:"@every 10m"`

	AuditLogLimit int `envconfig:"AUDIT_LOG_LIMIT" default:"1000"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
