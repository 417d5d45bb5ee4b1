// Package config loads service configuration from the environment.
package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds the full service configuration.
type Config struct {
	Database DatabaseConfig
	Service  ServiceConfig
	Workflow WorkflowConfig
}

// DatabaseConfig holds the connection settings for the persistent store.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASS" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"quickjob"`
	SSL      bool   `envconfig:"DB_SSL" default:"false"`
}

// ServiceConfig holds the HTTP server settings.
type ServiceConfig struct {
	Address  string `envconfig:"QUICKJOB_ADDRESS" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// WorkflowConfig holds tunables for the application workflow core.
type WorkflowConfig struct {
	// StatusDefault is the canonical status unknown raw values normalize to.
	StatusDefault string `envconfig:"STATUS_DEFAULT" default:"APPLIED"`
	// OTPTTLMinutes is how long an issued one-time code stays valid.
	OTPTTLMinutes int `envconfig:"OTP_TTL_MINUTES" default:"30"`
	// GuardTTLSeconds bounds how long an operation guard entry is honored.
	GuardTTLSeconds int `envconfig:"GUARD_TTL_SECONDS" default:"3"`
	// JobCacheTTLMinutes is the TTL for cached job records.
	JobCacheTTLMinutes int `envconfig:"JOB_CACHE_TTL_MINUTES" default:"5"`
	// JobCacheSize bounds the number of cached job records.
	JobCacheSize int `envconfig:"JOB_CACHE_SIZE" default:"512"`
}

// New reads configuration from the environment.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
