package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

/* Config is read from an optional .env file and overridden by the environment */

type Config struct {
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`
	PostgresDSN   string `mapstructure:"POSTGRES_DSN"`

	EndpointsFile  string        `mapstructure:"ENDPOINTS_FILE"`
	MaxBodyBytes   int64         `mapstructure:"MAX_BODY_BYTES"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	ReplayTimeout      time.Duration `mapstructure:"REPLAY_TIMEOUT"`
	ReplayBlockPrivate bool          `mapstructure:"REPLAY_BLOCK_PRIVATE"`

	RetentionDays   int    `mapstructure:"RETENTION_DAYS"`
	CleanupSchedule string `mapstructure:"CLEANUP_SCHEDULE"`

	DashboardJWTSecret string `mapstructure:"DASHBOARD_JWT_SECRET"`
	MetricsEnabled     bool   `mapstructure:"METRICS_ENABLED"`
}

const (
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var defaults = map[string]any{
	"PORT":                 "8080",
	"LOG_LEVEL":            "info",
	"STORAGE_DRIVER":       DriverSQLite,
	"REDIS_ADDR":           "localhost:6379",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"SQLITE_PATH":          "./data/captures.db",
	"POSTGRES_DSN":         "",
	"ENDPOINTS_FILE":       "endpoints.yaml",
	"MAX_BODY_BYTES":       1 << 20,
	"REQUEST_TIMEOUT":      "30s",
	"REPLAY_TIMEOUT":       "15s",
	"REPLAY_BLOCK_PRIVATE": false,
	"RETENTION_DAYS":       90,
	"CLEANUP_SCHEDULE":     "@every 1h",
	"DASHBOARD_JWT_SECRET": "",
	"METRICS_ENABLED":      true,
}

// Load reads configuration. An empty path looks for ./.env and tolerates its absence;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

// Validate checks the configuration for contradictions
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.RequestTimeout <= 0 || c.ReplayTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT and REPLAY_TIMEOUT must be positive")
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("RETENTION_DAYS cannot be negative")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Retention is the capture retention window, zero when disabled
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// SlogLevel returns the configured log level
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown LOG_LEVEL %q", s)
	}
}
