package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type Config struct {
	Environment   string `toml:"environment"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	// program documents
	ProgramPath   string `toml:"program_path"`
	ExercisesPath string `toml:"exercises_path"`
	// progress store
	StoreDriver    string `toml:"store_driver"`
	SQLitePath     string `toml:"sqlite_path"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	RunMigrations  bool   `toml:"run_migrations"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	// tracker
	SaveRetryAttempts          int    `toml:"save_retry_attempts"`
	SaveRetryInitialIntervalMs int    `toml:"save_retry_initial_interval_ms"`
	SessionIdleTimeoutMinutes  int    `toml:"session_idle_timeout_minutes"`
	RateLimitPerMinute         int    `toml:"rate_limit_per_minute"`
	ResolverCacheSizeBytes     int    `toml:"resolver_cache_size_bytes"`
	AllowedOrigin              string `toml:"allowed_origin"`
}

func (c *Config) SaveRetryInitialInterval() time.Duration {
	return time.Duration(c.SaveRetryInitialIntervalMs) * time.Millisecond
}

// SessionIdleTimeout is 0 when idle sessions are never closed.
func (c *Config) SessionIdleTimeout() time.Duration {
	return time.Duration(c.SessionIdleTimeoutMinutes) * time.Minute
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverSQLite:
	case "":
		c.StoreDriver = StoreDriverPostgres
	default:
		return fmt.Errorf("unknown store driver: %s", c.StoreDriver)
	}
	if c.StoreDriver == StoreDriverSQLite && c.SQLitePath == "" {
		return fmt.Errorf("sqlite store driver requires sqlite_path")
	}
	if c.ProgramPath == "" || c.ExercisesPath == "" {
		return fmt.Errorf("program_path and exercises_path must be set")
	}
	if c.SaveRetryAttempts < 0 || c.SaveRetryInitialIntervalMs < 0 {
		return fmt.Errorf("save retry settings cannot be negative")
	}
	if c.SessionIdleTimeoutMinutes < 0 {
		return fmt.Errorf("session idle timeout cannot be negative")
	}
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config of the given env.
func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config for env: %s", env)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid [%s] config: %w", env, err)
	}

	return cfg, nil
}
