// Package util holds process configuration and logging bootstrap.
package util

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// StoreDialect selects the storage backend.
type StoreDialect string

const (
	DialectBolt     StoreDialect = "bolt"
	DialectSQLite   StoreDialect = "sqlite"
	DialectPostgres StoreDialect = "postgres"
)

// RedisConfig configures the shared guard-state backend for multi-instance
// deployments. Leaving it nil keeps guards in process memory.
type RedisConfig struct {
	Addr     string `json:"addr"`
	DB       int    `json:"db"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type ConfigType struct {
	// Dialect is bolt, sqlite or postgres.
	Dialect StoreDialect `json:"dialect"`
	// BoltPath / SQLitePath are database file locations for the embedded
	// dialects; PostgresDSN is the lib/pq connection string.
	BoltPath    string `json:"bolt_path"`
	SQLitePath  string `json:"sqlite_path"`
	PostgresDSN string `json:"postgres_dsn"`

	Port      string `json:"port"`
	JWTSecret string `json:"jwt_secret"`
	// TokenExpiryHours defaults to 24.
	TokenExpiryHours int `json:"token_expiry_hours"`

	// FetchCooldownMs overrides the per-resource fetch cooldown (default
	// 3000).
	FetchCooldownMs int `json:"fetch_cooldown_ms"`

	Redis *RedisConfig `json:"redis"`

	// LogFile enables rotated file logging when set.
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"`
}

// Config is the process-wide configuration, set by ConfigInit.
var Config *ConfigType

// ConfigInit loads the JSON config file (optional) and applies TASKCANVAS_*
// environment overrides.
func ConfigInit(path string) error {
	Config = &ConfigType{
		Dialect:          DialectBolt,
		BoltPath:         "taskcanvas.db",
		SQLitePath:       "taskcanvas.sqlite",
		Port:             ":3000",
		TokenExpiryHours: 24,
		FetchCooldownMs:  3000,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, Config); err != nil {
			return fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	}

	applyEnv()
	return Config.validate()
}

func applyEnv() {
	setStr := func(key string, out *string) {
		if v := os.Getenv(key); v != "" {
			*out = v
		}
	}
	setInt := func(key string, out *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*out = n
			}
		}
	}

	if v := os.Getenv("TASKCANVAS_DIALECT"); v != "" {
		Config.Dialect = StoreDialect(v)
	}
	setStr("TASKCANVAS_BOLT_PATH", &Config.BoltPath)
	setStr("TASKCANVAS_SQLITE_PATH", &Config.SQLitePath)
	setStr("TASKCANVAS_POSTGRES_DSN", &Config.PostgresDSN)
	setStr("TASKCANVAS_PORT", &Config.Port)
	setStr("TASKCANVAS_JWT_SECRET", &Config.JWTSecret)
	setInt("TASKCANVAS_TOKEN_EXPIRY_HOURS", &Config.TokenExpiryHours)
	setInt("TASKCANVAS_FETCH_COOLDOWN_MS", &Config.FetchCooldownMs)
	setStr("TASKCANVAS_LOG_FILE", &Config.LogFile)
	setStr("TASKCANVAS_LOG_LEVEL", &Config.LogLevel)

	if addr := os.Getenv("TASKCANVAS_REDIS_ADDR"); addr != "" {
		if Config.Redis == nil {
			Config.Redis = &RedisConfig{}
		}
		Config.Redis.Addr = addr
		setStr("TASKCANVAS_REDIS_USER", &Config.Redis.User)
		setStr("TASKCANVAS_REDIS_PASSWORD", &Config.Redis.Password)
		setInt("TASKCANVAS_REDIS_DB", &Config.Redis.DB)
	}
}

func (c *ConfigType) validate() error {
	switch c.Dialect {
	case DialectBolt, DialectSQLite, DialectPostgres:
	default:
		return fmt.Errorf("unknown store dialect %q", c.Dialect)
	}
	if c.Dialect == DialectPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("postgres dialect requires postgres_dsn")
	}
	return nil
}

// FetchCooldown returns the configured cooldown as a duration.
func (c *ConfigType) FetchCooldown() time.Duration {
	return time.Duration(c.FetchCooldownMs) * time.Millisecond
}

// TokenExpiry returns the configured token lifetime.
func (c *ConfigType) TokenExpiry() time.Duration {
	return time.Duration(c.TokenExpiryHours) * time.Hour
}
