package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variable names before they are mapped to config keys,
// e.g. TEACHER_DATABASE_URL -> database_url.
const EnvPrefix = "TEACHER_"

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL        string  `koanf:"database_url" validate:"required"`
	DBMaxOpenConns     int     `koanf:"db_max_open_conns" validate:"gt=0"`
	DBMaxIdleConns     int     `koanf:"db_max_idle_conns" validate:"gt=0,ltefield=DBMaxOpenConns"`
	DBConnMaxLifetime  string  `koanf:"db_conn_max_lifetime" validate:"required"`
	DBConnMaxIdleTime  string  `koanf:"db_conn_max_idle_time" validate:"required"`
	SlowQueryThreshold string  `koanf:"slow_query_threshold" validate:"required"`
	LogLevel           string  `koanf:"log_level" validate:"oneof=debug info warn warning error"`
	Environment        string  `koanf:"environment" validate:"required"`
	TelegramToken      string  `koanf:"telegram_token"`
	AdminTelegramID    int64   `koanf:"admin_telegram_id" validate:"required_with=TelegramToken"`
	AuditCronSpec      string  `koanf:"audit_cron_spec" validate:"required"`
	SentinelIDs        []int64 `koanf:"sentinel_ids" validate:"dive,gt=0"`
	SmokeTeacherID     int64   `koanf:"smoke_teacher_id" validate:"gt=0"`
}

// Defaults returns the configuration used for every key the environment leaves unset.
func Defaults() *AppConfig {
	return &AppConfig{
		DBMaxOpenConns:     25,
		DBMaxIdleConns:     25,
		DBConnMaxLifetime:  "5m",
		DBConnMaxIdleTime:  "1m",
		SlowQueryThreshold: "200ms",
		LogLevel:           "info",
		Environment:        "development",
		AuditCronSpec:      "0 * * * *", // Hourly
		SentinelIDs:        []int64{99991, 99992, 99993},
		SmokeTeacherID:     88888,
	}
}

// Load reads configuration from environment variables and .env files (if present).
// With no arguments it looks for ".env" in the working directory.
func Load(envFiles ...string) (*AppConfig, error) {
	// godotenv.Load will not override existing env variables. A missing file is not an error.
	_ = godotenv.Load(envFiles...)

	k := koanf.New(".")
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if key == "sentinel_ids" {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not decode configuration: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// TelegramEnabled reports whether the bot and alert delivery should be started.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
