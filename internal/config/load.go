package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix namespaces the application's environment variables, so the
// database URL is read from SRS_DATABASE_URL and so on.
const envPrefix = "SRS"

// Load reads configuration from environment variables and optionally a
// config file. Environment variables take precedence over values from
// config files. Returns a populated Config struct or an error if
// loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit bindings so AutomaticEnv sees nested keys even when no
	// config file supplies them first.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"database.url",
		"scheduler.lapse_policy",
		"scheduler.due_limit",
		"scheduler.min_ease_factor",
		"scheduler.max_ease_factor",
		"scheduler.min_interval_seconds",
		"streak.required_daily",
		"streak.timezone",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars carry everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the defaults that a bare environment runs with.
// The database URL has no default on purpose.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("scheduler.lapse_policy", "reset")
	v.SetDefault("scheduler.due_limit", 50)
	v.SetDefault("scheduler.min_ease_factor", 1.3)
	v.SetDefault("scheduler.max_ease_factor", 2.5)
	v.SetDefault("scheduler.min_interval_seconds", 86400)
	v.SetDefault("streak.required_daily", 1)
	v.SetDefault("streak.timezone", "UTC")
	// Badge ladder lists nest poorly in env vars, so the defaults live
	// here and overrides come from the config file.
	v.SetDefault("streak.bonus_tiers", []map[string]any{
		{"threshold": 3, "badge": "bronze"},
		{"threshold": 7, "badge": "silver"},
		{"threshold": 14, "badge": "gold"},
		{"threshold": 30, "badge": "diamond"},
	})
}
