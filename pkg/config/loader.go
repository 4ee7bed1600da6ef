// Package config provides configuration loading and validation utilities.
package config

import (
	stdErrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultEnv = "development"

// envAliases lets the bot pick up the variable names used by existing deployments.
var envAliases = map[string][]string{
	"bot.token":       {"BOT_TOKEN", "TELEGRAM_API_TOKEN"},
	"weather.api_key": {"WEATHER_API_KEY", "OWM_API_KEY"},
	"log.level":       {"LOG_LEVEL"},
	"bot.webhook_url": {"BOT_WEBHOOK_URL"},
	"sentry.dsn":      {"SENTRY_DSN"},
	"redis.addr":      {"REDIS_ADDR"},
	"redis.password":  {"REDIS_PASSWORD"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.mode", ModePolling)
	v.SetDefault("bot.poll_timeout", 10*time.Second)
	v.SetDefault("bot.webhook_listen", ":8443")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org")
	v.SetDefault("weather.timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("updates.dedup_ttl", 24*time.Hour)
	v.SetDefault("server.addr", ":9090")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

// Load reads configuration from YAML files and environment variables, validates it, and returns the resulting Config.
// A missing configs/<APP_ENV>.yaml is tolerated; defaults and the environment still apply.
func Load() (*Config, *viper.Viper, error) {
	// .env files are optional
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = defaultEnv
	}

	return LoadFrom(env, "./configs")
}

// LoadFrom is Load with an explicit environment name and config directory.
func LoadFrom(env, dir string) (*Config, *viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stdErrors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-reads the config file on change and passes each valid result to apply.
// Invalid edits are reported through onError and otherwise ignored.
func Watch(v *viper.Viper, apply func(*Config), onError func(error)) {
	if v == nil || apply == nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		cfg, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		apply(cfg)
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
