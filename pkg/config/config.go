package config

import (
	"time"

	"github.com/Proton-105/weather-bot/pkg/redis"
)

// Bot modes.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config holds runtime configuration for the weather bot.
type Config struct {
	AppEnv  string        `mapstructure:"-"`
	Bot     BotConfig     `mapstructure:"bot"`
	Weather WeatherConfig `mapstructure:"weather"`
	Log     LogConfig     `mapstructure:"log"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
	Redis   redis.Config  `mapstructure:"redis"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Updates UpdatesConfig `mapstructure:"updates"`
	Server  ServerConfig  `mapstructure:"server"`
}

type BotConfig struct {
	Token         string        `mapstructure:"token" validate:"required"`
	Mode          string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	PollTimeout   time.Duration `mapstructure:"poll_timeout" validate:"gt=0"`
	WebhookListen string        `mapstructure:"webhook_listen" validate:"required_if=Mode webhook"`
	WebhookURL    string        `mapstructure:"webhook_url" validate:"omitempty,url"`
}

type WeatherConfig struct {
	APIKey  string        `mapstructure:"api_key" validate:"required"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// UpdatesConfig controls duplicate-update suppression, which needs Redis.
type UpdatesConfig struct {
	DedupTTL time.Duration `mapstructure:"dedup_ttl" validate:"gte=0"`
}
