package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/weather-bot/internal/bot"
	errors "github.com/Proton-105/weather-bot/internal/errors"
	"github.com/Proton-105/weather-bot/internal/health"
	"github.com/Proton-105/weather-bot/internal/idempotency"
	"github.com/Proton-105/weather-bot/internal/lifecycle"
	"github.com/Proton-105/weather-bot/internal/middleware"
	"github.com/Proton-105/weather-bot/internal/suggest"
	"github.com/Proton-105/weather-bot/internal/weather"
	"github.com/Proton-105/weather-bot/pkg/config"
	"github.com/Proton-105/weather-bot/pkg/graceful"
	"github.com/Proton-105/weather-bot/pkg/logger"
	"github.com/Proton-105/weather-bot/pkg/metrics"
	"github.com/Proton-105/weather-bot/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "weather-bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return err
	}

	log, level := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Sentry:     cfg.Sentry.Enabled,
	})
	slog.SetDefault(log)

	log.Info("starting weather bot", slog.String("env", cfg.AppEnv), slog.String("mode", cfg.Bot.Mode))

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
	}

	config.Watch(v, func(next *config.Config) {
		level.Set(logger.ParseLevel(next.Log.Level))
		log.Info("config reloaded", slog.String("log_level", next.Log.Level))
	}, func(err error) {
		log.Warn("ignoring invalid config change", slog.Any("error", err))
	})

	shutdown := lifecycle.NewShutdown(log)
	checker := health.NewChecker(log)

	owm := weather.NewOpenWeatherMap(cfg.Weather.APIKey, log,
		weather.WithBaseURL(cfg.Weather.BaseURL),
		weather.WithTimeout(cfg.Weather.Timeout),
		weather.WithCircuitBreaker(weather.NewCircuitBreaker()),
	)
	checker.AddCheck("weather_api", owm.Breaker())

	var provider weather.Provider = owm
	var cache *redis.Client
	var updates idempotency.Store
	if cfg.Redis.Enabled {
		cache, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		provider = weather.NewCachedProvider(owm, redis.NewMetricsClient(cache), cfg.Cache.TTL, log)
		checker.AddCheck("redis", health.NewRedisChecker(cache))
		updates = idempotency.NewRedisStore(cache.Client, log)
	}

	tgBot, err := bot.New(cfg.Bot, log, bot.Deps{
		Provider:   provider,
		Engine:     suggest.NewClothing(),
		ErrHandler: errors.NewHandler(log, cfg.Sentry.Enabled),
		Context:    ctx,
		Updates:    updates,
		UpdatesTTL: cfg.Updates.DedupTTL,
	})
	if err != nil {
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(tgBot.Telebot()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/healthz", checker.Handler())
	ops := graceful.NewServer(log, cfg.Server.Addr, logger.Middleware(middleware.Logging(log)(mux)), cfg.Server.ShutdownTimeout)

	opsCtx, stopOps := context.WithCancel(context.Background())
	opsDone := make(chan error, 1)
	go func() { opsDone <- ops.ListenAndServe(opsCtx) }()

	shutdown.Register("telegram", func(context.Context) error {
		tgBot.Stop()
		return nil
	})
	shutdown.Register("ops_server", func(ctx context.Context) error {
		stopOps()
		select {
		case err := <-opsDone:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if cache != nil {
		shutdown.Register("redis", func(context.Context) error {
			return cache.Close()
		})
	}
	if cfg.Sentry.Enabled {
		shutdown.Register("sentry", func(context.Context) error {
			if !sentry.Flush(2 * time.Second) {
				return fmt.Errorf("sentry flush timed out")
			}
			return nil
		})
	}

	go tgBot.Start()

	select {
	case <-ctx.Done():
	case err := <-opsDone:
		// hand the result back to the ops_server hook
		opsDone <- err
		log.Error("ops server stopped", slog.Any("error", err))
	}

	log.Info("weather bot shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return shutdown.Execute(shutdownCtx)
}
