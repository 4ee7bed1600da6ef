package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weather-bot/internal/bot/handlers"
	"github.com/Proton-105/weather-bot/internal/bot/keyboard"
	errors "github.com/Proton-105/weather-bot/internal/errors"
	"github.com/Proton-105/weather-bot/internal/idempotency"
	"github.com/Proton-105/weather-bot/internal/middleware"
	"github.com/Proton-105/weather-bot/internal/suggest"
	"github.com/Proton-105/weather-bot/internal/weather"
	"github.com/Proton-105/weather-bot/pkg/config"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Provider   weather.Provider
	Engine     suggest.Engine
	ErrHandler *errors.Handler
	// Clock defaults to time.Now.
	Clock handlers.Clock
	// Context is the parent of every per-update context; defaults to context.Background.
	Context context.Context
	// Updates, when set, drops redelivered updates.
	Updates    idempotency.Store
	UpdatesTTL time.Duration
}

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot *telebot.Bot
	log     *slog.Logger
	cfg     config.BotConfig
	router  *Router
}

// New builds a telegram bot instance configured according to the application settings.
func New(cfg config.BotConfig, log *slog.Logger, deps Deps) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token: cfg.Token,
		OnError: func(err error, c telebot.Context) {
			log.Error("telebot error", slog.Any("error", err))
		},
	}

	if cfg.Mode == config.ModeWebhook {
		webhook := &telebot.Webhook{Listen: cfg.WebhookListen}
		if cfg.WebhookURL != "" {
			webhook.Endpoint = &telebot.WebhookEndpoint{PublicURL: cfg.WebhookURL}
		}
		settings.Poller = webhook
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.PollTimeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	b := &Bot{
		telebot: tb,
		log:     log,
		cfg:     cfg,
		router:  NewWeatherRouter(log, deps),
	}

	b.registerTelebotHandlers()

	return b, nil
}

// NewWeatherRouter wires the conversation routes and the middleware chain.
func NewWeatherRouter(log *slog.Logger, deps Deps) *Router {
	if log == nil {
		log = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.ErrHandler == nil {
		deps.ErrHandler = errors.NewHandler(log, false)
	}

	kb := keyboard.NewBuilder(log)
	router := NewRouter(log)

	router.Use(RecoveryMiddleware(log, deps.ErrHandler))
	router.Use(CorrelationMiddleware(deps.Context))
	router.Use(ErrorReportingMiddleware(deps.ErrHandler))
	router.Use(LoggingMiddleware(log))
	router.Use(middleware.Idempotency(deps.Updates, deps.UpdatesTTL, log))
	router.Use(middleware.Metrics(RouteName))

	start := handlers.NewStartHandler(log)
	router.RegisterCommand(CommandStart, start)
	router.RegisterCommand(CommandHelp, start)

	router.RegisterText(RoutePlace, handlers.IsPlaceText, handlers.NewPlaceHandler(kb, log))

	router.RegisterCallback(keyboard.ActionCurrentWeather, handlers.NewCurrentWeatherHandler(deps.Provider, deps.Engine, log))
	router.RegisterCallback(keyboard.ActionForecast, handlers.NewForecastHandler(kb, deps.Clock, log))
	router.RegisterCallback(keyboard.ActionDate+keyboard.CallbackDataSeparator, handlers.NewForecastDateHandler(deps.Provider, deps.Engine, log))

	return router
}

// Start publishes the command list and runs the telegram bot event loop. It blocks until Stop.
func (b *Bot) Start() {
	if b.telebot == nil {
		return
	}

	if err := b.telebot.SetCommands(commandList()); err != nil {
		b.log.Warn("failed to publish bot commands", slog.Any("error", err))
	}

	b.log.Info("telegram bot started", slog.String("mode", b.cfg.Mode), slog.String("username", b.username()))
	b.telebot.Start()
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// Router exposes the update router.
func (b *Bot) Router() *Router {
	return b.router
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}

func (b *Bot) username() string {
	if b.telebot == nil || b.telebot.Me == nil {
		return ""
	}
	return b.telebot.Me.Username
}

func commandList() []telebot.Command {
	return []telebot.Command{
		{Text: CommandStart[1:], Description: "Ask for the weather somewhere"},
		{Text: CommandHelp[1:], Description: "Show how to enter a place"},
	}
}
