package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weather-bot/internal/bot/handlers"
	errors "github.com/Proton-105/weather-bot/internal/errors"
	"github.com/Proton-105/weather-bot/pkg/logger"
)

// RecoveryMiddleware catches panics and reports them via the centralized handler.
// The user gets no reply; the update is considered handled.
func RecoveryMiddleware(log *slog.Logger, errHandler *errors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					if errHandler != nil {
						errHandler.Handle(handlers.RequestContext(c), fmt.Errorf("panic recovered: %v", r))
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// CorrelationMiddleware attaches a fresh correlation id to the per-update context.
func CorrelationMiddleware(parent context.Context) handlers.Middleware {
	if parent == nil {
		parent = context.Background()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			ctx := logger.WithCorrelationID(parent, logger.NewCorrelationID())
			handlers.WithRequestContext(c, ctx)
			return next(c)
		}
	}
}

// ErrorReportingMiddleware logs and reports handler failures, then swallows them.
// Failed updates end without a reply to the user.
func ErrorReportingMiddleware(errHandler *errors.Handler) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			if errHandler != nil {
				errHandler.Handle(handlers.RequestContext(c), err)
			}

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			userID := int64(0)
			if c != nil && c.Sender() != nil {
				userID = c.Sender().ID
			}

			route := RouteName(c)
			correlationID := logger.CorrelationIDFromContext(handlers.RequestContext(c))

			log.Info("handling update",
				slog.Int64("user_id", userID),
				slog.String("route", route),
				slog.String("correlation_id", correlationID),
			)
			err := next(c)
			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("route", route),
				slog.String("correlation_id", correlationID),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}
