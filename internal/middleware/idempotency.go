package middleware

import (
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weather-bot/internal/bot/handlers"
	"github.com/Proton-105/weather-bot/internal/idempotency"
)

// Idempotency drops updates whose key was already claimed. Store failures let the
// update through; a failed handler releases its key.
func Idempotency(store idempotency.Store, ttl time.Duration, log *slog.Logger) handlers.Middleware {
	if store == nil {
		return func(next handlers.Handler) handlers.Handler {
			return next
		}
	}
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			key := extractIdempotencyKey(c)
			if key == "" {
				return next(c)
			}

			ctx := handlers.RequestContext(c)

			claimed, err := store.Claim(ctx, key, ttl)
			if err != nil {
				log.Warn("idempotency store unavailable, processing anyway", slog.String("key", key), slog.Any("error", err))
				return next(c)
			}
			if !claimed {
				log.Debug("skipping duplicate update", slog.String("key", key))
				return nil
			}

			if err := next(c); err != nil {
				if relErr := store.Release(ctx, key); relErr != nil {
					log.Warn("failed to release update key", slog.String("key", key), slog.Any("error", relErr))
				}
				return err
			}

			return nil
		}
	}
}

func extractIdempotencyKey(c telebot.Context) string {
	if c == nil {
		return ""
	}

	if cb := c.Callback(); cb != nil {
		if cb.ID != "" {
			return fmt.Sprintf("cb:%s", cb.ID)
		}

		if cb.Message != nil {
			chatID := int64(0)
			if cb.Message.Chat != nil {
				chatID = cb.Message.Chat.ID
			}
			return fmt.Sprintf("cb-msg:%d:%d", chatID, cb.Message.ID)
		}
	}

	if msg := c.Message(); msg != nil {
		chatID := int64(0)
		if msg.Chat != nil {
			chatID = msg.Chat.ID
		}
		if msg.ID != 0 {
			return fmt.Sprintf("msg:%d:%d", chatID, msg.ID)
		}
	}

	return ""
}
