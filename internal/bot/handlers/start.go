package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"
)

// StartPrompt asks the user for a place.
const StartPrompt = "Please enter the city name and country code separated by a comma (e.g., New York, US):"

// NewStartHandler replies to /start with the place prompt.
func NewStartHandler(log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		if sender := c.Sender(); sender != nil {
			log.Debug("start requested", slog.Int64("user_id", sender.ID))
		}

		return c.Reply(StartPrompt)
	}
}
