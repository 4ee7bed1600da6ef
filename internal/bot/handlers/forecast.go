package handlers

import (
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weather-bot/internal/bot/keyboard"
)

// DatePickerPrompt accompanies the forecast date buttons.
const DatePickerPrompt = "Please select a date for the forecast:"

// Clock returns the current time; tests pin it.
type Clock func() time.Time

// NewForecastHandler acknowledges the forecast button and offers the next dates.
func NewForecastHandler(kb *keyboard.Builder, now Clock, log *slog.Logger) CallbackHandler {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		if err := c.Respond(); err != nil {
			return err
		}

		data := callbackData(c)
		log.Debug("offering forecast dates", slog.String("payload", data))

		markup, err := kb.DatePicker(now(), data)
		if err != nil {
			return err
		}

		return c.Send(DatePickerPrompt, markup)
	}
}
