package handlers

import (
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weather-bot/internal/bot/keyboard"
	"github.com/Proton-105/weather-bot/internal/weather"
)

// PlaceMenuPrompt accompanies the current-weather/forecast menu.
const PlaceMenuPrompt = "Please choose an option:"

// IsPlaceText reports whether text looks like a place entry.
func IsPlaceText(text string) bool {
	return strings.Contains(text, weather.PlaceSeparator)
}

// NewPlaceHandler parses "city, country code" and offers the action menu.
// Text that does not parse is ignored without a reply.
func NewPlaceHandler(kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		place, err := weather.ParsePlace(c.Text())
		if err != nil {
			log.Debug("ignoring malformed place", slog.String("text", c.Text()))
			return nil
		}

		markup, err := kb.PlaceMenu(place)
		if err != nil {
			return err
		}

		return c.Reply(PlaceMenuPrompt, markup)
	}
}
