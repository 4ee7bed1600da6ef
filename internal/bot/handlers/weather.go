package handlers

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weather-bot/internal/bot/keyboard"
	"github.com/Proton-105/weather-bot/internal/suggest"
	"github.com/Proton-105/weather-bot/internal/weather"
)

// NewCurrentWeatherHandler answers a current_weather button with the observation for now.
func NewCurrentWeatherHandler(provider weather.Provider, engine suggest.Engine, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		_, place, err := keyboard.DecodePlace(callbackData(c))
		if err != nil {
			return err
		}

		log.Debug("fetching current weather", slog.String("place", place.Query()))

		obs, err := provider.Current(RequestContext(c), place)
		if err != nil {
			return fmt.Errorf("current weather for %s: %w", place, err)
		}

		text := FormatCurrent(place, obs, engine.TemperatureAdvice(obs), engine.ConditionAdvice(obs))

		if err := c.Respond(); err != nil {
			return err
		}

		return c.Send(text, telebot.ModeHTML)
	}
}

// NewForecastDateHandler answers a date button with the forecast for that date.
func NewForecastDateHandler(provider weather.Provider, engine suggest.Engine, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		date, place, err := keyboard.DecodeDate(callbackData(c))
		if err != nil {
			return err
		}

		log.Debug("fetching forecast", slog.String("place", place.Query()), slog.String("date", date))

		obs, err := provider.Forecast(RequestContext(c), place, date)
		if err != nil {
			return fmt.Errorf("forecast for %s on %s: %w", place, date, err)
		}

		text := FormatForecast(date, place, obs, engine.TemperatureAdvice(obs), engine.ConditionAdvice(obs))

		if err := c.Respond(); err != nil {
			return err
		}

		return c.Send(text, telebot.ModeHTML)
	}
}
