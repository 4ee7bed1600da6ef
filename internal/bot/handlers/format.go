package handlers

import (
	"fmt"
	"html"
	"strings"

	"github.com/Proton-105/weather-bot/internal/weather"
)

// FormatCurrent renders the current-weather reply as HTML.
func FormatCurrent(place weather.Place, obs weather.Observation, temperatureAdvice, conditionAdvice string) string {
	header := fmt.Sprintf("Weather in %s, %s:", html.EscapeString(place.City), html.EscapeString(place.CountryCode))
	return formatReply(header, obs, temperatureAdvice, conditionAdvice)
}

// FormatForecast renders the forecast reply as HTML.
func FormatForecast(date string, place weather.Place, obs weather.Observation, temperatureAdvice, conditionAdvice string) string {
	header := fmt.Sprintf("Forecast for %s in %s, %s:",
		html.EscapeString(date), html.EscapeString(place.City), html.EscapeString(place.CountryCode))
	return formatReply(header, obs, temperatureAdvice, conditionAdvice)
}

// Advice strings are passed through unescaped so their markup renders.
func formatReply(header string, obs weather.Observation, temperatureAdvice, conditionAdvice string) string {
	return strings.Join([]string{
		header,
		"Temperature: " + weather.FormatTemperature(obs.TemperatureC),
		"Condition: " + html.EscapeString(obs.Condition),
		temperatureAdvice,
		conditionAdvice,
	}, "\n")
}
