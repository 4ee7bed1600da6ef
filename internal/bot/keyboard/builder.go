package keyboard

import (
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weather-bot/internal/weather"
)

const (
	CaptionCurrentWeather = "CurrentWeather"
	CaptionForecast       = "Forecast"

	// ForecastDays is the number of dates offered by the date picker.
	ForecastDays = 4
)

// Builder creates the inline keyboards of the conversation.
type Builder struct {
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{log: log}
}

// PlaceMenu offers current weather or forecast for place on a single row.
func (b *Builder) PlaceMenu(place weather.Place) (*telebot.ReplyMarkup, error) {
	current, err := EncodePlace(ActionCurrentWeather, place)
	if err != nil {
		return nil, err
	}

	forecast, err := EncodePlace(ActionForecast, place)
	if err != nil {
		return nil, err
	}

	row := []InlineButton{{Text: CaptionCurrentWeather, Data: current}}
	// The forecast payload is nested inside every date button later on, so it
	// must leave room for the date prefix as well.
	if _, err := EncodeDate(weather.DateLayout, forecast); err != nil {
		b.log.Debug("forecast button omitted, date payload too long",
			slog.String("payload", forecast))
	} else {
		row = append(row, InlineButton{Text: CaptionForecast, Data: forecast})
	}

	return NewInlineKeyboard().AddRow(row...).Build()
}

// DatePicker offers the next ForecastDays dates after now, one per row. Each button
// carries the forecast payload unchanged behind its date.
func (b *Builder) DatePicker(now time.Time, forecastPayload string) (*telebot.ReplyMarkup, error) {
	kb := NewInlineKeyboard()
	for _, date := range ForecastDates(now, ForecastDays) {
		data, err := EncodeDate(date, forecastPayload)
		if err != nil {
			return nil, err
		}
		kb.AddRow(InlineButton{Text: date, Data: data})
	}

	b.log.Debug("built forecast date picker", slog.String("payload", forecastPayload))

	return kb.Build()
}

// ForecastDates returns n consecutive ISO dates starting the day after now.
func ForecastDates(now time.Time, n int) []string {
	dates := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format(weather.DateLayout))
	}
	return dates
}
