package keyboard

import (
	"fmt"
	"strings"

	apperrors "github.com/Proton-105/weather-bot/internal/errors"
	"github.com/Proton-105/weather-bot/internal/weather"
)

// Payloads are colon-delimited and unescaped:
//
//	current_weather:<city>:<CC>
//	forecast:<city>:<CC>
//	date:<YYYY-MM-DD>:forecast:<city>:<CC>
//
// A city or country containing ':' cannot be decoded.
const (
	CallbackDataSeparator  = ":"
	CallbackDataLimitBytes = 64
)

// Callback actions, used as payload prefixes.
const (
	ActionCurrentWeather = "current_weather"
	ActionForecast       = "forecast"
	ActionDate           = "date"
)

const (
	placeFields = 3
	dateFields  = 5
)

// EncodePlace builds "<action>:<city>:<CC>".
func EncodePlace(action string, place weather.Place) (string, error) {
	return checkLimit(strings.Join([]string{action, place.City, place.CountryCode}, CallbackDataSeparator))
}

// DecodePlace splits a place payload into its action and place.
func DecodePlace(data string) (string, weather.Place, error) {
	parts := strings.Split(data, CallbackDataSeparator)
	if len(parts) != placeFields {
		return "", weather.Place{}, malformed(data)
	}

	return parts[0], weather.Place{City: parts[1], CountryCode: parts[2]}, nil
}

// EncodeDate nests a forecast payload behind a date: "date:<date>:<forecastPayload>".
func EncodeDate(date, forecastPayload string) (string, error) {
	return checkLimit(ActionDate + CallbackDataSeparator + date + CallbackDataSeparator + forecastPayload)
}

// DecodeDate splits a date payload into exactly five fields and returns the date and place.
// The nested forecast tag is ignored.
func DecodeDate(data string) (string, weather.Place, error) {
	parts := strings.Split(data, CallbackDataSeparator)
	if len(parts) != dateFields || parts[0] != ActionDate {
		return "", weather.Place{}, malformed(data)
	}

	return parts[1], weather.Place{City: parts[3], CountryCode: parts[4]}, nil
}

func checkLimit(payload string) (string, error) {
	if len(payload) > CallbackDataLimitBytes {
		return "", apperrors.NewValidationError(fmt.Sprintf("callback data exceeds %d byte limit: got %d", CallbackDataLimitBytes, len(payload)))
	}
	return payload, nil
}

func malformed(data string) error {
	return apperrors.NewValidationError(fmt.Sprintf("malformed callback data %q", data))
}
