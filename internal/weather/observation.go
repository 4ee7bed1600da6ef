package weather

import "strconv"

// Kind distinguishes a current reading from a forecast for a date.
type Kind string

const (
	KindCurrent  Kind = "current"
	KindForecast Kind = "forecast"
)

// DateLayout is the ISO calendar date format used in payloads and forecasts.
const DateLayout = "2006-01-02"

// Observation is a temperature and condition snapshot.
type Observation struct {
	Place        Place   `json:"place"`
	Kind         Kind    `json:"kind"`
	Date         string  `json:"date,omitempty"`
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
}

// FormatTemperature renders t in its shortest decimal form followed by °C.
func FormatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64) + "°C"
}
