package weather

import (
	"context"
	"errors"
)

var (
	// ErrPlaceNotFound is returned when the provider does not know the place.
	ErrPlaceNotFound = errors.New("weather: place not found")
	// ErrForecastUnavailable is returned when the requested date is outside the forecast window.
	ErrForecastUnavailable = errors.New("weather: no forecast for date")
)

// Provider fetches observations for a place.
type Provider interface {
	Current(ctx context.Context, place Place) (Observation, error)
	Forecast(ctx context.Context, place Place, date string) (Observation, error)
}
