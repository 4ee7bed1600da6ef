// Package weather models places and observations and talks to the weather provider.
package weather

import (
	"errors"
	"strings"
)

// PlaceSeparator splits the city from the country code in user input.
const PlaceSeparator = ","

// ErrInvalidPlace is returned when text is not exactly "city, country code".
var ErrInvalidPlace = errors.New("weather: expected \"city, country code\"")

// Place identifies a weather query target.
type Place struct {
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
}

// ParsePlace parses "city, cc" input. Both parts are trimmed and the country code
// is upper-cased. Exactly two comma-separated fields are required; either may be empty.
func ParsePlace(text string) (Place, error) {
	parts := strings.Split(text, PlaceSeparator)
	if len(parts) != 2 {
		return Place{}, ErrInvalidPlace
	}

	return Place{
		City:        strings.TrimSpace(parts[0]),
		CountryCode: strings.ToUpper(strings.TrimSpace(parts[1])),
	}, nil
}

// Query renders the place in the "city,CC" form accepted by OpenWeatherMap.
func (p Place) Query() string {
	return p.City + PlaceSeparator + p.CountryCode
}

// String renders the place for humans.
func (p Place) String() string {
	return p.City + ", " + p.CountryCode
}
