package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlace(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Place
		wantErr bool
	}{
		{name: "trimmed and upper-cased", input: " new york , us ", want: Place{City: "new york", CountryCode: "US"}},
		{name: "simple", input: "Paris, FR", want: Place{City: "Paris", CountryCode: "FR"}},
		{name: "no spaces", input: "Tokyo,jp", want: Place{City: "Tokyo", CountryCode: "JP"}},
		{name: "no comma", input: "Paris FR", wantErr: true},
		{name: "extra field", input: "City,Country,Extra", wantErr: true},
		{name: "empty city", input: " , fr", want: Place{City: "", CountryCode: "FR"}},
		{name: "empty country", input: "Paris, ", want: Place{City: "Paris", CountryCode: ""}},
		{name: "lone comma", input: ",", want: Place{}},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePlace(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPlace)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPlace_Query(t *testing.T) {
	p := Place{City: "new york", CountryCode: "US"}

	assert.Equal(t, "new york,US", p.Query())
	assert.Equal(t, "new york, US", p.String())
}

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, "12°C", FormatTemperature(12))
	assert.Equal(t, "12.5°C", FormatTemperature(12.5))
	assert.Equal(t, "-3.25°C", FormatTemperature(-3.25))
	assert.Equal(t, "0°C", FormatTemperature(0))
}
