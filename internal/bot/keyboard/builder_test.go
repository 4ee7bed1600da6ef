package keyboard_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/weather-bot/internal/bot/keyboard"
	"github.com/Proton-105/weather-bot/internal/weather"
)

func testBuilder() *keyboard.Builder {
	return keyboard.NewBuilder(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBuilder_PlaceMenu(t *testing.T) {
	markup, err := testBuilder().PlaceMenu(weather.Place{City: "Paris", CountryCode: "FR"})
	require.NoError(t, err)

	require.Len(t, markup.InlineKeyboard, 1)
	row := markup.InlineKeyboard[0]
	require.Len(t, row, 2)

	assert.Equal(t, keyboard.CaptionCurrentWeather, row[0].Text)
	assert.Equal(t, "current_weather:Paris:FR", row[0].Data)
	assert.Equal(t, keyboard.CaptionForecast, row[1].Text)
	assert.Equal(t, "forecast:Paris:FR", row[1].Data)
}

func TestBuilder_PlaceMenuOmitsForecastWhenDatePayloadOverflows(t *testing.T) {
	place := weather.Place{City: strings.Repeat("x", 40), CountryCode: "FR"}

	markup, err := testBuilder().PlaceMenu(place)
	require.NoError(t, err)

	require.Len(t, markup.InlineKeyboard, 1)
	row := markup.InlineKeyboard[0]
	require.Len(t, row, 1)
	assert.Equal(t, keyboard.CaptionCurrentWeather, row[0].Text)
	assert.LessOrEqual(t, len(row[0].Data), keyboard.CallbackDataLimitBytes)
}

func TestBuilder_PlaceMenuKeepsForecastAtDateLimit(t *testing.T) {
	// "date:YYYY-MM-DD:forecast:" plus ":FR" leaves exactly 36 bytes for the city.
	place := weather.Place{City: strings.Repeat("x", 36), CountryCode: "FR"}

	markup, err := testBuilder().PlaceMenu(place)
	require.NoError(t, err)

	row := markup.InlineKeyboard[0]
	require.Len(t, row, 2)
	assert.Equal(t, keyboard.CaptionForecast, row[1].Text)

	_, err = testBuilder().DatePicker(time.Now(), row[1].Data)
	assert.NoError(t, err)
}

func TestBuilder_DatePicker(t *testing.T) {
	now := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

	markup, err := testBuilder().DatePicker(now, "forecast:Tokyo:JP")
	require.NoError(t, err)

	wantDates := []string{"2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05"}
	require.Len(t, markup.InlineKeyboard, keyboard.ForecastDays)
	for i, date := range wantDates {
		require.Len(t, markup.InlineKeyboard[i], 1)
		assert.Equal(t, date, markup.InlineKeyboard[i][0].Text)
		assert.Equal(t, "date:"+date+":forecast:Tokyo:JP", markup.InlineKeyboard[i][0].Data)
	}
}

func TestBuilder_DatePickerRejectsOversizedPayload(t *testing.T) {
	// "date:YYYY-MM-DD:" takes 16 bytes, leaving 48 for the nested payload.
	payload := "forecast:" + strings.Repeat("x", 40) + ":GB"
	require.LessOrEqual(t, len(payload), keyboard.CallbackDataLimitBytes)

	_, err := testBuilder().DatePicker(time.Now(), payload)
	assert.Error(t, err)
}

func TestForecastDates(t *testing.T) {
	testCases := []struct {
		name string
		now  time.Time
		want []string
	}{
		{
			name: "plain month",
			now:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want: []string{"2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05"},
		},
		{
			name: "leap year month end",
			now:  time.Date(2024, 2, 27, 23, 59, 0, 0, time.UTC),
			want: []string{"2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"},
		},
		{
			name: "year end",
			now:  time.Date(2024, 12, 30, 12, 0, 0, 0, time.UTC),
			want: []string{"2024-12-31", "2025-01-01", "2025-01-02", "2025-01-03"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, keyboard.ForecastDates(tc.now, keyboard.ForecastDays))
		})
	}
}
