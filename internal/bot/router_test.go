package bot

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weather-bot/internal/bot/handlers"
	"github.com/Proton-105/weather-bot/internal/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func recorder(name string, calls *[]string) handlers.Handler {
	return func(telebot.Context) error {
		*calls = append(*calls, name)
		return nil
	}
}

func TestRouter_CommandsIgnoreBotNameAndArgs(t *testing.T) {
	var calls []string
	r := NewRouter(testLogger())
	r.RegisterCommand(CommandStart, recorder("start", &calls))

	for _, text := range []string{"/start", "/start@weather_bot", "/start now please"} {
		require.NoError(t, r.Route(testutil.NewTextContext(1, text)))
	}

	assert.Equal(t, []string{"start", "start", "start"}, calls)
}

func TestRouter_TextRoutesFirstMatchWins(t *testing.T) {
	var calls []string
	r := NewRouter(testLogger())
	r.RegisterText("place", handlers.IsPlaceText, recorder("place", &calls))
	r.RegisterText("any", nil, recorder("any", &calls))

	require.NoError(t, r.Route(testutil.NewTextContext(1, "Paris, FR")))
	require.NoError(t, r.Route(testutil.NewTextContext(1, "hello")))

	assert.Equal(t, []string{"place", "any"}, calls)
}

func TestRouter_UnknownCommandFallsThroughToText(t *testing.T) {
	var calls []string
	r := NewRouter(testLogger())
	r.RegisterText("place", handlers.IsPlaceText, recorder("place", &calls))

	require.NoError(t, r.Route(testutil.NewTextContext(1, "/weather Paris, FR")))
	require.NoError(t, r.Route(testutil.NewTextContext(1, "/weather")))

	assert.Equal(t, []string{"place"}, calls)
}

func TestRouter_CallbackPrefixesInRegistrationOrder(t *testing.T) {
	var calls []string
	r := NewRouter(testLogger())
	r.RegisterCallback("current_weather", handlers.CallbackHandler(recorder("current", &calls)))
	r.RegisterCallback("forecast", handlers.CallbackHandler(recorder("forecast", &calls)))
	r.RegisterCallback("date:", handlers.CallbackHandler(recorder("date", &calls)))

	for _, data := range []string{
		"current_weather:Paris:FR",
		"forecast:Tokyo:JP",
		"date:2024-03-04:forecast:Tokyo:JP",
		"settings_toggle",
	} {
		require.NoError(t, r.Route(testutil.NewCallbackContext(1, data)))
	}

	assert.Equal(t, []string{"current", "forecast", "date"}, calls)
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	var calls []string
	r := NewRouter(testLogger())

	for _, name := range []string{"outer", "inner"} {
		name := name
		r.Use(func(next handlers.Handler) handlers.Handler {
			return func(c telebot.Context) error {
				calls = append(calls, name)
				return next(c)
			}
		})
	}
	r.RegisterCommand(CommandHelp, recorder("handler", &calls))

	require.NoError(t, r.Route(testutil.NewTextContext(1, "/help")))
	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)
}

func TestRouter_NilContext(t *testing.T) {
	assert.NoError(t, NewRouter(nil).Route(nil))
}

func TestRouter_Commands(t *testing.T) {
	r := NewRouter(testLogger())
	r.RegisterCommand(CommandStart, func(telebot.Context) error { return nil })
	r.RegisterCommand(CommandHelp, func(telebot.Context) error { return nil })

	assert.ElementsMatch(t, []string{CommandStart, CommandHelp}, r.Commands())
}

func TestRouteName(t *testing.T) {
	tests := []struct {
		name string
		c    telebot.Context
		want string
	}{
		{name: "nil", c: nil, want: RouteUnmatched},
		{name: "start", c: testutil.NewTextContext(1, "/start@weather_bot"), want: RouteStart},
		{name: "help", c: testutil.NewTextContext(1, "/help"), want: RouteHelp},
		{name: "place", c: testutil.NewTextContext(1, "Paris, FR"), want: RoutePlace},
		{name: "free text", c: testutil.NewTextContext(1, "hello"), want: RouteUnmatched},
		{name: "current", c: testutil.NewCallbackContext(1, "current_weather:Paris:FR"), want: RouteCurrentWeather},
		{name: "forecast", c: testutil.NewCallbackContext(1, "forecast:Paris:FR"), want: RouteForecast},
		{name: "date", c: testutil.NewCallbackContext(1, "date:2024-03-04:forecast:Paris:FR"), want: RouteDate},
		{name: "foreign callback", c: testutil.NewCallbackContext(1, "Paris:FR"), want: RouteUnmatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RouteName(tt.c))
		})
	}
}

func TestCommandList(t *testing.T) {
	cmds := commandList()
	require.Len(t, cmds, 2)
	assert.Equal(t, "start", cmds[0].Text)
	assert.Equal(t, "help", cmds[1].Text)
}
