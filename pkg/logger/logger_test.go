package logger

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskingHandler_MasksSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

	log.Info("config loaded",
		slog.String("token", "123:ABC"),
		slog.String("city", "Paris"),
		slog.Group("weather", slog.String("api_key", "secret-key"), slog.String("base_url", "https://example")),
	)

	out := buf.String()
	assert.NotContains(t, out, "123:ABC")
	assert.NotContains(t, out, "secret-key")
	assert.Contains(t, out, "token=***")
	assert.Contains(t, out, "weather.api_key=***")
	assert.Contains(t, out, "city=Paris")
	assert.Contains(t, out, "weather.base_url=https://example")
}

func TestMaskingHandler_MasksWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil))).With(slog.String("Authorization", "Bearer x"))

	log.Info("request")

	assert.Contains(t, buf.String(), "Authorization=***")
}

func TestParseLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range testCases {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestNew_LevelIsAdjustable(t *testing.T) {
	log, level := New(Options{Level: "error", Format: "text"})

	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
	level.Set(slog.LevelDebug)
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
}

func TestTeeHandler_FansOut(t *testing.T) {
	var all, errorsOnly bytes.Buffer
	tee := newTeeHandler(
		slog.NewTextHandler(&all, nil),
		slog.NewTextHandler(&errorsOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(tee).With(slog.String("component", "test"))

	log.Info("hello")
	log.Error("boom")

	assert.Contains(t, all.String(), "hello")
	assert.Contains(t, all.String(), "boom")
	assert.NotContains(t, errorsOnly.String(), "hello")
	assert.Contains(t, errorsOnly.String(), "component=test")
}

func TestMiddleware_CorrelationID(t *testing.T) {
	var seen string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CorrelationIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(CorrelationIDHeader, "fixed-id")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "fixed-id", seen)
	})
}

func TestCorrelationIDFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
}
