package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/Proton-105/weather-bot/internal/errors"
	"github.com/Proton-105/weather-bot/pkg/metrics"
)

const (
	// DefaultBaseURL is the public OpenWeatherMap API host.
	DefaultBaseURL = "https://api.openweathermap.org"
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second

	apiName         = "openweathermap"
	currentPath     = "/data/2.5/weather"
	forecastPath    = "/data/2.5/forecast"
	maxErrorBody    = 4 << 10
	forecastNoonMin = 12 * 60
)

// OpenWeatherMap is a Provider backed by the OpenWeatherMap 2.5 API.
type OpenWeatherMap struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *apperrors.CircuitBreaker
	log        *slog.Logger
}

// Option customizes an OpenWeatherMap client.
type Option func(*OpenWeatherMap)

// WithBaseURL points the client at a different host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *OpenWeatherMap) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *OpenWeatherMap) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *OpenWeatherMap) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithCircuitBreaker shares a breaker, e.g. with the health checker.
func WithCircuitBreaker(cb *apperrors.CircuitBreaker) Option {
	return func(c *OpenWeatherMap) {
		if cb != nil {
			c.breaker = cb
		}
	}
}

// NewOpenWeatherMap creates a client authenticated with apiKey.
func NewOpenWeatherMap(apiKey string, log *slog.Logger, opts ...Option) *OpenWeatherMap {
	if log == nil {
		log = slog.Default()
	}

	c := &OpenWeatherMap{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		breaker:    NewCircuitBreaker(),
		log:        log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewCircuitBreaker returns a breaker that ignores unknown-place answers.
func NewCircuitBreaker() *apperrors.CircuitBreaker {
	return apperrors.NewCircuitBreaker().WithFailureClassifier(func(err error) bool {
		return !errors.Is(err, ErrPlaceNotFound)
	})
}

// Breaker exposes the client's circuit breaker.
func (c *OpenWeatherMap) Breaker() *apperrors.CircuitBreaker {
	return c.breaker
}

type owmCondition struct {
	Description string `json:"description"`
}

type owmMain struct {
	Temp float64 `json:"temp"`
}

type owmCurrentResponse struct {
	Name    string         `json:"name"`
	Main    owmMain        `json:"main"`
	Weather []owmCondition `json:"weather"`
}

type owmForecastEntry struct {
	Dt      int64          `json:"dt"`
	Main    owmMain        `json:"main"`
	Weather []owmCondition `json:"weather"`
}

type owmForecastResponse struct {
	List []owmForecastEntry `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

type owmErrorResponse struct {
	Message string `json:"message"`
}

// Current returns the observation for now.
func (c *OpenWeatherMap) Current(ctx context.Context, place Place) (Observation, error) {
	var resp owmCurrentResponse
	if err := c.fetch(ctx, KindCurrent, currentPath, place, &resp); err != nil {
		return Observation{}, err
	}

	return Observation{
		Place:        place,
		Kind:         KindCurrent,
		TemperatureC: resp.Main.Temp,
		Condition:    firstDescription(resp.Weather),
	}, nil
}

// Forecast returns the 3-hourly forecast entry on date closest to local noon.
func (c *OpenWeatherMap) Forecast(ctx context.Context, place Place, date string) (Observation, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Observation{}, apperrors.NewValidationError(fmt.Sprintf("invalid forecast date %q", date))
	}

	var resp owmForecastResponse
	if err := c.fetch(ctx, KindForecast, forecastPath, place, &resp); err != nil {
		return Observation{}, err
	}

	entry, ok := pickForecastEntry(resp.List, date, resp.City.Timezone)
	if !ok {
		return Observation{}, apperrors.NewNotFoundError("forecast for "+date, ErrForecastUnavailable)
	}

	return Observation{
		Place:        place,
		Kind:         KindForecast,
		Date:         date,
		TemperatureC: entry.Main.Temp,
		Condition:    firstDescription(entry.Weather),
	}, nil
}

func (c *OpenWeatherMap) fetch(ctx context.Context, kind Kind, path string, place Place, out any) error {
	start := time.Now()

	err := c.breaker.Call(func() error {
		return c.do(ctx, path, place, out)
	})

	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrPlaceNotFound):
		status = "not_found"
	case errors.Is(err, apperrors.ErrCircuitOpen), errors.Is(err, apperrors.ErrHalfOpenTooManyRequests):
		status = "circuit_open"
		err = apperrors.NewExternalAPIError(apiName, err)
	default:
		status = "error"
	}
	metrics.RecordWeatherRequest(string(kind), status, time.Since(start))

	if err != nil {
		c.log.Warn("weather request failed",
			slog.String("kind", string(kind)),
			slog.String("place", place.Query()),
			slog.String("status", status),
			slog.Any("error", err),
		)
	}

	return err
}

func (c *OpenWeatherMap) do(ctx context.Context, path string, place Place, out any) error {
	params := url.Values{}
	params.Set("q", place.Query())
	params.Set("units", "metric")
	params.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return apperrors.NewExternalAPIError(apiName, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalAPIError(apiName, redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError("place "+place.String(), ErrPlaceNotFound)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.NewConfigError(fmt.Errorf("%s rejected the api key: %s", apiName, readErrorMessage(resp.Body)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return apperrors.NewExternalAPIError(apiName, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, readErrorMessage(resp.Body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalAPIError(apiName, fmt.Errorf("decode response: %w", err))
	}

	return nil
}

// pickForecastEntry chooses the entry on date (in the city's local time) nearest to noon.
func pickForecastEntry(entries []owmForecastEntry, date string, tzOffsetSeconds int) (owmForecastEntry, bool) {
	var (
		best     owmForecastEntry
		bestDist = -1
	)

	for _, entry := range entries {
		local := time.Unix(entry.Dt, 0).UTC().Add(time.Duration(tzOffsetSeconds) * time.Second)
		if local.Format(DateLayout) != date {
			continue
		}

		dist := local.Hour()*60 + local.Minute() - forecastNoonMin
		if dist < 0 {
			dist = -dist
		}

		if bestDist == -1 || dist < bestDist {
			best, bestDist = entry, dist
		}
	}

	return best, bestDist != -1
}

func firstDescription(conditions []owmCondition) string {
	if len(conditions) == 0 {
		return ""
	}
	return conditions[0].Description
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}

	var parsed owmErrorResponse
	if json.Unmarshal(raw, &parsed) == nil && parsed.Message != "" {
		return parsed.Message
	}

	return strings.TrimSpace(string(raw))
}

// redactKey strips the api key from transport errors, which embed the request URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "***"))
}
