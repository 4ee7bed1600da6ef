// Package metrics holds the Prometheus instruments shared across the bot.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of bot updates handled labeled by route and status",
		},
		[]string{"route", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of bot update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	weatherRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_requests_total",
			Help: "Total number of weather provider requests labeled by kind and status",
		},
		[]string{"kind", "status"},
	)
	weatherRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_request_duration_seconds",
			Help:    "Latency of weather provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	weatherCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_cache_lookups_total",
			Help: "Weather cache lookups labeled by kind and result",
		},
		[]string{"kind", "result"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by code and severity",
		},
		[]string{"code", "severity"},
	)
)

// RecordUpdate increments update counters and records duration.
func RecordUpdate(route, status string, duration time.Duration) {
	route = orUnknown(route)
	status = orUnknown(status)

	botUpdatesTotal.WithLabelValues(route, status).Inc()
	updateDurationSeconds.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordWeatherRequest tracks a call to the upstream weather API.
func RecordWeatherRequest(kind, status string, duration time.Duration) {
	kind = orUnknown(kind)
	status = orUnknown(status)

	weatherRequestsTotal.WithLabelValues(kind, status).Inc()
	weatherRequestDurationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCacheLookup tracks observation cache hits and misses.
func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}

	weatherCacheLookupsTotal.WithLabelValues(orUnknown(kind), result).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(code, severity string) {
	errorsTotal.WithLabelValues(orUnknown(code), orUnknown(severity)).Inc()
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
