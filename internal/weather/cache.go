package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Proton-105/weather-bot/pkg/metrics"
	"github.com/Proton-105/weather-bot/pkg/redis"
)

// DefaultCacheTTL keeps observations for the length of one OpenWeatherMap update cycle.
const DefaultCacheTTL = 10 * time.Minute

// Cache is the subset of the Redis client used to store observations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CachedProvider is a read-through cache in front of another Provider.
// Cache failures are logged and never fail the lookup.
type CachedProvider struct {
	next  Provider
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedProvider wraps next with cache.
func NewCachedProvider(next Provider, cache Cache, ttl time.Duration, log *slog.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = slog.Default()
	}

	return &CachedProvider{next: next, cache: cache, ttl: ttl, log: log}
}

// Current implements Provider.
func (p *CachedProvider) Current(ctx context.Context, place Place) (Observation, error) {
	return p.lookup(ctx, KindCurrent, cacheKey(KindCurrent, place, ""), func() (Observation, error) {
		return p.next.Current(ctx, place)
	})
}

// Forecast implements Provider.
func (p *CachedProvider) Forecast(ctx context.Context, place Place, date string) (Observation, error) {
	return p.lookup(ctx, KindForecast, cacheKey(KindForecast, place, date), func() (Observation, error) {
		return p.next.Forecast(ctx, place, date)
	})
}

func (p *CachedProvider) lookup(ctx context.Context, kind Kind, key string, load func() (Observation, error)) (Observation, error) {
	if obs, ok := p.get(ctx, key); ok {
		metrics.RecordCacheLookup(string(kind), true)
		return obs, nil
	}
	metrics.RecordCacheLookup(string(kind), false)

	obs, err := load()
	if err != nil {
		return Observation{}, err
	}

	p.set(ctx, key, obs)
	return obs, nil
}

func (p *CachedProvider) get(ctx context.Context, key string) (Observation, bool) {
	if p.cache == nil {
		return Observation{}, false
	}

	raw, err := p.cache.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			p.log.Warn("weather cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return Observation{}, false
	}

	var obs Observation
	if err := json.Unmarshal([]byte(raw), &obs); err != nil {
		p.log.Warn("weather cache entry is corrupt", slog.String("key", key), slog.Any("error", err))
		return Observation{}, false
	}

	return obs, true
}

func (p *CachedProvider) set(ctx context.Context, key string, obs Observation) {
	if p.cache == nil {
		return
	}

	payload, err := json.Marshal(obs)
	if err != nil {
		p.log.Warn("encode weather cache entry", slog.String("key", key), slog.Any("error", err))
		return
	}

	if err := p.cache.Set(ctx, key, payload, p.ttl); err != nil {
		p.log.Warn("weather cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

func cacheKey(kind Kind, place Place, date string) string {
	city := strings.ToLower(place.City)
	if date == "" {
		return fmt.Sprintf("weather:%s:%s:%s", kind, city, place.CountryCode)
	}
	return fmt.Sprintf("weather:%s:%s:%s:%s", kind, date, city, place.CountryCode)
}
