package weather

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/weather-bot/pkg/redis"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Current(ctx context.Context, place Place) (Observation, error) {
	args := m.Called(ctx, place)
	obs, _ := args.Get(0).(Observation)
	return obs, args.Error(1)
}

func (m *mockProvider) Forecast(ctx context.Context, place Place, date string) (Observation, error) {
	args := m.Called(ctx, place, date)
	obs, _ := args.Get(0).(Observation)
	return obs, args.Error(1)
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestCachedProvider_CurrentReadThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	place := Place{City: "Paris", CountryCode: "FR"}
	want := Observation{Place: place, Kind: KindCurrent, TemperatureC: 12.5, Condition: "light rain"}

	next := &mockProvider{}
	next.On("Current", mock.Anything, place).Return(want, nil).Once()

	provider := NewCachedProvider(next, client, time.Minute, testLogger())
	ctx := context.Background()

	got, err := provider.Current(ctx, place)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = provider.Current(ctx, place)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	next.AssertExpectations(t)
	assert.True(t, mr.Exists("weather:current:paris:FR"))
	assert.Equal(t, time.Minute, mr.TTL("weather:current:paris:FR"))
}

func TestCachedProvider_ForecastKeyedByDate(t *testing.T) {
	mr, client := setupTestRedis(t)
	place := Place{City: "Tokyo", CountryCode: "JP"}

	next := &mockProvider{}
	next.On("Forecast", mock.Anything, place, "2024-03-04").
		Return(Observation{Place: place, Kind: KindForecast, Date: "2024-03-04", TemperatureC: 9}, nil).Once()
	next.On("Forecast", mock.Anything, place, "2024-03-05").
		Return(Observation{Place: place, Kind: KindForecast, Date: "2024-03-05", TemperatureC: 11}, nil).Once()

	provider := NewCachedProvider(next, client, time.Minute, testLogger())
	ctx := context.Background()

	first, err := provider.Forecast(ctx, place, "2024-03-04")
	require.NoError(t, err)
	second, err := provider.Forecast(ctx, place, "2024-03-05")
	require.NoError(t, err)

	assert.Equal(t, 9.0, first.TemperatureC)
	assert.Equal(t, 11.0, second.TemperatureC)
	assert.True(t, mr.Exists("weather:forecast:2024-03-04:tokyo:JP"))
	next.AssertExpectations(t)
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	mr, client := setupTestRedis(t)
	place := Place{City: "Atlantis", CountryCode: "XX"}

	next := &mockProvider{}
	next.On("Current", mock.Anything, place).Return(Observation{}, ErrPlaceNotFound).Twice()

	provider := NewCachedProvider(next, client, time.Minute, testLogger())

	for i := 0; i < 2; i++ {
		_, err := provider.Current(context.Background(), place)
		assert.ErrorIs(t, err, ErrPlaceNotFound)
	}

	assert.Empty(t, mr.Keys())
	next.AssertExpectations(t)
}

func TestCachedProvider_CorruptEntryFallsThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	place := Place{City: "Paris", CountryCode: "FR"}
	require.NoError(t, mr.Set("weather:current:paris:FR", "{broken"))

	want := Observation{Place: place, Kind: KindCurrent, TemperatureC: 3}
	next := &mockProvider{}
	next.On("Current", mock.Anything, place).Return(want, nil).Once()

	got, err := NewCachedProvider(next, client, time.Minute, testLogger()).Current(context.Background(), place)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := mr.Get("weather:current:paris:FR")
	require.NoError(t, err)
	var stored Observation
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, want, stored)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (string, error) {
	return "", stdErrors.New("connection refused")
}

func (failingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return stdErrors.New("connection refused")
}

func TestCachedProvider_CacheOutageIsTransparent(t *testing.T) {
	place := Place{City: "Paris", CountryCode: "FR"}
	want := Observation{Place: place, Kind: KindCurrent, TemperatureC: 20}

	next := &mockProvider{}
	next.On("Current", mock.Anything, place).Return(want, nil).Once()

	got, err := NewCachedProvider(next, failingCache{}, 0, testLogger()).Current(context.Background(), place)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
