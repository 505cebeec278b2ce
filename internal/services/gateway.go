package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-display/internal/config"
	"github.com/bobby-s-dev/weather-display/internal/models"
	"github.com/bobby-s-dev/weather-display/pkg/client"
)

type WeatherClient interface {
	GetCurrentWeather(ctx context.Context, coords models.Coordinates) (*models.WeatherSnapshot, error)
}

type AirQualityClient interface {
	GetAirQuality(ctx context.Context, apiKey string, coords models.Coordinates) (*models.AirQualitySnapshot, error)
}

type statsSource interface {
	Stats() client.BreakerStats
}

// Gateway is the single call surface over the two remote sources. Calls
// block until the source answers or the per-call timeout expires.
type Gateway struct {
	weather WeatherClient
	air     AirQualityClient
	cache   *ReadingCache
	logger  *zap.Logger
	timeout time.Duration

	mu            sync.RWMutex
	lastFetchTime time.Time
	successCount  int
	failureCount  int
}

func NewGateway(cfg *config.Config, logger *zap.Logger) *Gateway {
	clientConfig := client.ClientConfig{
		Timeout:        cfg.Fetch.Timeout,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}

	weather := client.NewOpenMeteoClient(cfg.WeatherAPI.OpenMeteoURL, clientConfig, logger)
	logger.Info("Open-Meteo client initialized")

	air := client.NewAirlyClient(cfg.AirQuality.URL, cfg.AirQuality.MaxDistanceKM, clientConfig, logger)
	logger.Info("Airly client initialized", zap.Float64("max_distance_km", cfg.AirQuality.MaxDistanceKM))

	return NewGatewayWithClients(weather, air, cfg.Fetch.Timeout, logger)
}

func NewGatewayWithClients(weather WeatherClient, air AirQualityClient, timeout time.Duration, logger *zap.Logger) *Gateway {
	return &Gateway{
		weather: weather,
		air:     air,
		cache:   NewReadingCache(),
		logger:  logger,
		timeout: timeout,
	}
}

func (g *Gateway) FetchWeather(ctx context.Context, coords models.Coordinates) (models.WeatherSnapshot, error) {
	ctx, cancel := g.withTimeout(ctx, 1)
	defer cancel()

	startTime := time.Now()
	snapshot, err := g.weather.GetCurrentWeather(ctx, coords)
	g.record(err)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}

	g.cache.SetWeather(*snapshot)
	g.logger.Debug("Weather fetched",
		zap.Float64("temperature", snapshot.Temperature),
		zap.Int("weather_code", int(snapshot.Code)),
		zap.Duration("duration", time.Since(startTime)))

	return *snapshot, nil
}

// FetchAirQuality runs the two Airly lookups; the deadline covers both.
func (g *Gateway) FetchAirQuality(ctx context.Context, credential string, coords models.Coordinates) (models.AirQualitySnapshot, error) {
	ctx, cancel := g.withTimeout(ctx, 2)
	defer cancel()

	startTime := time.Now()
	snapshot, err := g.air.GetAirQuality(ctx, credential, coords)
	g.record(err)
	if err != nil {
		return models.AirQualitySnapshot{}, err
	}

	g.cache.SetAirQuality(*snapshot)
	g.logger.Debug("Air quality fetched",
		zap.Int("caqi", snapshot.CAQIValue),
		zap.String("status", snapshot.StatusLabel),
		zap.Duration("duration", time.Since(startTime)))

	return *snapshot, nil
}

func (g *Gateway) withTimeout(ctx context.Context, calls int) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(calls)*g.timeout)
}

func (g *Gateway) record(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.lastFetchTime = time.Now()
	if err != nil {
		g.failureCount++
	} else {
		g.successCount++
	}
}

func (g *Gateway) LastReadings() (*models.WeatherSnapshot, *models.AirQualitySnapshot) {
	return g.cache.Weather(), g.cache.AirQuality()
}

func (g *Gateway) GetLastFetchTime() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastFetchTime
}

func (g *Gateway) GetStats() map[string]interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := map[string]interface{}{
		"last_fetch_time": g.lastFetchTime,
		"success_count":   g.successCount,
		"failure_count":   g.failureCount,
		"cache_stats":     g.cache.GetStats(),
	}

	var breakers []client.BreakerStats
	for _, c := range []interface{}{g.weather, g.air} {
		if s, ok := c.(statsSource); ok {
			breakers = append(breakers, s.Stats())
		}
	}
	if len(breakers) > 0 {
		stats["breakers"] = breakers
	}

	return stats
}
