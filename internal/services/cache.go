package services

import (
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-display/internal/models"
)

// ReadingCache keeps the most recent successful reading of each kind. It is
// process memory only and is dropped on restart.
type ReadingCache struct {
	mu         sync.RWMutex
	weather    *models.WeatherSnapshot
	airQuality *models.AirQualitySnapshot
}

func NewReadingCache() *ReadingCache {
	return &ReadingCache{}
}

func (c *ReadingCache) SetWeather(snapshot models.WeatherSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weather = &snapshot
}

func (c *ReadingCache) SetAirQuality(snapshot models.AirQualitySnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.airQuality = &snapshot
}

func (c *ReadingCache) Weather() *models.WeatherSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.weather == nil {
		return nil
	}
	w := *c.weather
	return &w
}

func (c *ReadingCache) AirQuality() *models.AirQualitySnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.airQuality == nil {
		return nil
	}
	a := *c.airQuality
	return &a
}

func (c *ReadingCache) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := map[string]interface{}{
		"has_weather":     c.weather != nil,
		"has_air_quality": c.airQuality != nil,
	}
	if c.weather != nil {
		stats["weather_age"] = time.Since(c.weather.FetchedAt).Round(time.Second).String()
	}
	if c.airQuality != nil {
		stats["air_quality_age"] = time.Since(c.airQuality.FetchedAt).Round(time.Second).String()
	}
	return stats
}
