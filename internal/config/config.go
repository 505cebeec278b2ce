package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bobby-s-dev/weather-display/internal/models"
)

// PlaceholderAPIKey is the value shipped in example env files. It disables
// the air-quality track just like an empty key.
const PlaceholderAPIKey = "your_api_key_here"

var validate = validator.New()

type Config struct {
	Location struct {
		Coordinates models.Coordinates `yaml:"coordinates"`
		Name        string             `yaml:"name"`
	} `yaml:"location"`

	WeatherAPI struct {
		OpenMeteoURL string `yaml:"openMeteoUrl" validate:"omitempty,url"`
	} `yaml:"weatherApi"`

	AirQuality struct {
		APIKey        string  `yaml:"apiKey"`
		URL           string  `yaml:"url" validate:"omitempty,url"`
		MaxDistanceKM float64 `yaml:"maxDistanceKm" validate:"gt=0"`
	} `yaml:"airQuality"`

	Fetch struct {
		Timeout time.Duration `yaml:"timeout" validate:"gte=1s,lte=60s"`
	} `yaml:"fetch"`

	Scheduler struct {
		TickInterval         time.Duration `yaml:"tickInterval" validate:"gt=0"`
		WeatherIntervalTicks int           `yaml:"weatherIntervalTicks" validate:"gt=0"`
		AirQualityHours      []int         `yaml:"airQualityHours" validate:"dive,gte=0,lte=23"`
	} `yaml:"scheduler"`

	CircuitBreaker struct {
		Threshold int           `yaml:"threshold" validate:"gte=0"`
		Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	} `yaml:"circuitBreaker"`

	Status struct {
		Addr string `yaml:"addr"`
	} `yaml:"status"`

	Log struct {
		Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Location.Coordinates = models.Coordinates{Latitude: 52.52, Longitude: 13.405}
	cfg.AirQuality.MaxDistanceKM = 5
	cfg.Fetch.Timeout = 10 * time.Second
	cfg.Scheduler.TickInterval = time.Minute
	cfg.Scheduler.WeatherIntervalTicks = 60
	cfg.Scheduler.AirQualityHours = []int{6, 15, 20}
	cfg.CircuitBreaker.Timeout = 30 * time.Second
	cfg.Log.Level = "info"
	cfg.Log.File = "weather-display.log"
	return cfg
}

// LoadConfig builds the configuration from defaults, an optional YAML file and
// the environment, in that order. path overrides CONFIG_PATH when set.
func LoadConfig(path string) (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	// Location
	cfg.Location.Coordinates.Latitude = parseFloat(getEnv("AIRLY_LATITUDE", ""), cfg.Location.Coordinates.Latitude)
	cfg.Location.Coordinates.Longitude = parseFloat(getEnv("AIRLY_LONGITUDE", ""), cfg.Location.Coordinates.Longitude)
	cfg.Location.Name = getEnv("LOCATION_NAME", cfg.Location.Name)

	// Remote APIs
	cfg.WeatherAPI.OpenMeteoURL = getEnv("OPENMETEO_URL", cfg.WeatherAPI.OpenMeteoURL)
	cfg.AirQuality.APIKey = getEnv("AIRLY_API_KEY", cfg.AirQuality.APIKey)
	cfg.AirQuality.URL = getEnv("AIRLY_URL", cfg.AirQuality.URL)
	cfg.AirQuality.MaxDistanceKM = parseFloat(getEnv("AQI_MAX_DISTANCE_KM", ""), cfg.AirQuality.MaxDistanceKM)
	cfg.Fetch.Timeout = parseDuration(getEnv("FETCH_TIMEOUT", ""), cfg.Fetch.Timeout)

	// Scheduler configuration
	cfg.Scheduler.TickInterval = parseDuration(getEnv("TICK_INTERVAL", ""), cfg.Scheduler.TickInterval)
	cfg.Scheduler.WeatherIntervalTicks = parseInt(getEnv("WEATHER_INTERVAL_TICKS", ""), cfg.Scheduler.WeatherIntervalTicks)
	if hours := getEnv("AQI_TRIGGER_HOURS", ""); hours != "" {
		cfg.Scheduler.AirQualityHours = parseHours(hours, cfg.Scheduler.AirQualityHours)
	}

	// Circuit breaker configuration
	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", ""), cfg.CircuitBreaker.Threshold)
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", ""), cfg.CircuitBreaker.Timeout)

	cfg.Status.Addr = getEnv("STATUS_ADDR", cfg.Status.Addr)
	cfg.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", cfg.Log.Level))
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: failed %q check", verrs[0].Namespace(), verrs[0].Tag())
		}
		return err
	}
	return nil
}

// AirQualityEnabled reports whether a usable Airly key is configured.
func (c *Config) AirQualityEnabled() bool {
	key := strings.TrimSpace(c.AirQuality.APIKey)
	return key != "" && key != PlaceholderAPIKey
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return fallback
	}
	return duration
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return fallback
	}
	return intValue
}

func parseFloat(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return fallback
	}
	return floatValue
}

func parseHours(value string, fallback []int) []int {
	parts := strings.Split(value, ",")
	hours := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		hour, err := strconv.Atoi(part)
		if err != nil {
			zap.L().Warn("Failed to parse trigger hour", zap.String("value", part), zap.Error(err))
			return fallback
		}
		hours = append(hours, hour)
	}
	return hours
}
