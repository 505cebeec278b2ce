package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bobby-s-dev/weather-display/internal/models"
	"go.uber.org/zap"
)

const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1"

type OpenMeteoClient struct {
	*BaseClient
	baseURL string
}

type OpenMeteoCurrentResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Current   *struct {
		Time          string   `json:"time"`
		Interval      int      `json:"interval"`
		Temperature2M *float64 `json:"temperature_2m"`
		WeatherCode   *int     `json:"weather_code"`
	} `json:"current"`
}

func NewOpenMeteoClient(baseURL string, config ClientConfig, logger *zap.Logger) *OpenMeteoClient {
	baseClient := NewBaseClient("open-meteo", config, logger)
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoClient{
		BaseClient: baseClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// GetCurrentWeather returns the current temperature and WMO code at coords.
func (c *OpenMeteoClient) GetCurrentWeather(ctx context.Context, coords models.Coordinates) (*models.WeatherSnapshot, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	values.Set("current", "temperature_2m,weather_code")
	values.Set("timezone", "auto")

	endpoint := fmt.Sprintf("%s/forecast?%s", c.baseURL, values.Encode())

	var response OpenMeteoCurrentResponse
	if err := c.GetJSON(ctx, "current weather", endpoint, nil, &response); err != nil {
		return nil, err
	}

	if response.Current == nil || response.Current.Temperature2M == nil || response.Current.WeatherCode == nil {
		return nil, &FetchError{
			Kind:   KindDecode,
			Source: c.name,
			Op:     "current weather",
			Err:    errors.New("response is missing current temperature_2m or weather_code"),
		}
	}

	return &models.WeatherSnapshot{
		Temperature: *response.Current.Temperature2M,
		Code:        models.WeatherCode(*response.Current.WeatherCode),
		FetchedAt:   time.Now(),
	}, nil
}
