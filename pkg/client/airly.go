package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bobby-s-dev/weather-display/internal/classify"
	"github.com/bobby-s-dev/weather-display/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultAirlyURL = "https://airapi.airly.eu/v2"
	// CAQIIndexName is the index entry read from a measurement.
	CAQIIndexName = "AIRLY_CAQI"

	defaultMaxDistanceKM = 5
)

type AirlyClient struct {
	*BaseClient
	baseURL       string
	maxDistanceKM float64
}

type AirlyInstallation struct {
	ID int `json:"id"`
}

type AirlyMeasurementResponse struct {
	Current struct {
		FromDateTime string       `json:"fromDateTime"`
		TillDateTime string       `json:"tillDateTime"`
		Indexes      []AirlyIndex `json:"indexes"`
	} `json:"current"`
}

type AirlyIndex struct {
	Name        string   `json:"name"`
	Value       *float64 `json:"value"`
	Level       string   `json:"level"`
	Description string   `json:"description"`
}

func NewAirlyClient(baseURL string, maxDistanceKM float64, config ClientConfig, logger *zap.Logger) *AirlyClient {
	baseClient := NewBaseClient("airly", config, logger)
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultAirlyURL
	}
	if maxDistanceKM <= 0 {
		maxDistanceKM = defaultMaxDistanceKM
	}
	return &AirlyClient{
		BaseClient:    baseClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		maxDistanceKM: maxDistanceKM,
	}
}

// GetAirQuality resolves the nearest installation and reads its CAQI index.
// A missing installation or a missing index is not an error: both come back
// as a zero-valued snapshot with a sentinel label.
func (c *AirlyClient) GetAirQuality(ctx context.Context, apiKey string, coords models.Coordinates) (*models.AirQualitySnapshot, error) {
	header := http.Header{}
	header.Set("apikey", apiKey)

	installationID, found, err := c.nearestInstallation(ctx, header, coords)
	if err != nil {
		return nil, err
	}
	if !found {
		c.logger.Info("No Airly installation within range",
			zap.String("coords", coords.String()),
			zap.Float64("max_distance_km", c.maxDistanceKM))
		return &models.AirQualitySnapshot{
			StatusLabel: models.NoStationLabel,
			FetchedAt:   time.Now(),
		}, nil
	}

	values := url.Values{}
	values.Set("installationId", strconv.Itoa(installationID))
	endpoint := fmt.Sprintf("%s/measurements/installation?%s", c.baseURL, values.Encode())

	var measurement AirlyMeasurementResponse
	if err := c.GetJSON(ctx, "measurements", endpoint, header, &measurement); err != nil {
		return nil, err
	}

	for _, index := range measurement.Current.Indexes {
		if index.Name != CAQIIndexName || index.Value == nil {
			continue
		}
		caqi := classify.TruncateIndex(*index.Value)
		return &models.AirQualitySnapshot{
			CAQIValue:   caqi,
			StatusLabel: classify.AQIStatusLabel(caqi),
			FetchedAt:   time.Now(),
		}, nil
	}

	c.logger.Info("CAQI index missing from measurement",
		zap.Int("installation_id", installationID))

	return &models.AirQualitySnapshot{
		StatusLabel: models.IndexUnavailableLabel,
		FetchedAt:   time.Now(),
	}, nil
}

func (c *AirlyClient) nearestInstallation(ctx context.Context, header http.Header, coords models.Coordinates) (int, bool, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	values.Set("lng", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	values.Set("maxDistanceKM", strconv.FormatFloat(c.maxDistanceKM, 'f', -1, 64))
	values.Set("maxResults", "1")
	endpoint := fmt.Sprintf("%s/installations/nearest?%s", c.baseURL, values.Encode())

	var installations []AirlyInstallation
	if err := c.GetJSON(ctx, "nearest installation", endpoint, header, &installations); err != nil {
		return 0, false, err
	}

	if len(installations) == 0 {
		return 0, false, nil
	}
	return installations[0].ID, true, nil
}
