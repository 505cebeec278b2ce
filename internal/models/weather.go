package models

import (
	"fmt"
	"time"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// WeatherCode is a WMO weather interpretation code as reported by Open-Meteo.
type WeatherCode int

type WeatherSnapshot struct {
	Temperature float64     `json:"temperature"`
	Code        WeatherCode `json:"weather_code"`
	FetchedAt   time.Time   `json:"fetched_at"`
}

// AirQualitySnapshot carries the CAQI reading and its status label.
// CAQIValue 0 doubles as the "no data" sentinel, see NoStationLabel and
// IndexUnavailableLabel.
type AirQualitySnapshot struct {
	CAQIValue   int       `json:"caqi_value"`
	StatusLabel string    `json:"status_label"`
	FetchedAt   time.Time `json:"fetched_at"`
}

const (
	NoStationLabel        = "No AQI data"
	IndexUnavailableLabel = "AQI unavailable"
)

// HasData reports whether the snapshot came from a real CAQI reading.
func (s AirQualitySnapshot) HasData() bool {
	return s.StatusLabel != NoStationLabel && s.StatusLabel != IndexUnavailableLabel
}
