package display

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-display/internal/models"
)

// Placeholders shown before the first refresh.
const (
	PlaceholderTemperature = "--°"
	PlaceholderText        = "--"
)

// State is a copy of everything a surface has been told.
type State struct {
	LocationText    string               `json:"location_text"`
	TimeText        string               `json:"time_text"`
	TemperatureText string               `json:"temperature_text"`
	ConditionText   string               `json:"condition_text"`
	ConditionIcon   models.IconKey       `json:"condition_icon"`
	GradientStart   models.RGB           `json:"gradient_start"`
	GradientEnd     models.RGB           `json:"gradient_end"`
	AirQualityText  string               `json:"air_quality_text"`
	AQIValue        int                  `json:"aqi_value"`
	UpdatedAt       map[string]time.Time `json:"updated_at"`
}

func NewState(initial models.GradientColors) State {
	return State{
		TimeText:        PlaceholderText,
		TemperatureText: PlaceholderTemperature,
		ConditionText:   PlaceholderText,
		ConditionIcon:   models.IconSun,
		GradientStart:   initial.Start,
		GradientEnd:     initial.End,
		AirQualityText:  PlaceholderText,
		UpdatedAt:       make(map[string]time.Time),
	}
}

func (s State) String() string {
	var b strings.Builder
	if s.LocationText != "" {
		fmt.Fprintf(&b, "%s\n", s.LocationText)
	}
	fmt.Fprintf(&b, "time:        %s\n", s.TimeText)
	fmt.Fprintf(&b, "temperature: %s\n", s.TemperatureText)
	fmt.Fprintf(&b, "condition:   %s (%s)\n", s.ConditionText, s.ConditionIcon)
	fmt.Fprintf(&b, "gradient:    %s -> %s\n", s.GradientStart.Hex(), s.GradientEnd.Hex())
	fmt.Fprintf(&b, "air quality: %s (CAQI %d)\n", s.AirQualityText, s.AQIValue)
	return b.String()
}

// Board is an in-memory Surface. The status API reads it and tests use it as
// a fake sink.
type Board struct {
	mu    sync.RWMutex
	state State
	now   func() time.Time
}

func NewBoard(initial models.GradientColors) *Board {
	return &Board{
		state: NewState(initial),
		now:   time.Now,
	}
}

func (b *Board) set(field string, apply func(*State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	apply(&b.state)
	b.state.UpdatedAt[field] = b.now()
}

func (b *Board) SetLocationText(text string) {
	b.set("location_text", func(s *State) { s.LocationText = text })
}

func (b *Board) SetTimeText(text string) {
	b.set("time_text", func(s *State) { s.TimeText = text })
}

func (b *Board) SetTemperatureText(text string) {
	b.set("temperature_text", func(s *State) { s.TemperatureText = text })
}

func (b *Board) SetConditionText(text string) {
	b.set("condition_text", func(s *State) { s.ConditionText = text })
}

func (b *Board) SetConditionIcon(icon models.IconKey) {
	b.set("condition_icon", func(s *State) { s.ConditionIcon = icon })
}

func (b *Board) SetGradientStart(color models.RGB) {
	b.set("gradient_start", func(s *State) { s.GradientStart = color })
}

func (b *Board) SetGradientEnd(color models.RGB) {
	b.set("gradient_end", func(s *State) { s.GradientEnd = color })
}

func (b *Board) SetAirQualityText(text string) {
	b.set("air_quality_text", func(s *State) { s.AirQualityText = text })
}

func (b *Board) SetAQIValue(value int) {
	b.set("aqi_value", func(s *State) { s.AQIValue = value })
}

// Snapshot returns a deep copy of the current state.
func (b *Board) Snapshot() State {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.state
	s.UpdatedAt = make(map[string]time.Time, len(b.state.UpdatedAt))
	for k, v := range b.state.UpdatedAt {
		s.UpdatedAt[k] = v
	}
	return s
}
