package models

import "fmt"

type TimePhase int

const (
	PhaseNight TimePhase = iota
	PhaseSunrise
	PhaseDay
	PhaseSunset
)

func (p TimePhase) String() string {
	switch p {
	case PhaseNight:
		return "night"
	case PhaseSunrise:
		return "sunrise"
	case PhaseDay:
		return "day"
	case PhaseSunset:
		return "sunset"
	default:
		return "unknown"
	}
}

type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex renders the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type GradientColors struct {
	Start RGB `json:"start"`
	End   RGB `json:"end"`
}

type IconKey string

const (
	IconSun     IconKey = "sun"
	IconRain    IconKey = "rain"
	IconSnow    IconKey = "snow"
	IconThunder IconKey = "thunder"
)
