// Package classify derives display attributes from raw readings. Everything
// here is pure and safe for concurrent use.
package classify

import (
	"time"

	"github.com/bobby-s-dev/weather-display/internal/models"
)

// TimePhase buckets the wall-clock hour of now (in its own location).
func TimePhase(now time.Time) models.TimePhase {
	return PhaseForHour(now.Hour())
}

func PhaseForHour(hour int) models.TimePhase {
	switch {
	case hour >= 21 || hour < 5:
		return models.PhaseNight
	case hour < 8:
		return models.PhaseSunrise
	case hour >= 17:
		return models.PhaseSunset
	default:
		return models.PhaseDay
	}
}
