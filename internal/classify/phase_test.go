package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobby-s-dev/weather-display/internal/models"
)

func TestPhaseForHourBoundaries(t *testing.T) {
	tests := []struct {
		hour int
		want models.TimePhase
	}{
		{0, models.PhaseNight},
		{4, models.PhaseNight},
		{5, models.PhaseSunrise},
		{7, models.PhaseSunrise},
		{8, models.PhaseDay},
		{16, models.PhaseDay},
		{17, models.PhaseSunset},
		{20, models.PhaseSunset},
		{21, models.PhaseNight},
		{23, models.PhaseNight},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseForHour(tt.hour), "hour %d", tt.hour)
	}
}

func TestPhasesPartitionTheDay(t *testing.T) {
	counts := make(map[models.TimePhase]int)
	for h := 0; h < 24; h++ {
		counts[PhaseForHour(h)]++
	}

	require.Len(t, counts, 4)
	assert.Equal(t, 8, counts[models.PhaseNight])
	assert.Equal(t, 3, counts[models.PhaseSunrise])
	assert.Equal(t, 9, counts[models.PhaseDay])
	assert.Equal(t, 4, counts[models.PhaseSunset])
}

func TestTimePhaseUsesLocalHour(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	// 04:30 UTC is 05:30 in Berlin.
	ts := time.Date(2024, 3, 1, 4, 30, 0, 0, time.UTC)

	assert.Equal(t, models.PhaseNight, TimePhase(ts))
	assert.Equal(t, models.PhaseSunrise, TimePhase(ts.In(berlin)))
}
