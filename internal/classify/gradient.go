package classify

import "github.com/bobby-s-dev/weather-display/internal/models"

// WeatherGroup is the coarse weather family used to pick a daytime gradient.
type WeatherGroup int

const (
	GroupClear WeatherGroup = iota
	GroupRain
	GroupSnow
	GroupCloudy
)

var (
	rainCodes   = codeSet(51, 53, 55, 61, 63, 65, 80, 81, 82, 95, 96, 99)
	snowCodes   = codeSet(71, 73, 75, 77, 85, 86)
	cloudyCodes = codeSet(2, 3, 45, 48)
)

var (
	nightGradient = models.GradientColors{
		Start: models.RGB{R: 11, G: 29, B: 58},
		End:   models.RGB{R: 10, G: 25, B: 48},
	}
	sunriseGradient = models.GradientColors{
		Start: models.RGB{R: 255, G: 207, B: 113},
		End:   models.RGB{R: 255, G: 140, B: 66},
	}
	sunsetGradient = models.GradientColors{
		Start: models.RGB{R: 255, G: 159, B: 104},
		End:   models.RGB{R: 46, G: 26, B: 71},
	}
	rainGradient = models.GradientColors{
		Start: models.RGB{R: 91, G: 75, B: 138},
		End:   models.RGB{R: 60, G: 47, B: 88},
	}
	snowGradient = models.GradientColors{
		Start: models.RGB{R: 168, G: 192, B: 255},
		End:   models.RGB{R: 63, G: 43, B: 150},
	}
	cloudyGradient = models.GradientColors{
		Start: models.RGB{R: 127, G: 141, B: 161},
		End:   models.RGB{R: 84, G: 99, B: 119},
	}
	clearGradient = models.GradientColors{
		Start: models.RGB{R: 77, G: 163, B: 255},
		End:   models.RGB{R: 43, G: 111, B: 214},
	}
)

// DefaultGradient is shown before the first weather refresh lands.
var DefaultGradient = models.GradientColors{
	Start: models.RGB{R: 102, G: 126, B: 234},
	End:   models.RGB{R: 118, G: 75, B: 162},
}

func codeSet(codes ...models.WeatherCode) map[models.WeatherCode]struct{} {
	set := make(map[models.WeatherCode]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// GroupOf returns the gradient family of a weather code. Rain wins over snow
// and snow over cloudy, although the sets do not overlap today.
func GroupOf(code models.WeatherCode) WeatherGroup {
	if _, ok := rainCodes[code]; ok {
		return GroupRain
	}
	if _, ok := snowCodes[code]; ok {
		return GroupSnow
	}
	if _, ok := cloudyCodes[code]; ok {
		return GroupCloudy
	}
	return GroupClear
}

// GradientFor picks the background gradient. Phase dominates; the weather
// code only matters during the day.
func GradientFor(phase models.TimePhase, code models.WeatherCode) models.GradientColors {
	switch phase {
	case models.PhaseNight:
		return nightGradient
	case models.PhaseSunrise:
		return sunriseGradient
	case models.PhaseSunset:
		return sunsetGradient
	}

	switch GroupOf(code) {
	case GroupRain:
		return rainGradient
	case GroupSnow:
		return snowGradient
	case GroupCloudy:
		return cloudyGradient
	default:
		return clearGradient
	}
}
