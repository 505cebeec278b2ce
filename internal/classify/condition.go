package classify

import "github.com/bobby-s-dev/weather-display/internal/models"

const UnknownCondition = "Unknown"

// WMO weather interpretation codes
var conditionLabels = map[models.WeatherCode]string{
	0:  "Clear Sky",
	1:  "Mainly Clear",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing Rime Fog",
	51: "Light Drizzle",
	53: "Moderate Drizzle",
	55: "Dense Drizzle",
	56: "Light Freezing Drizzle",
	57: "Dense Freezing Drizzle",
	61: "Slight Rain",
	63: "Moderate Rain",
	65: "Heavy Rain",
	66: "Light Freezing Rain",
	67: "Heavy Freezing Rain",
	71: "Slight Snow Fall",
	73: "Moderate Snow Fall",
	75: "Heavy Snow Fall",
	77: "Snow Grains",
	80: "Slight Rain Showers",
	81: "Moderate Rain Showers",
	82: "Violent Rain Showers",
	85: "Slight Snow Showers",
	86: "Heavy Snow Showers",
	95: "Thunderstorm",
	96: "Thunderstorm With Slight Hail",
	99: "Thunderstorm With Heavy Hail",
}

func ConditionLabel(code models.WeatherCode) string {
	if label, ok := conditionLabels[code]; ok {
		return label
	}
	return UnknownCondition
}

// Icon maps a weather code to one of the four icon keys. Anything not listed
// falls back to the sun.
func Icon(code models.WeatherCode) models.IconKey {
	switch code {
	case 95, 96, 99:
		return models.IconThunder
	case 51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 80, 81, 82:
		return models.IconRain
	case 71, 73, 75, 77, 85, 86:
		return models.IconSnow
	default:
		return models.IconSun
	}
}
