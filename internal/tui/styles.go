package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bobby-s-dev/weather-display/internal/models"
)

var (
	foreground = lipgloss.Color("#ffffff")

	locationStyle = lipgloss.NewStyle().
			Foreground(foreground).
			Bold(true)

	clockStyle = lipgloss.NewStyle().
			Foreground(foreground).
			Bold(true).
			Padding(0, 2)

	textStyle = lipgloss.NewStyle().
			Foreground(foreground)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#dddddd")).
			Italic(true)
)

var iconGlyphs = map[models.IconKey]string{
	models.IconSun:     "☀",
	models.IconRain:    "☂",
	models.IconSnow:    "❄",
	models.IconThunder: "⚡",
}

func glyph(icon models.IconKey) string {
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return iconGlyphs[models.IconSun]
}

// Interpolate blends two colours linearly, t in [0,1].
func Interpolate(from, to models.RGB, t float64) models.RGB {
	if t <= 0 {
		return from
	}
	if t >= 1 {
		return to
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return models.RGB{R: mix(from.R, to.R), G: mix(from.G, to.G), B: mix(from.B, to.B)}
}
