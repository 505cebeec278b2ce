package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 48
	defaultHeight = 14
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	lines := m.content()
	top := (height - len(lines)) / 2
	if top < 0 {
		top = 0
	}

	rows := make([]string, height)
	for i := range rows {
		var t float64
		if height > 1 {
			t = float64(i) / float64(height-1)
		}
		bg := lipgloss.Color(Interpolate(m.state.GradientStart, m.state.GradientEnd, t).Hex())

		line := ""
		if j := i - top; j >= 0 && j < len(lines) {
			line = lines[j]
		}
		rows[i] = lipgloss.NewStyle().
			Background(bg).
			Width(width).
			MaxWidth(width).
			MaxHeight(1).
			Align(lipgloss.Center).
			Render(line)
	}

	return strings.Join(rows, "\n")
}

func (m Model) content() []string {
	var lines []string
	if m.state.LocationText != "" {
		lines = append(lines, locationStyle.Render(m.state.LocationText), "")
	}

	lines = append(lines,
		clockStyle.Render(m.state.TimeText),
		"",
		textStyle.Render(fmt.Sprintf("%s  %s", glyph(m.state.ConditionIcon), m.state.TemperatureText)),
		textStyle.Render(m.state.ConditionText),
		"",
		textStyle.Render(m.airQualityLine()),
		"",
	)

	if m.notice != "" {
		lines = append(lines, mutedStyle.Render(m.notice))
	}
	lines = append(lines, m.help.View(m.keys))
	return lines
}

func (m Model) airQualityLine() string {
	if m.state.AQIValue == 0 {
		return m.state.AirQualityText
	}
	return fmt.Sprintf("CAQI %d · %s", m.state.AQIValue, m.state.AirQualityText)
}
