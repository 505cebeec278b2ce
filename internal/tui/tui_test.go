package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobby-s-dev/weather-display/internal/classify"
	"github.com/bobby-s-dev/weather-display/internal/display"
	"github.com/bobby-s-dev/weather-display/internal/models"
	"github.com/bobby-s-dev/weather-display/internal/scheduler"
)

type captured struct {
	msgs []tea.Msg
}

func (c *captured) Send(msg tea.Msg) { c.msgs = append(c.msgs, msg) }

func apply(m Model, msgs []tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

type fakeRefresher struct {
	err    error
	tracks []string
}

func (f *fakeRefresher) ForceRun(_ context.Context, track string) error {
	f.tracks = append(f.tracks, track)
	return f.err
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSurfaceUpdatesModel(t *testing.T) {
	sink := &captured{}
	presenter := display.NewPresenter(NewSurface(sink))

	presenter.ShowLocation("Berlin")
	presenter.ShowWeather(display.WeatherView{
		Temperature: 21.6,
		Condition:   "Thunderstorm",
		Icon:        models.IconThunder,
		Gradient:    classify.GradientFor(models.PhaseDay, 95),
	})
	presenter.ShowAirQuality(models.AirQualitySnapshot{CAQIValue: 66, StatusLabel: classify.AQIGood})

	m := apply(NewModel(classify.DefaultGradient, nil), sink.msgs)
	state := m.State()

	assert.Equal(t, "Berlin", state.LocationText)
	assert.Equal(t, "22°", state.TemperatureText)
	assert.Equal(t, models.IconThunder, state.ConditionIcon)
	assert.Equal(t, classify.GradientFor(models.PhaseDay, 95), models.GradientColors{Start: state.GradientStart, End: state.GradientEnd})
	assert.Equal(t, 66, state.AQIValue)

	view := m.View()
	assert.Contains(t, view, "Berlin")
	assert.Contains(t, view, "22°")
	assert.Contains(t, view, "CAQI 66")
}

func TestClosedSurfaceDropsUpdates(t *testing.T) {
	sink := &captured{}
	surface := NewSurface(sink)
	surface.Close()

	assert.False(t, surface.Alive())
	assert.False(t, display.NewPresenter(surface).ShowLocation("Berlin"))
	assert.Empty(t, sink.msgs)
}

func TestViewShowsPlaceholdersBeforeFirstRefresh(t *testing.T) {
	view := NewModel(classify.DefaultGradient, nil).View()

	assert.Contains(t, view, display.PlaceholderTemperature)
	assert.Contains(t, view, "☀")
	assert.NotContains(t, view, "CAQI")
}

func TestSentinelShownWithoutValue(t *testing.T) {
	m := apply(NewModel(classify.DefaultGradient, nil), []tea.Msg{
		airQualityMsg(models.NoStationLabel),
		aqiValueMsg(0),
	})

	assert.Contains(t, m.View(), models.NoStationLabel)
	assert.NotContains(t, m.View(), "CAQI 0")
}

func TestQuitKey(t *testing.T) {
	next, cmd := NewModel(classify.DefaultGradient, nil).Update(keyPress('q'))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}

func TestRefreshKeys(t *testing.T) {
	refresher := &fakeRefresher{}
	m := NewModel(classify.DefaultGradient, refresher)

	next, cmd := m.Update(keyPress('r'))
	require.NotNil(t, cmd)
	assert.Contains(t, next.View(), "refreshing weather")

	next, _ = next.Update(cmd())
	assert.NotContains(t, next.View(), "refreshing")

	_, cmd = next.Update(keyPress('a'))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []string{scheduler.TrackWeather, scheduler.TrackAirQuality}, refresher.tracks)
}

func TestRefreshFailureNotice(t *testing.T) {
	m := NewModel(classify.DefaultGradient, &fakeRefresher{err: errors.New("offline")})

	next, cmd := m.Update(keyPress('r'))
	next, _ = next.Update(cmd())

	assert.Contains(t, next.View(), "weather refresh failed")
}

func TestWindowSizeControlsRows(t *testing.T) {
	next, _ := NewModel(classify.DefaultGradient, nil).Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	assert.Len(t, splitLines(next.View()), 20)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

func TestInterpolate(t *testing.T) {
	from := models.RGB{R: 0, G: 100, B: 200}
	to := models.RGB{R: 100, G: 100, B: 0}

	assert.Equal(t, from, Interpolate(from, to, 0))
	assert.Equal(t, to, Interpolate(from, to, 1))
	assert.Equal(t, models.RGB{R: 50, G: 100, B: 100}, Interpolate(from, to, 0.5))
}
