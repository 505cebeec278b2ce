package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bobby-s-dev/weather-display/internal/display"
	"github.com/bobby-s-dev/weather-display/internal/models"
	"github.com/bobby-s-dev/weather-display/internal/scheduler"
)

// Refresher runs a track out of cadence.
type Refresher interface {
	ForceRun(ctx context.Context, track string) error
}

type refreshDoneMsg struct {
	track string
	err   error
}

type Model struct {
	state     display.State
	keys      KeyMap
	help      help.Model
	refresher Refresher
	notice    string
	width     int
	height    int
	quitting  bool
}

func NewModel(initial models.GradientColors, refresher Refresher) Model {
	return Model{
		state:     display.NewState(initial),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		refresher: refresher,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// State returns what the dashboard currently shows.
func (m Model) State() display.State {
	return m.state
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.RefreshWeather):
			return m.refresh(scheduler.TrackWeather)
		case key.Matches(msg, m.keys.RefreshAirQuality):
			return m.refresh(scheduler.TrackAirQuality)
		}

	case refreshDoneMsg:
		if msg.err != nil {
			m.notice = msg.track + " refresh failed"
		} else {
			m.notice = ""
		}

	case locationMsg:
		m.state.LocationText = string(msg)
	case timeMsg:
		m.state.TimeText = string(msg)
	case temperatureMsg:
		m.state.TemperatureText = string(msg)
	case conditionMsg:
		m.state.ConditionText = string(msg)
	case iconMsg:
		m.state.ConditionIcon = models.IconKey(msg)
	case gradientStartMsg:
		m.state.GradientStart = models.RGB(msg)
	case gradientEndMsg:
		m.state.GradientEnd = models.RGB(msg)
	case airQualityMsg:
		m.state.AirQualityText = string(msg)
	case aqiValueMsg:
		m.state.AQIValue = int(msg)
	}

	return m, nil
}

func (m Model) refresh(track string) (tea.Model, tea.Cmd) {
	if m.refresher == nil {
		return m, nil
	}
	m.notice = "refreshing " + track + "..."
	refresher := m.refresher
	return m, func() tea.Msg {
		return refreshDoneMsg{track: track, err: refresher.ForceRun(context.Background(), track)}
	}
}
