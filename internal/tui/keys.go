package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	RefreshWeather    key.Binding
	RefreshAirQuality key.Binding
	Quit              key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.RefreshWeather, k.RefreshAirQuality, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		RefreshWeather: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh weather"),
		),
		RefreshAirQuality: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "refresh air quality"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}
