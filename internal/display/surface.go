// Package display holds the push-only contract between the refresh
// scheduler and whatever renders the dashboard.
package display

import "github.com/bobby-s-dev/weather-display/internal/models"

// Surface is a passive sink. Every setter must be idempotent and safe to call
// in any order; a surface never calls back into the scheduler.
type Surface interface {
	SetLocationText(text string)
	SetTimeText(text string)
	SetTemperatureText(text string)
	SetConditionText(text string)
	SetConditionIcon(icon models.IconKey)
	SetGradientStart(color models.RGB)
	SetGradientEnd(color models.RGB)
	SetAirQualityText(text string)
	SetAQIValue(value int)
}

// Liveness is implemented by surfaces that can go away before the scheduler
// stops, such as a terminal program the user has quit.
type Liveness interface {
	Alive() bool
}

// Fanout forwards every update to each surface in order.
type Fanout []Surface

func (f Fanout) SetLocationText(text string) {
	for _, s := range f {
		s.SetLocationText(text)
	}
}

func (f Fanout) SetTimeText(text string) {
	for _, s := range f {
		s.SetTimeText(text)
	}
}

func (f Fanout) SetTemperatureText(text string) {
	for _, s := range f {
		s.SetTemperatureText(text)
	}
}

func (f Fanout) SetConditionText(text string) {
	for _, s := range f {
		s.SetConditionText(text)
	}
}

func (f Fanout) SetConditionIcon(icon models.IconKey) {
	for _, s := range f {
		s.SetConditionIcon(icon)
	}
}

func (f Fanout) SetGradientStart(color models.RGB) {
	for _, s := range f {
		s.SetGradientStart(color)
	}
}

func (f Fanout) SetGradientEnd(color models.RGB) {
	for _, s := range f {
		s.SetGradientEnd(color)
	}
}

func (f Fanout) SetAirQualityText(text string) {
	for _, s := range f {
		s.SetAirQualityText(text)
	}
}

func (f Fanout) SetAQIValue(value int) {
	for _, s := range f {
		s.SetAQIValue(value)
	}
}

// Alive is true while at least one member is alive. Members without a
// liveness check count as alive.
func (f Fanout) Alive() bool {
	for _, s := range f {
		if l, ok := s.(Liveness); !ok || l.Alive() {
			return true
		}
	}
	return false
}
