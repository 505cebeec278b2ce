package display

import (
	"fmt"
	"math"
	"time"

	"github.com/bobby-s-dev/weather-display/internal/models"
)

const clockLayout = "15:04"

// WeatherView is everything the weather track derives from one reading.
type WeatherView struct {
	Temperature float64
	Condition   string
	Icon        models.IconKey
	Gradient    models.GradientColors
}

// Presenter turns views into surface updates. It holds the surface without
// owning it: the caller keeps the surface alive until the scheduler stops,
// or the surface reports itself dead through Liveness.
type Presenter struct {
	surface Surface
}

func NewPresenter(surface Surface) *Presenter {
	return &Presenter{surface: surface}
}

func (p *Presenter) alive() bool {
	if l, ok := p.surface.(Liveness); ok {
		return l.Alive()
	}
	return true
}

func (p *Presenter) ShowLocation(name string) bool {
	if !p.alive() {
		return false
	}
	p.surface.SetLocationText(name)
	return true
}

func (p *Presenter) ShowTime(now time.Time) bool {
	if !p.alive() {
		return false
	}
	p.surface.SetTimeText(FormatClock(now))
	return true
}

func (p *Presenter) ShowWeather(view WeatherView) bool {
	if !p.alive() {
		return false
	}
	p.surface.SetTemperatureText(FormatTemperature(view.Temperature))
	p.surface.SetConditionText(view.Condition)
	p.surface.SetConditionIcon(view.Icon)
	p.surface.SetGradientStart(view.Gradient.Start)
	p.surface.SetGradientEnd(view.Gradient.End)
	return true
}

func (p *Presenter) ShowAirQuality(snapshot models.AirQualitySnapshot) bool {
	if !p.alive() {
		return false
	}
	p.surface.SetAirQualityText(snapshot.StatusLabel)
	p.surface.SetAQIValue(snapshot.CAQIValue)
	return true
}

func FormatClock(now time.Time) string {
	return now.Format(clockLayout)
}

// FormatTemperature rounds half away from zero, so -0.4 reads "0°".
func FormatTemperature(celsius float64) string {
	rounded := int(math.Round(celsius))
	return fmt.Sprintf("%d°", rounded)
}
