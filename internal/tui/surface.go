package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bobby-s-dev/weather-display/internal/display"
	"github.com/bobby-s-dev/weather-display/internal/models"
)

// Sender is the part of *tea.Program the surface needs.
type Sender interface {
	Send(msg tea.Msg)
}

type (
	locationMsg      string
	timeMsg          string
	temperatureMsg   string
	conditionMsg     string
	iconMsg          models.IconKey
	gradientStartMsg models.RGB
	gradientEndMsg   models.RGB
	airQualityMsg    string
	aqiValueMsg      int
)

// Surface forwards display updates into the running program. Updates are
// applied on the program's own goroutine, so callers never touch the model.
type Surface struct {
	program Sender
	closed  atomic.Bool
}

var (
	_ display.Surface  = (*Surface)(nil)
	_ display.Liveness = (*Surface)(nil)
)

func NewSurface(program Sender) *Surface {
	return &Surface{program: program}
}

// Close marks the surface dead once the program has exited.
func (s *Surface) Close() {
	s.closed.Store(true)
}

func (s *Surface) Alive() bool {
	return !s.closed.Load()
}

func (s *Surface) send(msg tea.Msg) {
	if s.Alive() {
		s.program.Send(msg)
	}
}

func (s *Surface) SetLocationText(text string) { s.send(locationMsg(text)) }
func (s *Surface) SetTimeText(text string) { s.send(timeMsg(text)) }
func (s *Surface) SetTemperatureText(text string) { s.send(temperatureMsg(text)) }
func (s *Surface) SetConditionText(text string) { s.send(conditionMsg(text)) }
func (s *Surface) SetConditionIcon(icon models.IconKey) { s.send(iconMsg(icon)) }
func (s *Surface) SetGradientStart(color models.RGB) { s.send(gradientStartMsg(color)) }
func (s *Surface) SetGradientEnd(color models.RGB) { s.send(gradientEndMsg(color)) }
func (s *Surface) SetAirQualityText(text string) { s.send(airQualityMsg(text)) }
func (s *Surface) SetAQIValue(value int) { s.send(aqiValueMsg(value)) }
