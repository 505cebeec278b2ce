package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bobby-s-dev/weather-display/internal/classify"
	"github.com/bobby-s-dev/weather-display/internal/display"
	"github.com/bobby-s-dev/weather-display/internal/models"
)

type fakeGateway struct {
	mu           sync.Mutex
	weather      models.WeatherSnapshot
	weatherErr   error
	air          models.AirQualitySnapshot
	airErr       error
	weatherCalls int
	airCalls     int
	credentials  []string
}

func (f *fakeGateway) FetchWeather(context.Context, models.Coordinates) (models.WeatherSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weatherCalls++
	return f.weather, f.weatherErr
}

func (f *fakeGateway) FetchAirQuality(_ context.Context, credential string, _ models.Coordinates) (models.AirQualitySnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.airCalls++
	f.credentials = append(f.credentials, credential)
	return f.air, f.airErr
}

// recorder counts setter calls per surface property.
type recorder struct {
	*display.Board
	mu    sync.Mutex
	calls map[string]int
}

func newRecorder() *recorder {
	return &recorder{Board: display.NewBoard(classify.DefaultGradient), calls: map[string]int{}}
}

func (r *recorder) hit(name string) {
	r.mu.Lock()
	r.calls[name]++
	r.mu.Unlock()
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *recorder) SetTimeText(text string) { r.hit("time"); r.Board.SetTimeText(text) }
func (r *recorder) SetTemperatureText(text string) {
	r.hit("temperature")
	r.Board.SetTemperatureText(text)
}
func (r *recorder) SetConditionText(text string) { r.hit("condition"); r.Board.SetConditionText(text) }
func (r *recorder) SetGradientStart(c models.RGB) { r.hit("gradient"); r.Board.SetGradientStart(c) }
func (r *recorder) SetAirQualityText(text string) {
	r.hit("air_quality")
	r.Board.SetAirQualityText(text)
}

// clock returns the times it is given, one per call, repeating the last.
type clock struct {
	mu    sync.Mutex
	times []time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.UTC)
}

func atHours(hours ...int) *clock {
	c := &clock{}
	for _, h := range hours {
		c.times = append(c.times, at(h, 0))
	}
	return c
}

func baseOptions() Options {
	return Options{
		Coordinates:          models.Coordinates{Latitude: 52.52, Longitude: 13.405},
		Credential:           "key",
		AirQualityEnabled:    true,
		TickInterval:         time.Minute,
		WeatherIntervalTicks: 60,
		AirQualityHours:      []int{6, 15, 20},
	}
}

func TestAirQualityFiresOncePerTriggerHour(t *testing.T) {
	gw := &fakeGateway{air: models.AirQualitySnapshot{CAQIValue: 30, StatusLabel: classify.AQIGood}}
	s := NewScheduler(gw, newRecorder(), baseOptions(), zap.NewNop(), WithClock(atHours(6, 6, 6, 7, 6).now))

	for i := 0; i < 5; i++ {
		s.Tick(context.Background())
	}

	assert.Equal(t, 2, gw.airCalls)
	assert.Equal(t, []string{"key", "key"}, gw.credentials)
}

func TestAirQualityAcrossMidnight(t *testing.T) {
	gw := &fakeGateway{air: models.AirQualitySnapshot{CAQIValue: 10, StatusLabel: classify.AQIBest}}
	s := NewScheduler(gw, newRecorder(), baseOptions(), zap.NewNop(), WithClock(atHours(20, 20, 23, 0, 5, 6, 6).now))

	for i := 0; i < 7; i++ {
		s.Tick(context.Background())
	}

	assert.Equal(t, 2, gw.airCalls)
}

func TestAirQualityNeverFiresWithoutCredential(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	opts := baseOptions()
	opts.Credential = ""
	opts.AirQualityEnabled = false

	gw := &fakeGateway{}
	s := NewScheduler(gw, newRecorder(), opts, zap.New(core), WithClock(atHours(6, 15, 20).now))
	s.RunInitial(context.Background())
	for i := 0; i < 3; i++ {
		s.Tick(context.Background())
	}

	assert.Zero(t, gw.airCalls)
	assert.Equal(t, 1, logs.FilterMessageSnippet("Air quality track disabled").Len())
	assert.ErrorIs(t, s.ForceRun(context.Background(), TrackAirQuality), ErrTrackDisabled)
}

func TestWeatherFiresEveryIntervalTicks(t *testing.T) {
	opts := baseOptions()
	opts.WeatherIntervalTicks = 3
	gw := &fakeGateway{weather: models.WeatherSnapshot{Temperature: 12, Code: 3}}
	rec := newRecorder()
	s := NewScheduler(gw, rec, opts, zap.NewNop(), WithClock(atHours(10).now))

	for i := 0; i < 7; i++ {
		s.Tick(context.Background())
	}

	assert.Equal(t, 2, gw.weatherCalls)
	assert.Equal(t, 7, rec.count("time"))
}

func TestWeatherFailureLeavesDisplayUntouched(t *testing.T) {
	opts := baseOptions()
	opts.WeatherIntervalTicks = 1
	gw := &fakeGateway{weatherErr: errors.New("connection refused")}
	rec := newRecorder()
	s := NewScheduler(gw, rec, opts, zap.NewNop(), WithClock(atHours(10).now))

	s.Tick(context.Background())

	assert.Equal(t, 1, gw.weatherCalls)
	assert.Zero(t, rec.count("temperature"))
	assert.Zero(t, rec.count("condition"))
	assert.Zero(t, rec.count("gradient"))
	assert.Equal(t, 1, rec.count("time"))
	assert.Equal(t, display.PlaceholderTemperature, rec.Snapshot().TemperatureText)

	// the next due tick still fires
	gw.mu.Lock()
	gw.weatherErr = nil
	gw.weather = models.WeatherSnapshot{Temperature: 21.6, Code: 0}
	gw.mu.Unlock()
	s.Tick(context.Background())

	assert.Equal(t, 2, gw.weatherCalls)
	state := rec.Snapshot()
	assert.Equal(t, "22°", state.TemperatureText)
	assert.Equal(t, "Clear Sky", state.ConditionText)

	tracks := s.GetStatus()["tracks"].(map[string]trackStatus)
	assert.Equal(t, 2, tracks[TrackWeather].Runs)
	assert.Equal(t, 1, tracks[TrackWeather].Failures)
	assert.Empty(t, tracks[TrackWeather].LastError)
}

func TestAirQualityFailureDoesNotRetryWithinHour(t *testing.T) {
	gw := &fakeGateway{airErr: errors.New("timeout")}
	rec := newRecorder()
	s := NewScheduler(gw, rec, baseOptions(), zap.NewNop(), WithClock(atHours(15, 15).now))

	s.Tick(context.Background())
	s.Tick(context.Background())

	assert.Equal(t, 1, gw.airCalls)
	assert.Zero(t, rec.count("air_quality"))
}

func TestNoStationIsNotAnError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gw := &fakeGateway{air: models.AirQualitySnapshot{StatusLabel: models.NoStationLabel}}
	rec := newRecorder()
	s := NewScheduler(gw, rec, baseOptions(), zap.New(core), WithClock(atHours(6).now))

	s.Tick(context.Background())

	state := rec.Snapshot()
	assert.Equal(t, models.NoStationLabel, state.AirQualityText)
	assert.Zero(t, state.AQIValue)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestPanickingTrackIsIsolated(t *testing.T) {
	opts := baseOptions()
	opts.WeatherIntervalTicks = 1
	rec := newRecorder()
	s := NewScheduler(panicGateway{}, rec, opts, zap.NewNop(), WithClock(atHours(6).now))

	assert.NotPanics(t, func() { s.Tick(context.Background()) })
	assert.Equal(t, 1, rec.count("time"))

	tracks := s.GetStatus()["tracks"].(map[string]trackStatus)
	assert.Equal(t, 1, tracks[TrackWeather].Failures)
	assert.Equal(t, 1, tracks[TrackAirQuality].Runs)
}

type panicGateway struct{}

func (panicGateway) FetchWeather(context.Context, models.Coordinates) (models.WeatherSnapshot, error) {
	panic("boom")
}

func (panicGateway) FetchAirQuality(context.Context, string, models.Coordinates) (models.AirQualitySnapshot, error) {
	return models.AirQualitySnapshot{CAQIValue: 40, StatusLabel: classify.AQIGood}, nil
}

func TestRunInitialRefreshesEverything(t *testing.T) {
	opts := baseOptions()
	opts.LocationName = "Berlin"
	gw := &fakeGateway{
		weather: models.WeatherSnapshot{Temperature: -2.5, Code: 71},
		air:     models.AirQualitySnapshot{CAQIValue: 80, StatusLabel: classify.AQIPoor},
	}
	rec := newRecorder()
	s := NewScheduler(gw, rec, opts, zap.NewNop(), WithClock((&clock{times: []time.Time{at(6, 30), at(6, 31), at(7, 0)}}).now))

	s.RunInitial(context.Background())

	state := rec.Snapshot()
	assert.Equal(t, "Berlin", state.LocationText)
	assert.Equal(t, "06:30", state.TimeText)
	assert.Equal(t, "-3°", state.TemperatureText)
	assert.Equal(t, models.IconSnow, state.ConditionIcon)
	assert.Equal(t, classify.GradientFor(models.PhaseSunrise, 71).Start, state.GradientStart)
	assert.Equal(t, classify.AQIPoor, state.AirQualityText)
	assert.Equal(t, 80, state.AQIValue)

	// the initial fetch already covered hour 6
	s.Tick(context.Background())
	assert.Equal(t, 1, gw.airCalls)
	assert.Equal(t, 6, s.GetStatus()["last_air_quality_hour"])
}

func TestForceRunAirQualityLeavesGuardAlone(t *testing.T) {
	gw := &fakeGateway{air: models.AirQualitySnapshot{CAQIValue: 5, StatusLabel: classify.AQIBest}}
	s := NewScheduler(gw, newRecorder(), baseOptions(), zap.NewNop(), WithClock(atHours(15).now))

	require.NoError(t, s.ForceRun(context.Background(), TrackAirQuality))
	s.Tick(context.Background())
	require.NoError(t, s.ForceRun(context.Background(), TrackAirQuality))
	s.Tick(context.Background())

	assert.Equal(t, 3, gw.airCalls)
	assert.ErrorIs(t, s.ForceRun(context.Background(), "pollen"), ErrUnknownTrack)
}

func TestForceRunWeatherReturnsError(t *testing.T) {
	gw := &fakeGateway{weatherErr: errors.New("dns failure")}
	s := NewScheduler(gw, newRecorder(), baseOptions(), zap.NewNop(), WithClock(atHours(10).now))

	err := s.ForceRun(context.Background(), TrackWeather)
	assert.EqualError(t, err, "dns failure")
}

func TestDeadSurfaceStillFetches(t *testing.T) {
	opts := baseOptions()
	opts.WeatherIntervalTicks = 1
	gw := &fakeGateway{weather: models.WeatherSnapshot{Temperature: 10, Code: 0}}
	s := NewScheduler(gw, gone{}, opts, zap.NewNop(), WithClock(atHours(12).now))

	assert.NotPanics(t, func() { s.Tick(context.Background()) })
	assert.Equal(t, 1, gw.weatherCalls)
}

// gone panics on any write; the presenter must never reach it.
type gone struct{ display.Surface }

func (gone) Alive() bool { return false }

func TestStartAndStop(t *testing.T) {
	gw := &fakeGateway{weather: models.WeatherSnapshot{Temperature: 18, Code: 2}}
	rec := newRecorder()
	s := NewScheduler(gw, rec, baseOptions(), zap.NewNop(), WithClock(atHours(12).now))

	require.NoError(t, s.Start())
	assert.Equal(t, 1, gw.weatherCalls)
	assert.Equal(t, "18°", rec.Snapshot().TemperatureText)

	status := s.GetStatus()
	assert.Equal(t, true, status["running"])
	assert.Contains(t, status, "next_tick")

	s.Stop()
	assert.Equal(t, false, s.GetStatus()["running"])
}

// blockingGateway holds the weather fetch until released.
type blockingGateway struct {
	fakeGateway
	entered chan struct{}
	release chan struct{}
}

func (b *blockingGateway) FetchWeather(ctx context.Context, coords models.Coordinates) (models.WeatherSnapshot, error) {
	close(b.entered)
	<-b.release
	return b.fakeGateway.FetchWeather(ctx, coords)
}

func TestStopDuringInitialRefreshKeepsClockStopped(t *testing.T) {
	gw := &blockingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	s := NewScheduler(gw, newRecorder(), baseOptions(), zap.NewNop(), WithClock(atHours(12).now))

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	<-gw.entered
	s.Stop()
	close(gw.release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return")
	}

	status := s.GetStatus()
	assert.Equal(t, false, status["running"])
	assert.NotContains(t, status, "next_tick")
	assert.Empty(t, s.cron.Entries())
}

func TestRunInitialOutsideTriggerHourLeavesGuardEmpty(t *testing.T) {
	gw := &fakeGateway{air: models.AirQualitySnapshot{CAQIValue: 20, StatusLabel: classify.AQIBest}}
	s := NewScheduler(gw, newRecorder(), baseOptions(), zap.NewNop(), WithClock(atHours(12, 15, 15).now))

	s.RunInitial(context.Background())
	assert.Equal(t, 1, gw.airCalls)
	assert.NotContains(t, s.GetStatus(), "last_air_quality_hour")

	s.Tick(context.Background())
	s.Tick(context.Background())

	assert.Equal(t, 2, gw.airCalls)
	assert.Equal(t, 15, s.GetStatus()["last_air_quality_hour"])
}
