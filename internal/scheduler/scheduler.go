package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-display/internal/classify"
	"github.com/bobby-s-dev/weather-display/internal/display"
	"github.com/bobby-s-dev/weather-display/internal/models"
)

// Track names, also used by the status API.
const (
	TrackClock      = "clock"
	TrackWeather    = "weather"
	TrackAirQuality = "air-quality"
)

type Gateway interface {
	FetchWeather(ctx context.Context, coords models.Coordinates) (models.WeatherSnapshot, error)
	FetchAirQuality(ctx context.Context, credential string, coords models.Coordinates) (models.AirQualitySnapshot, error)
}

type Options struct {
	Coordinates  models.Coordinates
	LocationName string
	// Credential is the Airly key. The air-quality track only runs when
	// AirQualityEnabled is set.
	Credential           string
	AirQualityEnabled    bool
	TickInterval         time.Duration
	WeatherIntervalTicks int
	AirQualityHours      []int
}

type Option func(*Scheduler)

// WithClock replaces the wall clock. The returned time's location decides
// which hour of day a tick belongs to.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

type trackStatus struct {
	Runs        int       `json:"runs"`
	Failures    int       `json:"failures"`
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`
}

// Scheduler owns all refresh timing. One coarse tick drives three tracks
// that run one after another on the same worker.
type Scheduler struct {
	gateway   Gateway
	presenter *display.Presenter
	logger    *zap.Logger
	opts      Options
	now       func() time.Time
	triggers  map[int]struct{}
	cron      *cron.Cron
	entryID   cron.EntryID

	// work serializes track execution between cron ticks and manual runs.
	work sync.Mutex

	mu               sync.Mutex
	running          bool
	clockStarted     bool
	tickCount        int
	lastTick         time.Time
	lastAqiHourFired *int
	tracks           map[string]*trackStatus
}

func NewScheduler(gateway Gateway, surface display.Surface, opts Options, logger *zap.Logger, options ...Option) *Scheduler {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Minute
	}
	if opts.WeatherIntervalTicks <= 0 {
		opts.WeatherIntervalTicks = 60
	}

	triggers := make(map[int]struct{}, len(opts.AirQualityHours))
	for _, h := range opts.AirQualityHours {
		triggers[h] = struct{}{}
	}

	cl := newCronLogger(logger)
	s := &Scheduler{
		gateway:   gateway,
		presenter: display.NewPresenter(surface),
		logger:    logger,
		opts:      opts,
		now:       time.Now,
		triggers:  triggers,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		tracks: map[string]*trackStatus{
			TrackClock:      {},
			TrackWeather:    {},
			TrackAirQuality: {},
		},
	}
	for _, o := range options {
		o(s)
	}

	if !opts.AirQualityEnabled {
		logger.Info("Air quality track disabled: no Airly API key configured")
	}

	return s
}

// Start pushes an initial refresh of every track synchronously and then
// starts the coarse clock. A Stop that lands during the initial refresh
// wins: the clock is never started.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.RunInitial(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler stopped during initial refresh, clock not started")
		return nil
	}

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.opts.TickInterval), func() {
		s.Tick(context.Background())
	})
	if err != nil {
		s.running = false
		return fmt.Errorf("schedule tick: %w", err)
	}
	s.entryID = id
	s.clockStarted = true
	s.cron.Start()

	s.logger.Info("Scheduler started",
		zap.Duration("tick_interval", s.opts.TickInterval),
		zap.Int("weather_interval_ticks", s.opts.WeatherIntervalTicks),
		zap.Ints("air_quality_hours", s.opts.AirQualityHours),
		zap.Bool("air_quality_enabled", s.opts.AirQualityEnabled),
		zap.Time("next_tick", s.cron.Entry(id).Next))

	return nil
}

// Stop halts the clock and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	started := s.clockStarted
	s.clockStarted = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	if !started {
		return
	}
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
}

// RunInitial refreshes the clock, the weather and, when enabled, the air
// quality once, independent of any tick.
func (s *Scheduler) RunInitial(ctx context.Context) {
	s.work.Lock()
	defer s.work.Unlock()

	now := s.now()
	log := s.logger.With(zap.String("tick_id", uuid.NewString()), zap.Bool("initial", true))

	if s.opts.LocationName != "" {
		s.presenter.ShowLocation(s.opts.LocationName)
	}
	s.runTrack(log, TrackClock, func() error { return s.refreshClock(now) })
	s.runTrack(log, TrackWeather, func() error { return s.refreshWeather(ctx, now) })

	if s.opts.AirQualityEnabled {
		// Inside a trigger hour the initial fetch counts as that hour's fetch.
		s.mu.Lock()
		if s.isTriggerHour(now.Hour()) {
			h := now.Hour()
			s.lastAqiHourFired = &h
		}
		s.mu.Unlock()
		s.runTrack(log, TrackAirQuality, func() error { return s.refreshAirQuality(ctx) })
	}
}

// Tick evaluates one coarse clock tick. The clock face always updates first;
// weather and air quality follow when due.
func (s *Scheduler) Tick(ctx context.Context) {
	s.work.Lock()
	defer s.work.Unlock()

	now := s.now()
	s.mu.Lock()
	s.tickCount++
	tick := s.tickCount
	s.lastTick = now
	s.mu.Unlock()

	log := s.logger.With(zap.String("tick_id", uuid.NewString()), zap.Int("tick", tick))
	log.Debug("Scheduler tick", zap.Time("now", now))

	s.runTrack(log, TrackClock, func() error { return s.refreshClock(now) })

	if tick%s.opts.WeatherIntervalTicks == 0 {
		s.runTrack(log, TrackWeather, func() error { return s.refreshWeather(ctx, now) })
	}

	if s.opts.AirQualityEnabled && s.claimAirQualityHour(now.Hour()) {
		s.runTrack(log, TrackAirQuality, func() error { return s.refreshAirQuality(ctx) })
	}
}

// ForceRun refreshes one track now, outside the cadence. A forced air-quality
// refresh ignores trigger hours and leaves the dedup guard alone.
func (s *Scheduler) ForceRun(ctx context.Context, track string) error {
	var fn func(time.Time) error
	switch track {
	case TrackClock:
		fn = s.refreshClock
	case TrackWeather:
		fn = func(now time.Time) error { return s.refreshWeather(ctx, now) }
	case TrackAirQuality:
		if !s.opts.AirQualityEnabled {
			return ErrTrackDisabled
		}
		fn = func(time.Time) error { return s.refreshAirQuality(ctx) }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTrack, track)
	}

	s.work.Lock()
	defer s.work.Unlock()

	s.logger.Info("Manually triggering refresh", zap.String("track", track))
	log := s.logger.With(zap.String("tick_id", uuid.NewString()), zap.Bool("manual", true))
	now := s.now()
	return s.runTrack(log, track, func() error { return fn(now) })
}

// claimAirQualityHour is the dedup guard. The check and the update happen in
// one critical section. Hours outside the trigger set clear the guard, so a
// trigger hour seen again later fires again.
func (s *Scheduler) claimAirQualityHour(hour int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isTriggerHour(hour) {
		s.lastAqiHourFired = nil
		return false
	}
	if s.lastAqiHourFired != nil && *s.lastAqiHourFired == hour {
		return false
	}
	s.lastAqiHourFired = &hour
	return true
}

func (s *Scheduler) isTriggerHour(hour int) bool {
	_, ok := s.triggers[hour]
	return ok
}

// runTrack isolates one track: errors and panics are logged and recorded,
// never propagated to the other tracks or the clock.
func (s *Scheduler) runTrack(log *zap.Logger, track string, fn func() error) (err error) {
	startTime := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			log.Error("Refresh track panicked", zap.String("track", track), zap.Any("panic", r))
		}
		s.recordTrack(track, startTime, err)
	}()

	if err = fn(); err != nil {
		log.Warn("Refresh failed, keeping previous display state",
			zap.String("track", track),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err))
		return err
	}

	if track != TrackClock {
		log.Info("Refresh completed",
			zap.String("track", track),
			zap.Duration("duration", time.Since(startTime)))
	}
	return nil
}

func (s *Scheduler) recordTrack(track string, startTime time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.tracks[track]
	st.Runs++
	st.LastRun = startTime
	if err != nil {
		st.Failures++
		st.LastError = err.Error()
		return
	}
	st.LastSuccess = startTime
	st.LastError = ""
}

func (s *Scheduler) refreshClock(now time.Time) error {
	if !s.presenter.ShowTime(now) {
		s.logger.Debug("Display surface gone, skipping clock update")
	}
	return nil
}

func (s *Scheduler) refreshWeather(ctx context.Context, now time.Time) error {
	snapshot, err := s.gateway.FetchWeather(ctx, s.opts.Coordinates)
	if err != nil {
		return err
	}

	if !s.presenter.ShowWeather(WeatherView(now, snapshot)) {
		s.logger.Debug("Display surface gone, dropping weather update")
	}
	return nil
}

func (s *Scheduler) refreshAirQuality(ctx context.Context) error {
	snapshot, err := s.gateway.FetchAirQuality(ctx, s.opts.Credential, s.opts.Coordinates)
	if err != nil {
		return err
	}

	if !snapshot.HasData() {
		s.logger.Info("No air quality reading available", zap.String("status", snapshot.StatusLabel))
	}
	if !s.presenter.ShowAirQuality(snapshot) {
		s.logger.Debug("Display surface gone, dropping air quality update")
	}
	return nil
}

// WeatherView classifies a reading taken at now.
func WeatherView(now time.Time, snapshot models.WeatherSnapshot) display.WeatherView {
	phase := classify.TimePhase(now)
	return display.WeatherView{
		Temperature: snapshot.Temperature,
		Condition:   classify.ConditionLabel(snapshot.Code),
		Icon:        classify.Icon(snapshot.Code),
		Gradient:    classify.GradientFor(phase, snapshot.Code),
	}
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks := make(map[string]trackStatus, len(s.tracks))
	for name, st := range s.tracks {
		tracks[name] = *st
	}

	hours := append([]int(nil), s.opts.AirQualityHours...)
	sort.Ints(hours)

	status := map[string]interface{}{
		"running":                s.running,
		"tick_interval":          s.opts.TickInterval.String(),
		"weather_interval_ticks": s.opts.WeatherIntervalTicks,
		"tick_count":             s.tickCount,
		"last_tick":              s.lastTick,
		"air_quality_enabled":    s.opts.AirQualityEnabled,
		"air_quality_hours":      hours,
		"tracks":                 tracks,
	}
	if s.lastAqiHourFired != nil {
		status["last_air_quality_hour"] = *s.lastAqiHourFired
	}
	if s.clockStarted {
		status["next_tick"] = s.cron.Entry(s.entryID).Next
	}
	return status
}
