package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-display/internal/api"
	"github.com/bobby-s-dev/weather-display/internal/classify"
	"github.com/bobby-s-dev/weather-display/internal/config"
	"github.com/bobby-s-dev/weather-display/internal/display"
	"github.com/bobby-s-dev/weather-display/internal/scheduler"
	"github.com/bobby-s-dev/weather-display/internal/services"
	"github.com/bobby-s-dev/weather-display/internal/tui"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"YAML config file. Overrides CONFIG_PATH." type:"path"`
	Headless bool   `help:"Run without the terminal dashboard."`
	Once     bool   `help:"Refresh everything once, print the display and exit."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("weather-display"),
		kong.Description("Ambient weather and air quality dashboard"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	// Bootstrap logger for config loading, replaced once the config is known
	bootstrap, _ := zap.NewProduction()
	zap.ReplaceGlobals(bootstrap)

	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	interactive := !CLI.Headless && !CLI.Once
	logger, err := newLogger(cfg, interactive)
	if err != nil {
		bootstrap.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	logger.Info("Starting weather display",
		zap.Stringer("coordinates", cfg.Location.Coordinates),
		zap.Bool("headless", !interactive))

	gateway := services.NewGateway(cfg, logger)
	board := display.NewBoard(classify.DefaultGradient)

	if CLI.Once {
		runOnce(cfg, gateway, board, logger)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if interactive {
		runDashboard(ctx, cfg, gateway, board, logger)
	} else {
		runHeadless(ctx, cfg, gateway, board, logger)
	}

	logger.Info("Weather display stopped")
}

func schedulerOptions(cfg *config.Config) scheduler.Options {
	return scheduler.Options{
		Coordinates:          cfg.Location.Coordinates,
		LocationName:         cfg.Location.Name,
		Credential:           cfg.AirQuality.APIKey,
		AirQualityEnabled:    cfg.AirQualityEnabled(),
		TickInterval:         cfg.Scheduler.TickInterval,
		WeatherIntervalTicks: cfg.Scheduler.WeatherIntervalTicks,
		AirQualityHours:      cfg.Scheduler.AirQualityHours,
	}
}

func runOnce(cfg *config.Config, gateway *services.Gateway, board *display.Board, logger *zap.Logger) {
	sched := scheduler.NewScheduler(gateway, board, schedulerOptions(cfg), logger)
	sched.RunInitial(context.Background())
	fmt.Print(board.Snapshot().String())
}

func runHeadless(ctx context.Context, cfg *config.Config, gateway *services.Gateway, board *display.Board, logger *zap.Logger) {
	sched := scheduler.NewScheduler(gateway, board, schedulerOptions(cfg), logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	app := startStatusServer(cfg, sched, gateway, board, logger)

	<-ctx.Done()
	logger.Info("Shutting down...")

	sched.Stop()
	stopStatusServer(app, logger)
}

func runDashboard(ctx context.Context, cfg *config.Config, gateway *services.Gateway, board *display.Board, logger *zap.Logger) {
	// The model needs the scheduler for manual refreshes and the scheduler
	// needs the program's surface, so the refresher is bound late.
	refresher := &lateRefresher{}
	program := tea.NewProgram(
		tui.NewModel(classify.DefaultGradient, refresher),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	surface := tui.NewSurface(program)

	sched := scheduler.NewScheduler(gateway, display.Fanout{surface, board}, schedulerOptions(cfg), logger)
	refresher.target = sched

	app := startStatusServer(cfg, sched, gateway, board, logger)

	// Surface pushes block until the program loop runs.
	go func() {
		if err := sched.Start(); err != nil {
			logger.Error("Failed to start scheduler", zap.Error(err))
			program.Quit()
		}
	}()

	_, err := program.Run()
	surface.Close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("Dashboard exited with error", zap.Error(err))
		sched.Stop()
		stopStatusServer(app, logger)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Shutting down...")
	sched.Stop()
	stopStatusServer(app, logger)
}

type lateRefresher struct {
	target tui.Refresher
}

func (r *lateRefresher) ForceRun(ctx context.Context, track string) error {
	return r.target.ForceRun(ctx, track)
}

func startStatusServer(cfg *config.Config, sched *scheduler.Scheduler, gateway *services.Gateway, board *display.Board, logger *zap.Logger) *fiber.App {
	if cfg.Status.Addr == "" {
		return nil
	}

	app := api.NewApp(logger)
	api.SetupRoutes(app, api.NewHandler(sched, gateway, board, logger), logger)

	go func() {
		logger.Info("Starting status server", zap.String("address", cfg.Status.Addr))
		if err := app.Listen(cfg.Status.Addr); err != nil {
			logger.Error("Status server stopped", zap.Error(err))
		}
	}()

	return app
}

func stopStatusServer(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Status server shutdown failed", zap.Error(err))
	}
}
