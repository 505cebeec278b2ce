package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-display/internal/display"
	"github.com/bobby-s-dev/weather-display/internal/scheduler"
)

var startTime = time.Now()

type Scheduler interface {
	ForceRun(ctx context.Context, track string) error
	GetStatus() map[string]interface{}
}

type Gateway interface {
	GetLastFetchTime() time.Time
	GetStats() map[string]interface{}
}

// DisplayState exposes what the surface currently shows.
type DisplayState interface {
	Snapshot() display.State
}

type Handler struct {
	scheduler Scheduler
	gateway   Gateway
	board     DisplayState
	logger    *zap.Logger
}

func NewHandler(sched Scheduler, gateway Gateway, board DisplayState, logger *zap.Logger) *Handler {
	return &Handler{
		scheduler: sched,
		gateway:   gateway,
		board:     board,
		logger:    logger,
	}
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "healthy",
		"timestamp":  time.Now(),
		"last_fetch": h.gateway.GetLastFetchTime(),
		"uptime":     time.Since(startTime).String(),
	})
}

// GetDisplay handles GET /api/v1/display
func (h *Handler) GetDisplay(c *fiber.Ctx) error {
	return c.JSON(h.board.Snapshot())
}

// GetStatus handles GET /api/v1/status
func (h *Handler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"scheduler": h.scheduler.GetStatus(),
		"gateway":   h.gateway.GetStats(),
		"timestamp": time.Now(),
	})
}

// Refresh handles POST /api/v1/refresh/:track
func (h *Handler) Refresh(c *fiber.Ctx) error {
	track := c.Params("track")

	h.logger.Info("Manual refresh requested",
		zap.String("track", track),
		zap.Any("request_id", c.Locals("requestid")))

	err := h.scheduler.ForceRun(c.UserContext(), track)
	switch {
	case errors.Is(err, scheduler.ErrUnknownTrack):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown track",
			"track": track,
		})
	case errors.Is(err, scheduler.ErrTrackDisabled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Track disabled",
			"track": track,
		})
	case err != nil:
		h.logger.Error("Manual refresh failed",
			zap.String("track", track),
			zap.Error(err))

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Refresh failed",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"track":   track,
		"display": h.board.Snapshot(),
	})
}
