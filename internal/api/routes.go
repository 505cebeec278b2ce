package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// NewApp builds the status server. It is local-only and unauthenticated.
func NewApp(log *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "weather-display",
		DisableStartupMessage: true,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          errorHandler(log),
	})
}

func SetupRoutes(app *fiber.App, handler *Handler, log *zap.Logger) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger(log))

	api := app.Group("/api/v1")

	api.Get("/health", handler.GetHealth)
	api.Get("/display", handler.GetDisplay)
	api.Get("/status", handler.GetStatus)
	api.Post("/refresh/:track", handler.Refresh)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}

// requestLogger writes access logs through zap instead of fiber's stdout
// logger, which would draw over the terminal dashboard.
func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug("HTTP request",
			zap.Any("request_id", c.Locals("requestid")),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)))
		return err
	}
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log.Error("HTTP error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   err.Error(),
			"success": false,
		})
	}
}
