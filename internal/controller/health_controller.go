package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct {
	startedAt time.Time
}

func NewHealthController() *HealthController {
	return &HealthController{
		startedAt: time.Now(),
	}
}

// RegisterRoutes mounts the liveness probe outside the /api group so it
// bypasses the rate limiter.
func (c *HealthController) RegisterRoutes(app *fiber.App) {
	app.Get("/health", c.Healthy)
}

func (c *HealthController) Healthy(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status": "OK",
		"uptime": time.Since(c.startedAt).Seconds(),
	})
}
