package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing service is reachable.
type Pinger func(ctx context.Context) error

// HealthHandler reports the state of the database and cache.
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler constructs HealthHandler. checks maps a component name to
// its ping.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	components := fiber.Map{}
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			components[name] = err.Error()
			status = fiber.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	return c.Status(status).JSON(fiber.Map{
		"success":    status == fiber.StatusOK,
		"components": components,
	})
}
