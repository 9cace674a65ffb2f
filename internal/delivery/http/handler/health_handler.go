package handler

import (
	"context"
	"time"

	"skill-upcycle/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// HealthCheck pings one dependency. Optional checks report "down" without
// failing the endpoint.
type HealthCheck struct {
	Name     string
	Check    func(ctx context.Context) error
	Optional bool
}

type HealthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	status := fiber.StatusOK
	deps := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if chk.Check == nil {
			continue
		}
		if err := chk.Check(ctx); err != nil {
			deps[chk.Name] = "down"
			if !chk.Optional {
				status = fiber.StatusServiceUnavailable
			}
			continue
		}
		deps[chk.Name] = "up"
	}

	data := map[string]any{"dependencies": deps}
	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageServiceUnavailable, data)
	}
	return response.Success(c, status, response.MessageOK, data)
}
