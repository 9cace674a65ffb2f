// Package routes mounts the BFF surface: health checks at the root and the
// versioned skill-mapping API under APIPrefix.
package routes

import (
	"skill-upcycle/internal/delivery/http/handler"
	v1 "skill-upcycle/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

const APIPrefix = "/api/v1"

// Mount attaches health checks and the v1 upload, dashboard and report
// routes to app. A nil health handler mounts an always-healthy check.
func Mount(app *fiber.App, health *handler.HealthHandler, api v1.Deps) {
	if app == nil {
		return
	}
	if health == nil {
		health = handler.NewHealthHandler()
	}
	health.RegisterRoutes(app)
	v1.Register(app.Group(APIPrefix), api)
}
