package app

import (
	"fmt"
	"log"
	"strings"

	"skill-upcycle/internal/config"
	"skill-upcycle/internal/delivery/http/handler"
	"skill-upcycle/internal/delivery/http/middleware"
	"skill-upcycle/internal/delivery/http/routes"
	v1 "skill-upcycle/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

// bodyLimitSlack covers the multipart framing around an upload.
const bodyLimitSlack = 1 << 20

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(cfg config.Config, c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: int(cfg.Upload.MaxBytes) + bodyLimitSlack,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, cfg, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	c.Start()

	app := New(cfg, c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
}

func registerRoutes(app *fiber.App, cfg config.Config, c *Container) {
	if app == nil {
		return
	}

	checks := []handler.HealthCheck{
		{Name: "redis", Check: c.Redis.Ping, Optional: true},
	}
	if c.DB != nil {
		checks = append(checks, handler.HealthCheck{Name: "database", Check: c.DB.Ping})
	}

	routes.Mount(app, handler.NewHealthHandler(checks...), v1.Deps{
		Auth:           c.Auth,
		Upload:         c.Upload,
		Dashboard:      c.Dashboard,
		Report:         c.Report,
		Anonymous:      middleware.NewAnonymousMiddleware(cfg.Session.CookieName, cfg.Session.Secure, cfg.Session.PendingTTL),
		Progress:       c.Hub,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		Logger:         c.Logger,
	})
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
