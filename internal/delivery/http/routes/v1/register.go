package v1

import (
	"log"

	"skill-upcycle/internal/delivery/http/handler"
	"skill-upcycle/internal/delivery/http/middleware"
	"skill-upcycle/internal/usecase"
	"skill-upcycle/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Auth      usecase.AuthUsecase
	Upload    usecase.UploadUsecase
	Dashboard usecase.DashboardUsecase
	Report    usecase.ReportUsecase

	Anonymous *middleware.AnonymousMiddleware
	Progress  *ws.Hub

	UploadMaxBytes int64
	Logger         *log.Logger
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(d.Auth)
	if d.Anonymous != nil {
		r.Use(d.Anonymous.Middleware())
	}

	handler.NewAuthHandler(d.Auth, authMw.Middleware()).RegisterRoutes(r.Group("/auth"))
	handler.NewPersonalityHandler().RegisterRoutes(r.Group("/personality"))
	handler.NewHelpHandler().RegisterRoutes(r.Group("/help"))
	handler.NewUploadHandler(d.Upload, authMw.Optional(), d.UploadMaxBytes).RegisterRoutes(r.Group("/uploads"))

	if d.Progress != nil {
		cookie := ""
		if d.Anonymous != nil {
			cookie = d.Anonymous.CookieName()
		}
		progress := ws.NewHandler(d.Progress, handler.ProgressTopic(d.Auth, cookie), d.Logger)
		r.Get("/ws", progress.HandleProgressWS)
	}

	// The group middleware applies to every route registered after it under
	// r, so protected routes go last.
	protected := r.Group("", authMw.Middleware())
	handler.NewDashboardHandler(d.Dashboard).RegisterRoutes(protected)
	handler.NewReportHandler(d.Report).RegisterRoutes(protected)
}
