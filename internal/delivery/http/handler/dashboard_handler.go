package handler

import (
	"bytes"
	"strconv"
	"strings"

	"skill-upcycle/internal/delivery/http/dto"
	"skill-upcycle/internal/delivery/http/middleware"
	"skill-upcycle/internal/domain/skillgraph"
	"skill-upcycle/internal/pkg/response"
	"skill-upcycle/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type DashboardHandler struct {
	uc usecase.DashboardUsecase
}

func NewDashboardHandler(uc usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// RegisterRoutes expects r to be behind the auth middleware.
func (h *DashboardHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/dashboard", h.Dashboard)
	r.Get("/users/:id/dashboard", h.UserDashboard)
	r.Put("/users/me", h.UpdateProfile)
	r.Get("/analyses/:id", h.Analysis)
	r.Get("/analyses/:id/graph", h.Graph)
}

func (h *DashboardHandler) Dashboard(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	d, err := h.uc.GetDashboard(c.Context(), sess, sess.UserID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, d)
}

func (h *DashboardHandler) UserDashboard(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c)
	if err != nil {
		return err
	}
	d, err := h.uc.GetDashboard(c.Context(), sess, userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, d)
}

func (h *DashboardHandler) UpdateProfile(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.ProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	user, err := h.uc.UpdateProfile(c.Context(), sess, usecase.ProfileInput{
		Name:      req.Name,
		Email:     req.Email,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, user)
}

func (h *DashboardHandler) Analysis(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r, err := h.uc.GetAnalysis(c.Context(), sess, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, r)
}

// Graph serves the skill map as json (default), svg or png. highlight names
// the node drawn in its hovered state.
func (h *DashboardHandler) Graph(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	format := strings.ToLower(strings.TrimSpace(c.Query("format", "json")))
	if format != "json" && format != "svg" && format != "png" {
		return middleware.NewAppError(fiber.StatusBadRequest, "format must be json, svg or png", nil, nil)
	}
	highlight := strings.TrimSpace(c.Query("highlight"))

	l, err := h.uc.Graph(c.Context(), sess, id)
	if err != nil {
		return mapUsecaseError(err)
	}

	opts := skillgraph.RenderOptions{Highlight: highlight}
	var buf bytes.Buffer
	switch format {
	case "svg":
		if err := skillgraph.RenderSVG(&buf, l, opts); err != nil {
			return mapUsecaseError(err)
		}
		return response.Binary(c, "image/svg+xml", buf.Bytes())
	case "png":
		opts.Background = "#ffffff"
		if err := skillgraph.RenderPNG(&buf, l, opts); err != nil {
			return mapUsecaseError(err)
		}
		return response.Binary(c, "image/png", buf.Bytes())
	default:
		return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewGraphResponse(l, highlight))
	}
}

func pathID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}
