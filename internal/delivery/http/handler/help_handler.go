package handler

import (
	"skill-upcycle/internal/content"
	"skill-upcycle/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HelpHandler struct{}

func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

func (h *HelpHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/faq", h.FAQ)
}

func (h *HelpHandler) FAQ(c fiber.Ctx) error {
	items, err := content.FAQ()
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}
