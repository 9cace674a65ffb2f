package handler

import (
	"skill-upcycle/internal/delivery/http/dto"
	"skill-upcycle/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type PersonalityHandler struct{}

func NewPersonalityHandler() *PersonalityHandler {
	return &PersonalityHandler{}
}

func (h *PersonalityHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/questions", h.Questions)
}

func (h *PersonalityHandler) Questions(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPersonalityResponse())
}
