package handler

import (
	"skill-upcycle/internal/delivery/http/dto"
	"skill-upcycle/internal/delivery/http/middleware"
	"skill-upcycle/internal/pkg/response"
	"skill-upcycle/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc      usecase.AuthUsecase
	require fiber.Handler
}

// NewAuthHandler takes the auth middleware guarding logout.
func NewAuthHandler(uc usecase.AuthUsecase, require fiber.Handler) *AuthHandler {
	return &AuthHandler{uc: uc, require: require}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/login", h.Login)
	r.Post("/signup", h.Signup)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.require, h.Logout)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	res, err := h.uc.Login(c.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		AnonID:   middleware.AnonIDFrom(c),
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	res, err := h.uc.Signup(c.Context(), req.ToDomain(), middleware.AnonIDFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, res)
}

// Refresh expects the refresh token as the bearer credential.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get("Authorization"))
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	res, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	if err := h.uc.Logout(c.Context(), sess); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
