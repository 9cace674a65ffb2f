package handler

import (
	"errors"

	"skill-upcycle/internal/delivery/http/middleware"
	"skill-upcycle/internal/domain/skillgraph"
	"skill-upcycle/internal/pkg/response"
	"skill-upcycle/internal/session"
	"skill-upcycle/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", errorDetail(err), err)
	case errors.Is(err, usecase.ErrInvalidFile):
		return middleware.NewAppError(fiber.StatusUnsupportedMediaType, "Only PDF files are accepted", nil, err)
	case errors.Is(err, usecase.ErrFileTooLarge):
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "File too large", nil, err)
	case errors.Is(err, usecase.ErrUploadInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "An upload is already being analysed", nil, err)
	case errors.Is(err, usecase.ErrAnalysisNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Analysis not found", nil, err)
	case errors.Is(err, usecase.ErrEmptyGraph):
		return middleware.NewAppError(fiber.StatusNotFound, skillgraph.EmptyStateMessage, nil, err)
	case errors.Is(err, usecase.ErrUpstreamUnavailable):
		return middleware.NewAppError(fiber.StatusBadGateway, "", nil, err)
	case errors.Is(err, usecase.ErrUpstreamContract):
		return middleware.NewAppError(fiber.StatusBadGateway, "", nil, err)
	case errors.Is(err, usecase.ErrReportDisabled):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// errorDetail exposes the joined validation reason of a bad request.
func errorDetail(err error) any {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return nil
	}
	for _, e := range joined.Unwrap() {
		if !errors.Is(e, usecase.ErrInvalidInput) {
			return map[string]string{"reason": e.Error()}
		}
	}
	return nil
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
}

func requireSession(c fiber.Ctx) (session.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return session.Session{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return sess, nil
}
