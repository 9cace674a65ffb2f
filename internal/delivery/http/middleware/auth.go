package middleware

import (
	"context"
	"errors"
	"strings"

	"skill-upcycle/internal/session"
	"skill-upcycle/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const CtxSessionKey = "session"

// Authenticator resolves an access token into the live server-side session.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (session.Session, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Middleware rejects the request unless it carries a valid access token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		sess, err := m.auth.Authenticate(c.Context(), token)
		if err != nil {
			if errors.Is(err, usecase.ErrUnauthorized) {
				return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
			}
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}

		c.Locals(CtxSessionKey, sess)
		return c.Next()
	}
}

// Optional attaches the session when a valid token is present and lets the
// request through as anonymous otherwise.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return c.Next()
		}
		sess, err := m.auth.Authenticate(c.Context(), token)
		if err != nil {
			if errors.Is(err, usecase.ErrUnauthorized) {
				return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
			}
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
		c.Locals(CtxSessionKey, sess)
		return c.Next()
	}
}

func SessionFrom(c fiber.Ctx) (session.Session, bool) {
	sess, ok := c.Locals(CtxSessionKey).(session.Session)
	return sess, ok
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
