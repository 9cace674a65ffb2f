package handler

import (
	"strings"

	"skill-upcycle/internal/delivery/http/middleware"
	"skill-upcycle/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ProgressTopic picks the websocket topic for an upgrade request: the user's
// topic for a valid access token (?token= or bearer header), otherwise the
// visitor's anonymous topic from the cookie.
func ProgressTopic(auth middleware.Authenticator, cookieName string) ws.TopicResolver {
	return func(c fiber.Ctx) (string, error) {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			token, _ = middleware.BearerToken(c.Get("Authorization"))
		}
		if token != "" {
			sess, err := auth.Authenticate(c.Context(), token)
			if err != nil {
				return "", mapUsecaseError(err)
			}
			return ws.UserTopic(sess.UserID), nil
		}

		anonID := middleware.AnonIDFrom(c)
		if anonID == "" {
			anonID = c.Cookies(cookieName)
		}
		if _, err := uuid.Parse(anonID); err != nil {
			return "", middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
		}
		return ws.AnonTopic(anonID), nil
	}
}
