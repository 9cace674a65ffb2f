package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const CtxAnonIDKey = "anon_id"

// AnonymousMiddleware gives every visitor a stable anonymous id cookie. It is
// the key of the pending upload and of the visitor's progress topic.
type AnonymousMiddleware struct {
	cookieName string
	secure     bool
	ttl        time.Duration
}

func NewAnonymousMiddleware(cookieName string, secure bool, ttl time.Duration) *AnonymousMiddleware {
	if cookieName == "" {
		cookieName = "anon_sid"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AnonymousMiddleware{cookieName: cookieName, secure: secure, ttl: ttl}
}

func (m *AnonymousMiddleware) CookieName() string {
	return m.cookieName
}

func (m *AnonymousMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Cookies(m.cookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     m.cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(m.ttl / time.Second),
				Secure:   m.secure,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(CtxAnonIDKey, id)
		return c.Next()
	}
}

func AnonIDFrom(c fiber.Ctx) string {
	id, _ := c.Locals(CtxAnonIDKey).(string)
	return id
}
