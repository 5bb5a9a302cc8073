package middleware

import (
	"strings"

	"gmonad-points-service/services"

	"github.com/gofiber/fiber/v2"
)

// SessionMiddleware resolves the Bearer token to an active session and
// attaches the identity to the request context for handlers.
func SessionMiddleware(store *services.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}

		// Parse "Bearer <token>"; a raw token without the prefix is accepted too.
		token := strings.TrimPrefix(authHeader, "Bearer ")

		sess, ok := store.Get(token)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired session",
			})
		}

		c.Locals("user_id", sess.UserID)
		c.Locals("username", sess.Username)
		c.Locals("session_token", sess.Token)
		return c.Next()
	}
}
