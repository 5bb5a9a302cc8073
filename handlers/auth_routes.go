// handlers/auth_routes.go
package handlers

import (
	"errors"
	"log"

	"gmonad-points-service/middleware"
	"gmonad-points-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, store *services.SessionStore, referrals *services.ReferralService) {
	// The page posts the provider identity here after the OAuth redirect,
	// together with any error the provider reported in the fragment and the
	// inbound ?ref= code it captured before redirecting.
	app.Post("/auth/callback", func(c *fiber.Ctx) error {
		var req struct {
			UserID           string `json:"user_id"`
			Username         string `json:"username"`
			Ref              string `json:"ref"`
			Fragment         string `json:"fragment"`
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		// The page may forward the provider's redirect fragment unparsed.
		if req.Error == "" && req.Fragment != "" {
			req.Error, req.ErrorDescription = services.ParseCallbackFragment(req.Fragment)
		}

		if req.Error != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": services.FriendlyOAuthError(req.Error, req.ErrorDescription),
			})
		}
		if req.UserID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
		}

		sess := store.Create(req.UserID, req.Username)

		if _, err := referrals.EnsureHomeRow(req.UserID, req.Username); err != nil {
			// Session is still issued; the home row is retried lazily on the
			// next task or referral read.
			log.Printf("❌ Failed to ensure home row for %s: %v", req.UserID, err)
		}

		resp := fiber.Map{
			"token":      sess.Token,
			"expires_at": sess.ExpiresAt,
		}

		// The inbound code is consumed on any terminal outcome; it is never
		// retried.
		if req.Ref != "" {
			switch _, err := referrals.Redeem(req.Ref, req.UserID, req.Username); {
			case err == nil:
				resp["referral"] = "accepted"
			case errors.Is(err, services.ErrSelfReferral):
				resp["referral"] = "self-referral not allowed"
			case errors.Is(err, services.ErrAlreadyRedeemed):
				resp["referral"] = "already redeemed"
			case errors.Is(err, services.ErrCodeNotFound):
				resp["referral"] = "code not found"
			default:
				log.Printf("❌ Referral redemption failed for %s: %v", req.UserID, err)
				resp["referral"] = "failed"
			}
		}
		return c.JSON(resp)
	})

	secured := app.Group("/auth", middleware.SessionMiddleware(store))

	secured.Get("/session", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  c.Locals("user_id"),
			"username": c.Locals("username"),
		})
	})

	secured.Post("/signout", func(c *fiber.Ctx) error {
		token := c.Locals("session_token").(string)
		store.Delete(token)
		return c.JSON(fiber.Map{"message": "Signed out"})
	})
}
