// handlers/referral_routes.go
package handlers

import (
	"errors"
	"fmt"
	"log"

	"gmonad-points-service/middleware"
	"gmonad-points-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupReferralRoutes(app *fiber.App, store *services.SessionStore, referrals *services.ReferralService, siteURL string) {
	secured := app.Group("/user", middleware.SessionMiddleware(store))

	secured.Get("/referral", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		username, _ := c.Locals("username").(string)

		stats, err := referrals.Stats(userID, username)
		if err != nil {
			log.Printf("❌ Failed to load referral stats for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to generate referral code",
			})
		}

		return c.JSON(fiber.Map{
			"referral_code":  stats.Code,
			"referral_link":  fmt.Sprintf("%s?ref=%s", siteURL, stats.Code),
			"referrals":      stats.Referrals,
			"points_awarded": stats.PointsEarned,
			"referee_points": stats.RefereePoints,
		})
	})

	secured.Post("/referral/redeem", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		username, _ := c.Locals("username").(string)

		var req struct {
			Code string `json:"code"`
		}
		if err := c.BodyParser(&req); err != nil || req.Code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code is required"})
		}

		switch _, err := referrals.Redeem(req.Code, userID, username); {
		case err == nil:
			return c.JSON(fiber.Map{
				"message": "Referral accepted",
				"points":  services.ReferralBonus,
			})
		case errors.Is(err, services.ErrCodeNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Referral code not found"})
		case errors.Is(err, services.ErrSelfReferral):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Self-referral not allowed"})
		case errors.Is(err, services.ErrAlreadyRedeemed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Referral already redeemed"})
		default:
			log.Printf("❌ Referral redemption failed for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to redeem referral"})
		}
	})
}
