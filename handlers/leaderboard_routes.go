// handlers/leaderboard_routes.go
package handlers

import (
	"log"
	"strconv"

	"gmonad-points-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboard *services.LeaderboardService) {
	// Fast path: precomputed snapshot, ordered server-side.
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "100"))
		if err != nil || limit <= 0 {
			limit = services.DefaultLeaderboardLimit
		}

		entries, err := leaderboard.Top(limit)
		if err != nil {
			log.Printf("❌ Failed to fetch leaderboard: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
		}
		return c.JSON(entries)
	})

	// Canonical path: recompute totals straight from the ledger.
	app.Get("/leaderboard/live", func(c *fiber.Ctx) error {
		entries, err := leaderboard.Aggregate()
		if err != nil {
			log.Printf("❌ Failed to aggregate leaderboard: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
		}
		return c.JSON(entries)
	})
}
