// handlers/task_routes.go
package handlers

import (
	"errors"
	"fmt"
	"log"

	"gmonad-points-service/middleware"
	"gmonad-points-service/models"
	"gmonad-points-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, store *services.SessionStore, tasks *services.TaskService) {
	secured := app.Group("/user/tasks", middleware.SessionMiddleware(store))

	secured.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		username, _ := c.Locals("username").(string)

		statuses, err := tasks.Status(userID, username)
		if err != nil {
			log.Printf("❌ Failed to load task status for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tasks"})
		}
		return c.JSON(statuses)
	})

	secured.Post("/:field/click", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		username, _ := c.Locals("username").(string)
		field := models.TaskField(c.Params("field"))

		task, err := tasks.Click(userID, username, field)
		if err != nil {
			return taskError(c, userID, err)
		}

		resp := fiber.Map{"message": fmt.Sprintf("Complete '%s' and verify to earn %d points", task.Name, task.Points)}
		if task.URL != "" {
			resp["url"] = task.URL
		}
		return c.JSON(resp)
	})

	secured.Post("/:field/verify", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		username, _ := c.Locals("username").(string)
		field := models.TaskField(c.Params("field"))

		count, err := tasks.Verify(userID, username, field)
		if err != nil {
			return taskError(c, userID, err)
		}

		task, _ := models.TaskByField(field)
		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Task verified! You earned %d points", task.Points),
			"points":  task.Points,
			"count":   count,
		})
	})
}

// taskError maps the state-machine rejections to informational responses;
// everything else is a store failure.
func taskError(c *fiber.Ctx, userID string, err error) error {
	var cooldown services.ErrCooldown
	switch {
	case errors.Is(err, services.ErrUnknownTask):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown task"})
	case errors.Is(err, services.ErrTaskCompleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This task has already been completed."})
	case errors.Is(err, services.ErrVerifyFirst):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Please verify this task first."})
	case errors.Is(err, services.ErrClickFirst):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Please click the task first."})
	case errors.As(err, &cooldown):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":           fmt.Sprintf("Daily check-in available in %d hour(s).", cooldown.HoursRemaining),
			"hours_remaining": cooldown.HoursRemaining,
		})
	default:
		log.Printf("❌ Task operation failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task status. Please try again."})
	}
}
