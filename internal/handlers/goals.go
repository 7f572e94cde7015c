package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/middleware"
	"github.com/luken/goalsbingo-api/internal/models"
	"github.com/luken/goalsbingo-api/internal/services"
)

// UpdateGoal patches a goal's text, completion, streak, or progress state.
// Each field group routes through the state machine so the matching event
// derivation runs in the same transaction as the change.
func UpdateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var goal *models.Goal
	if req.Text != nil {
		goal, err = services.Goals.SetText(userID, goalID, *req.Text)
		if err != nil {
			return respondError(c, err, "")
		}
	}
	if req.IsStreakGoal != nil {
		goal, err = services.Goals.SetStreak(userID, goalID, *req.IsStreakGoal, req.StreakTargetDays, req.StreakStartDate)
		if err != nil {
			return respondError(c, err, "")
		}
	}
	if req.IsProgressGoal != nil || req.ProgressTarget != nil || req.ProgressCurrent != nil {
		enable := true
		if req.IsProgressGoal != nil {
			enable = *req.IsProgressGoal
		}
		goal, err = services.Goals.SetProgress(userID, goalID, enable, req.ProgressTarget, req.ProgressCurrent)
		if err != nil {
			return respondError(c, err, "")
		}
	}
	if req.IsCompleted != nil {
		goal, err = services.Goals.SetCompleted(userID, goalID, *req.IsCompleted)
		if err != nil {
			return respondError(c, err, "")
		}
	}

	if goal == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to update",
		})
	}

	return c.JSON(goal)
}

// ToggleGoal flips a goal's completion state.
func ToggleGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req struct {
		IsCompleted bool `json:"isCompleted"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	goal, err := services.Goals.SetCompleted(userID, goalID, req.IsCompleted)
	if err != nil {
		return respondError(c, err, "")
	}

	return c.JSON(goal)
}

// ResetStreak restarts a streak goal's clock. Broadcasts streak_reset.
func ResetStreak(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, err := services.Goals.ResetStreak(userID, goalID)
	if err != nil {
		return respondError(c, err, "")
	}

	return c.JSON(goal)
}

// IncrementProgress moves a progress goal's counter, default delta 1.
func IncrementProgress(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req models.IncrementProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	delta := 1
	if req.Delta != nil {
		delta = *req.Delta
	}

	goal, err := services.Goals.IncrementProgress(userID, goalID, delta)
	if err != nil {
		return respondError(c, err, "")
	}

	return c.JSON(goal)
}
