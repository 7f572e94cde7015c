package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/luken/goalsbingo-api/internal/services"
)

// RankDifficulty asks the AI gateway to rate a goal list's difficulty.
// Gateway failures degrade to an "unavailable" result; they are advisory
// and never block board or goal mutations.
func RankDifficulty(c *fiber.Ctx) error {
	var req struct {
		Goals []string `json:"goals"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ranking, err := services.AI.RankDifficulty(req.Goals)
	if err != nil {
		if errors.Is(err, services.ErrServiceUnavailable) {
			return c.JSON(fiber.Map{
				"available": false,
				"ranking":   "AI service unavailable. Please try again later.",
			})
		}
		return respondError(c, err, "No goals provided to analyze")
	}

	return c.JSON(fiber.Map{
		"available": true,
		"ranking":   ranking,
	})
}

// ExtractGoals pulls a goal list out of an uploaded photo.
func ExtractGoals(c *fiber.Ctx) error {
	var req struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	goals, err := services.AI.ExtractGoals(req.ImageURL)
	if err != nil {
		if errors.Is(err, services.ErrServiceUnavailable) {
			return c.JSON(fiber.Map{
				"success": false,
				"error":   "AI service unavailable. Please try again later.",
				"goals":   []string{},
			})
		}
		return respondError(c, err, "Image URL is required")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"goals":   goals,
	})
}
