package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/middleware"
	"github.com/luken/goalsbingo-api/internal/models"
	"github.com/luken/goalsbingo-api/internal/services"
)

// ToggleReaction applies an up/down vote to a feed event.
func ToggleReaction(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event ID",
		})
	}

	var req models.CreateReactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	action, err := services.Social.ToggleReaction(userID, eventID, req.Type)
	if err != nil {
		return respondError(c, err, "")
	}

	return c.JSON(fiber.Map{"action": action})
}

// GetReactions returns the reaction rollup for an event.
func GetReactions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event ID",
		})
	}

	summary, err := services.Social.Reactions(eventID, userID)
	if err != nil {
		return respondError(c, err, "")
	}

	return c.JSON(summary)
}

// AddComment adds a comment to a feed event.
func AddComment(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event ID",
		})
	}

	var req models.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	comment, err := services.Social.AddComment(userID, eventID, req.Text)
	if err != nil {
		return respondError(c, err, "Comment must be 1-500 characters")
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments returns an event's comments, oldest first.
func GetComments(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event ID",
		})
	}

	comments, err := services.Social.Comments(eventID)
	if err != nil {
		return respondError(c, err, "")
	}

	return c.JSON(comments)
}

// DeleteComment deletes a comment (author only).
func DeleteComment(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment ID",
		})
	}

	if err := services.Social.DeleteComment(userID, commentID); err != nil {
		return respondError(c, err, "Comment not found")
	}

	return c.JSON(fiber.Map{"success": true})
}
