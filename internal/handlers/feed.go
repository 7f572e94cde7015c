package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/middleware"
	"github.com/luken/goalsbingo-api/internal/services"
)

// GetFeed returns the public opt-in feed. Non-opted-in viewers get an
// empty list.
func GetFeed(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	items, err := services.Feed.Public(userID)
	if err != nil {
		return respondError(c, err, "Failed to fetch feed")
	}

	return c.JSON(items)
}

// GetCommunityFeed returns the private feed of a community the viewer
// belongs to.
func GetCommunityFeed(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	communityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid community ID",
		})
	}

	items, err := services.Feed.Community(userID, communityID)
	if err != nil {
		return respondError(c, err, "Community not found")
	}

	return c.JSON(items)
}

// GetWatchedFeed returns events from the viewer's watched boards.
func GetWatchedFeed(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	items, err := services.Feed.Watched(userID)
	if err != nil {
		return respondError(c, err, "Failed to fetch feed")
	}

	return c.JSON(items)
}

// GetFeedStatus reports whether the current user is opted into the public
// feed.
func GetFeedStatus(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	optedIn, err := services.Feed.Status(userID)
	if err != nil {
		return respondError(c, err, "Failed to fetch status")
	}

	return c.JSON(fiber.Map{"isOptedIn": optedIn})
}

// ToggleFeedOptIn flips the current user's public-feed opt-in.
func ToggleFeedOptIn(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	optedIn, err := services.Feed.ToggleOptIn(userID)
	if err != nil {
		return respondError(c, err, "Failed to toggle opt-in")
	}

	return c.JSON(fiber.Map{"isOptedIn": optedIn})
}
