package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/bingo"
	"github.com/luken/goalsbingo-api/internal/database"
	"github.com/luken/goalsbingo-api/internal/middleware"
	"github.com/luken/goalsbingo-api/internal/models"
)

// WatchBoard subscribes the caller to a board's events.
func WatchBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	var board models.Board
	if err := database.DB.First(&board, boardID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	if board.UserID == userID {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "You can't watch your own board",
		})
	}

	var existing models.WatchedBoard
	if err := database.DB.Where("user_id = ? AND board_id = ?", userID, boardID).
		First(&existing).Error; err == nil {
		return c.JSON(fiber.Map{"alreadyWatching": true})
	}

	watch := models.WatchedBoard{
		UserID:  userID,
		BoardID: boardID,
	}
	if err := database.DB.Create(&watch).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to watch board",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// UnwatchBoard removes the subscription. Idempotent.
func UnwatchBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	database.DB.Where("user_id = ? AND board_id = ?", userID, boardID).
		Delete(&models.WatchedBoard{})

	return c.JSON(fiber.Map{"success": true})
}

// IsWatching reports whether the caller watches a board.
func IsWatching(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	var existing models.WatchedBoard
	watching := database.DB.Where("user_id = ? AND board_id = ?", userID, boardID).
		First(&existing).Error == nil

	return c.JSON(fiber.Map{"isWatching": watching})
}

// GetWatchedBoards lists the caller's watched boards with owner and
// completion stats.
func GetWatchedBoards(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var watched []models.WatchedBoard
	if err := database.DB.Where("user_id = ?", userID).Find(&watched).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch watched boards",
		})
	}

	summaries := make([]models.WatchedBoardSummary, 0, len(watched))
	for _, w := range watched {
		var board models.Board
		if err := database.DB.Preload("Goals").First(&board, w.BoardID).Error; err != nil {
			// Board was deleted; skip the stale watch row.
			continue
		}

		var owner models.User
		database.DB.First(&owner, board.UserID)

		completed := 0
		total := 0
		for _, g := range board.Goals {
			if g.IsFreeSpace {
				continue
			}
			total++
			if g.IsCompleted {
				completed++
			}
		}

		summaries = append(summaries, models.WatchedBoardSummary{
			Board:             board,
			WatchedAt:         w.CreatedAt,
			OwnerName:         owner.DisplayName(),
			CompletedGoals:    completed,
			TotalGoals:        total,
			CompletionPercent: bingo.CompletionPercent(toCells(board.Goals)),
		})
	}

	return c.JSON(summaries)
}
