package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/bingo"
	"github.com/luken/goalsbingo-api/internal/database"
	"github.com/luken/goalsbingo-api/internal/middleware"
	"github.com/luken/goalsbingo-api/internal/models"
	"github.com/luken/goalsbingo-api/internal/services"
	"gorm.io/gorm"
)

func toCells(goals []models.Goal) []bingo.Cell {
	cells := make([]bingo.Cell, len(goals))
	for i, g := range goals {
		cells[i] = bingo.Cell{
			Position:    g.Position,
			IsCompleted: g.IsCompleted,
			IsFreeSpace: g.IsFreeSpace,
		}
	}
	return cells
}

// GetBoards lists the current user's boards with completion stats.
func GetBoards(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var boards []models.Board
	if err := database.DB.Where("user_id = ?", userID).
		Preload("Goals").
		Order("created_at DESC").
		Find(&boards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch boards",
		})
	}

	summaries := make([]models.BoardSummary, len(boards))
	for i, board := range boards {
		completed := 0
		for _, goal := range board.Goals {
			if goal.IsCompleted {
				completed++
			}
		}
		summaries[i] = models.BoardSummary{
			ID:                board.ID,
			Name:              board.Name,
			Year:              board.Year,
			Size:              board.Size,
			ShareID:           board.ShareID,
			TotalGoals:        len(board.Goals),
			CompletedGoals:    completed,
			CompletionPercent: bingo.CompletionPercent(toCells(board.Goals)),
		}
	}

	return c.JSON(summaries)
}

func GetBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	var board models.Board
	if err := database.DB.
		Where("id = ? AND user_id = ?", boardID, userID).
		Preload("Goals", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&board).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	return c.JSON(board)
}

// CreateBoard creates a board and its full goal grid atomically. The center
// position is the free space: pre-completed, never user-editable. Emits a
// board_created event via the outbox.
func CreateBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	size := req.Size
	if size != 3 && size != 7 {
		size = 5 // Default to 5x5
	}

	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}

	seeds := make(map[int]models.SeedGoal, len(req.Goals))
	for _, g := range req.Goals {
		seeds[g.Position] = g
	}

	board := models.Board{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Size:        size,
		Year:        year,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&board).Error; err != nil {
			return err
		}

		totalCells := size * size
		centerPosition := totalCells / 2
		goals := make([]models.Goal, totalCells)
		for position := 0; position < totalCells; position++ {
			seed, seeded := seeds[position]
			isFreeSpace := position == centerPosition
			if seeded && seed.IsFreeSpace != nil {
				isFreeSpace = *seed.IsFreeSpace
			}

			text := ""
			completed := false
			if seeded {
				text = seed.Text
				completed = seed.IsCompleted
			}
			if isFreeSpace {
				if text == "" {
					text = "FREE SPACE"
				}
				completed = true
			}

			goals[position] = models.Goal{
				BoardID:     board.ID,
				UserID:      userID,
				Text:        text,
				Position:    position,
				IsCompleted: completed,
				IsFreeSpace: isFreeSpace,
			}
		}
		if err := tx.Create(&goals).Error; err != nil {
			return err
		}

		boardID := board.ID
		return services.Dispatch.EnqueueAppend(tx, &models.Event{
			UserID:    userID,
			Kind:      models.EventBoardCreated,
			BoardID:   &boardID,
			BoardName: board.Name,
		})
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create board",
		})
	}

	database.DB.Preload("Goals", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&board, board.ID)

	return c.Status(fiber.StatusCreated).JSON(board)
}

func UpdateBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	var board models.Board
	if err := database.DB.Where("id = ? AND user_id = ?", boardID, userID).First(&board).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	var req models.UpdateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.Description != nil {
		board.Description = req.Description
	}
	if req.Difficulty != nil {
		board.Difficulty = req.Difficulty
	}
	if req.DifficultySummary != nil {
		board.DifficultySummary = req.DifficultySummary
	}

	if err := database.DB.Save(&board).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update board",
		})
	}

	return c.JSON(board)
}

// DeleteBoard removes a board and cascades to its goals.
func DeleteBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	var board models.Board
	if err := database.DB.Where("id = ? AND user_id = ?", boardID, userID).First(&board).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", boardID).Delete(&models.Goal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&models.WatchedBoard{}).Error; err != nil {
			return err
		}
		return tx.Delete(&board).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete board",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GenerateShareLink gives the board an opaque share ID for anonymous read
// access. Idempotent: an existing share ID is returned as-is.
func GenerateShareLink(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	var board models.Board
	if err := database.DB.Where("id = ? AND user_id = ?", boardID, userID).First(&board).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	if board.ShareID != nil {
		return c.JSON(fiber.Map{"shareId": *board.ShareID})
	}

	shareID := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	if err := database.DB.Model(&board).Update("share_id", shareID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate share link",
		})
	}

	return c.JSON(fiber.Map{"shareId": shareID})
}

func RemoveShareLink(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	var board models.Board
	if err := database.DB.Where("id = ? AND user_id = ?", boardID, userID).First(&board).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	if err := database.DB.Model(&board).Update("share_id", nil).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove share link",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetSharedBoard returns a board by share ID. Public: no auth required.
func GetSharedBoard(c *fiber.Ctx) error {
	shareID := c.Params("shareId")
	if shareID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid share ID",
		})
	}

	var board models.Board
	if err := database.DB.
		Where("share_id = ?", shareID).
		Preload("Goals", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&board).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	var owner models.User
	database.DB.First(&owner, board.UserID)

	return c.JSON(fiber.Map{
		"board":     board,
		"ownerName": owner.DisplayName(),
	})
}

// GetCommunityBoards lists recent boards from opted-in users, excluding the
// viewer's own. The viewer must be opted in as well.
func GetCommunityBoards(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	optedIn, err := services.Feed.Status(userID)
	if err != nil || !optedIn {
		return c.JSON([]fiber.Map{})
	}

	var boards []models.Board
	if err := database.DB.
		Joins("JOIN feed_opt_ins ON feed_opt_ins.user_id = boards.user_id").
		Where("boards.user_id != ?", userID).
		Order("boards.created_at DESC").
		Limit(20).
		Find(&boards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch community boards",
		})
	}

	ownerIDs := make([]uuid.UUID, len(boards))
	for i, b := range boards {
		ownerIDs[i] = b.UserID
	}
	ownerMap := make(map[uuid.UUID]*models.User)
	if len(ownerIDs) > 0 {
		var owners []models.User
		database.DB.Where("id IN ?", ownerIDs).Find(&owners)
		for i := range owners {
			ownerMap[owners[i].ID] = &owners[i]
		}
	}

	result := make([]fiber.Map, len(boards))
	for i, b := range boards {
		ownerName := "Anonymous"
		if o := ownerMap[b.UserID]; o != nil {
			ownerName = o.DisplayName()
		}
		result[i] = fiber.Map{
			"board":     b,
			"ownerName": ownerName,
		}
	}

	return c.JSON(result)
}

// GetCommunityBoard returns another opted-in user's board with its goals.
// Both the viewer and the board owner must currently be opted in.
func GetCommunityBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	optedIn, err := services.Feed.Status(userID)
	if err != nil || !optedIn {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	var board models.Board
	if err := database.DB.
		Preload("Goals", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&board, boardID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	ownerOptedIn, err := services.Feed.Status(board.UserID)
	if err != nil || !ownerOptedIn {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	var owner models.User
	database.DB.First(&owner, board.UserID)

	return c.JSON(fiber.Map{
		"board":     board,
		"ownerName": owner.DisplayName(),
	})
}
