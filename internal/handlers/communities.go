package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/database"
	"github.com/luken/goalsbingo-api/internal/middleware"
	"github.com/luken/goalsbingo-api/internal/models"
	"github.com/luken/goalsbingo-api/internal/services"
	"gorm.io/gorm"
)

// CreateCommunity creates a private community owned by the caller, who
// joins it immediately. The invite code is generated on create.
func CreateCommunity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateCommunityRequest
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

	community := models.Community{
		Name:    req.Name,
		OwnerID: userID,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&community).Error; err != nil {
			return err
		}
		member := models.CommunityMember{
			CommunityID: community.ID,
			UserID:      userID,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create community",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(community)
}

// JoinCommunity joins via invite code. A user's very first community join
// broadcasts a user_joined event.
func JoinCommunity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	code := c.Params("code")

	var community models.Community
	if err := database.DB.Where("invite_code = ?", code).First(&community).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invalid invite code",
		})
	}

	var existing models.CommunityMember
	if err := database.DB.Where("community_id = ? AND user_id = ?", community.ID, userID).
		First(&existing).Error; err == nil {
		return c.JSON(fiber.Map{"alreadyMember": true, "community": community})
	}

	var priorMemberships int64
	database.DB.Model(&models.CommunityMember{}).Where("user_id = ?", userID).Count(&priorMemberships)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		member := models.CommunityMember{
			CommunityID: community.ID,
			UserID:      userID,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		if priorMemberships > 0 {
			return nil
		}
		return services.Dispatch.EnqueueAppend(tx, &models.Event{
			UserID:    userID,
			Kind:      models.EventUserJoined,
			BoardName: community.Name,
		})
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to join community",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"community": community})
}

// LeaveCommunity removes the caller's membership.
func LeaveCommunity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	communityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid community ID",
		})
	}

	result := database.DB.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.CommunityMember{})
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Community not found",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetMyCommunities lists communities the caller belongs to.
func GetMyCommunities(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var communities []models.Community
	if err := database.DB.
		Joins("JOIN community_members ON community_members.community_id = communities.id").
		Where("community_members.user_id = ? AND community_members.deleted_at IS NULL", userID).
		Find(&communities).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch communities",
		})
	}

	return c.JSON(communities)
}

// GetCommunityMembers lists members of a community the caller belongs to.
func GetCommunityMembers(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	communityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid community ID",
		})
	}

	var self models.CommunityMember
	if err := database.DB.Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&self).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Community not found",
		})
	}

	var members []models.CommunityMember
	database.DB.Where("community_id = ?", communityID).
		Preload("User").
		Order("joined_at ASC").
		Find(&members)

	return c.JSON(members)
}
