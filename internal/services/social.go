package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/models"
	"gorm.io/gorm"
)

// Reaction toggle outcomes.
const (
	ReactionAdded   = "added"
	ReactionChanged = "changed"
	ReactionRemoved = "removed"
)

const maxCommentLength = 500

// SocialService holds the small reaction and comment aggregates that hang
// off feed events.
type SocialService struct {
	db *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{db: db}
}

func (s *SocialService) getEvent(eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := s.db.First(&event, eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ToggleReaction applies one user's up/down vote to an event. No existing
// reaction: create. Same type: remove (toggle off). Different type:
// overwrite in place. Returns which outcome occurred.
func (s *SocialService) ToggleReaction(userID, eventID uuid.UUID, reactionType string) (string, error) {
	if reactionType != models.ReactionUp && reactionType != models.ReactionDown {
		return "", ErrValidation
	}
	if _, err := s.getEvent(eventID); err != nil {
		return "", err
	}

	var existing models.Reaction
	err := s.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&existing).Error
	if err == nil {
		if existing.Type == reactionType {
			if err := s.db.Delete(&existing).Error; err != nil {
				return "", err
			}
			return ReactionRemoved, nil
		}
		if err := s.db.Model(&existing).Update("type", reactionType).Error; err != nil {
			return "", err
		}
		return ReactionChanged, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	reaction := models.Reaction{
		EventID: eventID,
		UserID:  userID,
		Type:    reactionType,
	}
	if err := s.db.Create(&reaction).Error; err != nil {
		return "", err
	}
	return ReactionAdded, nil
}

// Reactions returns the up/down rollup for an event plus the viewer's own
// reaction, if any.
func (s *SocialService) Reactions(eventID, viewerID uuid.UUID) (*models.ReactionSummary, error) {
	var reactions []models.Reaction
	if err := s.db.Where("event_id = ?", eventID).Find(&reactions).Error; err != nil {
		return nil, err
	}

	summary := &models.ReactionSummary{}
	for _, r := range reactions {
		if r.Type == models.ReactionUp {
			summary.UpCount++
		} else {
			summary.DownCount++
		}
		if r.UserID == viewerID {
			t := r.Type
			summary.UserReaction = &t
		}
	}
	return summary, nil
}

// AddComment appends a comment to an event. Text must be non-empty after
// trimming and at most 500 characters.
func (s *SocialService) AddComment(userID, eventID uuid.UUID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxCommentLength {
		return nil, ErrValidation
	}
	if _, err := s.getEvent(eventID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		EventID: eventID,
		UserID:  userID,
		Text:    text,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	s.db.Preload("User").First(&comment, comment.ID)
	return &comment, nil
}

// Comments returns an event's comments oldest first, with authors preloaded.
func (s *SocialService) Comments(eventID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Where("event_id = ?", eventID).
		Preload("User").
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// DeleteComment removes a comment. Only the author may delete; anyone else
// gets the same NotFound as a missing comment.
func (s *SocialService) DeleteComment(userID, commentID uuid.UUID) error {
	var comment models.Comment
	err := s.db.Where("id = ? AND user_id = ?", commentID, userID).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.db.Delete(&comment).Error
}
