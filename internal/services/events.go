package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/models"
	"gorm.io/gorm"
)

// EventService is the append-only community event log. Appends are gated on
// the actor's public-feed opt-in; retraction is a soft void, never a delete.
type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// IsOptedIn reports whether the user broadcasts to the public feed.
func (s *EventService) IsOptedIn(userID uuid.UUID) (bool, error) {
	var optIn models.FeedOptIn
	err := s.db.Where("user_id = ?", userID).First(&optIn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Append writes an event if the acting user is opted in. A non-opted-in
// actor's events never enter the log at all; that is a silent no-op, not an
// error, because the feed is an opt-in broadcast rather than a notification
// system.
func (s *EventService) Append(event *models.Event) error {
	optedIn, err := s.IsOptedIn(event.UserID)
	if err != nil {
		return err
	}
	if !optedIn {
		return nil
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return s.db.Create(event).Error
}

// Void marks the most recent non-voided event for a goal as voided. No-op
// when none exists, which keeps the uncompletion path idempotent.
func (s *EventService) Void(goalID uuid.UUID) error {
	var event models.Event
	err := s.db.Where("goal_id = ? AND voided_at IS NULL", goalID).
		Order("created_at DESC").
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	now := time.Now()
	return s.db.Model(&event).Update("voided_at", &now).Error
}
