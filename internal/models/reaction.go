package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction types.
const (
	ReactionUp   = "up"
	ReactionDown = "down"
)

// Reaction is one user's up/down vote on an event. At most one row exists
// per (event, user); re-voting the same type removes it, the opposite type
// overwrites in place. Rows are hard-deleted on toggle-off so the unique
// index never blocks a re-add.
type Reaction struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID `json:"eventId" gorm:"type:uuid;not null;uniqueIndex:idx_event_user"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_event_user"`
	Type      string    `json:"type" gorm:"not null"` // up, down
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type CreateReactionRequest struct {
	Type string `json:"type" validate:"required"` // up, down
}

// ReactionSummary is the per-event rollup returned to clients.
type ReactionSummary struct {
	UpCount      int     `json:"upCount"`
	DownCount    int     `json:"downCount"`
	UserReaction *string `json:"userReaction"`
}
