package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event kinds for the community feed.
const (
	EventBoardCreated    = "board_created"
	EventGoalCompleted   = "goal_completed"
	EventBoardCompleted  = "board_completed"
	EventStreakStarted   = "streak_started"
	EventStreakReset     = "streak_reset"
	EventStreakMilestone = "streak_milestone" // reserved, not emitted yet
	EventBingo           = "bingo"
	EventUserJoined      = "user_joined"
	EventProgressUpdated = "progress_updated"
)

// Event is an append-only community feed entry. Content is immutable after
// append; VoidedAt soft-retracts an entry whose underlying fact reversed.
type Event struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	Kind      string     `json:"kind" gorm:"not null"`
	BoardID   *uuid.UUID `json:"boardId" gorm:"type:uuid;index"`
	GoalID    *uuid.UUID `json:"goalId" gorm:"type:uuid;index"`
	BoardName string     `json:"boardName" gorm:"not null"`
	GoalText  *string    `json:"goalText"`
	Metadata  *string    `json:"metadata"` // JSON string for extra data (target days, progress counts)
	CreatedAt time.Time  `json:"createdAt" gorm:"index"`
	VoidedAt  *time.Time `json:"voidedAt"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// FeedItem is an event enriched for a specific viewer.
type FeedItem struct {
	Event
	UserName     string  `json:"userName"`
	AvatarURL    string  `json:"avatarUrl"`
	ShareID      *string `json:"shareId"`
	UpCount      int     `json:"upCount"`
	DownCount    int     `json:"downCount"`
	UserReaction *string `json:"userReaction"`
	CommentCount int     `json:"commentCount"`
}
