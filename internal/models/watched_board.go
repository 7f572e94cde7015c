package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WatchedBoard is an explicit per-board subscription: the watcher sees
// events caused on that board in their watch feed.
type WatchedBoard struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_board"`
	BoardID   uuid.UUID `json:"boardId" gorm:"type:uuid;not null;uniqueIndex:idx_user_board"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w *WatchedBoard) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WatchedBoardSummary is a watched board enriched with owner and progress.
type WatchedBoardSummary struct {
	Board
	WatchedAt         time.Time `json:"watchedAt"`
	OwnerName         string    `json:"ownerName"`
	CompletedGoals    int       `json:"completedGoals"`
	TotalGoals        int       `json:"totalGoals"`
	CompletionPercent int       `json:"completionPercent"`
}
