package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedOptIn marks a user as broadcasting to (and seeing) the public feed.
// The row's existence is the grant; deleting it retroactively hides the
// user's historical events without touching the event rows.
type FeedOptIn struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	OptedInAt time.Time `json:"optedInAt"`
}

func (o *FeedOptIn) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OptedInAt.IsZero() {
		o.OptedInAt = time.Now()
	}
	return nil
}
