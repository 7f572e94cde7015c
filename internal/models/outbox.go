package models

import (
	"time"

	"github.com/google/uuid"
)

// Outbox operations.
const (
	OutboxAppend = "append"
	OutboxVoid   = "void"
)

// OutboxEntry is written in the same transaction as the goal/board mutation
// that caused it and drained asynchronously into the event feed. The
// auto-increment ID preserves per-goal ordering: a void is never processed
// before the append it retracts.
type OutboxEntry struct {
	ID        uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Op        string     `json:"op" gorm:"not null"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:uuid;not null"`
	Kind      string     `json:"kind"`
	BoardID   *uuid.UUID `json:"boardId" gorm:"type:uuid"`
	GoalID    *uuid.UUID `json:"goalId" gorm:"type:uuid"`
	BoardName string     `json:"boardName"`
	GoalText  *string    `json:"goalText"`
	Metadata  *string    `json:"metadata"`
	CreatedAt time.Time  `json:"createdAt"`
	SentAt    *time.Time `json:"sentAt" gorm:"index"`
}
