package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal is one cell of a board's grid. A goal is exactly one of plain,
// streak, or progress; the free space is always completed and never
// user-editable.
type Goal struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BoardID     uuid.UUID  `json:"boardId" gorm:"type:uuid;index;not null"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	Text        string     `json:"text"`
	Position    int        `json:"position" gorm:"not null"`
	IsCompleted bool       `json:"isCompleted" gorm:"default:false"`
	IsFreeSpace bool       `json:"isFreeSpace" gorm:"default:false"`
	CompletedAt *time.Time `json:"completedAt"`

	// Streak goal fields
	IsStreakGoal     bool       `json:"isStreakGoal" gorm:"default:false"`
	StreakTargetDays *int       `json:"streakTargetDays"`
	StreakStartDate  *time.Time `json:"streakStartDate"`

	// Progress goal fields (e.g. "Visit 5 restaurants" - 0/5, 1/5, ...)
	IsProgressGoal  bool `json:"isProgressGoal" gorm:"default:false"`
	ProgressTarget  *int `json:"progressTarget"`
	ProgressCurrent int  `json:"progressCurrent" gorm:"default:0"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Goal DTOs
type UpdateGoalRequest struct {
	Text             *string    `json:"text"`
	IsCompleted      *bool      `json:"isCompleted"`
	IsStreakGoal     *bool      `json:"isStreakGoal"`
	StreakTargetDays *int       `json:"streakTargetDays"`
	StreakStartDate  *time.Time `json:"streakStartDate"`
	IsProgressGoal   *bool      `json:"isProgressGoal"`
	ProgressTarget   *int       `json:"progressTarget"`
	ProgressCurrent  *int       `json:"progressCurrent"`
}

type IncrementProgressRequest struct {
	Delta *int `json:"delta"` // defaults to 1
}
