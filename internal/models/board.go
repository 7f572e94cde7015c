package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Board struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Name              string         `json:"name" gorm:"not null"`
	Description       *string        `json:"description"`
	Size              int            `json:"size" gorm:"not null;default:5"`
	Year              int            `json:"year" gorm:"not null;index:idx_user_year"`
	ShareID           *string        `json:"shareId" gorm:"uniqueIndex"`
	Difficulty        *string        `json:"difficulty"`
	DifficultySummary *string        `json:"difficultySummary"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
	Goals             []Goal         `json:"goals,omitempty" gorm:"foreignKey:BoardID"`
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Board DTOs
type SeedGoal struct {
	Text        string `json:"text"`
	Position    int    `json:"position"`
	IsCompleted bool   `json:"isCompleted"`
	IsFreeSpace *bool  `json:"isFreeSpace"`
}

type CreateBoardRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description *string    `json:"description"`
	Size        int        `json:"size"`
	Year        int        `json:"year"`
	Goals       []SeedGoal `json:"goals"`
}

type UpdateBoardRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	Difficulty        *string `json:"difficulty"`
	DifficultySummary *string `json:"difficultySummary"`
}

type BoardSummary struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Year              int       `json:"year"`
	Size              int       `json:"size"`
	ShareID           *string   `json:"shareId"`
	TotalGoals        int       `json:"totalGoals"`
	CompletedGoals    int       `json:"completedGoals"`
	CompletionPercent int       `json:"completionPercent"`
}
