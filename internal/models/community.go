package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Community is a private group whose members share a scoped feed.
type Community struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string         `json:"name" gorm:"not null"`
	OwnerID    uuid.UUID      `json:"ownerId" gorm:"type:uuid;index;not null"`
	InviteCode string         `json:"inviteCode" gorm:"uniqueIndex;not null"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (cm *Community) BeforeCreate(tx *gorm.DB) error {
	if cm.ID == uuid.Nil {
		cm.ID = uuid.New()
	}
	if cm.InviteCode == "" {
		cm.InviteCode = generateInviteCode()
	}
	return nil
}

func generateInviteCode() string {
	b := make([]byte, 6) // 12 hex chars
	rand.Read(b)
	return hex.EncodeToString(b)
}

// CommunityMember is an existence row: membership grants visibility of
// other members' events in the community feed.
type CommunityMember struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CommunityID uuid.UUID      `json:"communityId" gorm:"type:uuid;not null;uniqueIndex:idx_community_user"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_community_user"`
	JoinedAt    time.Time      `json:"joinedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (m *CommunityMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}

type CreateCommunityRequest struct {
	Name string `json:"name" validate:"required"`
}
