package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture wires the services against an in-memory database. The outbox is
// drained explicitly so dispatch is synchronous in tests.
type fixture struct {
	db     *gorm.DB
	events *EventService
	outbox *Outbox
	goals  *GoalService
	feed   *FeedService
	social *SocialService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Keep every query on the single in-memory connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.Goal{},
		&models.Event{},
		&models.OutboxEntry{},
		&models.Reaction{},
		&models.Comment{},
		&models.Community{},
		&models.CommunityMember{},
		&models.FeedOptIn{},
		&models.WatchedBoard{},
	))

	events := NewEventService(db)
	outbox := NewOutbox(db, events)
	return &fixture{
		db:     db,
		events: events,
		outbox: outbox,
		goals:  NewGoalService(db, outbox),
		feed:   NewFeedService(db),
		social: NewSocialService(db),
	}
}

func (f *fixture) drain(t *testing.T) {
	t.Helper()
	require.NoError(t, f.outbox.Drain())
}

func (f *fixture) createUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{
		Email:    username + "@example.com",
		Username: username,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func (f *fixture) optIn(t *testing.T, userID uuid.UUID) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.FeedOptIn{UserID: userID}).Error)
}

// createBoard seeds a size x size grid. Odd sizes get a pre-completed free
// space at the center, matching how boards are created through the API.
func (f *fixture) createBoard(t *testing.T, userID uuid.UUID, size int) models.Board {
	t.Helper()

	board := models.Board{
		UserID: userID,
		Name:   fmt.Sprintf("%dx%d board", size, size),
		Size:   size,
		Year:   2026,
	}
	require.NoError(t, f.db.Create(&board).Error)

	center := -1
	if size%2 == 1 {
		center = (size * size) / 2
	}
	now := time.Now()
	for pos := 0; pos < size*size; pos++ {
		goal := models.Goal{
			BoardID:  board.ID,
			UserID:   userID,
			Position: pos,
			Text:     fmt.Sprintf("goal %d", pos),
		}
		if pos == center {
			goal.Text = "FREE SPACE"
			goal.IsFreeSpace = true
			goal.IsCompleted = true
			goal.CompletedAt = &now
		}
		require.NoError(t, f.db.Create(&goal).Error)
	}

	require.NoError(t, f.db.Preload("Goals").First(&board, board.ID).Error)
	return board
}

func (f *fixture) goalAt(t *testing.T, board models.Board, position int) models.Goal {
	t.Helper()
	var goal models.Goal
	err := f.db.Where("board_id = ? AND position = ?", board.ID, position).First(&goal).Error
	require.NoError(t, err)
	return goal
}

// markCompleted flips goals directly in the database so test setup does not
// produce events of its own.
func (f *fixture) markCompleted(t *testing.T, board models.Board, positions ...int) {
	t.Helper()
	now := time.Now()
	for _, pos := range positions {
		err := f.db.Model(&models.Goal{}).
			Where("board_id = ? AND position = ?", board.ID, pos).
			Updates(map[string]interface{}{"is_completed": true, "completed_at": &now}).Error
		require.NoError(t, err)
	}
}

func (f *fixture) eventsFor(t *testing.T, userID uuid.UUID) []models.Event {
	t.Helper()
	var events []models.Event
	err := f.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&events).Error
	require.NoError(t, err)
	return events
}

// insertEvent writes an event row directly, bypassing the opt-in gate, for
// feed and social tests that need a known log.
func (f *fixture) insertEvent(t *testing.T, userID uuid.UUID, boardID *uuid.UUID, kind string, createdAt time.Time) models.Event {
	t.Helper()
	event := models.Event{
		UserID:    userID,
		Kind:      kind,
		BoardID:   boardID,
		BoardName: "some board",
		CreatedAt: createdAt,
	}
	require.NoError(t, f.db.Create(&event).Error)
	return event
}
