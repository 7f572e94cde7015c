package services

import (
	"testing"
	"time"

	"github.com/luken/goalsbingo-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainProcessesInInsertionOrder(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")
	f.optIn(t, user.ID)
	board := f.createBoard(t, user.ID, 5)
	goal := f.goalAt(t, board, 0)

	// Complete then uncomplete without draining in between. The append and
	// the void sit in the outbox together; a single drain must apply the
	// append first so the void has something to retract.
	_, err := f.goals.SetCompleted(user.ID, goal.ID, true)
	require.NoError(t, err)
	_, err = f.goals.SetCompleted(user.ID, goal.ID, false)
	require.NoError(t, err)

	f.drain(t)

	events := f.eventsFor(t, user.ID)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventGoalCompleted, events[0].Kind)
	assert.NotNil(t, events[0].VoidedAt)
}

func TestDrainMarksEntriesSent(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")
	f.optIn(t, user.ID)
	board := f.createBoard(t, user.ID, 5)
	goal := f.goalAt(t, board, 0)

	_, err := f.goals.SetCompleted(user.ID, goal.ID, true)
	require.NoError(t, err)

	var pending int64
	require.NoError(t, f.db.Model(&models.OutboxEntry{}).Where("sent_at IS NULL").Count(&pending).Error)
	assert.Equal(t, int64(1), pending)

	f.drain(t)

	require.NoError(t, f.db.Model(&models.OutboxEntry{}).Where("sent_at IS NULL").Count(&pending).Error)
	assert.Zero(t, pending)

	// A second drain is a no-op: no duplicate events.
	f.drain(t)
	assert.Len(t, f.eventsFor(t, user.ID), 1)
}

func TestVoidWithoutLiveEventIsNoOp(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")
	board := f.createBoard(t, user.ID, 5)
	goal := f.goalAt(t, board, 0)

	// Actor never opted in, so completing appended nothing. The later void
	// finds no live event and must not fail the drain.
	_, err := f.goals.SetCompleted(user.ID, goal.ID, true)
	require.NoError(t, err)
	f.drain(t)
	_, err = f.goals.SetCompleted(user.ID, goal.ID, false)
	require.NoError(t, err)

	f.drain(t)
	assert.Empty(t, f.eventsFor(t, user.ID))
}

func TestVoidTargetsMostRecentLiveEvent(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")
	f.optIn(t, user.ID)
	board := f.createBoard(t, user.ID, 5)
	goal := f.goalAt(t, board, 0)
	goalID := goal.ID

	older := models.Event{
		UserID:    user.ID,
		Kind:      models.EventGoalCompleted,
		GoalID:    &goalID,
		BoardName: board.Name,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.db.Create(&older).Error)
	newer := models.Event{
		UserID:    user.ID,
		Kind:      models.EventGoalCompleted,
		GoalID:    &goalID,
		BoardName: board.Name,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.db.Create(&newer).Error)

	require.NoError(t, f.events.Void(goalID))

	var reloadedNewer models.Event
	require.NoError(t, f.db.First(&reloadedNewer, newer.ID).Error)
	assert.NotNil(t, reloadedNewer.VoidedAt)
	var reloadedOlder models.Event
	require.NoError(t, f.db.First(&reloadedOlder, older.ID).Error)
	assert.Nil(t, reloadedOlder.VoidedAt)
}
