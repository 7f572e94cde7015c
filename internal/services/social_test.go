package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleReactionLifecycle(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	reactor := f.createUser(t, "bob")
	event := f.insertEvent(t, actor.ID, nil, models.EventGoalCompleted, time.Now())

	action, err := f.social.ToggleReaction(reactor.ID, event.ID, models.ReactionUp)
	require.NoError(t, err)
	assert.Equal(t, ReactionAdded, action)

	// Opposite type overwrites in place.
	action, err = f.social.ToggleReaction(reactor.ID, event.ID, models.ReactionDown)
	require.NoError(t, err)
	assert.Equal(t, ReactionChanged, action)

	var reactions []models.Reaction
	require.NoError(t, f.db.Where("event_id = ?", event.ID).Find(&reactions).Error)
	require.Len(t, reactions, 1, "one reaction row per user per event")
	assert.Equal(t, models.ReactionDown, reactions[0].Type)

	// Same type toggles off.
	action, err = f.social.ToggleReaction(reactor.ID, event.ID, models.ReactionDown)
	require.NoError(t, err)
	assert.Equal(t, ReactionRemoved, action)

	require.NoError(t, f.db.Where("event_id = ?", event.ID).Find(&reactions).Error)
	assert.Empty(t, reactions)

	// Toggling off then on again works; the removed row is gone for good.
	action, err = f.social.ToggleReaction(reactor.ID, event.ID, models.ReactionUp)
	require.NoError(t, err)
	assert.Equal(t, ReactionAdded, action)
}

func TestToggleReactionValidation(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	event := f.insertEvent(t, actor.ID, nil, models.EventGoalCompleted, time.Now())

	_, err := f.social.ToggleReaction(actor.ID, event.ID, "heart")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.social.ToggleReaction(actor.ID, uuid.New(), models.ReactionUp)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReactionsRollup(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	up1 := f.createUser(t, "bob")
	up2 := f.createUser(t, "carol")
	down := f.createUser(t, "dave")
	event := f.insertEvent(t, actor.ID, nil, models.EventBingo, time.Now())

	for _, u := range []models.User{up1, up2} {
		_, err := f.social.ToggleReaction(u.ID, event.ID, models.ReactionUp)
		require.NoError(t, err)
	}
	_, err := f.social.ToggleReaction(down.ID, event.ID, models.ReactionDown)
	require.NoError(t, err)

	summary, err := f.social.Reactions(event.ID, down.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.UpCount)
	assert.Equal(t, 1, summary.DownCount)
	require.NotNil(t, summary.UserReaction)
	assert.Equal(t, models.ReactionDown, *summary.UserReaction)

	summary, err = f.social.Reactions(event.ID, actor.ID)
	require.NoError(t, err)
	assert.Nil(t, summary.UserReaction)
}

func TestAddCommentTrimsAndValidates(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	commenter := f.createUser(t, "bob")
	event := f.insertEvent(t, actor.ID, nil, models.EventGoalCompleted, time.Now())

	comment, err := f.social.AddComment(commenter.ID, event.ID, "  well done  ")
	require.NoError(t, err)
	assert.Equal(t, "well done", comment.Text)
	assert.Equal(t, "bob", comment.User.Username)

	_, err = f.social.AddComment(commenter.ID, event.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.social.AddComment(commenter.ID, event.ID, strings.Repeat("x", 501))
	assert.ErrorIs(t, err, ErrValidation)

	// Exactly at the limit is fine.
	_, err = f.social.AddComment(commenter.ID, event.ID, strings.Repeat("x", 500))
	assert.NoError(t, err)

	_, err = f.social.AddComment(commenter.ID, uuid.New(), "orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentsOldestFirst(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	event := f.insertEvent(t, actor.ID, nil, models.EventGoalCompleted, time.Now())

	first := models.Comment{EventID: event.ID, UserID: actor.ID, Text: "first"}
	first.CreatedAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.db.Create(&first).Error)
	second := models.Comment{EventID: event.ID, UserID: actor.ID, Text: "second"}
	second.CreatedAt = time.Now()
	require.NoError(t, f.db.Create(&second).Error)

	comments, err := f.social.Comments(event.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	author := f.createUser(t, "bob")
	stranger := f.createUser(t, "mallory")
	event := f.insertEvent(t, actor.ID, nil, models.EventGoalCompleted, time.Now())

	comment, err := f.social.AddComment(author.ID, event.ID, "mine")
	require.NoError(t, err)

	err = f.social.DeleteComment(stranger.ID, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.social.DeleteComment(author.ID, comment.ID))

	comments, err := f.social.Comments(event.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
