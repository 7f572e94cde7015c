package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/luken/goalsbingo-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicFeedRequiresViewerOptIn(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	viewer := f.createUser(t, "bob")
	f.optIn(t, actor.ID)
	f.insertEvent(t, actor.ID, nil, models.EventGoalCompleted, time.Now())

	items, err := f.feed.Public(viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	f.optIn(t, viewer.ID)
	items, err = f.feed.Public(viewer.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPublicFeedOptOutHidesHistoryAndReOptInRestores(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	viewer := f.createUser(t, "bob")
	f.optIn(t, actor.ID)
	f.optIn(t, viewer.ID)
	f.insertEvent(t, actor.ID, nil, models.EventGoalCompleted, time.Now())

	items, err := f.feed.Public(viewer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Actor opts out: their history disappears from everyone's feed.
	optedIn, err := f.feed.ToggleOptIn(actor.ID)
	require.NoError(t, err)
	assert.False(t, optedIn)

	items, err = f.feed.Public(viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Re-opt-in restores it; the event rows were never touched.
	optedIn, err = f.feed.ToggleOptIn(actor.ID)
	require.NoError(t, err)
	assert.True(t, optedIn)

	items, err = f.feed.Public(viewer.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPublicFeedExcludesVoidedEvents(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	f.optIn(t, actor.ID)

	live := f.insertEvent(t, actor.ID, nil, models.EventGoalCompleted, time.Now())
	voided := f.insertEvent(t, actor.ID, nil, models.EventBingo, time.Now().Add(time.Second))
	now := time.Now()
	require.NoError(t, f.db.Model(&voided).Update("voided_at", &now).Error)

	items, err := f.feed.Public(actor.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, live.ID, items[0].ID)
}

func TestPublicFeedNewestFirstCappedAtTwenty(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	f.optIn(t, actor.ID)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		f.insertEvent(t, actor.ID, nil, models.EventGoalCompleted, base.Add(time.Duration(i)*time.Minute))
	}

	items, err := f.feed.Public(actor.ID)
	require.NoError(t, err)
	require.Len(t, items, 20)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt))
	}
}

func TestPublicFeedEnrichment(t *testing.T) {
	f := newFixture(t)
	actor := f.createUser(t, "alice")
	viewer := f.createUser(t, "bob")
	other := f.createUser(t, "carol")
	f.optIn(t, actor.ID)
	f.optIn(t, viewer.ID)

	board := f.createBoard(t, actor.ID, 5)
	shareID := "abc123def456"
	require.NoError(t, f.db.Model(&board).Update("share_id", shareID).Error)

	event := f.insertEvent(t, actor.ID, &board.ID, models.EventGoalCompleted, time.Now())

	_, err := f.social.ToggleReaction(viewer.ID, event.ID, models.ReactionUp)
	require.NoError(t, err)
	_, err = f.social.ToggleReaction(other.ID, event.ID, models.ReactionDown)
	require.NoError(t, err)
	_, err = f.social.AddComment(other.ID, event.ID, "nice one")
	require.NoError(t, err)
	_, err = f.social.AddComment(viewer.ID, event.ID, "congrats!")
	require.NoError(t, err)

	items, err := f.feed.Public(viewer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "alice", item.UserName)
	require.NotNil(t, item.ShareID)
	assert.Equal(t, shareID, *item.ShareID)
	assert.Equal(t, 1, item.UpCount)
	assert.Equal(t, 1, item.DownCount)
	require.NotNil(t, item.UserReaction)
	assert.Equal(t, models.ReactionUp, *item.UserReaction)
	assert.Equal(t, 2, item.CommentCount)
}

func TestCommunityFeedRequiresMembership(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "alice")
	outsider := f.createUser(t, "mallory")

	community := models.Community{Name: "runners", OwnerID: owner.ID}
	require.NoError(t, f.db.Create(&community).Error)
	require.NoError(t, f.db.Create(&models.CommunityMember{
		CommunityID: community.ID,
		UserID:      owner.ID,
	}).Error)

	_, err := f.feed.Community(outsider.ID, community.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommunityFeedScopedToMembers(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "alice")
	member := f.createUser(t, "bob")
	outsider := f.createUser(t, "carol")

	community := models.Community{Name: "runners", OwnerID: owner.ID}
	require.NoError(t, f.db.Create(&community).Error)
	for _, uid := range []models.User{owner, member} {
		require.NoError(t, f.db.Create(&models.CommunityMember{
			CommunityID: community.ID,
			UserID:      uid.ID,
		}).Error)
	}

	f.insertEvent(t, member.ID, nil, models.EventGoalCompleted, time.Now())
	f.insertEvent(t, outsider.ID, nil, models.EventBingo, time.Now())

	items, err := f.feed.Community(owner.ID, community.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, member.ID, items[0].UserID)
}

func TestWatchedFeedScopedToWatchedBoards(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "alice")
	watcher := f.createUser(t, "bob")

	watchedBoard := f.createBoard(t, owner.ID, 5)
	otherBoard := f.createBoard(t, owner.ID, 3)
	require.NoError(t, f.db.Create(&models.WatchedBoard{
		UserID:  watcher.ID,
		BoardID: watchedBoard.ID,
	}).Error)

	f.insertEvent(t, owner.ID, &watchedBoard.ID, models.EventGoalCompleted, time.Now())
	f.insertEvent(t, owner.ID, &otherBoard.ID, models.EventGoalCompleted, time.Now())

	items, err := f.feed.Watched(watcher.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].BoardID)
	assert.Equal(t, watchedBoard.ID, *items[0].BoardID)
}

func TestFeedStatusAndToggle(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")

	optedIn, err := f.feed.Status(user.ID)
	require.NoError(t, err)
	assert.False(t, optedIn)

	optedIn, err = f.feed.ToggleOptIn(user.ID)
	require.NoError(t, err)
	assert.True(t, optedIn)

	optedIn, err = f.feed.Status(user.ID)
	require.NoError(t, err)
	assert.True(t, optedIn)

	optedIn, err = f.feed.ToggleOptIn(user.ID)
	require.NoError(t, err)
	assert.False(t, optedIn)
}

func TestPublicFeedMultipleActors(t *testing.T) {
	f := newFixture(t)
	viewer := f.createUser(t, "viewer")
	f.optIn(t, viewer.ID)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		actor := f.createUser(t, fmt.Sprintf("actor%d", i))
		f.optIn(t, actor.ID)
		f.insertEvent(t, actor.ID, nil, models.EventGoalCompleted, base.Add(time.Duration(i)*time.Minute))
	}
	// One actor who never opted in.
	loner := f.createUser(t, "loner")
	f.insertEvent(t, loner.ID, nil, models.EventGoalCompleted, base.Add(time.Hour))

	items, err := f.feed.Public(viewer.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.NotEqual(t, loner.ID, item.UserID)
	}
}
