package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/models"
	"gorm.io/gorm"
)

const (
	feedFetchLimit  = 50
	feedReturnLimit = 20
)

// VisibilityScope selects the candidate events a viewer may see. Each scope
// is one filter predicate; enrichment is shared across all of them.
type VisibilityScope interface {
	candidates(db *gorm.DB, viewerID uuid.UUID) ([]models.Event, error)
}

// FeedService assembles viewer-scoped, time-descending feeds with
// reaction/comment rollups.
type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// publicScope: the globally most recent events whose actors are currently
// opted in. Opt-out retroactively hides past events.
type publicScope struct{}

func (publicScope) candidates(db *gorm.DB, viewerID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := db.
		Joins("JOIN feed_opt_ins ON feed_opt_ins.user_id = events.user_id").
		Where("events.voided_at IS NULL").
		Order("events.created_at DESC").
		Limit(feedFetchLimit).
		Find(&events).Error
	return events, err
}

// communityScope: events whose actor is a member of the given community.
type communityScope struct {
	communityID uuid.UUID
}

func (s communityScope) candidates(db *gorm.DB, viewerID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := db.
		Joins("JOIN community_members ON community_members.user_id = events.user_id").
		Where("community_members.community_id = ? AND community_members.deleted_at IS NULL", s.communityID).
		Where("events.voided_at IS NULL").
		Order("events.created_at DESC").
		Limit(feedFetchLimit).
		Find(&events).Error
	return events, err
}

// watchScope: events on boards in the viewer's explicit watch set.
type watchScope struct{}

func (watchScope) candidates(db *gorm.DB, viewerID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := db.
		Joins("JOIN watched_boards ON watched_boards.board_id = events.board_id").
		Where("watched_boards.user_id = ?", viewerID).
		Where("events.voided_at IS NULL").
		Order("events.created_at DESC").
		Limit(feedFetchLimit).
		Find(&events).Error
	return events, err
}

// Public returns the public opt-in feed. Viewers who are not opted in see
// an empty feed rather than an error.
func (s *FeedService) Public(viewerID uuid.UUID) ([]models.FeedItem, error) {
	optedIn, err := s.isOptedIn(viewerID)
	if err != nil {
		return nil, err
	}
	if !optedIn {
		return []models.FeedItem{}, nil
	}
	return s.assemble(viewerID, publicScope{})
}

// Community returns the private feed of a community the viewer belongs to.
func (s *FeedService) Community(viewerID, communityID uuid.UUID) ([]models.FeedItem, error) {
	var member models.CommunityMember
	err := s.db.Where("community_id = ? AND user_id = ?", communityID, viewerID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.assemble(viewerID, communityScope{communityID: communityID})
}

// Watched returns events from the viewer's watched boards.
func (s *FeedService) Watched(viewerID uuid.UUID) ([]models.FeedItem, error) {
	return s.assemble(viewerID, watchScope{})
}

// assemble runs the scope's candidate query and applies the shared
// enrichment: actor name/avatar, board shareId, reaction rollups with the
// viewer's own reaction, and comment counts.
func (s *FeedService) assemble(viewerID uuid.UUID, scope VisibilityScope) ([]models.FeedItem, error) {
	events, err := scope.candidates(s.db, viewerID)
	if err != nil {
		return nil, err
	}
	if len(events) > feedReturnLimit {
		events = events[:feedReturnLimit]
	}
	if len(events) == 0 {
		return []models.FeedItem{}, nil
	}

	eventIDs := make([]uuid.UUID, len(events))
	userIDs := make([]uuid.UUID, 0, len(events))
	boardIDs := make([]uuid.UUID, 0, len(events))
	for i, e := range events {
		eventIDs[i] = e.ID
		userIDs = append(userIDs, e.UserID)
		if e.BoardID != nil {
			boardIDs = append(boardIDs, *e.BoardID)
		}
	}

	// Batch-load actors
	var users []models.User
	if err := s.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	userMap := make(map[uuid.UUID]*models.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	// Batch-load boards for share links
	shareMap := make(map[uuid.UUID]*string)
	if len(boardIDs) > 0 {
		var boards []models.Board
		if err := s.db.Where("id IN ?", boardIDs).Find(&boards).Error; err != nil {
			return nil, err
		}
		for _, b := range boards {
			shareMap[b.ID] = b.ShareID
		}
	}

	// Batch-load reactions
	var reactions []models.Reaction
	if err := s.db.Where("event_id IN ?", eventIDs).Find(&reactions).Error; err != nil {
		return nil, err
	}
	type rollup struct {
		up, down int
		viewer   *string
	}
	reactionMap := make(map[uuid.UUID]*rollup)
	for i := range reactions {
		r := reactions[i]
		agg := reactionMap[r.EventID]
		if agg == nil {
			agg = &rollup{}
			reactionMap[r.EventID] = agg
		}
		if r.Type == models.ReactionUp {
			agg.up++
		} else {
			agg.down++
		}
		if r.UserID == viewerID {
			t := r.Type
			agg.viewer = &t
		}
	}

	// Batch-load comment counts
	type countResult struct {
		EventID uuid.UUID
		Count   int
	}
	var counts []countResult
	if err := s.db.Model(&models.Comment{}).
		Select("event_id, COUNT(*) as count").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Find(&counts).Error; err != nil {
		return nil, err
	}
	commentMap := make(map[uuid.UUID]int, len(counts))
	for _, cr := range counts {
		commentMap[cr.EventID] = cr.Count
	}

	items := make([]models.FeedItem, len(events))
	for i, e := range events {
		item := models.FeedItem{Event: e}
		if u := userMap[e.UserID]; u != nil {
			item.UserName = u.DisplayName()
			item.AvatarURL = u.AvatarURL
		} else {
			item.UserName = "Anonymous"
		}
		if e.BoardID != nil {
			item.ShareID = shareMap[*e.BoardID]
		}
		if agg := reactionMap[e.ID]; agg != nil {
			item.UpCount = agg.up
			item.DownCount = agg.down
			item.UserReaction = agg.viewer
		}
		item.CommentCount = commentMap[e.ID]
		items[i] = item
	}
	return items, nil
}

func (s *FeedService) isOptedIn(userID uuid.UUID) (bool, error) {
	var optIn models.FeedOptIn
	err := s.db.Where("user_id = ?", userID).First(&optIn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Status reports whether the user is opted into the public feed.
func (s *FeedService) Status(userID uuid.UUID) (bool, error) {
	return s.isOptedIn(userID)
}

// ToggleOptIn flips the user's public-feed opt-in and returns the new
// state. Opting out deletes only the grant row; historical events stay in
// the log and reappear on re-opt-in.
func (s *FeedService) ToggleOptIn(userID uuid.UUID) (bool, error) {
	var optIn models.FeedOptIn
	err := s.db.Where("user_id = ?", userID).First(&optIn).Error
	if err == nil {
		if err := s.db.Delete(&optIn).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	optIn = models.FeedOptIn{UserID: userID}
	if err := s.db.Create(&optIn).Error; err != nil {
		return false, err
	}
	return true, nil
}
