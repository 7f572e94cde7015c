package services

import (
	"github.com/luken/goalsbingo-api/internal/config"
	"gorm.io/gorm"
)

// Global service instances, wired in main.
var (
	Events   *EventService
	Dispatch *Outbox
	Goals    *GoalService
	Feed     *FeedService
	Social   *SocialService
	AI       *AIService
)

// Init wires the service graph onto the shared database handle.
func Init(db *gorm.DB, cfg *config.Config) {
	Events = NewEventService(db)
	Dispatch = NewOutbox(db, Events)
	Goals = NewGoalService(db, Dispatch)
	Feed = NewFeedService(db)
	Social = NewSocialService(db)
	AI = NewAIService(cfg.AIGatewayURL, cfg.AIGatewayToken)
}
