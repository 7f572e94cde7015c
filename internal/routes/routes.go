package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/luken/goalsbingo-api/internal/handlers"
	"github.com/luken/goalsbingo-api/internal/middleware"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	// Shared boards are readable without auth
	api.Get("/share/:shareId", handlers.GetSharedBoard)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)
	protected.Put("/me", handlers.UpdateProfile)
	protected.Get("/users/:id", handlers.GetUserProfile)

	boards := protected.Group("/boards")
	boards.Get("/", handlers.GetBoards)
	boards.Post("/", handlers.CreateBoard)
	boards.Get("/:id", handlers.GetBoard)
	boards.Put("/:id", handlers.UpdateBoard)
	boards.Delete("/:id", handlers.DeleteBoard)
	boards.Post("/:id/share", handlers.GenerateShareLink)
	boards.Delete("/:id/share", handlers.RemoveShareLink)

	// Per-board watch subscriptions
	boards.Post("/:id/watch", handlers.WatchBoard)
	boards.Delete("/:id/watch", handlers.UnwatchBoard)
	boards.Get("/:id/watch", handlers.IsWatching)
	protected.Get("/watched-boards", handlers.GetWatchedBoards)

	// Community boards (opted-in users only)
	protected.Get("/community-boards", handlers.GetCommunityBoards)
	protected.Get("/community-boards/:id", handlers.GetCommunityBoard)

	goals := protected.Group("/goals")
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Post("/:id/toggle", handlers.ToggleGoal)
	goals.Post("/:id/reset-streak", handlers.ResetStreak)
	goals.Post("/:id/progress", handlers.IncrementProgress)

	// Event feed
	feed := protected.Group("/feed")
	feed.Get("/", handlers.GetFeed)
	feed.Get("/status", handlers.GetFeedStatus)
	feed.Post("/opt-in", handlers.ToggleFeedOptIn)
	feed.Get("/watched", handlers.GetWatchedFeed)

	// Reactions & comments on feed events
	events := protected.Group("/events")
	events.Post("/:id/reactions", handlers.ToggleReaction)
	events.Get("/:id/reactions", handlers.GetReactions)
	events.Post("/:id/comments", handlers.AddComment)
	events.Get("/:id/comments", handlers.GetComments)
	events.Delete("/:id/comments/:commentId", handlers.DeleteComment)

	// Communities
	communities := protected.Group("/communities")
	communities.Post("/", handlers.CreateCommunity)
	communities.Get("/", handlers.GetMyCommunities)
	communities.Get("/:id/members", handlers.GetCommunityMembers)
	communities.Get("/:id/feed", handlers.GetCommunityFeed)
	communities.Post("/:id/leave", handlers.LeaveCommunity)
	protected.Post("/invites/:code/join", handlers.JoinCommunity)

	// AI helpers (advisory; degrade when the gateway is down)
	ai := protected.Group("/ai")
	ai.Post("/rank-difficulty", handlers.RankDifficulty)
	ai.Post("/extract-goals", handlers.ExtractGoals)

	// File upload
	protected.Post("/upload", handlers.UploadImage)
}
