package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/bingo"
	"github.com/luken/goalsbingo-api/internal/models"
	"gorm.io/gorm"
)

// GoalService is the per-goal state machine. Every mutation runs in a single
// transaction together with the outbox write for the event it derives, so
// either both the state change and its event happen or neither does.
type GoalService struct {
	db     *gorm.DB
	outbox *Outbox
}

func NewGoalService(db *gorm.DB, outbox *Outbox) *GoalService {
	return &GoalService{db: db, outbox: outbox}
}

// getOwned loads a goal owned by userID. Missing and not-owned are merged
// into ErrNotFound.
func getOwned(tx *gorm.DB, userID, goalID uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// SetText replaces the goal's text. No event side effects.
func (s *GoalService) SetText(userID, goalID uuid.UUID, text string) (*models.Goal, error) {
	var goal *models.Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = getOwned(tx, userID, goalID)
		if err != nil {
			return err
		}
		if goal.IsFreeSpace {
			return ErrPreconditionFailed
		}
		goal.Text = text
		return tx.Save(goal).Error
	})
	return goal, err
}

// SetCompleted is the core transition. Completing a goal classifies the
// change against the whole board and emits exactly one of board_completed,
// bingo, or goal_completed. Uncompleting voids the goal's latest live event.
// Requesting the current state is an idempotent no-op.
func (s *GoalService) SetCompleted(userID, goalID uuid.UUID, completed bool) (*models.Goal, error) {
	var goal *models.Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = getOwned(tx, userID, goalID)
		if err != nil {
			return err
		}
		if goal.IsFreeSpace {
			return ErrPreconditionFailed
		}
		if goal.IsCompleted == completed {
			return nil
		}

		now := time.Now()
		if completed {
			goal.IsCompleted = true
			goal.CompletedAt = &now
			if err := tx.Save(goal).Error; err != nil {
				return err
			}
			return s.emitCompletion(tx, goal)
		}

		goal.IsCompleted = false
		goal.CompletedAt = nil
		if err := tx.Save(goal).Error; err != nil {
			return err
		}
		return s.outbox.EnqueueVoid(tx, userID, goalID)
	})
	return goal, err
}

// emitCompletion classifies a completing transition against the board's
// pre- and post-state and stages the single resulting event.
func (s *GoalService) emitCompletion(tx *gorm.DB, goal *models.Goal) error {
	var board models.Board
	if err := tx.First(&board, goal.BoardID).Error; err != nil {
		return err
	}

	var siblings []models.Goal
	if err := tx.Where("board_id = ?", goal.BoardID).Find(&siblings).Error; err != nil {
		return err
	}

	pre := make([]bingo.Cell, len(siblings))
	post := make([]bingo.Cell, len(siblings))
	for i, g := range siblings {
		completed := g.IsCompleted
		if g.ID == goal.ID {
			// The sibling query may run before or after the save is
			// visible; pin both states explicitly.
			pre[i] = bingo.Cell{Position: g.Position, IsCompleted: false, IsFreeSpace: g.IsFreeSpace}
			post[i] = bingo.Cell{Position: g.Position, IsCompleted: true, IsFreeSpace: g.IsFreeSpace}
			continue
		}
		pre[i] = bingo.Cell{Position: g.Position, IsCompleted: completed, IsFreeSpace: g.IsFreeSpace}
		post[i] = bingo.Cell{Position: g.Position, IsCompleted: completed, IsFreeSpace: g.IsFreeSpace}
	}

	kind := models.EventGoalCompleted
	switch bingo.Classify(pre, post, board.Size) {
	case bingo.BoardCompleted:
		kind = models.EventBoardCompleted
	case bingo.Bingo:
		kind = models.EventBingo
	}

	goalID := goal.ID
	boardID := board.ID
	return s.outbox.EnqueueAppend(tx, &models.Event{
		UserID:    goal.UserID,
		Kind:      kind,
		BoardID:   &boardID,
		GoalID:    &goalID,
		BoardName: board.Name,
	})
}

// SetStreak enables or disables streak tracking. Enabling on a goal that was
// not previously a streak goal sets the start date and emits streak_started;
// re-setting parameters on an existing streak goal emits nothing. Disabling
// silently reverts the goal to a plain goal.
func (s *GoalService) SetStreak(userID, goalID uuid.UUID, enable bool, targetDays *int, startDate *time.Time) (*models.Goal, error) {
	var goal *models.Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = getOwned(tx, userID, goalID)
		if err != nil {
			return err
		}
		if goal.IsFreeSpace {
			return ErrPreconditionFailed
		}

		if !enable {
			goal.IsStreakGoal = false
			goal.StreakTargetDays = nil
			goal.StreakStartDate = nil
			return tx.Save(goal).Error
		}

		wasStreak := goal.IsStreakGoal
		goal.IsStreakGoal = true
		// A goal is exactly one of plain, streak, progress.
		goal.IsProgressGoal = false
		goal.ProgressTarget = nil
		goal.ProgressCurrent = 0
		if targetDays != nil {
			goal.StreakTargetDays = targetDays
		}
		if !wasStreak {
			start := time.Now()
			if startDate != nil {
				start = *startDate
			}
			goal.StreakStartDate = &start
		} else if startDate != nil {
			goal.StreakStartDate = startDate
		}
		if err := tx.Save(goal).Error; err != nil {
			return err
		}

		if wasStreak {
			return nil
		}

		var board models.Board
		if err := tx.First(&board, goal.BoardID).Error; err != nil {
			return err
		}
		boardID := board.ID
		gid := goal.ID
		text := goal.Text
		return s.outbox.EnqueueAppend(tx, &models.Event{
			UserID:    userID,
			Kind:      models.EventStreakStarted,
			BoardID:   &boardID,
			GoalID:    &gid,
			BoardName: board.Name,
			GoalText:  &text,
			Metadata:  marshalMetadata(map[string]interface{}{"targetDays": goal.StreakTargetDays}),
		})
	})
	return goal, err
}

// ResetStreak restarts a streak goal's clock and broadcasts how many days
// the streak survived. This is deliberately visible even though the action
// is self-inflicted.
func (s *GoalService) ResetStreak(userID, goalID uuid.UUID) (*models.Goal, error) {
	var goal *models.Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = getOwned(tx, userID, goalID)
		if err != nil {
			return err
		}
		if !goal.IsStreakGoal {
			return ErrPreconditionFailed
		}

		now := time.Now()
		previousDays := 0
		if goal.StreakStartDate != nil {
			previousDays = int(now.Sub(*goal.StreakStartDate).Hours() / 24)
		}

		goal.StreakStartDate = &now
		goal.IsCompleted = false
		goal.CompletedAt = nil
		if err := tx.Save(goal).Error; err != nil {
			return err
		}

		var board models.Board
		if err := tx.First(&board, goal.BoardID).Error; err != nil {
			return err
		}
		boardID := board.ID
		gid := goal.ID
		text := goal.Text
		return s.outbox.EnqueueAppend(tx, &models.Event{
			UserID:    userID,
			Kind:      models.EventStreakReset,
			BoardID:   &boardID,
			GoalID:    &gid,
			BoardName: board.Name,
			GoalText:  &text,
			Metadata:  marshalMetadata(map[string]interface{}{"previousDays": previousDays}),
		})
	})
	return goal, err
}

// SetProgress enables or disables progress tracking, or adjusts its target
// and counter. Enabling alone emits nothing; a counter change that crosses
// the target from below completes the goal and emits goal_completed with
// progress metadata. Disabling silently reverts the goal to a plain goal.
func (s *GoalService) SetProgress(userID, goalID uuid.UUID, enable bool, target, current *int) (*models.Goal, error) {
	var goal *models.Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = getOwned(tx, userID, goalID)
		if err != nil {
			return err
		}
		if goal.IsFreeSpace {
			return ErrPreconditionFailed
		}

		if !enable {
			goal.IsProgressGoal = false
			goal.ProgressTarget = nil
			goal.ProgressCurrent = 0
			return tx.Save(goal).Error
		}

		wasProgress := goal.IsProgressGoal
		goal.IsProgressGoal = true
		goal.IsStreakGoal = false
		goal.StreakTargetDays = nil
		goal.StreakStartDate = nil
		if target != nil {
			goal.ProgressTarget = target
		}

		oldCurrent := goal.ProgressCurrent
		if current != nil {
			goal.ProgressCurrent = *current
		} else if !wasProgress {
			goal.ProgressCurrent = 0
		}

		// Crossing from below target to at/above target completes the
		// goal, but only once it was already a progress goal: enabling
		// with an initial count is setup, not an achievement.
		if wasProgress && s.crossedTarget(goal, oldCurrent) {
			return s.completeViaProgress(tx, goal)
		}
		return tx.Save(goal).Error
	})
	return goal, err
}

// IncrementProgress moves a progress goal's counter by delta (floored at
// zero). Crossing the target from below completes the goal and emits one
// goal_completed event with progress metadata. Further increments, and
// decrements back below target, emit nothing.
func (s *GoalService) IncrementProgress(userID, goalID uuid.UUID, delta int) (*models.Goal, error) {
	var goal *models.Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = getOwned(tx, userID, goalID)
		if err != nil {
			return err
		}
		if !goal.IsProgressGoal {
			return ErrPreconditionFailed
		}

		oldCurrent := goal.ProgressCurrent
		newCurrent := oldCurrent + delta
		if newCurrent < 0 {
			newCurrent = 0
		}
		goal.ProgressCurrent = newCurrent

		if s.crossedTarget(goal, oldCurrent) {
			return s.completeViaProgress(tx, goal)
		}
		return tx.Save(goal).Error
	})
	return goal, err
}

func (s *GoalService) crossedTarget(goal *models.Goal, oldCurrent int) bool {
	target := 1
	if goal.ProgressTarget != nil {
		target = *goal.ProgressTarget
	}
	return oldCurrent < target && goal.ProgressCurrent >= target
}

func (s *GoalService) completeViaProgress(tx *gorm.DB, goal *models.Goal) error {
	now := time.Now()
	goal.IsCompleted = true
	goal.CompletedAt = &now
	if err := tx.Save(goal).Error; err != nil {
		return err
	}

	var board models.Board
	if err := tx.First(&board, goal.BoardID).Error; err != nil {
		return err
	}

	target := 1
	if goal.ProgressTarget != nil {
		target = *goal.ProgressTarget
	}
	boardID := board.ID
	goalID := goal.ID
	text := goal.Text
	return s.outbox.EnqueueAppend(tx, &models.Event{
		UserID:    goal.UserID,
		Kind:      models.EventGoalCompleted,
		BoardID:   &boardID,
		GoalID:    &goalID,
		BoardName: board.Name,
		GoalText:  &text,
		Metadata: marshalMetadata(map[string]interface{}{
			"progressTarget":  target,
			"progressCurrent": goal.ProgressCurrent,
		}),
	})
}
