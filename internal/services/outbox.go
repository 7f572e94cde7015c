package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/luken/goalsbingo-api/internal/models"
	"gorm.io/gorm"
)

// Outbox decouples event appends from the goal mutations that cause them.
// Entries are written in the mutation's own transaction and drained by a
// background loop, so the state change and its event are atomic as a unit
// while feed reads only need eventual consistency. Draining in insertion
// order guarantees a void is never processed before the append it retracts.
type Outbox struct {
	db     *gorm.DB
	events *EventService
}

func NewOutbox(db *gorm.DB, events *EventService) *Outbox {
	return &Outbox{db: db, events: events}
}

// EnqueueAppend stages an event append inside tx.
func (o *Outbox) EnqueueAppend(tx *gorm.DB, event *models.Event) error {
	entry := models.OutboxEntry{
		Op:        models.OutboxAppend,
		UserID:    event.UserID,
		Kind:      event.Kind,
		BoardID:   event.BoardID,
		GoalID:    event.GoalID,
		BoardName: event.BoardName,
		GoalText:  event.GoalText,
		Metadata:  event.Metadata,
	}
	return tx.Create(&entry).Error
}

// EnqueueVoid stages a void of the goal's latest live event inside tx.
func (o *Outbox) EnqueueVoid(tx *gorm.DB, userID, goalID uuid.UUID) error {
	entry := models.OutboxEntry{
		Op:     models.OutboxVoid,
		UserID: userID,
		GoalID: &goalID,
	}
	return tx.Create(&entry).Error
}

// Drain processes all unsent entries in insertion order. Safe to call from
// tests to make dispatch synchronous.
func (o *Outbox) Drain() error {
	var entries []models.OutboxEntry
	if err := o.db.Where("sent_at IS NULL").Order("id ASC").Find(&entries).Error; err != nil {
		return err
	}

	for i := range entries {
		entry := &entries[i]
		var err error
		switch entry.Op {
		case models.OutboxAppend:
			err = o.events.Append(&models.Event{
				UserID:    entry.UserID,
				Kind:      entry.Kind,
				BoardID:   entry.BoardID,
				GoalID:    entry.GoalID,
				BoardName: entry.BoardName,
				GoalText:  entry.GoalText,
				Metadata:  entry.Metadata,
				CreatedAt: entry.CreatedAt,
			})
		case models.OutboxVoid:
			if entry.GoalID != nil {
				err = o.events.Void(*entry.GoalID)
			}
		}
		if err != nil {
			// Stop at the first failure so ordering is preserved on retry.
			return err
		}

		now := time.Now()
		if err := o.db.Model(entry).Update("sent_at", &now).Error; err != nil {
			return err
		}
	}
	return nil
}

// Start drains the outbox on an interval until ctx is cancelled.
func (o *Outbox) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := o.Drain(); err != nil {
					log.Printf("outbox: drain failed: %v", err)
				}
			}
		}
	}()
}

// marshalMetadata encodes kind-specific event metadata as a JSON string.
func marshalMetadata(metadata map[string]interface{}) *string {
	if metadata == nil {
		return nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}
