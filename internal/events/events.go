// Package events publishes domain events (food logged, weight logged, goals
// updated) to a message broker for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	FoodEntryCreated    = "food_entry.created"
	FoodEntryDeleted    = "food_entry.deleted"
	WeightLogCreated    = "weight_log.created"
	ProfileGoalsUpdated = "profile.goals_updated"
)

// Event is the envelope written to the queue as JSON.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	UserID     string          `json:"user_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an envelope, encoding payload as JSON.
func NewEvent(eventType, userID string, payload interface{}) (Event, error) {
	ev := Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		ev.Payload = data
	}
	return ev, nil
}

// Publisher delivers events. Publish must not block on broker I/O.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

var (
	mu      sync.RWMutex
	current Publisher = NopPublisher{}
)

// SetPublisher installs the process-wide publisher. nil restores the no-op one.
func SetPublisher(p Publisher) {
	mu.Lock()
	defer mu.Unlock()
	if p == nil {
		p = NopPublisher{}
	}
	current = p
}

// Emit publishes a best-effort event through the installed publisher.
// Failures are logged and never returned to the request path.
func Emit(ctx context.Context, eventType, userID string, payload interface{}) {
	ev, err := NewEvent(eventType, userID, payload)
	if err != nil {
		log.Printf("[events] encode %s failed: %v", eventType, err)
		return
	}

	mu.RLock()
	p := current
	mu.RUnlock()

	if err := p.Publish(ctx, ev); err != nil {
		log.Printf("[events] publish %s failed: %v", eventType, err)
	}
}
