package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is a league event waiting in, or already drained from, the outbox
type Event struct {
	ID        uuid.UUID       `json:"id"`
	LeagueID  uuid.UUID       `json:"league_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// EventPublisher delivers a single event downstream
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Repository stores outbox events until they are published
type Repository interface {
	Insert(ctx context.Context, events []Event) error
	// FetchUnsent returns up to limit unsent events, oldest first.
	FetchUnsent(ctx context.Context, limit int) ([]Event, error)
	MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error
}
