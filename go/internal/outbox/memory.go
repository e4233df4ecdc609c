package outbox

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps the outbox in process. Events are returned in insertion order.
type MemoryRepository struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(ctx context.Context, events []Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range events {
		if slices.ContainsFunc(r.events, func(have Event) bool { return have.ID == e.ID }) {
			return fmt.Errorf("duplicate outbox event %s", e.ID)
		}
	}
	r.events = append(r.events, events...)
	return nil
}

func (r *MemoryRepository) FetchUnsent(ctx context.Context, limit int) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, e := range r.events {
		if len(out) >= limit {
			break
		}
		if e.SentAt == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MemoryRepository) MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.events {
		if slices.Contains(ids, r.events[i].ID) {
			at := sentAt
			r.events[i].SentAt = &at
		}
	}
	return nil
}

// All returns a copy of every stored event
func (r *MemoryRepository) All() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}
