package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Message is an event to record before it has been assigned an ID
type Message struct {
	EventType string
	Payload   any
}

// App handles outbox business logic
type App struct {
	repo  Repository
	clock clockwork.Clock
}

// NewApp creates a new outbox App
func NewApp(repo Repository, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// Record stores msgs for leagueID as one batch. Either every message is stored or none is.
func (a *App) Record(ctx context.Context, leagueID uuid.UUID, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	now := a.clock.Now().UTC()
	events := make([]Event, 0, len(msgs))
	for _, msg := range msgs {
		if msg.EventType == "" {
			return fmt.Errorf("event type is required")
		}
		payload, err := json.Marshal(msg.Payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", msg.EventType, err)
		}
		if err := validateEventPayload(payload); err != nil {
			return fmt.Errorf("invalid %s payload: %w", msg.EventType, err)
		}
		events = append(events, Event{
			ID:        uuid.New(),
			LeagueID:  leagueID,
			EventType: msg.EventType,
			Payload:   payload,
			CreatedAt: now,
		})
	}

	if err := a.repo.Insert(ctx, events); err != nil {
		return fmt.Errorf("failed to insert outbox events: %w", err)
	}

	for _, e := range events {
		log.Info().
			Str("league_id", leagueID.String()).
			Str("event_id", e.ID.String()).
			Str("event_type", e.EventType).
			Msg("outbox event inserted")
	}
	return nil
}

// FetchUnsentEvents fetches unsent outbox events
func (a *App) FetchUnsentEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	events, err := a.repo.FetchUnsent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent events: %w", err)
	}

	if len(events) > 0 {
		log.Debug().
			Int("count", len(events)).
			Msg("fetched unsent outbox events")
	}
	return events, nil
}

func validateEventPayload(payload []byte) error {
	if len(payload) == 0 || string(payload) == "null" {
		return fmt.Errorf("event payload cannot be empty")
	}
	return nil
}
