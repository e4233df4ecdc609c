package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/laliga/go/internal/sqlutil"
)

// PostgresSchema creates the outbox table
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS league_outbox (
    id          UUID PRIMARY KEY,
    league_id   UUID        NOT NULL,
    event_type  TEXT        NOT NULL,
    payload     JSONB       NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL,
    sent_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS league_outbox_unsent_idx
    ON league_outbox (created_at) WHERE sent_at IS NULL;
`

// NotifyChannel is the channel Insert notifies with each new event ID
const NotifyChannel = "league_outbox_events"

// PostgresRepository stores the outbox in Postgres through lib/pq
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenPostgres connects with dsn and ensures the outbox table exists
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, PostgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create outbox schema: %w", err)
	}
	return NewPostgresRepository(db), nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresRepository) Insert(ctx context.Context, events []Event) error {
	return sqlutil.Run(ctx, r.db, sqlutil.Tx, func(tx *sql.Tx) error {
		for _, e := range events {
			_, err := tx.ExecContext(ctx, `
INSERT INTO league_outbox (id, league_id, event_type, payload, created_at)
VALUES ($1, $2, $3, $4, $5)`,
				e.ID, e.LeagueID, e.EventType, []byte(e.Payload), e.CreatedAt.UTC())
			if err != nil {
				return fmt.Errorf("failed to insert %s outbox event: %w", e.EventType, err)
			}
			// delivered on commit
			if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, e.ID.String()); err != nil {
				return fmt.Errorf("failed to notify outbox listeners: %w", err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) FetchUnsent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, league_id, event_type, payload, created_at, sent_at
FROM league_outbox
WHERE sent_at IS NULL
ORDER BY created_at, id
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e       Event
			payload []byte
			sentAt  sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.LeagueID, &e.EventType, &payload, &e.CreatedAt, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		e.Payload = payload
		e.CreatedAt = e.CreatedAt.UTC()
		e.SentAt = sqlutil.FromNullTime(sentAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outbox events: %w", err)
	}
	return events, nil
}

func (r *PostgresRepository) MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE league_outbox SET sent_at = $2 WHERE id = ANY($1::uuid[])`,
		pq.Array(keys), sentAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to mark outbox events as sent: %w", err)
	}
	return nil
}
