package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/laliga/go/internal/sqlutil"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS league_outbox (
    id         TEXT PRIMARY KEY,
    league_id  TEXT    NOT NULL,
    event_type TEXT    NOT NULL,
    payload    BLOB    NOT NULL,
    created_at INTEGER NOT NULL,
    sent_at    INTEGER
);
CREATE INDEX IF NOT EXISTS league_outbox_unsent_idx ON league_outbox (sent_at, created_at);
`

// SQLiteRepository stores the outbox in a local SQLite file, for single-host leagues
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the outbox database at path
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create outbox schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) Insert(ctx context.Context, events []Event) error {
	return sqlutil.Run(ctx, r.db, sqlutil.Tx, func(tx *sql.Tx) error {
		for _, e := range events {
			_, err := tx.ExecContext(ctx, `
INSERT INTO league_outbox (id, league_id, event_type, payload, created_at)
VALUES (?, ?, ?, ?, ?)`,
				e.ID.String(), e.LeagueID.String(), e.EventType, []byte(e.Payload), sqlutil.ToUnixMilli(e.CreatedAt))
			if err != nil {
				return fmt.Errorf("insert %s outbox event: %w", e.EventType, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) FetchUnsent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, league_id, event_type, payload, created_at, sent_at
FROM league_outbox
WHERE sent_at IS NULL
ORDER BY created_at, rowid
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e         Event
			id        string
			leagueID  string
			payload   []byte
			createdAt int64
			sentAt    sql.NullInt64
		)
		if err := rows.Scan(&id, &leagueID, &e.EventType, &payload, &createdAt, &sentAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse event id %q: %w", id, err)
		}
		if e.LeagueID, err = uuid.Parse(leagueID); err != nil {
			return nil, fmt.Errorf("parse league id %q: %w", leagueID, err)
		}
		e.Payload = payload
		e.CreatedAt = sqlutil.FromUnixMilli(createdAt)
		e.SentAt = sqlutil.FromNullUnixMilli(sentAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read outbox events: %w", err)
	}
	return events, nil
}

func (r *SQLiteRepository) MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return sqlutil.Run(ctx, r.db, sqlutil.Tx, func(tx *sql.Tx) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx,
				`UPDATE league_outbox SET sent_at = ? WHERE id = ?`,
				sqlutil.ToUnixMilli(sentAt), id.String()); err != nil {
				return fmt.Errorf("mark outbox event %s sent: %w", id, err)
			}
		}
		return nil
	})
}
