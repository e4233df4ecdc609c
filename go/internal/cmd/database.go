package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/laliga/go/internal/dbconfig"
	"github.com/mcdev12/laliga/go/internal/outbox"
	"github.com/mcdev12/laliga/go/internal/seed"
	"github.com/rs/zerolog/log"
)

type outboxStore interface {
	outbox.Repository
	Close() error
}

type memoryStore struct {
	*outbox.MemoryRepository
}

func (memoryStore) Close() error { return nil }

// setupOutboxStore opens the configured outbox. The returned DSN is set only
// for postgres, whose relay can LISTEN for new events.
func setupOutboxStore(ctx context.Context, cfg Config) (outboxStore, string, error) {
	switch cfg.OutboxStore {
	case "", "memory":
		return memoryStore{outbox.NewMemoryRepository()}, "", nil
	case "sqlite":
		repo, err := outbox.OpenSQLite(cfg.OutboxPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open sqlite outbox: %w", err)
		}
		log.Info().Str("path", cfg.OutboxPath).Msg("using sqlite outbox")
		return repo, "", nil
	case "postgres":
		dbCfg, err := dbconfig.NewConfigFromEnv()
		if err != nil {
			return nil, "", err
		}
		repo, err := outbox.OpenPostgres(ctx, dbCfg.DSN())
		if err != nil {
			return nil, "", err
		}
		log.Info().
			Str("host", dbCfg.Host).
			Int("port", dbCfg.Port).
			Str("database", dbCfg.Database).
			Msg("using postgres outbox")
		return repo, dbCfg.DSN(), nil
	default:
		return nil, "", fmt.Errorf("unknown outbox store %q", cfg.OutboxStore)
	}
}

func loadRoster(ctx context.Context, cfg Config) (*seed.Roster, error) {
	switch cfg.RosterSource {
	case "", "demo":
		return seed.Demo()
	case "postgres":
		dbCfg, err := dbconfig.NewConfigFromEnv()
		if err != nil {
			return nil, err
		}
		pool, err := pgxpool.New(ctx, dbCfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		return seed.NewPostgresSource(pool, cfg.Season).Load(ctx)
	default:
		return seed.LoadFile(cfg.RosterSource)
	}
}
