package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mcdev12/laliga/go/internal/dbconfig"
	"github.com/mcdev12/laliga/go/internal/seed"
)

// seed_league writes a roster snapshot into Postgres. With no argument the
// built-in demo league is used.
func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	// 1) Load the roster snapshot
	var (
		roster *seed.Roster
		err    error
	)
	if len(os.Args) > 1 {
		roster, err = seed.LoadFile(os.Args[1])
	} else {
		roster, err = seed.Demo()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "load roster: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect to DB
	cfg, err := dbconfig.NewConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "db config: %v\n", err)
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Seed teams and players
	res, err := seed.Store(ctx, pool, roster)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf(
		"League seed: total=%d inserted=%d skipped=%d\n",
		res.Total, res.Inserted, res.Skipped,
	)
}
