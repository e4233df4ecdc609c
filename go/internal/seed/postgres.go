package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema creates the roster snapshot tables read by PostgresSource
const Schema = `
CREATE TABLE IF NOT EXISTS league_teams (
    name           TEXT PRIMARY KEY,
    draft_position INT  NOT NULL,
    wins           INT  NOT NULL DEFAULT 0,
    losses         INT  NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS league_players (
    name           TEXT PRIMARY KEY,
    nfl_team       TEXT NOT NULL,
    position       TEXT NOT NULL,
    team_name      TEXT REFERENCES league_teams (name),
    roster         TEXT NOT NULL DEFAULT 'active',
    salary         DOUBLE PRECISION NOT NULL DEFAULT 0,
    years          INT NOT NULL DEFAULT 0,
    rookie         BOOLEAN NOT NULL DEFAULT FALSE,
    start_year     INT NOT NULL DEFAULT 0,
    fantasy_points DOUBLE PRECISION NOT NULL DEFAULT 0
);
`

// DB is the part of a pgx pool the seed needs. *pgxpool.Pool satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type teamRow struct {
	Name   string `db:"name"`
	Wins   int    `db:"wins"`
	Losses int    `db:"losses"`
}

type playerRow struct {
	Name          string  `db:"name"`
	NFLTeam       string  `db:"nfl_team"`
	Position      string  `db:"position"`
	TeamName      *string `db:"team_name"`
	Roster        string  `db:"roster"`
	Salary        float64 `db:"salary"`
	Years         int     `db:"years"`
	Rookie        bool    `db:"rookie"`
	StartYear     int     `db:"start_year"`
	FantasyPoints float64 `db:"fantasy_points"`
}

// PostgresSource loads a roster snapshot from the league_* tables
type PostgresSource struct {
	db     DB
	season int
}

func NewPostgresSource(db DB, season int) *PostgresSource {
	return &PostgresSource{db: db, season: season}
}

// Load reads every team in draft order and every player by name
func (s *PostgresSource) Load(ctx context.Context) (*Roster, error) {
	rows, err := s.db.Query(ctx, `SELECT name, wins, losses FROM league_teams ORDER BY draft_position, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	teams, err := pgx.CollectRows(rows, pgx.RowToStructByName[teamRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan teams: %w", err)
	}

	rows, err = s.db.Query(ctx, `
		SELECT name, nfl_team, position, team_name, roster, salary, years, rookie, start_year, fantasy_points
		FROM league_players
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	players, err := pgx.CollectRows(rows, pgx.RowToStructByName[playerRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan players: %w", err)
	}

	r := &Roster{Season: s.season}
	for _, t := range teams {
		r.Teams = append(r.Teams, TeamSeed{Name: t.Name, Wins: t.Wins, Losses: t.Losses})
	}
	for _, p := range players {
		ps := PlayerSeed{
			Name:          p.Name,
			NFLTeam:       p.NFLTeam,
			Position:      p.Position,
			Roster:        p.Roster,
			Salary:        p.Salary,
			Years:         p.Years,
			Rookie:        p.Rookie,
			StartYear:     p.StartYear,
			FantasyPoints: p.FantasyPoints,
		}
		if p.TeamName != nil {
			ps.Team = *p.TeamName
		}
		r.Players = append(r.Players, ps)
	}
	return r, nil
}

// StoreResult counts rows written by Store
type StoreResult struct {
	Total    int
	Inserted int
	Skipped  int
}

// Store writes r into the league_* tables in one transaction. Existing rows are left alone.
func Store(ctx context.Context, db DB, r *Roster) (StoreResult, error) {
	var res StoreResult

	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, Schema); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}

		for i, t := range r.Teams {
			tag, err := tx.Exec(ctx, `
				INSERT INTO league_teams (name, draft_position, wins, losses)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (name) DO NOTHING`,
				t.Name, i+1, t.Wins, t.Losses)
			if err != nil {
				return fmt.Errorf("insert team %s: %w", t.Name, err)
			}
			res.count(tag)
		}

		for _, p := range r.Players {
			var team *string
			if p.Team != "" {
				team = &p.Team
			}
			roster := p.Roster
			if roster == "" {
				roster = "active"
			}
			tag, err := tx.Exec(ctx, `
				INSERT INTO league_players (
				  name, nfl_team, position, team_name, roster,
				  salary, years, rookie, start_year, fantasy_points
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
				ON CONFLICT (name) DO NOTHING`,
				p.Name, p.NFLTeam, p.Position, team, roster,
				p.Salary, p.Years, p.Rookie, p.StartYear, p.FantasyPoints)
			if err != nil {
				return fmt.Errorf("insert player %s: %w", p.Name, err)
			}
			res.count(tag)
		}
		return nil
	})
	if err != nil {
		return StoreResult{}, err
	}
	return res, nil
}

func (r *StoreResult) count(tag pgconn.CommandTag) {
	r.Total++
	if tag.RowsAffected() == 1 {
		r.Inserted++
	} else {
		r.Skipped++
	}
}
