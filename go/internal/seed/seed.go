// Package seed builds league rosters from YAML documents or a Postgres snapshot.
package seed

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/mcdev12/laliga/go/internal/contract"
	"github.com/mcdev12/laliga/go/internal/leagues"
	"github.com/mcdev12/laliga/go/internal/models"
	"github.com/mcdev12/laliga/go/internal/player"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// Roster is a league snapshot: its teams and every player with their contract
type Roster struct {
	Season  int          `yaml:"season"`
	Teams   []TeamSeed   `yaml:"teams"`
	Players []PlayerSeed `yaml:"players"`
}

type TeamSeed struct {
	Name   string `yaml:"name"`
	Wins   int    `yaml:"wins"`
	Losses int    `yaml:"losses"`
}

// PlayerSeed is one player. An empty Team makes them a free agent; a zero
// Salary and Years leaves them unsigned.
type PlayerSeed struct {
	Name          string  `yaml:"name"`
	NFLTeam       string  `yaml:"nfl_team"`
	Position      string  `yaml:"position"`
	Team          string  `yaml:"team"`
	Roster        string  `yaml:"roster"`
	Salary        float64 `yaml:"salary"`
	Years         int     `yaml:"years"`
	Rookie        bool    `yaml:"rookie"`
	StartYear     int     `yaml:"start_year"`
	FantasyPoints float64 `yaml:"fantasy_points"`
	// SeasonStats are raw stat lines scored with the league's weights on advance
	SeasonStats map[string]float64 `yaml:"season_stats"`
}

func (p PlayerSeed) signed() bool {
	return p.Years > 0
}

func (p PlayerSeed) slot() (models.RosterSlot, error) {
	if p.Roster == "" {
		return models.RosterSlotActive, nil
	}
	return models.ParseRosterSlot(p.Roster)
}

// Result counts what Apply did
type Result struct {
	Teams      int
	Rostered   int
	FreeAgents int
	Skipped    []string
}

// Demo returns the built-in four team demo league
func Demo() (*Roster, error) {
	return Parse(demoYAML)
}

// Parse decodes a roster document
func Parse(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return &r, nil
}

// LoadFile reads a roster document from disk
func LoadFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	return Parse(data)
}

// Apply creates r's teams in l and signs its players. Players that cannot be
// built or rostered are logged and skipped; a team that cannot be created
// stops the seed.
func Apply(l *leagues.League, r *Roster) (Result, error) {
	var res Result
	cfg := l.Config()

	for _, ts := range r.Teams {
		team, err := l.CreateTeam(ts.Name)
		if err != nil {
			return res, fmt.Errorf("create team %s: %w", ts.Name, err)
		}
		if err := team.SetRecord(ts.Wins, ts.Losses); err != nil {
			return res, fmt.Errorf("set %s record: %w", ts.Name, err)
		}
		res.Teams++
	}

	for _, ps := range r.Players {
		p, err := buildPlayer(ps, cfg, r.Season)
		if err != nil {
			skip(&res, ps.Name, err)
			continue
		}

		if strings.TrimSpace(ps.Team) == "" {
			l.AddFreeAgent(p)
			res.FreeAgents++
			continue
		}

		team, err := l.TeamByName(ps.Team)
		if err != nil {
			skip(&res, ps.Name, err)
			continue
		}
		slot, err := ps.slot()
		if err != nil {
			skip(&res, ps.Name, err)
			continue
		}
		if err := team.AddPlayer(p, slot); err != nil {
			skip(&res, ps.Name, err)
			continue
		}
		res.Rostered++
	}

	log.Info().
		Int("teams", res.Teams).
		Int("rostered", res.Rostered).
		Int("free_agents", res.FreeAgents).
		Int("skipped", len(res.Skipped)).
		Msg("league seeded")
	return res, nil
}

func buildPlayer(ps PlayerSeed, cfg leagues.Config, season int) (*player.Player, error) {
	p, err := player.New(ps.Name, ps.NFLTeam, models.Position(ps.Position), player.WithRules(cfg.PlayerRules))
	if err != nil {
		return nil, err
	}
	p.FantasyPoints = ps.FantasyPoints
	if len(ps.SeasonStats) > 0 {
		p.SeasonStats = maps.Clone(ps.SeasonStats)
	}

	if !ps.signed() {
		return p, nil
	}

	startYear := ps.StartYear
	if startYear == 0 {
		startYear = season
	}
	opts := []contract.Option{contract.WithTerms(cfg.ContractTerms), contract.WithStartYear(startYear)}
	if ps.Rookie {
		opts = append(opts, contract.WithRookie())
	}

	c, err := contract.New(p.Name, ps.Salary, ps.Years, opts...)
	if err != nil {
		return nil, err
	}
	if err := p.SignContract(c); err != nil {
		return nil, err
	}
	return p, nil
}

func skip(res *Result, name string, err error) {
	res.Skipped = append(res.Skipped, name)
	log.Warn().Err(err).Str("player", name).Msg("skipping seed player")
}
