// Package leagues runs a salary-cap league: its teams, the free-agent pool, and
// the yearly season advance.
package leagues

import (
	"math/rand"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/laliga/go/internal/contract"
	"github.com/mcdev12/laliga/go/internal/domainerr"
	"github.com/mcdev12/laliga/go/internal/draft"
	"github.com/mcdev12/laliga/go/internal/fantasyteam"
	"github.com/mcdev12/laliga/go/internal/models"
	"github.com/mcdev12/laliga/go/internal/player"
	"github.com/rs/zerolog/log"
)

// League holds every team and unsigned player for one league. It is not safe
// for concurrent use; wrap it in an App to serialize mutation.
type League struct {
	ID                     uuid.UUID
	Name                   string
	SeasonYear             int
	Teams                  []*fantasyteam.Team
	FreeAgents             []*player.Player
	CurrentSalaryCap       float64
	CurrentPhase           models.LeaguePhase
	CurrentWeek            int
	RookieDraftOrder       []models.DraftPick
	AuctionNominationOrder []models.DraftPick

	// SeasonStats holds last season's fantasy points per player
	SeasonStats map[uuid.UUID]float64

	cfg   Config
	rng   *rand.Rand
	clock clockwork.Clock
}

type options struct {
	cfg   Config
	rng   *rand.Rand
	clock clockwork.Clock
}

// Option configures a new league
type Option func(*options)

func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithRand sets the random source used by the draft lottery
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithClock sets the clock used to default the season year
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// New creates an empty league. A zero seasonYear uses the current year.
func New(seasonYear int, opts ...Option) *League {
	o := options{
		cfg:   DefaultConfig(),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = draft.NewRand()
	}
	if seasonYear == 0 {
		seasonYear = o.clock.Now().Year()
	}

	return &League{
		ID:               uuid.New(),
		Name:             o.cfg.Name,
		SeasonYear:       seasonYear,
		CurrentSalaryCap: o.cfg.SalaryCap,
		CurrentPhase:     models.LeaguePhaseOffseason,
		SeasonStats:      make(map[uuid.UUID]float64),
		cfg:              o.cfg,
		rng:              o.rng,
		clock:            o.clock,
	}
}

// Config returns the rules the league runs under
func (l *League) Config() Config { return l.cfg }

// Clock returns the league's clock
func (l *League) Clock() clockwork.Clock { return l.clock }

// AddTeam admits t and sets its cap to the league cap
func (l *League) AddTeam(t *fantasyteam.Team) error {
	if len(l.Teams) >= l.cfg.MaxTeams {
		return domainerr.Newf(domainerr.CodeLeagueFull, "league is full (%d teams max)", l.cfg.MaxTeams)
	}

	t.SalaryCap = l.CurrentSalaryCap
	l.Teams = append(l.Teams, t)

	log.Debug().
		Str("league", l.Name).
		Str("team", t.Name).
		Int("teams", len(l.Teams)).
		Msg("team added to league")
	return nil
}

// CreateTeam builds a team under the league's roster limits and adds it
func (l *League) CreateTeam(name string) (*fantasyteam.Team, error) {
	t, err := fantasyteam.New(name,
		fantasyteam.WithLimits(l.cfg.Limits),
		fantasyteam.WithSalaryCap(l.CurrentSalaryCap),
		fantasyteam.WithDraftPosition(len(l.Teams)+1),
	)
	if err != nil {
		return nil, err
	}
	if err := l.AddTeam(t); err != nil {
		return nil, err
	}
	return t, nil
}

// TeamByName looks a team up by name, ignoring case
func (l *League) TeamByName(name string) (*fantasyteam.Team, error) {
	for _, t := range l.Teams {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, domainerr.WithMetadata(domainerr.CodeTeamNotFound,
		"team "+name+" not found", map[string]string{"team": name})
}

// FindPlayer looks a rostered player up by name across every team
func (l *League) FindPlayer(name string) (*player.Player, *fantasyteam.Team, error) {
	for _, t := range l.Teams {
		if p, ok := t.FindPlayer(name); ok {
			return p, t, nil
		}
	}
	return nil, nil, domainerr.WithMetadata(domainerr.CodePlayerNotFound,
		"player "+name+" not found on any roster", map[string]string{"player": name})
}

// AddFreeAgent puts p in the free-agent pool once
func (l *League) AddFreeAgent(p *player.Player) {
	if slices.Contains(l.FreeAgents, p) {
		return
	}
	l.FreeAgents = append(l.FreeAgents, p)
}

// SignFreeAgent signs p to c and adds them to teamName's roster. On failure a
// newly signed contract is undone. A nil c keeps the player's existing contract.
func (l *League) SignFreeAgent(teamName string, p *player.Player, c *contract.Contract, slot models.RosterSlot) error {
	t, err := l.TeamByName(teamName)
	if err != nil {
		return err
	}

	signed := false
	if c != nil {
		if err := p.SignContract(c); err != nil {
			return err
		}
		signed = true
	}

	if err := t.AddPlayer(p, slot); err != nil {
		if signed {
			p.ConvertToFreeAgent()
		}
		return err
	}

	l.FreeAgents = slices.DeleteFunc(l.FreeAgents, func(q *player.Player) bool { return q == p })

	log.Info().
		Str("team", t.Name).
		Str("player", p.Name).
		Float64("salary", p.CurrentSalary()).
		Msg("free agent signed")
	return nil
}

// Stats summarizes the league for display
func (l *League) Stats() models.LeagueStats {
	order := make([]string, len(l.RookieDraftOrder))
	for i, pick := range l.RookieDraftOrder {
		order[i] = pick.TeamName
	}

	return models.LeagueStats{
		LeagueID:     l.ID,
		SeasonYear:   l.SeasonYear,
		SalaryCap:    l.CurrentSalaryCap,
		TotalTeams:   len(l.Teams),
		FreeAgents:   len(l.FreeAgents),
		CurrentPhase: l.CurrentPhase,
		DraftOrder:   order,
	}
}

// rosteredAt returns every contracted rostered player at pos, best performer first
func (l *League) rosteredAt(pos models.Position) []*player.Player {
	var out []*player.Player
	for _, t := range l.Teams {
		for _, p := range t.AllPlayers() {
			if p.Position == pos && p.HasContract() {
				out = append(out, p)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b *player.Player) int {
		switch {
		case a.FantasyPoints > b.FantasyPoints:
			return -1
		case a.FantasyPoints < b.FantasyPoints:
			return 1
		default:
			return 0
		}
	})
	return out
}

// PositionAverages is the mean current salary of each position's top performers.
// Positions without contracted players are omitted.
func (l *League) PositionAverages() map[models.Position]float64 {
	averages := make(map[models.Position]float64)
	for _, pos := range l.cfg.samplePositions() {
		top := l.rosteredAt(pos)
		top = top[:min(len(top), l.cfg.PositionAverageSamples[pos])]
		if len(top) == 0 {
			continue
		}

		var total float64
		for _, p := range top {
			total += p.CurrentSalary()
		}
		averages[pos] = total / float64(len(top))
	}
	return averages
}

// PositionRankings ranks every contracted rostered player by fantasy points
func (l *League) PositionRankings() player.PositionRankings {
	rankings := make(player.PositionRankings)
	for _, pos := range l.cfg.PlayerRules.Positions {
		for _, p := range l.rosteredAt(pos) {
			rankings[pos] = append(rankings[pos], p.ID)
		}
	}
	return rankings
}

// TagPlayer franchise or transition tags p's contract, priced against the
// current average salary at p's position. It returns the salary increase.
func (l *League) TagPlayer(p *player.Player, tag models.ContractTag) (float64, error) {
	if !p.HasContract() {
		return 0, domainerr.Newf(domainerr.CodeNoContract, "%s has no contract to tag", p.Name)
	}
	return p.Contract().ApplyTag(tag, l.PositionAverages()[p.Position])
}

// SimulateSeasonStats draws fantasy points for every rostered player from the
// position's configured range. The simulated season is played out, so the league
// is left in the playoffs at the final week (regular season plus playoff weeks)
// until AdvanceSeason returns it to the offseason.
func (l *League) SimulateSeasonStats(rng *rand.Rand) {
	if rng == nil {
		rng = l.rng
	}
	for _, t := range l.Teams {
		for _, p := range t.AllPlayers() {
			r := l.cfg.statRange(p.Position)
			p.FantasyPoints = r.Min + rng.Float64()*(r.Max-r.Min)
			l.SeasonStats[p.ID] = p.FantasyPoints
		}
	}
	l.CurrentPhase = models.LeaguePhasePlayoffs
	l.CurrentWeek = l.cfg.RegularSeasonWeeks + l.cfg.PlayoffWeeks
}

// ScoreSeason turns each rostered player's raw stats into fantasy points with
// the league scoring weights. Players without stats keep their points.
func (l *League) ScoreSeason() {
	for _, t := range l.Teams {
		for _, p := range t.AllPlayers() {
			if len(p.SeasonStats) == 0 {
				continue
			}
			l.SeasonStats[p.ID] = p.ScoreSeason(l.cfg.Scoring)
		}
	}
}

// Standings returns each team's draft entry in league order
func (l *League) Standings() []draft.Entry {
	entries := make([]draft.Entry, len(l.Teams))
	for i, t := range l.Teams {
		entries[i] = draft.Entry{TeamID: t.ID, TeamName: t.Name, Wins: t.Wins}
	}
	return entries
}

// Holdouts lists every rostered player currently holding out
func (l *League) Holdouts() []HoldoutCandidate {
	var out []HoldoutCandidate
	for _, t := range l.Teams {
		for _, p := range t.AllPlayers() {
			demand, ok := p.HoldoutDemands()
			if !p.IsHoldout() || !ok {
				continue
			}
			out = append(out, HoldoutCandidate{
				PlayerID:      p.ID,
				PlayerName:    p.Name,
				TeamName:      t.Name,
				Position:      p.Position,
				CurrentSalary: p.CurrentSalary(),
				Demand:        demand,
			})
		}
	}
	return out
}
