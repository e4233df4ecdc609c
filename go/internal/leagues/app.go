package leagues

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/laliga/go/internal/contract"
	"github.com/mcdev12/laliga/go/internal/leagues/events"
	"github.com/mcdev12/laliga/go/internal/models"
	"github.com/mcdev12/laliga/go/internal/outbox"
	"github.com/mcdev12/laliga/go/internal/player"
	"github.com/rs/zerolog/log"
)

// EventRecorder defines what the app layer needs from the outbox
type EventRecorder interface {
	Record(ctx context.Context, leagueID uuid.UUID, msgs ...outbox.Message) error
}

// App serializes every mutation of a league and records the resulting events
type App struct {
	mu       sync.Mutex
	league   *League
	recorder EventRecorder
}

// NewApp creates a new leagues App. A nil recorder drops events.
func NewApp(league *League, recorder EventRecorder) *App {
	return &App{
		league:   league,
		recorder: recorder,
	}
}

// Do runs fn with exclusive access to the league
func (a *App) Do(fn func(*League) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(a.league)
}

// AdvanceSeason runs the season pipeline and records what it observed
func (a *App) AdvanceSeason(ctx context.Context) (*SeasonReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	report, err := a.league.AdvanceSeason()
	if err != nil {
		return report, fmt.Errorf("failed to advance season: %w", err)
	}

	if err := a.record(ctx, seasonMessages(a.league, report)...); err != nil {
		return report, fmt.Errorf("failed to record season events: %w", err)
	}
	return report, nil
}

// ResolveHoldout applies an owner's holdout decision for a rostered player
func (a *App) ResolveHoldout(ctx context.Context, playerName string, decision models.HoldoutDecision) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, team, err := a.league.FindPlayer(playerName)
	if err != nil {
		return 0, err
	}

	amount, err := team.ResolveHoldout(p, decision)
	if err != nil {
		return 0, err
	}
	if decision == models.HoldoutRelease {
		a.league.AddFreeAgent(p)
	}

	log.Info().
		Str("team", team.Name).
		Str("player", p.Name).
		Str("decision", string(decision)).
		Float64("amount", amount).
		Msg("holdout resolved")

	return amount, a.record(ctx, outbox.Message{
		EventType: events.TypeHoldoutResolved,
		Payload: events.HoldoutResolvedPayload{
			PlayerID:   p.ID.String(),
			PlayerName: p.Name,
			TeamName:   team.Name,
			Decision:   string(decision),
			Amount:     amount,
			ResolvedAt: a.league.Clock().Now().UTC(),
		},
	})
}

// ExtendContract extends a rostered player's contract and returns the raise
func (a *App) ExtendContract(ctx context.Context, playerName string, years int) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, team, err := a.league.FindPlayer(playerName)
	if err != nil {
		return 0, err
	}

	increase, err := p.ExtendContract(years)
	if err != nil {
		return 0, err
	}

	return increase, a.record(ctx, outbox.Message{
		EventType: events.TypeContractExtended,
		Payload: events.ContractExtendedPayload{
			PlayerID:        p.ID.String(),
			PlayerName:      p.Name,
			TeamName:        team.Name,
			AdditionalYears: years,
			NewSalary:       p.CurrentSalary(),
			Increase:        increase,
		},
	})
}

// TagPlayer applies a contract tag to a rostered player and returns the raise
func (a *App) TagPlayer(ctx context.Context, playerName string, tag models.ContractTag) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, team, err := a.league.FindPlayer(playerName)
	if err != nil {
		return 0, err
	}

	increase, err := a.league.TagPlayer(p, tag)
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("player", p.Name).
		Str("tag", string(tag)).
		Float64("increase", increase).
		Msg("contract tagged")

	return increase, a.record(ctx, outbox.Message{
		EventType: events.TypeContractTagged,
		Payload: events.ContractTaggedPayload{
			PlayerID:   p.ID.String(),
			PlayerName: p.Name,
			TeamName:   team.Name,
			Tag:        string(tag),
			NewSalary:  p.CurrentSalary(),
			Increase:   increase,
		},
	})
}

// SignFreeAgent signs p to c and rosters them on teamName
func (a *App) SignFreeAgent(ctx context.Context, teamName string, p *player.Player, c *contract.Contract, slot models.RosterSlot) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.league.SignFreeAgent(teamName, p, c, slot); err != nil {
		return err
	}

	return a.record(ctx, outbox.Message{
		EventType: events.TypeFreeAgentSigned,
		Payload: events.FreeAgentSignedPayload{
			PlayerID:   p.ID.String(),
			PlayerName: p.Name,
			TeamName:   p.FantasyTeam(),
			Roster:     slot.String(),
			Salary:     p.CurrentSalary(),
			Years:      p.Contract().YearsRemaining(),
		},
	})
}

func (a *App) record(ctx context.Context, msgs ...outbox.Message) error {
	if a.recorder == nil || len(msgs) == 0 {
		return nil
	}
	return a.recorder.Record(ctx, a.league.ID, msgs...)
}

func seasonMessages(l *League, report *SeasonReport) []outbox.Message {
	msgs := []outbox.Message{{
		EventType: events.TypeSeasonAdvanced,
		Payload: events.SeasonAdvancedPayload{
			LeagueID:     l.ID.String(),
			FromYear:     report.FromYear,
			ToYear:       report.ToYear,
			OldSalaryCap: report.OldSalaryCap,
			NewSalaryCap: report.NewSalaryCap,
			FreeAgents:   len(l.FreeAgents),
			AdvancedAt:   l.Clock().Now().UTC(),
		},
	}}

	for _, e := range report.Expired {
		msgs = append(msgs, outbox.Message{
			EventType: events.TypeContractExpired,
			Payload: events.ContractExpiredPayload{
				PlayerID:   e.PlayerID.String(),
				PlayerName: e.PlayerName,
				TeamName:   e.TeamName,
				Position:   string(e.Position),
				SeasonYear: report.FromYear,
			},
		})
	}

	for _, h := range report.Holdouts {
		msgs = append(msgs, outbox.Message{
			EventType: events.TypeHoldoutDeclared,
			Payload: events.HoldoutDeclaredPayload{
				PlayerID:      h.PlayerID.String(),
				PlayerName:    h.PlayerName,
				TeamName:      h.TeamName,
				Position:      string(h.Position),
				CurrentSalary: h.CurrentSalary,
				Demand:        h.Demand,
			},
		})
	}

	for _, v := range report.CapViolations {
		msgs = append(msgs, outbox.Message{
			EventType: events.TypeCapViolation,
			Payload: events.CapViolationPayload{
				TeamID:     v.TeamID.String(),
				TeamName:   v.TeamName,
				SalaryUsed: v.SalaryUsed,
				SalaryCap:  v.SalaryCap,
			},
		})
	}

	slots := make([]events.DraftSlot, len(report.DraftOrder))
	for i, pick := range report.DraftOrder {
		slots[i] = events.DraftSlot{
			OverallPick: pick.OverallPick,
			TeamID:      pick.TeamID.String(),
			TeamName:    pick.TeamName,
			ViaLottery:  pick.ViaLottery,
		}
	}
	msgs = append(msgs, outbox.Message{
		EventType: events.TypeDraftOrderSet,
		Payload: events.DraftOrderSetPayload{
			SeasonYear: report.ToYear,
			DraftType:  string(models.DraftTypeRookie),
			Picks:      slots,
		},
	})

	return msgs
}
