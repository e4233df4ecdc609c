// Package fantasyteam keeps a fantasy team's roster buckets and salary cap ledger.
package fantasyteam

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/laliga/go/internal/domainerr"
	"github.com/mcdev12/laliga/go/internal/models"
	"github.com/mcdev12/laliga/go/internal/player"
	"github.com/rs/zerolog/log"
)

// DefaultSalaryCap is the cap a team starts with before joining a league
const DefaultSalaryCap = 1006.0

// Limits caps the size of each roster bucket
type Limits struct {
	Active        int
	PracticeSquad int
	IR            int
}

// DefaultLimits returns the standard roster limits
func DefaultLimits() Limits {
	return Limits{Active: 26, PracticeSquad: 8, IR: 5}
}

// Of returns the limit for a bucket
func (l Limits) Of(slot models.RosterSlot) int {
	switch slot {
	case models.RosterSlotActive:
		return l.Active
	case models.RosterSlotPracticeSquad:
		return l.PracticeSquad
	case models.RosterSlotIR:
		return l.IR
	default:
		return 0
	}
}

// Team is a fantasy team: three roster buckets and the cap ledger charged against them
type Team struct {
	ID            uuid.UUID
	Name          string
	DraftPosition int
	SalaryCap     float64
	Wins          int
	Losses        int

	deadMoney float64
	roster    [models.NumRosterSlots][]*player.Player
	limits    Limits
}

type config struct {
	draftPosition int
	salaryCap     float64
	limits        Limits
}

// Option configures a new team
type Option func(*config)

func WithDraftPosition(pos int) Option {
	return func(c *config) { c.draftPosition = pos }
}

func WithSalaryCap(salaryCap float64) Option {
	return func(c *config) { c.salaryCap = salaryCap }
}

func WithLimits(limits Limits) Option {
	return func(c *config) { c.limits = limits }
}

// New creates an empty team
func New(name string, opts ...Option) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerr.New(domainerr.CodeInvalidInput, "team name cannot be empty")
	}

	cfg := config{
		salaryCap: DefaultSalaryCap,
		limits:    DefaultLimits(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.salaryCap < 0 {
		return nil, domainerr.Newf(domainerr.CodeInvalidInput, "salary cap cannot be negative: %v", cfg.salaryCap)
	}

	return &Team{
		ID:            uuid.New(),
		Name:          name,
		DraftPosition: cfg.draftPosition,
		SalaryCap:     cfg.salaryCap,
		limits:        cfg.limits,
	}, nil
}

// DeadMoney is the accumulated cap charge for released contracts
func (t *Team) DeadMoney() float64 { return t.deadMoney }

// Limits returns the team's roster limits
func (t *Team) Limits() Limits { return t.limits }

// TotalSalaryUsed is the effective salary of every rostered player plus dead money
func (t *Team) TotalSalaryUsed() float64 {
	total := t.deadMoney
	for _, bucket := range t.roster {
		for _, p := range bucket {
			total += p.EffectiveSalary()
		}
	}
	return total
}

// RemainingCap is the cap space left; negative when over the cap
func (t *Team) RemainingCap() float64 {
	return t.SalaryCap - t.TotalSalaryUsed()
}

// IsSalaryCapCompliant reports whether the team is at or under its cap
func (t *Team) IsSalaryCapCompliant() bool {
	return t.TotalSalaryUsed() <= t.SalaryCap
}

// CanAfford reports whether adding p to slot keeps the team under the cap
func (t *Team) CanAfford(p *player.Player, slot models.RosterSlot) bool {
	return t.TotalSalaryUsed()+p.EffectiveSalaryAs(slot.Status()) <= t.SalaryCap
}

// AddPlayer signs an available, contracted player into the given bucket
func (t *Team) AddPlayer(p *player.Player, slot models.RosterSlot) error {
	if !slot.Valid() {
		return domainerr.Newf(domainerr.CodeInvalidRosterType, "invalid roster type: %s", slot)
	}
	if !p.HasContract() {
		return domainerr.Newf(domainerr.CodeNoContract, "%s must have a contract to be added to a roster", p.Name)
	}
	if !p.IsAvailable() {
		return domainerr.Newf(domainerr.CodeUnavailable, "%s is not available", p.Name)
	}
	if limit := t.limits.Of(slot); len(t.roster[slot]) >= limit {
		return domainerr.Newf(domainerr.CodeRosterFull, "%s roster is full (%d/%d)", slot, len(t.roster[slot]), limit)
	}
	if !t.CanAfford(p, slot) {
		return domainerr.Newf(domainerr.CodeCapExceeded, "adding %s would exceed the salary cap (%.2f remaining, %.2f needed)",
			p.Name, t.RemainingCap(), p.EffectiveSalaryAs(slot.Status()))
	}
	if slot == models.RosterSlotPracticeSquad && !p.IsEligibleForPracticeSquad() {
		return domainerr.Newf(domainerr.CodePracticeSquadIneligible, "%s is not eligible for the practice squad", p.Name)
	}

	t.roster[slot] = append(t.roster[slot], p)
	p.JoinRoster(t.Name, slot)

	log.Debug().
		Str("team", t.Name).
		Str("player", p.Name).
		Str("roster", slot.String()).
		Float64("remaining_cap", t.RemainingCap()).
		Msg("player added to roster")
	return nil
}

// RemovePlayer releases p, charging the contract's dead money to the team.
// It returns the penalty.
func (t *Team) RemovePlayer(p *player.Player) (float64, error) {
	if p.FantasyTeam() != t.Name {
		return 0, domainerr.Newf(domainerr.CodeNotOnTeam, "%s is not on %s", p.Name, t.Name)
	}
	slot, ok := t.slotOf(p)
	if !ok {
		return 0, domainerr.Newf(domainerr.CodePlayerNotFound, "%s not found on %s roster", p.Name, t.Name)
	}

	var penalty float64
	if c := p.Contract(); c != nil {
		penalty = c.DeadMoneyPenalty()
	}
	t.deadMoney += penalty
	t.detach(p, slot)
	p.ConvertToFreeAgent()

	log.Debug().
		Str("team", t.Name).
		Str("player", p.Name).
		Float64("dead_money", penalty).
		Msg("player released")
	return penalty, nil
}

// MovePlayer moves p between buckets on this team
func (t *Team) MovePlayer(p *player.Player, to models.RosterSlot) error {
	if !to.Valid() {
		return domainerr.Newf(domainerr.CodeInvalidRosterType, "invalid roster type: %s", to)
	}
	if p.FantasyTeam() != t.Name {
		return domainerr.Newf(domainerr.CodeNotOnTeam, "%s is not on %s", p.Name, t.Name)
	}
	from, ok := t.slotOf(p)
	if !ok {
		return domainerr.Newf(domainerr.CodePlayerNotFound, "%s not found on %s roster", p.Name, t.Name)
	}
	if from == to {
		return domainerr.Newf(domainerr.CodeNoOpMove, "%s is already on %s", p.Name, to)
	}
	if p.IsRetired() {
		return domainerr.Newf(domainerr.CodeUnavailable, "%s is retired and cannot be moved", p.Name)
	}
	if limit := t.limits.Of(to); len(t.roster[to]) >= limit {
		return domainerr.Newf(domainerr.CodeRosterFull, "%s roster is full (%d/%d)", to, len(t.roster[to]), limit)
	}
	if to == models.RosterSlotPracticeSquad && !p.IsEligibleForPracticeSquad() {
		return domainerr.Newf(domainerr.CodePracticeSquadIneligible, "%s is not eligible for the practice squad", p.Name)
	}

	t.detach(p, from)
	t.roster[to] = append(t.roster[to], p)
	p.MoveToSlot(to)
	return nil
}

// ResolveHoldout settles a rostered player's holdout and keeps the buckets and
// ledger in step with the player's new state. The returned amount is the raise
// on accept and the dead money charged on release.
func (t *Team) ResolveHoldout(p *player.Player, decision models.HoldoutDecision) (float64, error) {
	if p.FantasyTeam() != t.Name {
		return 0, domainerr.Newf(domainerr.CodeNotOnTeam, "%s is not on %s", p.Name, t.Name)
	}
	from, ok := t.slotOf(p)
	if !ok {
		return 0, domainerr.Newf(domainerr.CodePlayerNotFound, "%s not found on %s roster", p.Name, t.Name)
	}
	if decision == models.HoldoutReject && from != models.RosterSlotPracticeSquad {
		if limit := t.limits.PracticeSquad; len(t.roster[models.RosterSlotPracticeSquad]) >= limit {
			return 0, domainerr.Newf(domainerr.CodeRosterFull, "practice_squad roster is full (%d/%d)", limit, limit)
		}
	}

	amount, err := p.ResolveHoldout(decision)
	if err != nil {
		return 0, err
	}

	switch decision {
	case models.HoldoutRelease:
		t.deadMoney += amount
		t.detach(p, from)
	case models.HoldoutReject:
		if from != models.RosterSlotPracticeSquad {
			t.detach(p, from)
			t.roster[models.RosterSlotPracticeSquad] = append(t.roster[models.RosterSlotPracticeSquad], p)
		}
	}

	log.Debug().
		Str("team", t.Name).
		Str("player", p.Name).
		Str("decision", string(decision)).
		Float64("amount", amount).
		Msg("holdout resolved")
	return amount, nil
}

// SweepExpired removes every player whose contract has lapsed, converting any
// still holding an exhausted contract to free agency. It returns the removed players.
func (t *Team) SweepExpired() []*player.Player {
	var swept []*player.Player
	for i := range t.roster {
		kept := t.roster[i][:0]
		for _, p := range t.roster[i] {
			if c := p.Contract(); c != nil && !c.IsExhausted() {
				kept = append(kept, p)
				continue
			}
			if p.HasContract() || p.FantasyTeam() != "" {
				p.ConvertToFreeAgent()
			}
			swept = append(swept, p)
		}
		clear(t.roster[i][len(kept):])
		t.roster[i] = kept
	}
	return swept
}

// Players returns a copy of one bucket in signing order
func (t *Team) Players(slot models.RosterSlot) []*player.Player {
	if !slot.Valid() {
		return nil
	}
	return slices.Clone(t.roster[slot])
}

// AllPlayers returns every rostered player: active, then practice squad, then IR
func (t *Team) AllPlayers() []*player.Player {
	all := make([]*player.Player, 0, t.totalPlayers())
	for _, bucket := range t.roster {
		all = append(all, bucket...)
	}
	return all
}

// FindPlayer looks a rostered player up by name, ignoring case
func (t *Team) FindPlayer(name string) (*player.Player, bool) {
	for _, bucket := range t.roster {
		for _, p := range bucket {
			if strings.EqualFold(p.Name, name) {
				return p, true
			}
		}
	}
	return nil, false
}

// RosterSize is the number of players in a bucket
func (t *Team) RosterSize(slot models.RosterSlot) int {
	if !slot.Valid() {
		return 0
	}
	return len(t.roster[slot])
}

// SetRecord sets the team's win-loss record
func (t *Team) SetRecord(wins, losses int) error {
	if wins < 0 || losses < 0 {
		return domainerr.Newf(domainerr.CodeInvalidInput, "record cannot be negative: %d-%d", wins, losses)
	}
	t.Wins = wins
	t.Losses = losses
	return nil
}

func (t *Team) String() string {
	return fmt.Sprintf("%s (%d-%d)", t.Name, t.Wins, t.Losses)
}

func (t *Team) totalPlayers() int {
	n := 0
	for _, bucket := range t.roster {
		n += len(bucket)
	}
	return n
}

func (t *Team) slotOf(p *player.Player) (models.RosterSlot, bool) {
	for _, slot := range models.RosterSlots {
		if slices.Contains(t.roster[slot], p) {
			return slot, true
		}
	}
	return 0, false
}

func (t *Team) detach(p *player.Player, slot models.RosterSlot) {
	t.roster[slot] = slices.DeleteFunc(t.roster[slot], func(q *player.Player) bool { return q == p })
}
