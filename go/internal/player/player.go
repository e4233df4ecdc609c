package player

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/laliga/go/internal/contract"
	"github.com/mcdev12/laliga/go/internal/domainerr"
	"github.com/mcdev12/laliga/go/internal/models"
)

// Player represents a roster-eligible athlete. The contract, roster placement and
// holdout state are only changed through methods so their invariants hold:
// a free agent has no fantasy team, only contracted players sit on a roster, and
// a holdout always has a non-expiring contract.
type Player struct {
	ID       uuid.UUID
	Name     string
	NFLTeam  string
	Position models.Position
	Rank     *int

	// Performance data
	SeasonStats   map[string]float64
	FantasyPoints float64

	contract       *contract.Contract
	fantasyTeam    string
	status         models.RosterStatus
	retiredFrom    models.RosterStatus
	isHoldout      bool
	holdoutDemands *float64
	isRetired      bool

	rules Rules
}

type config struct {
	rank     *int
	contract *contract.Contract
	rules    Rules
}

// Option configures a new player
type Option func(*config)

// WithRank sets the player's preseason rank
func WithRank(rank int) Option {
	return func(c *config) { c.rank = &rank }
}

// WithContract signs the player to a contract at creation
func WithContract(ct *contract.Contract) Option {
	return func(c *config) { c.contract = ct }
}

// WithRules overrides the default league rules
func WithRules(rules Rules) Option {
	return func(c *config) { c.rules = rules }
}

// New creates an unaffiliated free agent after validating its identity
func New(name, nflTeam string, position models.Position, opts ...Option) (*Player, error) {
	cfg := config{rules: DefaultRules()}
	for _, opt := range opts {
		opt(&cfg)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerr.New(domainerr.CodeInvalidInput, "player name cannot be empty")
	}
	if !cfg.rules.validPosition(position) {
		return nil, domainerr.WithMetadata(domainerr.CodeInvalidInput,
			fmt.Sprintf("invalid position: %s", position),
			map[string]string{"position": string(position)})
	}
	if !cfg.rules.validFranchise(nflTeam) {
		return nil, domainerr.WithMetadata(domainerr.CodeInvalidInput,
			fmt.Sprintf("invalid NFL team: %s", nflTeam),
			map[string]string{"nfl_team": nflTeam})
	}

	return &Player{
		ID:          uuid.New(),
		Name:        name,
		NFLTeam:     nflTeam,
		Position:    position,
		Rank:        cfg.rank,
		SeasonStats: make(map[string]float64),
		contract:    cfg.contract,
		status:      models.RosterStatusFreeAgent,
		rules:       cfg.rules,
	}, nil
}

func (p *Player) Contract() *contract.Contract { return p.contract }
func (p *Player) HasContract() bool { return p.contract != nil }
func (p *Player) FantasyTeam() string { return p.fantasyTeam }
func (p *Player) RosterStatus() models.RosterStatus { return p.status }
func (p *Player) IsHoldout() bool { return p.isHoldout }
func (p *Player) IsRetired() bool { return p.isRetired }

// HoldoutDemands returns the outstanding demand, if any
func (p *Player) HoldoutDemands() (float64, bool) {
	if p.holdoutDemands == nil {
		return 0, false
	}
	return *p.holdoutDemands, true
}

// IsAvailable reports whether the player can be added to a roster
func (p *Player) IsAvailable() bool {
	return p.status == models.RosterStatusFreeAgent && !p.isRetired
}

// CurrentSalary is the contract salary, or 0 without a contract
func (p *Player) CurrentSalary() float64 {
	if p.contract == nil {
		return 0
	}
	return p.contract.CurrentSalary()
}

// EffectiveSalary is the cap charge for the player's current roster status
func (p *Player) EffectiveSalary() float64 {
	return p.EffectiveSalaryAs(p.status)
}

// EffectiveSalaryAs is the cap charge the player would carry under status
func (p *Player) EffectiveSalaryAs(status models.RosterStatus) float64 {
	if p.contract == nil {
		return 0
	}
	return p.contract.CurrentSalary() * p.rules.multiplier(status)
}

// SignContract attaches a contract to an unsigned player
func (p *Player) SignContract(c *contract.Contract) error {
	if p.contract != nil {
		return domainerr.Newf(domainerr.CodeContractAlreadySigned, "%s already has a contract", p.Name)
	}
	if c == nil {
		return domainerr.Newf(domainerr.CodeNoContract, "cannot sign %s to a nil contract", p.Name)
	}
	p.contract = c
	return nil
}

// JoinRoster places the player on teamName in the given bucket. Callers own the
// roster bookkeeping; this only updates the player's side of it.
func (p *Player) JoinRoster(teamName string, slot models.RosterSlot) {
	p.fantasyTeam = teamName
	p.status = slot.Status()
}

// MoveToSlot changes the player's bucket on their current team. A retired
// player keeps the retired status and returns to slot on unretiring.
func (p *Player) MoveToSlot(slot models.RosterSlot) {
	p.setStatus(slot.Status())
}

func (p *Player) setStatus(status models.RosterStatus) {
	if p.isRetired {
		p.retiredFrom = status
		return
	}
	p.status = status
}

// ConvertToFreeAgent detaches the contract, clears the team and any holdout in one step
func (p *Player) ConvertToFreeAgent() {
	p.contract = nil
	p.fantasyTeam = ""
	p.isHoldout = false
	p.holdoutDemands = nil
	p.setStatus(models.RosterStatusFreeAgent)
}

// AdvanceContractYear ages the contract; an exhausted contract sends the player to
// free agency and a contract entering its final year ends any holdout
func (p *Player) AdvanceContractYear() error {
	if p.contract == nil {
		return domainerr.Newf(domainerr.CodeNoContract, "%s has no contract to advance", p.Name)
	}
	if err := p.contract.AdvanceYear(); err != nil {
		return err
	}
	switch {
	case p.contract.IsExhausted():
		p.ConvertToFreeAgent()
	case p.contract.IsExpiring():
		// no holdouts in a contract's final year
		p.isHoldout = false
		p.holdoutDemands = nil
	}
	return nil
}

// CheckHoldoutEligibility reports whether the player is a top performer at their
// position with a contract that is not about to expire
func (p *Player) CheckHoldoutEligibility(rankings PositionRankings) bool {
	if p.contract == nil || p.contract.IsExpiring() {
		return false
	}
	threshold := p.rules.HoldoutThresholds[p.Position]
	if threshold <= 0 {
		return false
	}
	rank := rankings.RankOf(p.Position, p.ID)
	return rank > 0 && rank <= threshold
}

// CalculateHoldoutDemands puts an underpaid player into a holdout and returns the demand.
// Players paid at least the trigger share of positionAvgSalary do not hold out.
func (p *Player) CalculateHoldoutDemands(positionAvgSalary float64) (float64, bool) {
	if p.contract == nil || p.contract.IsExpiring() {
		return 0, false
	}
	if p.contract.CurrentSalary() >= positionAvgSalary*p.rules.HoldoutTriggerRatio {
		return 0, false
	}

	demand := positionAvgSalary * p.rules.HoldoutDemandRatio
	p.isHoldout = true
	p.holdoutDemands = &demand
	return demand, true
}

// ResolveHoldout applies the owner's decision.
//
//   - accept: salary rises to the demand and the holdout ends; returns the raise
//   - release: the player becomes a free agent; returns the dead money the team owes
//   - reject: the player is sent to the practice squad and keeps holding out; returns 0
func (p *Player) ResolveHoldout(decision models.HoldoutDecision) (float64, error) {
	if !p.isHoldout || p.holdoutDemands == nil {
		return 0, domainerr.Newf(domainerr.CodeNotHoldingOut, "%s is not currently holding out", p.Name)
	}

	switch decision {
	case models.HoldoutAccept:
		increase, err := p.contract.RaiseTo(*p.holdoutDemands)
		if err != nil {
			return 0, err
		}
		p.isHoldout = false
		p.holdoutDemands = nil
		return increase, nil
	case models.HoldoutRelease:
		penalty := p.contract.DeadMoneyPenalty()
		p.ConvertToFreeAgent()
		return penalty, nil
	case models.HoldoutReject:
		p.setStatus(models.RosterStatusPracticeSquad)
		return 0, nil
	default:
		return 0, domainerr.WithMetadata(domainerr.CodeInvalidDecision,
			fmt.Sprintf("invalid holdout decision: %q", decision),
			map[string]string{"decision": string(decision)})
	}
}

// IsEligibleForPracticeSquad reports whether the player may be stashed on the practice squad
func (p *Player) IsEligibleForPracticeSquad() bool {
	return (p.contract != nil && p.contract.IsRookie()) || p.isHoldout
}

// CanBeExtended reports whether the player's contract can be extended
func (p *Player) CanBeExtended() bool {
	return p.contract != nil && p.contract.IsEligibleForExtension()
}

// ExtendContract extends the player's contract and returns the salary increase
func (p *Player) ExtendContract(years int) (float64, error) {
	if !p.CanBeExtended() {
		return 0, domainerr.Newf(domainerr.CodeNoContractOrIneligible, "%s has no contract or is not eligible for extension", p.Name)
	}
	return p.contract.Extend(years)
}

// Retire takes the player out of the league without touching their contract
func (p *Player) Retire() {
	if p.isRetired {
		return
	}
	p.isRetired = true
	p.retiredFrom = p.status
	p.status = models.RosterStatusRetired
}

// Unretire returns the player to their roster bucket when they still have a
// contract and a team, and to free agency otherwise
func (p *Player) Unretire() {
	if !p.isRetired {
		return
	}
	p.isRetired = false

	if p.contract != nil && p.fantasyTeam != "" {
		if _, ok := models.SlotForStatus(p.retiredFrom); ok {
			p.status = p.retiredFrom
		} else {
			p.status = models.RosterStatusActive
		}
	} else {
		p.fantasyTeam = ""
		p.status = models.RosterStatusFreeAgent
	}
	p.retiredFrom = ""
}

// ScoreSeason converts SeasonStats into fantasy points with the league scoring weights
func (p *Player) ScoreSeason(scoring map[string]float64) float64 {
	var points float64
	for stat, value := range p.SeasonStats {
		points += value * scoring[stat]
	}
	p.FantasyPoints = points
	return points
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (%s - %s)", p.Name, p.Position, p.NFLTeam)
}
