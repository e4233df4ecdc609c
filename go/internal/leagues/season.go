package leagues

import (
	"fmt"
	"slices"

	"github.com/mcdev12/laliga/go/internal/domainerr"
	"github.com/mcdev12/laliga/go/internal/draft"
	"github.com/mcdev12/laliga/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Season advance stage names, in execution order
const (
	StageAgeContracts       = "age_contracts"
	StageRaiseSalaryCap     = "raise_salary_cap"
	StageProcessHoldouts    = "process_holdouts"
	StageReleaseExpired     = "release_expired"
	StageValidateSalaryCaps = "validate_salary_caps"
	StageDraftOrder         = "draft_order"
)

type stage struct {
	name string
	run  func(*League, *SeasonReport) error
}

// Contracts age before anything reads salaries, and the draft order is computed
// last from the final standings.
var seasonStages = []stage{
	{StageAgeContracts, (*League).ageContracts},
	{StageRaiseSalaryCap, (*League).raiseSalaryCap},
	{StageProcessHoldouts, (*League).processHoldouts},
	{StageReleaseExpired, (*League).releaseExpired},
	{StageValidateSalaryCaps, (*League).validateSalaryCaps},
	{StageDraftOrder, (*League).setDraftOrder},
}

// SeasonStages returns the stage names AdvanceSeason runs, in order
func SeasonStages() []string {
	names := make([]string, len(seasonStages))
	for i, s := range seasonStages {
		names[i] = s.name
	}
	return names
}

// AdvanceSeason moves the league to the next season. A failing stage stops the
// advance and is returned wrapped with the stage name. A non-positive cap
// increase rate is rejected before any stage runs.
func (l *League) AdvanceSeason() (*SeasonReport, error) {
	if rate := l.cfg.SalaryCapIncreaseRate; rate <= 0 {
		return nil, domainerr.WithMetadata(domainerr.CodeInvalidInput,
			fmt.Sprintf("salary cap increase rate must be positive, got %v", rate),
			map[string]string{"salary_cap_increase_rate": fmt.Sprint(rate)})
	}
	report := &SeasonReport{FromYear: l.SeasonYear}

	log.Info().
		Str("league", l.Name).
		Int("season", l.SeasonYear).
		Msg("advancing season")

	for _, s := range seasonStages {
		if err := s.run(l, report); err != nil {
			return report, fmt.Errorf("%s: %w", s.name, err)
		}
		report.Stages = append(report.Stages, s.name)
		log.Debug().Str("stage", s.name).Msg("season stage complete")
	}

	l.SeasonYear++
	l.CurrentPhase = models.LeaguePhaseOffseason
	l.CurrentWeek = 0
	report.ToYear = l.SeasonYear

	log.Info().
		Str("league", l.Name).
		Int("season", l.SeasonYear).
		Int("expired", len(report.Expired)).
		Int("holdouts", len(report.Holdouts)).
		Int("cap_violations", len(report.CapViolations)).
		Msg("season advanced")
	return report, nil
}

func (l *League) ageContracts(report *SeasonReport) error {
	for _, t := range l.Teams {
		for _, p := range t.AllPlayers() {
			if !p.HasContract() {
				continue
			}
			if err := p.AdvanceContractYear(); err != nil {
				return fmt.Errorf("age %s contract: %w", p.Name, err)
			}
			if !p.HasContract() {
				report.Expired = append(report.Expired, ExpiredContract{
					PlayerID:   p.ID,
					PlayerName: p.Name,
					TeamName:   t.Name,
					Position:   p.Position,
				})
			}
		}
	}

	log.Info().Int("expired", len(report.Expired)).Msg("contracts aged")
	return nil
}

func (l *League) raiseSalaryCap(report *SeasonReport) error {
	report.OldSalaryCap = l.CurrentSalaryCap
	l.CurrentSalaryCap *= 1 + l.cfg.SalaryCapIncreaseRate
	report.NewSalaryCap = l.CurrentSalaryCap

	for _, t := range l.Teams {
		t.SalaryCap = l.CurrentSalaryCap
	}

	log.Info().
		Float64("old_cap", report.OldSalaryCap).
		Float64("new_cap", report.NewSalaryCap).
		Msg("salary cap raised")
	return nil
}

func (l *League) processHoldouts(report *SeasonReport) error {
	averages := l.PositionAverages()
	rankings := l.PositionRankings()
	report.PositionAverages = averages

	for _, t := range l.Teams {
		for _, p := range t.AllPlayers() {
			if !p.CheckHoldoutEligibility(rankings) {
				continue
			}
			demand, ok := p.CalculateHoldoutDemands(averages[p.Position])
			if !ok {
				continue
			}
			report.Holdouts = append(report.Holdouts, HoldoutCandidate{
				PlayerID:      p.ID,
				PlayerName:    p.Name,
				TeamName:      t.Name,
				Position:      p.Position,
				CurrentSalary: p.CurrentSalary(),
				Demand:        demand,
			})

			log.Warn().
				Str("team", t.Name).
				Str("player", p.Name).
				Float64("salary", p.CurrentSalary()).
				Float64("demand", demand).
				Msg("potential holdout")
		}
	}
	return nil
}

func (l *League) releaseExpired(report *SeasonReport) error {
	for _, t := range l.Teams {
		for _, p := range t.SweepExpired() {
			l.AddFreeAgent(p)
			report.Released = append(report.Released, p.ID)
		}
	}

	log.Info().
		Int("released", len(report.Released)).
		Int("free_agents", len(l.FreeAgents)).
		Msg("expired contracts released")
	return nil
}

func (l *League) validateSalaryCaps(report *SeasonReport) error {
	for _, t := range l.Teams {
		if t.IsSalaryCapCompliant() {
			continue
		}
		v := CapViolation{
			TeamID:     t.ID,
			TeamName:   t.Name,
			SalaryUsed: t.TotalSalaryUsed(),
			SalaryCap:  t.SalaryCap,
		}
		report.CapViolations = append(report.CapViolations, v)

		log.Warn().
			Str("team", t.Name).
			Float64("salary_used", v.SalaryUsed).
			Float64("salary_cap", v.SalaryCap).
			Msg("salary cap violation")
	}
	return nil
}

func (l *League) setDraftOrder(report *SeasonReport) error {
	order := draft.RookieOrder(l.Standings(), l.cfg.LotteryBalls, l.rng)

	l.RookieDraftOrder = order
	l.AuctionNominationOrder = slices.Clone(order)
	report.DraftOrder = slices.Clone(order)

	for _, pick := range order {
		for _, t := range l.Teams {
			if t.ID == pick.TeamID {
				t.DraftPosition = pick.OverallPick
			}
		}
	}
	return nil
}
