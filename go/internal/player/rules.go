package player

import (
	"slices"

	"github.com/google/uuid"
	"github.com/mcdev12/laliga/go/internal/models"
)

// Rules holds the league configuration a player is validated and priced against
type Rules struct {
	Positions  []models.Position
	Franchises []string

	// StatusMultipliers scale contract salary into cap charge; missing statuses count in full.
	StatusMultipliers map[models.RosterStatus]float64

	// HoldoutThresholds is how many top performers per position may hold out.
	HoldoutThresholds map[models.Position]int

	HoldoutTriggerRatio float64 // underpaid below this share of the position average
	HoldoutDemandRatio  float64 // demand as a share of the position average
}

// DefaultRules returns the standard La Liga player rules
func DefaultRules() Rules {
	return Rules{
		Positions:  slices.Clone(models.DefaultPositions),
		Franchises: slices.Clone(models.NFLTeams),
		StatusMultipliers: map[models.RosterStatus]float64{
			models.RosterStatusActive:        1.00,
			models.RosterStatusPracticeSquad: 0.25,
			models.RosterStatusIR:            0.50,
			models.RosterStatusFreeAgent:     0.00,
		},
		HoldoutThresholds: map[models.Position]int{
			models.PositionQB:      5,
			models.PositionTE:      5,
			models.PositionRB:      10,
			models.PositionWR:      15,
			models.PositionK:       0,
			models.PositionDefense: 0,
		},
		HoldoutTriggerRatio: 0.50,
		HoldoutDemandRatio:  0.75,
	}
}

func (r Rules) validPosition(pos models.Position) bool {
	return slices.Contains(r.Positions, pos)
}

func (r Rules) validFranchise(team string) bool {
	return slices.Contains(r.Franchises, team)
}

func (r Rules) multiplier(status models.RosterStatus) float64 {
	if m, ok := r.StatusMultipliers[status]; ok {
		return m
	}
	return 1.00
}

// PositionRankings orders player IDs by performance, best first, for each position
type PositionRankings map[models.Position][]uuid.UUID

// RankOf returns the 1-based rank of id at pos, or 0 when unranked
func (r PositionRankings) RankOf(pos models.Position, id uuid.UUID) int {
	if idx := slices.Index(r[pos], id); idx >= 0 {
		return idx + 1
	}
	return 0
}
