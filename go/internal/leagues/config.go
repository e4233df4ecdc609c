package leagues

import (
	"maps"
	"slices"

	"github.com/mcdev12/laliga/go/internal/contract"
	"github.com/mcdev12/laliga/go/internal/draft"
	"github.com/mcdev12/laliga/go/internal/fantasyteam"
	"github.com/mcdev12/laliga/go/internal/models"
	"github.com/mcdev12/laliga/go/internal/player"
)

// StatRange bounds the fantasy points simulated for a position
type StatRange struct {
	Min float64
	Max float64
}

// Config bundles every rule a league runs under
type Config struct {
	Name                  string
	MaxTeams              int
	SalaryCap             float64
	SalaryCapIncreaseRate float64
	RegularSeasonWeeks    int
	PlayoffWeeks          int
	RookieDraftRounds     int
	AuctionDraft          bool

	// LotteryBalls are handed out worst record first; their count is the number of lottery teams.
	LotteryBalls []int

	// PositionAverageSamples is how many top performers feed each position's salary average.
	PositionAverageSamples map[models.Position]int

	StatRanges       map[models.Position]StatRange
	DefaultStatRange StatRange

	Scoring map[string]float64

	Limits        fantasyteam.Limits
	PlayerRules   player.Rules
	ContractTerms contract.Terms
}

// DefaultConfig returns the La Liga Lebowski rules
func DefaultConfig() Config {
	return Config{
		Name:                  "La Liga Lebowski",
		MaxTeams:              12,
		SalaryCap:             1006,
		SalaryCapIncreaseRate: 0.05,
		RegularSeasonWeeks:    14,
		PlayoffWeeks:          3,
		RookieDraftRounds:     5,
		AuctionDraft:          true,
		LotteryBalls:          slices.Clone(draft.DefaultBalls),
		PositionAverageSamples: map[models.Position]int{
			models.PositionQB: 5,
			models.PositionTE: 5,
			models.PositionRB: 10,
			models.PositionWR: 15,
		},
		StatRanges: map[models.Position]StatRange{
			models.PositionQB: {Min: 150, Max: 400},
			models.PositionRB: {Min: 50, Max: 300},
			models.PositionWR: {Min: 50, Max: 300},
			models.PositionTE: {Min: 30, Max: 200},
		},
		DefaultStatRange: StatRange{Min: 0, Max: 150},
		Scoring:          DefaultScoring(),
		Limits:           fantasyteam.DefaultLimits(),
		PlayerRules:      player.DefaultRules(),
		ContractTerms:    contract.DefaultTerms(),
	}
}

// DefaultScoring returns the league's fantasy scoring weights per stat
func DefaultScoring() map[string]float64 {
	return map[string]float64{
		"passing_td":      4,
		"passing_yards":   1.0 / 25,
		"passing_2pt":     1,
		"interception":    -2,
		"rushing_td":      6,
		"rushing_yards":   1.0 / 10,
		"rushing_2pt":     2,
		"receiving_td":    6,
		"receiving_yards": 1.0 / 10,
		"reception":       0.5,
		"receiving_2pt":   2,
		"fumble_lost":     -2,
	}
}

func (c Config) statRange(pos models.Position) StatRange {
	if r, ok := c.StatRanges[pos]; ok {
		return r
	}
	return c.DefaultStatRange
}

// samplePositions lists the positions with a salary average, in a stable order
func (c Config) samplePositions() []models.Position {
	return slices.Sorted(maps.Keys(c.PositionAverageSamples))
}
