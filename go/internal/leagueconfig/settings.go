// Package leagueconfig loads the settings a league runs under: Go defaults,
// overlaid by an optional YAML file, then by LALIGA_* environment variables.
package leagueconfig

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/mcdev12/laliga/go/internal/contract"
	"github.com/mcdev12/laliga/go/internal/draft"
	"github.com/mcdev12/laliga/go/internal/fantasyteam"
	"github.com/mcdev12/laliga/go/internal/leagues"
	"github.com/mcdev12/laliga/go/internal/models"
	"github.com/mcdev12/laliga/go/internal/player"
	"gopkg.in/yaml.v3"
)

// StatRange bounds simulated fantasy points for a position
type StatRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Settings mirrors the league settings file. Maps and lists are only read from YAML.
type Settings struct {
	Name                     string  `yaml:"name" env:"LALIGA_NAME"`
	Teams                    int     `yaml:"teams" env:"LALIGA_TEAMS"`
	MaxRosterSize            int     `yaml:"max_roster_size" env:"LALIGA_MAX_ROSTER_SIZE"`
	PracticeSquadSlots       int     `yaml:"practice_squad_slots" env:"LALIGA_PRACTICE_SQUAD_SLOTS"`
	InjuredReserveSlots      int     `yaml:"injured_reserve_slots" env:"LALIGA_INJURED_RESERVE_SLOTS"`
	RegularSeasonWeeks       int     `yaml:"regular_season_weeks" env:"LALIGA_REGULAR_SEASON_WEEKS"`
	PlayoffWeeks             int     `yaml:"playoff_weeks" env:"LALIGA_PLAYOFF_WEEKS"`
	SalaryCap                float64 `yaml:"salary_cap" env:"LALIGA_SALARY_CAP"`
	SalaryCapIncreaseRate    float64 `yaml:"salary_cap_increase_rate" env:"LALIGA_SALARY_CAP_INCREASE_RATE"`
	PlayerSalaryIncreaseRate float64 `yaml:"player_salary_increase_rate" env:"LALIGA_PLAYER_SALARY_INCREASE_RATE"`
	RookieDraftRounds        int     `yaml:"rookie_draft_rounds" env:"LALIGA_ROOKIE_DRAFT_ROUNDS"`
	AuctionDraft             bool    `yaml:"auction_draft" env:"LALIGA_AUCTION_DRAFT"`
	HoldoutTriggerRatio      float64 `yaml:"holdout_trigger_ratio" env:"LALIGA_HOLDOUT_TRIGGER_RATIO"`
	HoldoutDemandRatio       float64 `yaml:"holdout_demand_ratio" env:"LALIGA_HOLDOUT_DEMAND_RATIO"`
	LotteryBalls             []int   `yaml:"lottery_balls" env:"LALIGA_LOTTERY_BALLS" envSeparator:","`

	Positions              []string             `yaml:"positions"`
	NFLTeams               []string             `yaml:"nfl_teams"`
	StatusMultipliers      map[string]float64   `yaml:"status_multipliers"`
	HoldoutThresholds      map[string]int       `yaml:"holdout_thresholds"`
	PositionAverageSamples map[string]int       `yaml:"position_average_samples"`
	StatRanges             map[string]StatRange `yaml:"stat_ranges"`
	DefaultStatRange       StatRange            `yaml:"default_stat_range"`
	Scoring                map[string]float64   `yaml:"scoring"`
}

// Default returns the standard La Liga Lebowski settings
func Default() Settings {
	cfg := leagues.DefaultConfig()
	rules := cfg.PlayerRules
	terms := cfg.ContractTerms

	s := Settings{
		Name:                     cfg.Name,
		Teams:                    cfg.MaxTeams,
		MaxRosterSize:            cfg.Limits.Active,
		PracticeSquadSlots:       cfg.Limits.PracticeSquad,
		InjuredReserveSlots:      cfg.Limits.IR,
		RegularSeasonWeeks:       cfg.RegularSeasonWeeks,
		PlayoffWeeks:             cfg.PlayoffWeeks,
		SalaryCap:                cfg.SalaryCap,
		SalaryCapIncreaseRate:    cfg.SalaryCapIncreaseRate,
		PlayerSalaryIncreaseRate: terms.RaiseRate,
		RookieDraftRounds:        cfg.RookieDraftRounds,
		AuctionDraft:             cfg.AuctionDraft,
		HoldoutTriggerRatio:      rules.HoldoutTriggerRatio,
		HoldoutDemandRatio:       rules.HoldoutDemandRatio,
		LotteryBalls:             slices.Clone(cfg.LotteryBalls),
		NFLTeams:                 slices.Clone(rules.Franchises),
		StatusMultipliers:        make(map[string]float64),
		HoldoutThresholds:        make(map[string]int),
		PositionAverageSamples:   make(map[string]int),
		StatRanges:               make(map[string]StatRange),
		DefaultStatRange:         StatRange{Min: cfg.DefaultStatRange.Min, Max: cfg.DefaultStatRange.Max},
		Scoring:                  maps.Clone(cfg.Scoring),
	}
	for _, pos := range rules.Positions {
		s.Positions = append(s.Positions, string(pos))
	}
	for status, m := range rules.StatusMultipliers {
		s.StatusMultipliers[string(status)] = m
	}
	for pos, n := range rules.HoldoutThresholds {
		s.HoldoutThresholds[string(pos)] = n
	}
	for pos, n := range cfg.PositionAverageSamples {
		s.PositionAverageSamples[string(pos)] = n
	}
	for pos, r := range cfg.StatRanges {
		s.StatRanges[string(pos)] = StatRange{Min: r.Min, Max: r.Max}
	}
	return s
}

// Load reads the defaults, the YAML file at path when path is not empty, and
// then the environment, and validates the result.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
		}
	}

	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports every setting a league cannot run with
func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(s.Name != "", "name is required")
	check(s.Teams >= 2, "teams must be at least 2, got %d", s.Teams)
	check(s.MaxRosterSize > 0, "max_roster_size must be positive, got %d", s.MaxRosterSize)
	check(s.PracticeSquadSlots >= 0, "practice_squad_slots cannot be negative, got %d", s.PracticeSquadSlots)
	check(s.InjuredReserveSlots >= 0, "injured_reserve_slots cannot be negative, got %d", s.InjuredReserveSlots)
	check(s.SalaryCap > 0, "salary_cap must be positive, got %v", s.SalaryCap)
	check(s.SalaryCapIncreaseRate > 0, "salary_cap_increase_rate must be positive, got %v", s.SalaryCapIncreaseRate)
	check(s.PlayerSalaryIncreaseRate >= 0, "player_salary_increase_rate cannot be negative, got %v", s.PlayerSalaryIncreaseRate)
	check(s.HoldoutTriggerRatio > 0, "holdout_trigger_ratio must be positive, got %v", s.HoldoutTriggerRatio)
	check(s.HoldoutDemandRatio > 0, "holdout_demand_ratio must be positive, got %v", s.HoldoutDemandRatio)
	check(len(s.Positions) > 0, "at least one position is required")
	check(len(s.NFLTeams) > 0, "at least one nfl team is required")

	for _, b := range s.LotteryBalls {
		check(b >= 0, "lottery balls cannot be negative, got %d", b)
	}
	for status, m := range s.StatusMultipliers {
		check(m >= 0, "status multiplier for %s cannot be negative, got %v", status, m)
		_, rostered := models.SlotForStatus(models.RosterStatus(status))
		check(rostered || models.RosterStatus(status) == models.RosterStatusFreeAgent,
			"unknown roster status %q", status)
	}
	for pos := range s.PositionAverageSamples {
		check(slices.Contains(s.Positions, pos), "position_average_samples names unknown position %q", pos)
	}
	for pos, r := range s.StatRanges {
		check(r.Min <= r.Max, "stat range for %s has min above max", pos)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid league settings: %w", errors.Join(errs...))
	}
	return nil
}

// LeagueConfig converts the settings into the rules a league runs under
func (s Settings) LeagueConfig() leagues.Config {
	cfg := leagues.Config{
		Name:                   s.Name,
		MaxTeams:               s.Teams,
		SalaryCap:              s.SalaryCap,
		SalaryCapIncreaseRate:  s.SalaryCapIncreaseRate,
		RegularSeasonWeeks:     s.RegularSeasonWeeks,
		PlayoffWeeks:           s.PlayoffWeeks,
		RookieDraftRounds:      s.RookieDraftRounds,
		AuctionDraft:           s.AuctionDraft,
		LotteryBalls:           slices.Clone(s.LotteryBalls),
		PositionAverageSamples: make(map[models.Position]int),
		StatRanges:             make(map[models.Position]leagues.StatRange),
		DefaultStatRange:       leagues.StatRange{Min: s.DefaultStatRange.Min, Max: s.DefaultStatRange.Max},
		Scoring:                maps.Clone(s.Scoring),
		Limits: fantasyteam.Limits{
			Active:        s.MaxRosterSize,
			PracticeSquad: s.PracticeSquadSlots,
			IR:            s.InjuredReserveSlots,
		},
		PlayerRules:   s.playerRules(),
		ContractTerms: s.contractTerms(),
	}
	if cfg.LotteryBalls == nil {
		cfg.LotteryBalls = slices.Clone(draft.DefaultBalls)
	}
	for pos, n := range s.PositionAverageSamples {
		cfg.PositionAverageSamples[models.Position(pos)] = n
	}
	for pos, r := range s.StatRanges {
		cfg.StatRanges[models.Position(pos)] = leagues.StatRange{Min: r.Min, Max: r.Max}
	}
	return cfg
}

func (s Settings) playerRules() player.Rules {
	rules := player.Rules{
		Franchises:          slices.Clone(s.NFLTeams),
		StatusMultipliers:   make(map[models.RosterStatus]float64, len(s.StatusMultipliers)),
		HoldoutThresholds:   make(map[models.Position]int, len(s.HoldoutThresholds)),
		HoldoutTriggerRatio: s.HoldoutTriggerRatio,
		HoldoutDemandRatio:  s.HoldoutDemandRatio,
	}
	for _, pos := range s.Positions {
		rules.Positions = append(rules.Positions, models.Position(pos))
	}
	for status, m := range s.StatusMultipliers {
		rules.StatusMultipliers[models.RosterStatus(status)] = m
	}
	for pos, n := range s.HoldoutThresholds {
		rules.HoldoutThresholds[models.Position(pos)] = n
	}
	return rules
}

func (s Settings) contractTerms() contract.Terms {
	terms := contract.DefaultTerms()
	terms.RaiseRate = s.PlayerSalaryIncreaseRate
	return terms
}
