package models

import "github.com/google/uuid"

// LeaguePhase represents where in the calendar a league currently is
type LeaguePhase string

const (
	LeaguePhaseOffseason     LeaguePhase = "offseason"
	LeaguePhaseRegularSeason LeaguePhase = "regular_season"
	LeaguePhasePlayoffs      LeaguePhase = "playoffs"
)

// LeagueStats is the summary a league reports to its presentation layer
type LeagueStats struct {
	LeagueID     uuid.UUID   `json:"league_id"`
	SeasonYear   int         `json:"season_year"`
	SalaryCap    float64     `json:"salary_cap"`
	TotalTeams   int         `json:"total_teams"`
	FreeAgents   int         `json:"free_agents"`
	CurrentPhase LeaguePhase `json:"current_phase"`
	DraftOrder   []string    `json:"draft_order"`
}
