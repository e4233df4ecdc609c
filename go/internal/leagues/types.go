package leagues

import (
	"github.com/google/uuid"
	"github.com/mcdev12/laliga/go/internal/models"
)

// ExpiredContract records a player whose contract ran out during the season advance
type ExpiredContract struct {
	PlayerID   uuid.UUID       `json:"player_id"`
	PlayerName string          `json:"player_name"`
	TeamName   string          `json:"team_name"`
	Position   models.Position `json:"position"`
}

// HoldoutCandidate is a top performer demanding a raise
type HoldoutCandidate struct {
	PlayerID      uuid.UUID       `json:"player_id"`
	PlayerName    string          `json:"player_name"`
	TeamName      string          `json:"team_name"`
	Position      models.Position `json:"position"`
	CurrentSalary float64         `json:"current_salary"`
	Demand        float64         `json:"demand"`
}

// CapViolation is a team over the salary cap after the season advance
type CapViolation struct {
	TeamID     uuid.UUID `json:"team_id"`
	TeamName   string    `json:"team_name"`
	SalaryUsed float64   `json:"salary_used"`
	SalaryCap  float64   `json:"salary_cap"`
}

// Over is how far the team is above its cap
func (v CapViolation) Over() float64 {
	return v.SalaryUsed - v.SalaryCap
}

// SeasonReport is everything a season advance observed. Holdouts and cap
// violations are warnings for the owners; they never fail the advance.
type SeasonReport struct {
	FromYear         int                         `json:"from_year"`
	ToYear           int                         `json:"to_year"`
	Stages           []string                    `json:"stages"`
	Expired          []ExpiredContract           `json:"expired"`
	Released         []uuid.UUID                 `json:"released"`
	OldSalaryCap     float64                     `json:"old_salary_cap"`
	NewSalaryCap     float64                     `json:"new_salary_cap"`
	PositionAverages map[models.Position]float64 `json:"position_averages"`
	Holdouts         []HoldoutCandidate          `json:"holdouts"`
	CapViolations    []CapViolation              `json:"cap_violations"`
	DraftOrder       []models.DraftPick          `json:"draft_order"`
}
