package events

import (
	"time"
)

// Event types recorded to the outbox by league operations
const (
	TypeSeasonAdvanced   = "SeasonAdvanced"
	TypeContractExpired  = "ContractExpired"
	TypeHoldoutDeclared  = "HoldoutDeclared"
	TypeHoldoutResolved  = "HoldoutResolved"
	TypeCapViolation     = "CapViolation"
	TypeDraftOrderSet    = "DraftOrderSet"
	TypeContractExtended = "ContractExtended"
	TypeFreeAgentSigned  = "FreeAgentSigned"
	TypeContractTagged   = "ContractTagged"
)

// SeasonAdvancedPayload is the payload for a SeasonAdvanced event
type SeasonAdvancedPayload struct {
	LeagueID     string    `json:"league_id"`
	FromYear     int       `json:"from_year"`
	ToYear       int       `json:"to_year"`
	OldSalaryCap float64   `json:"old_salary_cap"`
	NewSalaryCap float64   `json:"new_salary_cap"`
	FreeAgents   int       `json:"free_agents"`
	AdvancedAt   time.Time `json:"advanced_at"`
}

// ContractExpiredPayload is the payload for a ContractExpired event
type ContractExpiredPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name"`
	Position   string `json:"position"`
	SeasonYear int    `json:"season_year"`
}

// HoldoutDeclaredPayload is the payload for a HoldoutDeclared event
type HoldoutDeclaredPayload struct {
	PlayerID      string  `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	TeamName      string  `json:"team_name"`
	Position      string  `json:"position"`
	CurrentSalary float64 `json:"current_salary"`
	Demand        float64 `json:"demand"`
}

// HoldoutResolvedPayload is the payload for a HoldoutResolved event
type HoldoutResolvedPayload struct {
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	TeamName   string    `json:"team_name"`
	Decision   string    `json:"decision"`
	Amount     float64   `json:"amount"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// CapViolationPayload is the payload for a CapViolation event
type CapViolationPayload struct {
	TeamID     string  `json:"team_id"`
	TeamName   string  `json:"team_name"`
	SalaryUsed float64 `json:"salary_used"`
	SalaryCap  float64 `json:"salary_cap"`
}

// DraftSlot is one pick in a DraftOrderSet event
type DraftSlot struct {
	OverallPick int    `json:"overall_pick"`
	TeamID      string `json:"team_id"`
	TeamName    string `json:"team_name"`
	ViaLottery  bool   `json:"via_lottery"`
}

// DraftOrderSetPayload is the payload for a DraftOrderSet event
type DraftOrderSetPayload struct {
	SeasonYear int         `json:"season_year"`
	DraftType  string      `json:"draft_type"`
	Picks      []DraftSlot `json:"picks"`
}

// ContractExtendedPayload is the payload for a ContractExtended event
type ContractExtendedPayload struct {
	PlayerID        string  `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	TeamName        string  `json:"team_name"`
	AdditionalYears int     `json:"additional_years"`
	NewSalary       float64 `json:"new_salary"`
	Increase        float64 `json:"increase"`
}

// FreeAgentSignedPayload is the payload for a FreeAgentSigned event
type FreeAgentSignedPayload struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TeamName   string  `json:"team_name"`
	Roster     string  `json:"roster"`
	Salary     float64 `json:"salary"`
	Years      int     `json:"years"`
}

// ContractTaggedPayload is the payload for a ContractTagged event
type ContractTaggedPayload struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TeamName   string  `json:"team_name"`
	Tag        string  `json:"tag"`
	NewSalary  float64 `json:"new_salary"`
	Increase   float64 `json:"increase"`
}
