package models

import "github.com/google/uuid"

// DraftType defines the type of draft.
type DraftType string

const (
	DraftTypeAuction DraftType = "AUCTION"
	DraftTypeRookie  DraftType = "ROOKIE"
)

// DraftPick represents a single slot in a computed draft order.
type DraftPick struct {
	OverallPick int       `json:"overall_pick"` // 1-based
	TeamID      uuid.UUID `json:"team_id"`
	TeamName    string    `json:"team_name"`
	Wins        int       `json:"wins"`
	ViaLottery  bool      `json:"via_lottery"` // pick was won in the weighted lottery
}
