package models

// Position is a fantasy-eligible football position
type Position string

const (
	PositionQB      Position = "QB"
	PositionRB      Position = "RB"
	PositionWR      Position = "WR"
	PositionTE      Position = "TE"
	PositionK       Position = "K"
	PositionDefense Position = "D/ST"
)

// DefaultPositions is the fixed set of positions a player may be created with
var DefaultPositions = []Position{
	PositionQB,
	PositionRB,
	PositionWR,
	PositionTE,
	PositionK,
	PositionDefense,
}

// HoldoutDecision is the owner's answer to a holdout demand
type HoldoutDecision string

const (
	HoldoutAccept  HoldoutDecision = "accept"
	HoldoutRelease HoldoutDecision = "release"
	HoldoutReject  HoldoutDecision = "reject"
)

// ContractTag marks a contract that was franchise or transition tagged
type ContractTag string

const (
	ContractTagNone       ContractTag = ""
	ContractTagFranchise  ContractTag = "FRANCHISE"
	ContractTagTransition ContractTag = "TRANSITION"
)
