// Package domainerr provides the typed error taxonomy of the league engine.
package domainerr

// Kind groups error codes into the categories callers present to users.
type Kind string

const (
	KindUnknown         Kind = "UNKNOWN"
	KindValidation      Kind = "VALIDATION"
	KindRosterViolation Kind = "ROSTER_VIOLATION"
	KindContractState   Kind = "CONTRACT_STATE"
	KindOwnership       Kind = "OWNERSHIP"
	KindLeagueCapacity  Kind = "LEAGUE_CAPACITY"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Validation errors
	CodeInvalidInput Code = "INVALID_INPUT"

	// Roster errors
	CodeInvalidRosterType        Code = "INVALID_ROSTER_TYPE"
	CodeNoContract               Code = "NO_CONTRACT"
	CodeUnavailable              Code = "UNAVAILABLE"
	CodeRosterFull               Code = "ROSTER_FULL"
	CodeCapExceeded              Code = "CAP_EXCEEDED"
	CodePracticeSquadIneligible  Code = "PRACTICE_SQUAD_INELIGIBLE"
	CodeNoOpMove                 Code = "NOOP_MOVE"
	CodeContractAlreadySigned    Code = "CONTRACT_ALREADY_SIGNED"

	// Contract errors
	CodeExpiredContract          Code = "EXPIRED_CONTRACT"
	CodeAlreadyExtended          Code = "ALREADY_EXTENDED"
	CodeTooFewYearsRemaining     Code = "TOO_FEW_YEARS_REMAINING"
	CodeInvalidExtensionLength   Code = "INVALID_EXTENSION_LENGTH"
	CodeNoContractOrIneligible   Code = "NO_CONTRACT_OR_INELIGIBLE"
	CodeAlreadyTagged            Code = "ALREADY_TAGGED"
	CodeInvalidTag               Code = "INVALID_TAG"
	CodeSalaryDecrease           Code = "SALARY_DECREASE"
	CodeNotHoldingOut            Code = "NOT_HOLDING_OUT"
	CodeInvalidDecision          Code = "INVALID_DECISION"

	// Ownership errors
	CodeNotOnTeam      Code = "NOT_ON_TEAM"
	CodePlayerNotFound Code = "PLAYER_NOT_FOUND"
	CodeTeamNotFound   Code = "TEAM_NOT_FOUND"

	// League errors
	CodeLeagueFull Code = "LEAGUE_FULL"
)

var codeKinds = map[Code]Kind{
	CodeInvalidInput: KindValidation,

	CodeInvalidRosterType:       KindRosterViolation,
	CodeNoContract:              KindRosterViolation,
	CodeUnavailable:             KindRosterViolation,
	CodeRosterFull:              KindRosterViolation,
	CodeCapExceeded:             KindRosterViolation,
	CodePracticeSquadIneligible: KindRosterViolation,
	CodeNoOpMove:                KindRosterViolation,
	CodeContractAlreadySigned:   KindRosterViolation,

	CodeExpiredContract:        KindContractState,
	CodeAlreadyExtended:        KindContractState,
	CodeTooFewYearsRemaining:   KindContractState,
	CodeInvalidExtensionLength: KindContractState,
	CodeNoContractOrIneligible: KindContractState,
	CodeAlreadyTagged:          KindContractState,
	CodeInvalidTag:             KindContractState,
	CodeSalaryDecrease:         KindContractState,
	CodeNotHoldingOut:          KindContractState,
	CodeInvalidDecision:        KindContractState,

	CodeNotOnTeam:      KindOwnership,
	CodePlayerNotFound: KindOwnership,
	CodeTeamNotFound:   KindOwnership,

	CodeLeagueFull: KindLeagueCapacity,
}

// Kind returns the category this code belongs to.
func (c Code) Kind() Kind {
	if k, ok := codeKinds[c]; ok {
		return k
	}
	return KindUnknown
}
