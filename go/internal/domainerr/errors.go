package domainerr

import (
	"errors"
	"fmt"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human readable message
	Metadata map[string]string // Additional context (player, team, roster type...)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Kind returns the category of the error.
func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithMetadata creates a domain error with metadata for presentation.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// CodeOf extracts the code of the first domain error in err's chain.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeUnknown
}

// IsKind reports whether err carries a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind() == kind
	}
	return false
}

// Sentinels for errors.Is comparisons; matching is by code only.
var (
	ErrInvalidInput             = New(CodeInvalidInput, "invalid input")
	ErrInvalidRosterType        = New(CodeInvalidRosterType, "invalid roster type")
	ErrNoContract               = New(CodeNoContract, "player has no contract")
	ErrUnavailable              = New(CodeUnavailable, "player is unavailable")
	ErrRosterFull               = New(CodeRosterFull, "roster is full")
	ErrCapExceeded              = New(CodeCapExceeded, "salary cap exceeded")
	ErrPracticeSquadIneligible  = New(CodePracticeSquadIneligible, "player is not practice squad eligible")
	ErrNoOpMove                 = New(CodeNoOpMove, "player is already on that roster")
	ErrContractAlreadySigned    = New(CodeContractAlreadySigned, "player already has a contract")
	ErrExpiredContract          = New(CodeExpiredContract, "contract has already expired")
	ErrAlreadyExtended          = New(CodeAlreadyExtended, "contract has already been extended")
	ErrTooFewYearsRemaining     = New(CodeTooFewYearsRemaining, "too few years remaining to extend")
	ErrInvalidExtensionLength   = New(CodeInvalidExtensionLength, "invalid extension length")
	ErrNoContractOrIneligible   = New(CodeNoContractOrIneligible, "no contract or not eligible for extension")
	ErrAlreadyTagged            = New(CodeAlreadyTagged, "contract is already tagged")
	ErrInvalidTag               = New(CodeInvalidTag, "invalid contract tag")
	ErrSalaryDecrease           = New(CodeSalaryDecrease, "contract salary cannot decrease")
	ErrNotHoldingOut            = New(CodeNotHoldingOut, "player is not holding out")
	ErrInvalidDecision          = New(CodeInvalidDecision, "invalid holdout decision")
	ErrNotOnTeam                = New(CodeNotOnTeam, "player is not on this team")
	ErrPlayerNotFound           = New(CodePlayerNotFound, "player not found on roster")
	ErrTeamNotFound             = New(CodeTeamNotFound, "team not found")
	ErrLeagueFull               = New(CodeLeagueFull, "league is full")
)
