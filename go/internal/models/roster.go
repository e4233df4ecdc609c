package models

import "fmt"

// RosterStatus represents where a player currently stands with respect to a fantasy roster
type RosterStatus string

const (
	RosterStatusFreeAgent     RosterStatus = "free_agent"
	RosterStatusActive        RosterStatus = "active"
	RosterStatusPracticeSquad RosterStatus = "practice_squad"
	RosterStatusIR            RosterStatus = "IR"
	RosterStatusRetired       RosterStatus = "retired"
)

// RosterSlot identifies one of the three roster buckets a team keeps.
// The zero value is the active roster.
type RosterSlot int

const (
	RosterSlotActive RosterSlot = iota
	RosterSlotPracticeSquad
	RosterSlotIR

	// NumRosterSlots is the number of buckets on every team roster
	NumRosterSlots = 3
)

// RosterSlots lists the buckets in display order
var RosterSlots = [NumRosterSlots]RosterSlot{RosterSlotActive, RosterSlotPracticeSquad, RosterSlotIR}

// Valid reports whether s names one of the three roster buckets
func (s RosterSlot) Valid() bool {
	return s >= RosterSlotActive && s < NumRosterSlots
}

// Status returns the roster status a player carries while in this bucket
func (s RosterSlot) Status() RosterStatus {
	switch s {
	case RosterSlotActive:
		return RosterStatusActive
	case RosterSlotPracticeSquad:
		return RosterStatusPracticeSquad
	case RosterSlotIR:
		return RosterStatusIR
	default:
		return ""
	}
}

func (s RosterSlot) String() string {
	if st := s.Status(); st != "" {
		return string(st)
	}
	return fmt.Sprintf("RosterSlot(%d)", int(s))
}

// SlotForStatus maps a rostered status back to its bucket
func SlotForStatus(status RosterStatus) (RosterSlot, bool) {
	switch status {
	case RosterStatusActive:
		return RosterSlotActive, true
	case RosterStatusPracticeSquad:
		return RosterSlotPracticeSquad, true
	case RosterStatusIR:
		return RosterSlotIR, true
	default:
		return 0, false
	}
}

// ParseRosterSlot parses the user facing bucket name ("active", "practice_squad", "IR")
func ParseRosterSlot(s string) (RosterSlot, error) {
	if slot, ok := SlotForStatus(RosterStatus(s)); ok {
		return slot, nil
	}
	return 0, fmt.Errorf("invalid roster type: %q", s)
}
