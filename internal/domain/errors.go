package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")
	ErrUserNotFound  = errors.New("user not found")
	ErrNameRequired  = errors.New("name is required")
	ErrNameTooLong   = errors.New("name exceeds maximum length")
)

// Slot errors
var (
	ErrSlotTaken      = errors.New("payout slot is already taken")
	ErrSlotOutOfRange = errors.New("payout slot is out of range")
)

// SlotUnavailableError is returned when a requested payout slot cannot be
// granted. Suggested is the next free slot, or 0 when the committee is full.
type SlotUnavailableError struct {
	Slot      int
	Reason    string
	Suggested int
}

func (e SlotUnavailableError) Error() string {
	if e.Suggested > 0 {
		return fmt.Sprintf("slot %d unavailable: %s (suggested slot %d)", e.Slot, e.Reason, e.Suggested)
	}
	return fmt.Sprintf("slot %d unavailable: %s", e.Slot, e.Reason)
}

// Validation constants
const (
	MaxCommitteeNameLength = 100
	MaxFullNameLength      = 100
	MinCommitteeMembers    = 5
	MaxCommitteeMembers    = 100
	MaxRemarksLength       = 500
)
