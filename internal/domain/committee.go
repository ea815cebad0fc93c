package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dafibh/committee/committee-backend/internal/util"
)

var (
	ErrCommitteeNotFound        = errors.New("committee not found")
	ErrCommitteeAmountInvalid   = errors.New("committee amount must be positive")
	ErrCommitteeMembersInvalid  = errors.New("member count must be between 5 and 100")
	ErrCommitteeDurationInvalid = errors.New("duration must be at least 1 month")
	ErrCommitteeStartRequired   = errors.New("start date is required")
	ErrCommitteeFull            = errors.New("committee is full")
	ErrCommitteeNotActive       = errors.New("committee is not active")
	ErrCommitteeHasPayouts      = errors.New("committee has payouts and cannot be deleted")
	ErrCommitteeScheduleLocked  = errors.New("duration and start date cannot change once payouts are scheduled")
	ErrCommitteeStatusInvalid   = errors.New("invalid committee status")
	ErrAlreadyMember            = errors.New("user is already a member of this committee")
	ErrNotMember                = errors.New("user is not a member of this committee")
)

// CommitteeStatus is the lifecycle state of a committee
type CommitteeStatus string

const (
	CommitteeStatusPending   CommitteeStatus = "pending"
	CommitteeStatusActive    CommitteeStatus = "active"
	CommitteeStatusCompleted CommitteeStatus = "completed"
)

// IsValidCommitteeStatus reports whether s is a known status
func IsValidCommitteeStatus(s CommitteeStatus) bool {
	switch s {
	case CommitteeStatusPending, CommitteeStatusActive, CommitteeStatusCompleted:
		return true
	}
	return false
}

// Committee is a fixed-membership savings pool. Amount is the lump sum paid
// out to the holder of each slot.
type Committee struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	MemberCount  int32           `json:"memberCount"`
	Duration     int32           `json:"duration"`
	StartDate    time.Time       `json:"startDate"`
	Status       CommitteeStatus `json:"status"`
	AdminID      uuid.UUID       `json:"adminId"`
	CurrentRound int32           `json:"currentRound"` // derived from StartDate when read, not stored
	Members      []uuid.UUID     `json:"members"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (c *Committee) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if len(c.Name) > MaxCommitteeNameLength {
		return ErrNameTooLong
	}
	if c.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrCommitteeAmountInvalid
	}
	if c.MemberCount < MinCommitteeMembers || c.MemberCount > MaxCommitteeMembers {
		return ErrCommitteeMembersInvalid
	}
	if c.Duration < 1 {
		return ErrCommitteeDurationInvalid
	}
	if c.StartDate.IsZero() {
		return ErrCommitteeStartRequired
	}
	return nil
}

// HasMember reports whether userID is in the member list
func (c *Committee) HasMember(userID uuid.UUID) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether every seat is taken
func (c *Committee) IsFull() bool {
	return int32(len(c.Members)) >= c.MemberCount
}

// ScheduledDateForSlot returns the payout date of a slot: one month per slot
// after the start date, clamped to the end of short months.
func (c *Committee) ScheduledDateForSlot(slot int) time.Time {
	return util.AddMonths(c.StartDate, slot-1)
}

// RoundAt returns the round in progress at now. Round n runs from the payout
// date of slot n up to the payout date of slot n+1. Dates before the start
// count as round 1 and dates past the last round as the last round.
func (c *Committee) RoundAt(now time.Time) int32 {
	elapsed := util.MonthsBetween(c.StartDate, now)
	if now.Before(util.AddMonths(c.StartDate, elapsed)) {
		elapsed--
	}
	round := int32(elapsed) + 1
	if round > c.Duration {
		round = c.Duration
	}
	if round < 1 {
		round = 1
	}
	return round
}

// CommitteeMember is a member row joined with the user and their slot
type CommitteeMember struct {
	UserID     uuid.UUID `json:"userId"`
	Name       *string   `json:"name"`
	Email      string    `json:"email"`
	SlotNumber *int32    `json:"slotNumber"`
	JoinedAt   time.Time `json:"joinedAt"`
}

type CommitteeRepository interface {
	Create(committee *Committee) (*Committee, error)
	GetByID(id uuid.UUID) (*Committee, error)
	GetByIDForUpdateTx(tx any, id uuid.UUID) (*Committee, error)
	GetAll() ([]*Committee, error)
	GetAvailable() ([]*Committee, error)
	GetByMember(userID uuid.UUID) ([]*Committee, error)
	UpdateTx(tx any, committee *Committee) error
	Delete(id uuid.UUID) error
	GetMembers(committeeID uuid.UUID) ([]*CommitteeMember, error)
	AddMemberTx(tx any, committeeID, userID uuid.UUID) error
}
