package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/metrics"
	"github.com/dafibh/committee/committee-backend/internal/payout"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MaxReservationAttempts bounds how often a reservation is retried after
// losing a slot to a concurrent writer.
const MaxReservationAttempts = 3

// ScheduleRequest describes a payout to place in a committee. Slot 0 takes the
// next free slot.
type ScheduleRequest struct {
	UserID         uuid.UUID
	Amount         decimal.Decimal
	Slot           int
	FallbackToNext bool
	InitiatedBy    uuid.UUID
}

// SlotReserver runs slot allocation inside a transaction holding the committee
// row lock, so the holdings read and the insert see the same state.
type SlotReserver struct {
	transactor    domain.Transactor
	committeeRepo domain.CommitteeRepository
	payoutRepo    domain.PayoutRepository
	metrics       *metrics.Metrics
}

// NewSlotReserver creates a new SlotReserver
func NewSlotReserver(transactor domain.Transactor, committeeRepo domain.CommitteeRepository, payoutRepo domain.PayoutRepository) *SlotReserver {
	return &SlotReserver{
		transactor:    transactor,
		committeeRepo: committeeRepo,
		payoutRepo:    payoutRepo,
	}
}

// SetMetrics sets the metrics collectors
func (r *SlotReserver) SetMetrics(m *metrics.Metrics) {
	r.metrics = m
}

// Reserve runs fn in a fresh transaction with the committee locked. When fn
// fails with ErrSlotTaken the whole transaction is retried.
func (r *SlotReserver) Reserve(ctx context.Context, committeeID uuid.UUID, fn func(tx any, committee *domain.Committee) (*domain.Payout, error)) (*domain.Payout, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxReservationAttempts; attempt++ {
		var reserved *domain.Payout
		err := r.transactor.WithTx(ctx, func(tx any) error {
			committee, err := r.committeeRepo.GetByIDForUpdateTx(tx, committeeID)
			if err != nil {
				return err
			}
			reserved, err = fn(tx, committee)
			return err
		})
		if err == nil {
			r.metrics.ObserveReservation(metrics.OutcomeReserved)
			return reserved, nil
		}
		if !errors.Is(err, domain.ErrSlotTaken) {
			r.metrics.ObserveReservation(metrics.OutcomeFailed)
			return nil, err
		}

		lastErr = err
		r.metrics.ObserveReservation(metrics.OutcomeRetried)
		log.Warn().
			Str("committee_id", committeeID.String()).
			Int("attempt", attempt).
			Msg("Slot taken by concurrent reservation, retrying")
	}

	r.metrics.ObserveReservation(metrics.OutcomeFailed)
	return nil, fmt.Errorf("failed to reserve slot after %d attempts: %w", MaxReservationAttempts, lastErr)
}

// ScheduleTx picks the slot for req against the committee's current payouts
// and inserts the payout with its fee breakdown.
func (r *SlotReserver) ScheduleTx(tx any, committee *domain.Committee, req ScheduleRequest) (*domain.Payout, error) {
	existing, err := r.payoutRepo.GetByCommitteeTx(tx, committee.ID)
	if err != nil {
		return nil, err
	}
	pc := toPayoutCommittee(committee)
	holdings := toHoldings(existing)

	slot, err := chooseSlot(pc, holdings, req)
	if err != nil {
		return nil, err
	}

	amounts := payout.Breakdown(req.Amount, pc.Duration, slot)
	p := &domain.Payout{
		CommitteeID:    committee.ID,
		UserID:         req.UserID,
		OriginalAmount: amounts.OriginalAmount,
		FeePercentage:  amounts.FeePercentage,
		FeeAmount:      amounts.FeeAmount,
		NetAmount:      amounts.NetAmount,
		SlotNumber:     int32(slot),
		Round:          int32(slot),
		Status:         domain.PayoutStatusPending,
		ScheduledDate:  committee.ScheduledDateForSlot(slot),
		InitiatedBy:    req.InitiatedBy,
	}
	if amounts.Details != nil {
		reason := amounts.Details.Reason
		p.FeeReason = &reason
	}

	return r.payoutRepo.ReserveSlotTx(tx, p)
}

func chooseSlot(pc payout.Committee, holdings []payout.Holding, req ScheduleRequest) (int, error) {
	userID := req.UserID.String()

	if req.Slot == 0 {
		next, ok := nextFreeSlot(pc, holdings)
		if !ok {
			return 0, domain.ErrCommitteeFull
		}
		return next, nil
	}

	check := payout.ValidatePreferredSlot(pc, holdings, req.Slot, userID)
	if check.Valid {
		for _, h := range holdings {
			if h.SlotNumber == req.Slot && h.UserID == userID {
				return 0, domain.SlotUnavailableError{Slot: req.Slot, Reason: "You already hold this slot"}
			}
		}
		return req.Slot, nil
	}

	suggested, ok := nextFreeSlot(pc, holdings)
	if !ok {
		if req.FallbackToNext {
			return 0, domain.ErrCommitteeFull
		}
		suggested = 0
	}
	if req.FallbackToNext {
		log.Info().
			Str("user_id", userID).
			Int("preferred_slot", req.Slot).
			Int("assigned_slot", suggested).
			Msg("Preferred slot unavailable, assigning next free slot")
		return suggested, nil
	}
	return 0, domain.SlotUnavailableError{Slot: req.Slot, Reason: check.Reason, Suggested: suggested}
}

// nextFreeSlot range-checks NextAvailableSlot. Its full-committee sentinel
// can land inside [1, Duration] when the legacy registry is short, so the
// result is confirmed against the holdings.
func nextFreeSlot(pc payout.Committee, holdings []payout.Holding) (int, bool) {
	next := payout.NextAvailableSlot(pc, holdings)
	if !payout.IsSlotAvailable(pc, holdings, next, "").Available {
		return 0, false
	}
	return next, true
}

func toPayoutCommittee(c *domain.Committee) payout.Committee {
	return payout.Committee{Duration: int(c.Duration)}
}

func toHoldings(payouts []*domain.Payout) []payout.Holding {
	holdings := make([]payout.Holding, 0, len(payouts))
	for _, p := range payouts {
		holdings = append(holdings, payout.Holding{UserID: p.UserID.String(), SlotNumber: int(p.SlotNumber)})
	}
	return holdings
}
