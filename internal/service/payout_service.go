package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/metrics"
	"github.com/dafibh/committee/committee-backend/internal/payout"
	"github.com/dafibh/committee/committee-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CreatePayoutInput is an admin request to schedule a payout. Slot 0 takes the
// next available slot.
type CreatePayoutInput struct {
	CommitteeID uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Slot        int
}

// PayoutPreview is the fee breakdown a payout would get, without reserving
type PayoutPreview struct {
	CommitteeID   uuid.UUID      `json:"committeeId"`
	Slot          int            `json:"slot"`
	ScheduledDate time.Time      `json:"scheduledDate"`
	Amounts       payout.Amounts `json:"amounts"`
}

// PayoutService handles payout business logic
type PayoutService struct {
	payoutRepo     domain.PayoutRepository
	committeeRepo  domain.CommitteeRepository
	reserver       *SlotReserver
	notifier       *NotificationService
	eventPublisher websocket.EventPublisher
	metrics        *metrics.Metrics
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(payoutRepo domain.PayoutRepository, committeeRepo domain.CommitteeRepository, reserver *SlotReserver, notifier *NotificationService) *PayoutService {
	return &PayoutService{
		payoutRepo:    payoutRepo,
		committeeRepo: committeeRepo,
		reserver:      reserver,
		notifier:      notifier,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *PayoutService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the metrics collectors
func (s *PayoutService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// CreatePayout schedules a payout for a member of an active committee
func (s *PayoutService) CreatePayout(ctx context.Context, adminID uuid.UUID, input CreatePayoutInput) (*domain.Payout, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrPayoutAmountInvalid
	}

	committee, err := s.committeeRepo.GetByID(input.CommitteeID)
	if err != nil {
		return nil, err
	}
	if committee.Status != domain.CommitteeStatusActive {
		return nil, domain.ErrCommitteeNotActive
	}
	if !committee.HasMember(input.UserID) {
		return nil, domain.ErrNotMember
	}

	created, err := s.reserver.Reserve(ctx, committee.ID, func(tx any, locked *domain.Committee) (*domain.Payout, error) {
		return s.reserver.ScheduleTx(tx, locked, ScheduleRequest{
			UserID:      input.UserID,
			Amount:      input.Amount,
			Slot:        input.Slot,
			InitiatedBy: adminID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.announceScheduled(committee, created)
	log.Info().
		Str("payout_id", created.ID.String()).
		Str("committee_id", committee.ID.String()).
		Int32("slot", created.SlotNumber).
		Str("fee", created.FeeAmount.String()).
		Msg("Payout scheduled")
	return created, nil
}

// announceScheduled notifies the recipient of a newly reserved payout
func (s *PayoutService) announceScheduled(committee *domain.Committee, p *domain.Payout) {
	s.metrics.ObservePayout(p.FeeAmount)
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(p.UserID, websocket.PayoutCreated(p))
	}
	relatedID := p.ID
	s.notifier.notifyQuietly(p.UserID, domain.NotificationPayoutScheduled,
		"Payout Scheduled", scheduledMessage(committee, p), &relatedID)
}

// scheduledMessage describes the payout with its fee breakdown
func scheduledMessage(committee *domain.Committee, p *domain.Payout) string {
	msg := fmt.Sprintf("Your payout of %s from %s is scheduled for slot %d on %s.",
		p.OriginalAmount.StringFixed(2), committee.Name, p.SlotNumber, p.ScheduledDate.Format("2 Jan 2006"))
	if p.FeeAmount.IsPositive() {
		msg += fmt.Sprintf(" An early payout fee of %s%% (%s) applies; you will receive %s.",
			payout.PercentString(p.FeePercentage), p.FeeAmount.StringFixed(2), p.NetAmount.StringFixed(2))
	}
	return msg
}

// PreviewPayout computes the breakdown a payout would get without reserving.
// Slot 0 previews the next available slot.
func (s *PayoutService) PreviewPayout(committeeID uuid.UUID, amount decimal.Decimal, slot int) (*PayoutPreview, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrPayoutAmountInvalid
	}
	committee, err := s.committeeRepo.GetByID(committeeID)
	if err != nil {
		return nil, err
	}
	existing, err := s.payoutRepo.GetByCommittee(committeeID)
	if err != nil {
		return nil, err
	}
	pc := toPayoutCommittee(committee)
	chosen, err := chooseSlot(pc, toHoldings(existing), ScheduleRequest{Amount: amount, Slot: slot})
	if err != nil {
		return nil, err
	}

	return &PayoutPreview{
		CommitteeID:   committeeID,
		Slot:          chosen,
		ScheduledDate: committee.ScheduledDateForSlot(chosen),
		Amounts:       payout.Breakdown(amount, pc.Duration, chosen),
	}, nil
}

// CompletePayout marks a pending payout as paid
func (s *PayoutService) CompletePayout(id uuid.UUID) (*domain.Payout, error) {
	completed, err := s.payoutRepo.Complete(id, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(completed.UserID, websocket.PayoutCompleted(completed))
	}
	relatedID := completed.ID
	s.notifier.notifyQuietly(completed.UserID, domain.NotificationPayoutReceived,
		"Payout Received",
		fmt.Sprintf("Your payout of %s has been sent.", completed.NetAmount.StringFixed(2)),
		&relatedID)
	return completed, nil
}

// AttachReceipt records the uploaded receipt path of a payout
func (s *PayoutService) AttachReceipt(id uuid.UUID, receiptPath string) (*domain.Payout, error) {
	if receiptPath == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.payoutRepo.SetReceipt(id, receiptPath)
}

// DeletePayout removes a pending payout, freeing its slot
func (s *PayoutService) DeletePayout(id uuid.UUID) error {
	return s.payoutRepo.DeletePending(id)
}

// GetPayout retrieves a payout by ID
func (s *PayoutService) GetPayout(id uuid.UUID) (*domain.Payout, error) {
	return s.payoutRepo.GetByID(id)
}

// ListPayouts returns every payout
func (s *PayoutService) ListPayouts() ([]*domain.Payout, error) {
	return s.payoutRepo.GetAll()
}

// ListForUser returns the payouts of a user
func (s *PayoutService) ListForUser(userID uuid.UUID) ([]*domain.Payout, error) {
	return s.payoutRepo.GetByUser(userID)
}

// ListForCommittee returns the payouts of a committee
func (s *PayoutService) ListForCommittee(committeeID uuid.UUID) ([]*domain.Payout, error) {
	return s.payoutRepo.GetByCommittee(committeeID)
}
