package service

import (
	"fmt"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SubmitPaymentInput is a member's monthly contribution
type SubmitPaymentInput struct {
	CommitteeID uuid.UUID
	Amount      decimal.Decimal
	ReceiptURL  *string
}

// PaymentService handles payment business logic
type PaymentService struct {
	paymentRepo    domain.PaymentRepository
	committeeRepo  domain.CommitteeRepository
	notifier       *NotificationService
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo domain.PaymentRepository, committeeRepo domain.CommitteeRepository, notifier *NotificationService) *PaymentService {
	return &PaymentService{
		paymentRepo:   paymentRepo,
		committeeRepo: committeeRepo,
		notifier:      notifier,
		now:           time.Now,
	}
}

// SetClock replaces the clock used to work out a committee's current round
func (s *PaymentService) SetClock(now func() time.Time) {
	s.now = now
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *PaymentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SubmitPayment records a payment for the committee's current round
func (s *PaymentService) SubmitPayment(userID uuid.UUID, input SubmitPaymentInput) (*domain.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrPaymentAmountInvalid
	}
	committee, err := s.committeeRepo.GetByID(input.CommitteeID)
	if err != nil {
		return nil, err
	}
	if !committee.HasMember(userID) {
		return nil, domain.ErrNotMember
	}

	payment, err := s.paymentRepo.Create(&domain.Payment{
		CommitteeID: committee.ID,
		UserID:      userID,
		Amount:      input.Amount,
		Round:       committee.RoundAt(s.now()),
		ReceiptURL:  input.ReceiptURL,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("payment_id", payment.ID.String()).
		Str("committee_id", committee.ID.String()).
		Str("amount", payment.Amount.String()).
		Msg("Payment submitted")
	return payment, nil
}

// ApprovePayment accepts a pending payment
func (s *PaymentService) ApprovePayment(adminID, paymentID uuid.UUID, remarks *string) (*domain.Payment, error) {
	remarks, err := normalizeRemarks(remarks, false)
	if err != nil {
		return nil, err
	}
	payment, err := s.paymentRepo.Review(paymentID, domain.PaymentStatusApproved, adminID, remarks)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(payment.UserID, websocket.PaymentApproved(payment))
	}
	relatedID := payment.ID
	s.notifier.notifyQuietly(payment.UserID, domain.NotificationPaymentApproved,
		"Payment Approved",
		fmt.Sprintf("Your payment of %s for round %d was approved.", payment.Amount.StringFixed(2), payment.Round),
		&relatedID)
	return payment, nil
}

// RejectPayment declines a pending payment. Remarks are required.
func (s *PaymentService) RejectPayment(adminID, paymentID uuid.UUID, remarks *string) (*domain.Payment, error) {
	remarks, err := normalizeRemarks(remarks, true)
	if err != nil {
		return nil, err
	}
	payment, err := s.paymentRepo.Review(paymentID, domain.PaymentStatusRejected, adminID, remarks)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(payment.UserID, websocket.PaymentRejected(payment))
	}
	relatedID := payment.ID
	s.notifier.notifyQuietly(payment.UserID, domain.NotificationPaymentRejected,
		"Payment Rejected",
		fmt.Sprintf("Your payment of %s was rejected: %s", payment.Amount.StringFixed(2), *remarks),
		&relatedID)
	return payment, nil
}

// DeletePayment removes a payment
func (s *PaymentService) DeletePayment(id uuid.UUID) error {
	return s.paymentRepo.Delete(id)
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(id uuid.UUID) (*domain.Payment, error) {
	return s.paymentRepo.GetByID(id)
}

// ListPayments returns every payment
func (s *PaymentService) ListPayments() ([]*domain.Payment, error) {
	return s.paymentRepo.GetAll()
}

// ListPending returns payments awaiting review
func (s *PaymentService) ListPending() ([]*domain.Payment, error) {
	return s.paymentRepo.GetByStatus(domain.PaymentStatusPending)
}

// ListForUser returns the payments of a user
func (s *PaymentService) ListForUser(userID uuid.UUID) ([]*domain.Payment, error) {
	return s.paymentRepo.GetByUser(userID)
}

// SendDueReminders notifies every member of the committee who has no pending
// or approved payment for the current round. It returns how many were sent.
func (s *PaymentService) SendDueReminders(committeeID uuid.UUID) (int, error) {
	committee, err := s.committeeRepo.GetByID(committeeID)
	if err != nil {
		return 0, err
	}
	payments, err := s.paymentRepo.GetAll()
	if err != nil {
		return 0, err
	}

	round := committee.RoundAt(s.now())
	paid := make(map[uuid.UUID]bool)
	for _, p := range payments {
		if p.CommitteeID == committee.ID && p.Round == round && p.Status != domain.PaymentStatusRejected {
			paid[p.UserID] = true
		}
	}

	var due []uuid.UUID
	for _, memberID := range committee.Members {
		if !paid[memberID] {
			due = append(due, memberID)
		}
	}

	relatedID := committee.ID
	message := fmt.Sprintf("Your payment for round %d of %s is due.", round, committee.Name)
	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	for _, memberID := range due {
		memberID := memberID
		g.Go(func() error {
			_, err := s.notifier.Notify(memberID, domain.NotificationPaymentDue, "Payment Due", message, &relatedID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(due), nil
}
