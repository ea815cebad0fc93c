package service

import (
	"context"
	"fmt"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/payout"
	"github.com/dafibh/committee/committee-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// JoinRequestService handles join request business logic
type JoinRequestService struct {
	joinRequestRepo domain.JoinRequestRepository
	committeeRepo   domain.CommitteeRepository
	payoutRepo      domain.PayoutRepository
	userRepo        domain.UserRepository
	reserver        *SlotReserver
	payouts         *PayoutService
	notifier        *NotificationService
	eventPublisher  websocket.EventPublisher
}

// NewJoinRequestService creates a new JoinRequestService
func NewJoinRequestService(
	joinRequestRepo domain.JoinRequestRepository,
	committeeRepo domain.CommitteeRepository,
	payoutRepo domain.PayoutRepository,
	userRepo domain.UserRepository,
	reserver *SlotReserver,
	payouts *PayoutService,
	notifier *NotificationService,
) *JoinRequestService {
	return &JoinRequestService{
		joinRequestRepo: joinRequestRepo,
		committeeRepo:   committeeRepo,
		payoutRepo:      payoutRepo,
		userRepo:        userRepo,
		reserver:        reserver,
		payouts:         payouts,
		notifier:        notifier,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *JoinRequestService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateJoinRequest asks to join a committee, optionally at a preferred slot
func (s *JoinRequestService) CreateJoinRequest(userID, committeeID uuid.UUID, preferredSlot *int32) (*domain.JoinRequest, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified() {
		return nil, domain.ErrVerificationRequired
	}

	committee, err := s.committeeRepo.GetByID(committeeID)
	if err != nil {
		return nil, err
	}
	if committee.Status != domain.CommitteeStatusActive {
		return nil, domain.ErrCommitteeNotActive
	}
	if committee.HasMember(userID) {
		return nil, domain.ErrAlreadyMember
	}
	if committee.IsFull() {
		return nil, domain.ErrCommitteeFull
	}

	pending, err := s.joinRequestRepo.HasPending(committeeID, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrJoinRequestExists
	}

	if preferredSlot != nil {
		if err := s.checkPreferredSlot(committee, int(*preferredSlot), userID); err != nil {
			return nil, err
		}
	}

	req, err := s.joinRequestRepo.Create(&domain.JoinRequest{
		CommitteeID:   committeeID,
		UserID:        userID,
		PreferredSlot: preferredSlot,
	})
	if err != nil {
		return nil, err
	}

	relatedID := req.ID
	if err := s.notifier.NotifyAdmins(domain.NotificationCommitteeJoined,
		"New Join Request",
		fmt.Sprintf("%s asked to join %s.", user.DisplayName(), committee.Name),
		&relatedID); err != nil {
		log.Warn().Err(err).Str("join_request_id", req.ID.String()).Msg("Failed to notify admins of join request")
	}
	return req, nil
}

func (s *JoinRequestService) checkPreferredSlot(committee *domain.Committee, slot int, userID uuid.UUID) error {
	existing, err := s.payoutRepo.GetByCommittee(committee.ID)
	if err != nil {
		return err
	}
	pc := toPayoutCommittee(committee)
	holdings := toHoldings(existing)
	check := payout.ValidatePreferredSlot(pc, holdings, slot, userID.String())
	if check.Valid {
		return nil
	}
	suggested, _ := nextFreeSlot(pc, holdings)
	return domain.SlotUnavailableError{Slot: slot, Reason: check.Reason, Suggested: suggested}
}

// ApproveJoinRequest admits the user, reserves their slot and schedules the
// committee payout for it in one transaction. A preferred slot lost since the
// request was made falls back to the next available one.
func (s *JoinRequestService) ApproveJoinRequest(ctx context.Context, adminID, requestID uuid.UUID, remarks *string) (*domain.JoinRequest, error) {
	remarks, err := normalizeRemarks(remarks, false)
	if err != nil {
		return nil, err
	}

	req, err := s.joinRequestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.JoinRequestPending {
		return nil, domain.ErrJoinRequestNotPending
	}

	var approved *domain.JoinRequest
	var committee *domain.Committee
	p, err := s.reserver.Reserve(ctx, req.CommitteeID, func(tx any, locked *domain.Committee) (*domain.Payout, error) {
		if locked.Status != domain.CommitteeStatusActive {
			return nil, domain.ErrCommitteeNotActive
		}
		if err := s.committeeRepo.AddMemberTx(tx, locked.ID, req.UserID); err != nil {
			return nil, err
		}

		schedule := ScheduleRequest{
			UserID:         req.UserID,
			Amount:         locked.Amount,
			FallbackToNext: true,
			InitiatedBy:    adminID,
		}
		if req.PreferredSlot != nil {
			schedule.Slot = int(*req.PreferredSlot)
		}
		reserved, err := s.reserver.ScheduleTx(tx, locked, schedule)
		if err != nil {
			return nil, err
		}

		slot := reserved.SlotNumber
		approved, err = s.joinRequestRepo.ReviewTx(tx, req.ID, domain.JoinRequestReview{
			Status:       domain.JoinRequestApproved,
			ReviewerID:   adminID,
			Remarks:      remarks,
			AssignedSlot: &slot,
		})
		if err != nil {
			return nil, err
		}
		committee = locked
		return reserved, nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(approved.UserID, websocket.JoinRequestApproved(approved))
	}
	relatedID := committee.ID
	s.notifier.notifyQuietly(approved.UserID, domain.NotificationCommitteeJoined,
		"Join Request Approved",
		fmt.Sprintf("You have joined %s with payout slot %d.", committee.Name, p.SlotNumber),
		&relatedID)
	s.payouts.announceScheduled(committee, p)

	log.Info().
		Str("join_request_id", approved.ID.String()).
		Str("committee_id", committee.ID.String()).
		Int32("slot", p.SlotNumber).
		Msg("Join request approved")
	return approved, nil
}

// RejectJoinRequest declines a pending request. Remarks are required.
func (s *JoinRequestService) RejectJoinRequest(adminID, requestID uuid.UUID, remarks *string) (*domain.JoinRequest, error) {
	remarks, err := normalizeRemarks(remarks, true)
	if err != nil {
		return nil, err
	}

	rejected, err := s.joinRequestRepo.Review(requestID, domain.JoinRequestReview{
		Status:     domain.JoinRequestRejected,
		ReviewerID: adminID,
		Remarks:    remarks,
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(rejected.UserID, websocket.JoinRequestRejected(rejected))
	}
	relatedID := rejected.CommitteeID
	s.notifier.notifyQuietly(rejected.UserID, domain.NotificationCommitteeJoined,
		"Join Request Rejected",
		"Your join request was rejected: "+*remarks,
		&relatedID)
	return rejected, nil
}

// DeleteJoinRequest removes a request. Members may only withdraw their own
// pending requests; admins may delete any.
func (s *JoinRequestService) DeleteJoinRequest(userID uuid.UUID, role domain.UserRole, requestID uuid.UUID) error {
	req, err := s.joinRequestRepo.GetByID(requestID)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin {
		if req.UserID != userID {
			return domain.ErrJoinRequestNotFound
		}
		if req.Status != domain.JoinRequestPending {
			return domain.ErrJoinRequestNotPending
		}
	}
	return s.joinRequestRepo.Delete(requestID)
}

// GetJoinRequest retrieves a request by ID
func (s *JoinRequestService) GetJoinRequest(id uuid.UUID) (*domain.JoinRequest, error) {
	return s.joinRequestRepo.GetByID(id)
}

// ListForUser returns the requests of a user
func (s *JoinRequestService) ListForUser(userID uuid.UUID) ([]*domain.JoinRequest, error) {
	return s.joinRequestRepo.GetByUser(userID)
}

// ListPending returns requests awaiting review
func (s *JoinRequestService) ListPending() ([]*domain.JoinRequest, error) {
	return s.joinRequestRepo.GetByStatus(domain.JoinRequestPending)
}

// ListAll returns every request
func (s *JoinRequestService) ListAll() ([]*domain.JoinRequest, error) {
	return s.joinRequestRepo.GetAll()
}
