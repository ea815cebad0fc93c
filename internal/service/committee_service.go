package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/payout"
	"github.com/dafibh/committee/committee-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var ErrEstimateInvalid = errors.New("amount and duration must be positive")

// CommitteeInput holds the admin-editable committee fields
type CommitteeInput struct {
	Name        string
	Description *string
	Amount      decimal.Decimal
	MemberCount int32
	Duration    int32
	StartDate   time.Time
	Status      domain.CommitteeStatus
}

// SlotReport is the allocation state of a committee
type SlotReport struct {
	CommitteeID uuid.UUID             `json:"committeeId"`
	Validation  payout.SlotValidation `json:"validation"`
	Summary     payout.SlotSummary    `json:"summary"`
}

// FeeEstimate is what a member at a slot receives and pays
type FeeEstimate struct {
	Amount              decimal.Decimal `json:"amount"`
	Duration            int             `json:"duration"`
	Slot                int             `json:"slot"`
	FeePercentage       decimal.Decimal `json:"feePercentage"`
	FeeAmount           decimal.Decimal `json:"feeAmount"`
	NetPayout           decimal.Decimal `json:"netPayout"`
	OriginationFee      decimal.Decimal `json:"originationFee"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	TotalPayable        decimal.Decimal `json:"totalPayable"`
}

// CommitteeService handles committee business logic
type CommitteeService struct {
	transactor     domain.Transactor
	committeeRepo  domain.CommitteeRepository
	payoutRepo     domain.PayoutRepository
	eventPublisher websocket.EventPublisher
}

// NewCommitteeService creates a new CommitteeService
func NewCommitteeService(transactor domain.Transactor, committeeRepo domain.CommitteeRepository, payoutRepo domain.PayoutRepository) *CommitteeService {
	return &CommitteeService{
		transactor:    transactor,
		committeeRepo: committeeRepo,
		payoutRepo:    payoutRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CommitteeService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateCommittee creates an active committee
func (s *CommitteeService) CreateCommittee(adminID uuid.UUID, input CommitteeInput) (*domain.Committee, error) {
	committee := &domain.Committee{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Amount:      input.Amount,
		MemberCount: input.MemberCount,
		Duration:    input.Duration,
		StartDate:   input.StartDate,
		Status:      domain.CommitteeStatusActive,
		AdminID:     adminID,
	}
	if err := committee.Validate(); err != nil {
		return nil, err
	}
	committee.CurrentRound = committee.RoundAt(time.Now())

	created, err := s.committeeRepo.Create(committee)
	if err != nil {
		return nil, err
	}
	log.Info().Str("committee_id", created.ID.String()).Str("admin_id", adminID.String()).Msg("Committee created")
	return created, nil
}

// UpdateCommittee replaces the editable fields. The member count cannot drop
// below the current membership, and duration and start date are fixed once a
// payout has been scheduled. The check runs under the committee row lock so it
// cannot race a slot reservation.
func (s *CommitteeService) UpdateCommittee(ctx context.Context, id uuid.UUID, input CommitteeInput) (*domain.Committee, error) {
	if input.Status != "" && !domain.IsValidCommitteeStatus(input.Status) {
		return nil, domain.ErrCommitteeStatusInvalid
	}

	err := s.transactor.WithTx(ctx, func(tx any) error {
		current, err := s.committeeRepo.GetByIDForUpdateTx(tx, id)
		if err != nil {
			return err
		}
		if current.Duration != input.Duration || !current.StartDate.Equal(input.StartDate) {
			scheduled, err := s.payoutRepo.GetByCommitteeTx(tx, id)
			if err != nil {
				return err
			}
			if len(scheduled) > 0 {
				return domain.ErrCommitteeScheduleLocked
			}
		}

		committee := *current
		committee.Name = strings.TrimSpace(input.Name)
		committee.Description = input.Description
		committee.Amount = input.Amount
		committee.MemberCount = input.MemberCount
		committee.Duration = input.Duration
		committee.StartDate = input.StartDate
		if input.Status != "" {
			committee.Status = input.Status
		}
		if err := committee.Validate(); err != nil {
			return err
		}
		if int(committee.MemberCount) < len(committee.Members) {
			return domain.ErrCommitteeMembersInvalid
		}
		return s.committeeRepo.UpdateTx(tx, &committee)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.committeeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s.eventPublisher != nil {
		for _, memberID := range updated.Members {
			s.eventPublisher.Publish(memberID, websocket.CommitteeUpdated(updated))
		}
	}
	return updated, nil
}

// DeleteCommittee removes a committee that has no payouts
func (s *CommitteeService) DeleteCommittee(id uuid.UUID) error {
	if _, err := s.committeeRepo.GetByID(id); err != nil {
		return err
	}
	count, err := s.payoutRepo.CountByCommittee(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCommitteeHasPayouts
	}
	return s.committeeRepo.Delete(id)
}

// GetCommittee retrieves a committee by ID
func (s *CommitteeService) GetCommittee(id uuid.UUID) (*domain.Committee, error) {
	return s.committeeRepo.GetByID(id)
}

// ListCommittees returns every committee
func (s *CommitteeService) ListCommittees() ([]*domain.Committee, error) {
	return s.committeeRepo.GetAll()
}

// ListAvailable returns active committees with open seats
func (s *CommitteeService) ListAvailable() ([]*domain.Committee, error) {
	return s.committeeRepo.GetAvailable()
}

// ListForMember returns the committees userID belongs to
func (s *CommitteeService) ListForMember(userID uuid.UUID) ([]*domain.Committee, error) {
	return s.committeeRepo.GetByMember(userID)
}

// GetMembers lists the members of a committee with their slots
func (s *CommitteeService) GetMembers(committeeID uuid.UUID) ([]*domain.CommitteeMember, error) {
	if _, err := s.committeeRepo.GetByID(committeeID); err != nil {
		return nil, err
	}
	return s.committeeRepo.GetMembers(committeeID)
}

// SlotReport validates the committee's slot allocation
func (s *CommitteeService) SlotReport(committeeID uuid.UUID) (*SlotReport, error) {
	pc, holdings, err := s.allocation(committeeID)
	if err != nil {
		return nil, err
	}

	report := &SlotReport{
		CommitteeID: committeeID,
		Validation:  payout.ValidateSlots(pc, holdings),
		Summary:     payout.Summary(pc, holdings),
	}
	if !report.Validation.IsValid {
		log.Warn().
			Str("committee_id", committeeID.String()).
			Strs("conflicts", report.Validation.Conflicts).
			Msg("Slot conflicts detected")
	}
	return report, nil
}

// CheckSlot reports whether userID could take slot
func (s *CommitteeService) CheckSlot(committeeID uuid.UUID, slot int, userID uuid.UUID) (payout.PreferredSlot, error) {
	pc, holdings, err := s.allocation(committeeID)
	if err != nil {
		return payout.PreferredSlot{}, err
	}
	check := payout.ValidatePreferredSlot(pc, holdings, slot, userID.String())
	if !check.Valid {
		check.SuggestedSlot, _ = nextFreeSlot(pc, holdings)
	}
	return check, nil
}

// FeeTable returns the early-payout fee of every slot of a committee
func (s *CommitteeService) FeeTable(committeeID uuid.UUID) (map[int]decimal.Decimal, error) {
	committee, err := s.committeeRepo.GetByID(committeeID)
	if err != nil {
		return nil, err
	}
	return payout.FeeTable(int(committee.Duration)), nil
}

// Estimate computes the payout and contribution figures for a slot
func (s *CommitteeService) Estimate(amount decimal.Decimal, duration, slot int) (*FeeEstimate, error) {
	if !amount.IsPositive() || duration <= 0 {
		return nil, ErrEstimateInvalid
	}
	amounts := payout.Breakdown(amount, duration, slot)
	return &FeeEstimate{
		Amount:              amount,
		Duration:            duration,
		Slot:                slot,
		FeePercentage:       amounts.FeePercentage,
		FeeAmount:           amounts.FeeAmount,
		NetPayout:           amounts.NetAmount,
		OriginationFee:      payout.OriginationFee(amount, duration),
		MonthlyContribution: payout.MonthlyContribution(amount, duration, slot),
		TotalPayable:        payout.TotalPayable(amount, duration, slot),
	}, nil
}

func (s *CommitteeService) allocation(committeeID uuid.UUID) (payout.Committee, []payout.Holding, error) {
	committee, err := s.committeeRepo.GetByID(committeeID)
	if err != nil {
		return payout.Committee{}, nil, err
	}
	payouts, err := s.payoutRepo.GetByCommittee(committeeID)
	if err != nil {
		return payout.Committee{}, nil, err
	}
	return toPayoutCommittee(committee), toHoldings(payouts), nil
}
