package service

import (
	"fmt"
	"strings"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string
	Username    *string
	Phone       *string
	CNIC        *string
	Address     *string
	City        *string
	State       *string
	Pin         *string
	BankDetails *domain.BankDetails
}

// VerificationSubmission is the document set a user sends for review
type VerificationSubmission struct {
	Documents  map[domain.DocumentType]string
	Guarantors []domain.Guarantor
}

// ProfileService handles profile and verification business logic
type ProfileService struct {
	userRepo domain.UserRepository
	notifier *NotificationService
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository, notifier *NotificationService) *ProfileService {
	return &ProfileService{userRepo: userRepo, notifier: notifier}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile applies the non-nil fields of update. The user is notified the
// first time the profile becomes complete.
func (s *ProfileService) UpdateProfile(userID uuid.UUID, update ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	wasComplete := user.IsProfileComplete()

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if len(name) > domain.MaxFullNameLength {
			return nil, domain.ErrFullNameTooLong
		}
		user.Name = &name
	}
	if update.Pin != nil {
		if err := domain.ValidatePin(*update.Pin); err != nil {
			return nil, err
		}
		user.Pin = update.Pin
	}
	setTrimmed(&user.Username, update.Username)
	setTrimmed(&user.Phone, update.Phone)
	setTrimmed(&user.CNIC, update.CNIC)
	setTrimmed(&user.Address, update.Address)
	setTrimmed(&user.City, update.City)
	setTrimmed(&user.State, update.State)
	if update.BankDetails != nil {
		user.BankDetails = update.BankDetails
	}

	updated, err := s.userRepo.Update(user)
	if err != nil {
		return nil, err
	}

	if !wasComplete && updated.IsProfileComplete() {
		s.notifier.notifyQuietly(updated.ID, domain.NotificationProfileCompleted,
			"Profile Completed",
			"Your profile is complete. Submit your documents to get verified.",
			nil)
	}

	return updated, nil
}

// SubmitVerification records the user's documents and guarantors and queues
// the user for admin review.
func (s *ProfileService) SubmitVerification(userID uuid.UUID, submission VerificationSubmission) (*domain.User, error) {
	for docType := range submission.Documents {
		if !domain.IsValidDocumentType(docType) {
			return nil, domain.ErrInvalidDocumentType
		}
	}
	for _, required := range domain.RequiredDocuments {
		if strings.TrimSpace(submission.Documents[required]) == "" {
			return nil, domain.ErrDocumentsRequired
		}
	}
	if len(submission.Guarantors) == 0 {
		return nil, domain.ErrGuarantorsRequired
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	user.Documents = submission.Documents
	user.Guarantors = submission.Guarantors
	user.DocumentsSubmitted = true
	user.AdminReviewed = false
	user.VerificationStatus = domain.VerificationPending
	user.VerificationRemarks = nil

	updated, err := s.userRepo.Update(user)
	if err != nil {
		return nil, err
	}

	relatedID := updated.ID
	if err := s.notifier.NotifyAdmins(domain.NotificationVerificationSubmitted,
		"Verification Submitted",
		fmt.Sprintf("%s submitted documents for verification.", updated.DisplayName()),
		&relatedID); err != nil {
		log.Warn().Err(err).Str("user_id", updated.ID.String()).Msg("Failed to notify admins of verification")
	}

	log.Info().Str("user_id", updated.ID.String()).Msg("Verification submitted")
	return updated, nil
}

// ReviewVerification approves or rejects a pending verification. Rejections
// require remarks.
func (s *ProfileService) ReviewVerification(userID uuid.UUID, approve bool, remarks *string) (*domain.User, error) {
	remarks, err := normalizeRemarks(remarks, !approve)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.VerificationStatus != domain.VerificationPending {
		return nil, domain.ErrVerificationNotPending
	}

	user.AdminReviewed = true
	user.VerificationRemarks = remarks
	title, message := "Verification Approved", "Your account is verified. You can now join committees."
	if approve {
		user.VerificationStatus = domain.VerificationApproved
	} else {
		user.VerificationStatus = domain.VerificationRejected
		title, message = "Verification Rejected", "Your verification was rejected: "+*remarks
	}

	updated, err := s.userRepo.Update(user)
	if err != nil {
		return nil, err
	}

	s.notifier.notifyQuietly(updated.ID, domain.NotificationProfileCompleted, title, message, nil)
	return updated, nil
}

// ListUsers returns every user
func (s *ProfileService) ListUsers() ([]*domain.User, error) {
	return s.userRepo.GetAll()
}

// ListPendingVerifications returns users waiting for review
func (s *ProfileService) ListPendingVerifications() ([]*domain.User, error) {
	return s.userRepo.GetByVerificationStatus(domain.VerificationPending)
}

func setTrimmed(dst **string, value *string) {
	if value == nil {
		return
	}
	v := strings.TrimSpace(*value)
	*dst = &v
}

// normalizeRemarks trims remarks, enforcing presence when required and the
// length limit always. Blank optional remarks become nil.
func normalizeRemarks(remarks *string, required bool) (*string, error) {
	var trimmed string
	if remarks != nil {
		trimmed = strings.TrimSpace(*remarks)
	}
	if trimmed == "" {
		if required {
			return nil, domain.ErrRemarksRequired
		}
		return nil, nil
	}
	if len(trimmed) > domain.MaxRemarksLength {
		return nil, domain.ErrRemarksTooLong
	}
	return &trimmed, nil
}
