package handler

import (
	"net/http"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/middleware"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile and verification HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents the update profile request. Omitted fields
// are left unchanged.
type UpdateProfileRequest struct {
	Name        *string             `json:"name"`
	Username    *string             `json:"username"`
	Phone       *string             `json:"phone"`
	CNIC        *string             `json:"cnic"`
	Address     *string             `json:"address"`
	City        *string             `json:"city"`
	State       *string             `json:"state"`
	Pin         *string             `json:"pin"`
	BankDetails *domain.BankDetails `json:"bankDetails"`
}

// SubmitVerificationRequest carries uploaded document paths keyed by type
type SubmitVerificationRequest struct {
	Documents  map[domain.DocumentType]string `json:"documents"`
	Guarantors []domain.Guarantor             `json:"guarantors"`
}

// ReviewRequest is an admin approve/reject decision
type ReviewRequest struct {
	Approve bool    `json:"approve"`
	Remarks *string `json:"remarks"`
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	user, err := h.profileService.GetProfile(middleware.GetUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Failed to get profile")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	userID := middleware.GetUserID(c)
	user, err := h.profileService.UpdateProfile(userID, service.ProfileUpdate{
		Name:        req.Name,
		Username:    req.Username,
		Phone:       req.Phone,
		CNIC:        req.CNIC,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Pin:         req.Pin,
		BankDetails: req.BankDetails,
	})
	if err != nil {
		return respondServiceError(c, err, "Failed to update profile")
	}

	log.Info().Str("user_id", userID.String()).Msg("Profile updated")
	return c.JSON(http.StatusOK, user)
}

// SubmitVerification handles POST /profile/verification
func (h *ProfileHandler) SubmitVerification(c echo.Context) error {
	var req SubmitVerificationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.profileService.SubmitVerification(middleware.GetUserID(c), service.VerificationSubmission{
		Documents:  req.Documents,
		Guarantors: req.Guarantors,
	})
	if err != nil {
		return respondServiceError(c, err, "Failed to submit verification")
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /admin/users
func (h *ProfileHandler) ListUsers(c echo.Context) error {
	users, err := h.profileService.ListUsers()
	if err != nil {
		return respondServiceError(c, err, "Failed to list users")
	}
	return c.JSON(http.StatusOK, users)
}

// ListPendingVerifications handles GET /admin/verifications/pending
func (h *ProfileHandler) ListPendingVerifications(c echo.Context) error {
	users, err := h.profileService.ListPendingVerifications()
	if err != nil {
		return respondServiceError(c, err, "Failed to list pending verifications")
	}
	return c.JSON(http.StatusOK, users)
}

// ReviewVerification handles POST /admin/users/:id/verification
func (h *ProfileHandler) ReviewVerification(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.profileService.ReviewVerification(userID, req.Approve, req.Remarks)
	if err != nil {
		return respondServiceError(c, err, "Failed to review verification")
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("reviewer_id", middleware.GetUserID(c).String()).
		Bool("approved", req.Approve).
		Msg("Verification reviewed")
	return c.JSON(http.StatusOK, user)
}
