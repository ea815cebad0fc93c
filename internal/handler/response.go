package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type          string            `json:"type"`
	Title         string            `json:"title"`
	Status        int               `json:"status"`
	Detail        string            `json:"detail,omitempty"`
	Instance      string            `json:"instance,omitempty"`
	Errors        []ValidationError `json:"errors,omitempty"`
	SuggestedSlot int               `json:"suggestedSlot,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation         = "https://committee.app/errors/validation"
	ErrorTypeNotFound           = "https://committee.app/errors/not-found"
	ErrorTypeUnauthorized       = "https://committee.app/errors/unauthorized"
	ErrorTypeForbidden          = "https://committee.app/errors/forbidden"
	ErrorTypeConflict           = "https://committee.app/errors/conflict"
	ErrorTypeSlotUnavailable    = "https://committee.app/errors/slot-unavailable"
	ErrorTypeInternal           = "https://committee.app/errors/internal"
	ErrorTypeServiceUnavailable = "https://committee.app/errors/service-unavailable"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewSlotUnavailableError creates a conflict response carrying the suggested slot
func NewSlotUnavailableError(c echo.Context, slotErr domain.SlotUnavailableError) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:          ErrorTypeSlotUnavailable,
		Title:         "Slot Unavailable",
		Status:        http.StatusConflict,
		Detail:        slotErr.Reason,
		Instance:      c.Request().URL.Path,
		SuggestedSlot: slotErr.Suggested,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeServiceUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// notFoundErrors map to 404
var notFoundErrors = []error{
	domain.ErrNotFound,
	domain.ErrUserNotFound,
	domain.ErrCommitteeNotFound,
	domain.ErrPayoutNotFound,
	domain.ErrPaymentNotFound,
	domain.ErrJoinRequestNotFound,
	domain.ErrNotificationNotFound,
}

// conflictErrors are state conflicts and map to 409
var conflictErrors = []error{
	domain.ErrAlreadyExists,
	domain.ErrCommitteeFull,
	domain.ErrCommitteeNotActive,
	domain.ErrCommitteeHasPayouts,
	domain.ErrCommitteeScheduleLocked,
	domain.ErrAlreadyMember,
	domain.ErrSlotTaken,
	domain.ErrPayoutNotPending,
	domain.ErrPaymentNotPending,
	domain.ErrJoinRequestExists,
	domain.ErrJoinRequestNotPending,
	domain.ErrVerificationNotPending,
}

// validationErrors are input errors and map to 400
var validationErrors = []error{
	domain.ErrInvalidInput,
	domain.ErrNameRequired,
	domain.ErrNameTooLong,
	domain.ErrFullNameTooLong,
	domain.ErrInvalidPin,
	domain.ErrDocumentsRequired,
	domain.ErrGuarantorsRequired,
	domain.ErrInvalidDocumentType,
	domain.ErrCommitteeAmountInvalid,
	domain.ErrCommitteeMembersInvalid,
	domain.ErrCommitteeDurationInvalid,
	domain.ErrCommitteeStartRequired,
	domain.ErrCommitteeStatusInvalid,
	domain.ErrPayoutAmountInvalid,
	domain.ErrPaymentAmountInvalid,
	domain.ErrRemarksRequired,
	domain.ErrRemarksTooLong,
	domain.ErrSlotOutOfRange,
}

// forbiddenErrors map to 403
var forbiddenErrors = []error{
	domain.ErrForbidden,
	domain.ErrNotAdmin,
	domain.ErrNotMember,
	domain.ErrVerificationRequired,
}

// respondServiceError maps a service error to a problem response. Unknown
// errors are logged and become 500 with failMsg as the detail.
func respondServiceError(c echo.Context, err error, failMsg string) error {
	var slotErr domain.SlotUnavailableError
	if errors.As(err, &slotErr) {
		return NewSlotUnavailableError(c, slotErr)
	}
	switch {
	case matchesAny(err, notFoundErrors):
		return NewNotFoundError(c, err.Error())
	case matchesAny(err, conflictErrors):
		return NewConflictError(c, err.Error())
	case matchesAny(err, forbiddenErrors):
		return NewForbiddenError(c, err.Error())
	case matchesAny(err, validationErrors):
		return NewValidationError(c, err.Error(), nil)
	}

	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg(failMsg)
	return NewInternalError(c, failMsg)
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// invalidIDError responds to a malformed UUID path parameter
func invalidIDError(c echo.Context, name string) error {
	return NewValidationError(c, "Invalid "+name, []ValidationError{
		{Field: name, Message: "Must be a valid UUID"},
	})
}
