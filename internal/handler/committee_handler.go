package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/middleware"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CommitteeHandler handles committee-related HTTP requests
type CommitteeHandler struct {
	committeeService *service.CommitteeService
}

// NewCommitteeHandler creates a new CommitteeHandler
func NewCommitteeHandler(committeeService *service.CommitteeService) *CommitteeHandler {
	return &CommitteeHandler{committeeService: committeeService}
}

// CommitteeRequest represents the create/update committee request
type CommitteeRequest struct {
	Name        string                 `json:"name"`
	Description *string                `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	MemberCount int32                  `json:"memberCount"`
	Duration    int32                  `json:"duration"`
	StartDate   string                 `json:"startDate"`
	Status      domain.CommitteeStatus `json:"status"`
}

// FeeTableResponse lists the early-payout fee of each slot
type FeeTableResponse struct {
	CommitteeID string                  `json:"committeeId"`
	Fees        map[int]decimal.Decimal `json:"fees"`
}

func (req CommitteeRequest) toInput(start time.Time) service.CommitteeInput {
	return service.CommitteeInput{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		MemberCount: req.MemberCount,
		Duration:    req.Duration,
		StartDate:   start,
		Status:      req.Status,
	}
}

func invalidStartDateError(c echo.Context) error {
	return NewValidationError(c, "Validation failed", []ValidationError{
		{Field: "startDate", Message: "Must be a date in YYYY-MM-DD or RFC 3339 format"},
	})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// CreateCommittee handles POST /admin/committees
func (h *CommitteeHandler) CreateCommittee(c echo.Context) error {
	var req CommitteeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return invalidStartDateError(c)
	}

	committee, err := h.committeeService.CreateCommittee(middleware.GetUserID(c), req.toInput(start))
	if err != nil {
		return respondServiceError(c, err, "Failed to create committee")
	}
	return c.JSON(http.StatusCreated, committee)
}

// UpdateCommittee handles PUT /admin/committees/:id
func (h *CommitteeHandler) UpdateCommittee(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	var req CommitteeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return invalidStartDateError(c)
	}

	committee, err := h.committeeService.UpdateCommittee(c.Request().Context(), id, req.toInput(start))
	if err != nil {
		return respondServiceError(c, err, "Failed to update committee")
	}
	return c.JSON(http.StatusOK, committee)
}

// DeleteCommittee handles DELETE /admin/committees/:id
func (h *CommitteeHandler) DeleteCommittee(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	if err := h.committeeService.DeleteCommittee(id); err != nil {
		return respondServiceError(c, err, "Failed to delete committee")
	}

	log.Info().Str("committee_id", id.String()).Msg("Committee deleted")
	return c.NoContent(http.StatusNoContent)
}

// ListCommittees handles GET /admin/committees
func (h *CommitteeHandler) ListCommittees(c echo.Context) error {
	committees, err := h.committeeService.ListCommittees()
	if err != nil {
		return respondServiceError(c, err, "Failed to list committees")
	}
	return c.JSON(http.StatusOK, committees)
}

// ListAvailable handles GET /committees/available
func (h *CommitteeHandler) ListAvailable(c echo.Context) error {
	committees, err := h.committeeService.ListAvailable()
	if err != nil {
		return respondServiceError(c, err, "Failed to list committees")
	}
	return c.JSON(http.StatusOK, committees)
}

// ListMine handles GET /committees/mine
func (h *CommitteeHandler) ListMine(c echo.Context) error {
	committees, err := h.committeeService.ListForMember(middleware.GetUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Failed to list committees")
	}
	return c.JSON(http.StatusOK, committees)
}

// GetCommittee handles GET /committees/:id
func (h *CommitteeHandler) GetCommittee(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	committee, err := h.committeeService.GetCommittee(id)
	if err != nil {
		return respondServiceError(c, err, "Failed to get committee")
	}
	return c.JSON(http.StatusOK, committee)
}

// GetMembers handles GET /committees/:id/members
func (h *CommitteeHandler) GetMembers(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	members, err := h.committeeService.GetMembers(id)
	if err != nil {
		return respondServiceError(c, err, "Failed to get members")
	}
	return c.JSON(http.StatusOK, members)
}

// GetSlots handles GET /committees/:id/slots
func (h *CommitteeHandler) GetSlots(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	report, err := h.committeeService.SlotReport(id)
	if err != nil {
		return respondServiceError(c, err, "Failed to get slots")
	}
	return c.JSON(http.StatusOK, report)
}

// CheckSlot handles GET /committees/:id/slots/:slot
func (h *CommitteeHandler) CheckSlot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		return NewValidationError(c, "Invalid slot", []ValidationError{
			{Field: "slot", Message: "Must be a number"},
		})
	}

	check, err := h.committeeService.CheckSlot(id, slot, middleware.GetUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Failed to check slot")
	}
	return c.JSON(http.StatusOK, check)
}

// GetFees handles GET /committees/:id/fees
func (h *CommitteeHandler) GetFees(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	fees, err := h.committeeService.FeeTable(id)
	if err != nil {
		return respondServiceError(c, err, "Failed to get fees")
	}
	return c.JSON(http.StatusOK, FeeTableResponse{CommitteeID: id.String(), Fees: fees})
}

// EstimateFees handles GET /fees/estimate?amount=&duration=&slot=
func (h *CommitteeHandler) EstimateFees(c echo.Context) error {
	amount, err := decimal.NewFromString(c.QueryParam("amount"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Must be a number"},
		})
	}
	duration, err := strconv.Atoi(c.QueryParam("duration"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "duration", Message: "Must be a whole number"},
		})
	}
	slot, err := strconv.Atoi(c.QueryParam("slot"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "slot", Message: "Must be a whole number"},
		})
	}

	estimate, err := h.committeeService.Estimate(amount, duration, slot)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}
	return c.JSON(http.StatusOK, estimate)
}
