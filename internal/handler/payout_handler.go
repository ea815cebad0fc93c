package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/committee/committee-backend/internal/middleware"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PayoutHandler handles payout HTTP requests
type PayoutHandler struct {
	payoutService *service.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payoutService *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// CreatePayoutRequest represents the create payout request. Slot is optional.
type CreatePayoutRequest struct {
	CommitteeID string          `json:"committeeId"`
	UserID      string          `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Slot        int             `json:"slot"`
}

// AttachReceiptRequest carries an uploaded receipt path
type AttachReceiptRequest struct {
	ReceiptPath string `json:"receiptPath"`
}

// CreatePayout handles POST /admin/payouts
func (h *PayoutHandler) CreatePayout(c echo.Context) error {
	var req CreatePayoutRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	committeeID, err := uuid.Parse(req.CommitteeID)
	if err != nil {
		return invalidIDError(c, "committeeId")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return invalidIDError(c, "userId")
	}

	created, err := h.payoutService.CreatePayout(c.Request().Context(), middleware.GetUserID(c), service.CreatePayoutInput{
		CommitteeID: committeeID,
		UserID:      userID,
		Amount:      req.Amount,
		Slot:        req.Slot,
	})
	if err != nil {
		return respondServiceError(c, err, "Failed to create payout")
	}
	return c.JSON(http.StatusCreated, created)
}

// PreviewPayout handles GET /payouts/preview?committeeId=&amount=&slot=
func (h *PayoutHandler) PreviewPayout(c echo.Context) error {
	committeeID, err := uuid.Parse(c.QueryParam("committeeId"))
	if err != nil {
		return invalidIDError(c, "committeeId")
	}
	amount, err := decimal.NewFromString(c.QueryParam("amount"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Must be a number"},
		})
	}
	var slot int
	if raw := c.QueryParam("slot"); raw != "" {
		if slot, err = strconv.Atoi(raw); err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "slot", Message: "Must be a whole number"},
			})
		}
	}

	preview, err := h.payoutService.PreviewPayout(committeeID, amount, slot)
	if err != nil {
		return respondServiceError(c, err, "Failed to preview payout")
	}
	return c.JSON(http.StatusOK, preview)
}

// ListMine handles GET /payouts/mine
func (h *PayoutHandler) ListMine(c echo.Context) error {
	payouts, err := h.payoutService.ListForUser(middleware.GetUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Failed to list payouts")
	}
	return c.JSON(http.StatusOK, payouts)
}

// ListAll handles GET /admin/payouts, optionally filtered by ?committeeId=
func (h *PayoutHandler) ListAll(c echo.Context) error {
	if raw := c.QueryParam("committeeId"); raw != "" {
		committeeID, err := uuid.Parse(raw)
		if err != nil {
			return invalidIDError(c, "committeeId")
		}
		payouts, err := h.payoutService.ListForCommittee(committeeID)
		if err != nil {
			return respondServiceError(c, err, "Failed to list payouts")
		}
		return c.JSON(http.StatusOK, payouts)
	}

	payouts, err := h.payoutService.ListPayouts()
	if err != nil {
		return respondServiceError(c, err, "Failed to list payouts")
	}
	return c.JSON(http.StatusOK, payouts)
}

// Complete handles POST /admin/payouts/:id/complete
func (h *PayoutHandler) Complete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	completed, err := h.payoutService.CompletePayout(id)
	if err != nil {
		return respondServiceError(c, err, "Failed to complete payout")
	}
	return c.JSON(http.StatusOK, completed)
}

// AttachReceipt handles PUT /admin/payouts/:id/receipt
func (h *PayoutHandler) AttachReceipt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	var req AttachReceiptRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	updated, err := h.payoutService.AttachReceipt(id, req.ReceiptPath)
	if err != nil {
		return respondServiceError(c, err, "Failed to attach receipt")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeletePayout handles DELETE /admin/payouts/:id
func (h *PayoutHandler) DeletePayout(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	if err := h.payoutService.DeletePayout(id); err != nil {
		return respondServiceError(c, err, "Failed to delete payout")
	}
	return c.NoContent(http.StatusNoContent)
}
