package handler

import (
	"net/http"

	"github.com/dafibh/committee/committee-backend/internal/middleware"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// SubmitPaymentRequest represents a monthly payment submission
type SubmitPaymentRequest struct {
	CommitteeID string          `json:"committeeId"`
	Amount      decimal.Decimal `json:"amount"`
	ReceiptPath *string         `json:"receiptPath"`
}

// RemindersResponse reports how many reminders were sent
type RemindersResponse struct {
	Sent int `json:"sent"`
}

// SubmitPayment handles POST /payments
func (h *PaymentHandler) SubmitPayment(c echo.Context) error {
	var req SubmitPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	committeeID, err := uuid.Parse(req.CommitteeID)
	if err != nil {
		return invalidIDError(c, "committeeId")
	}

	payment, err := h.paymentService.SubmitPayment(middleware.GetUserID(c), service.SubmitPaymentInput{
		CommitteeID: committeeID,
		Amount:      req.Amount,
		ReceiptURL:  req.ReceiptPath,
	})
	if err != nil {
		return respondServiceError(c, err, "Failed to submit payment")
	}
	return c.JSON(http.StatusCreated, payment)
}

// ListMine handles GET /payments/mine
func (h *PaymentHandler) ListMine(c echo.Context) error {
	payments, err := h.paymentService.ListForUser(middleware.GetUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Failed to list payments")
	}
	return c.JSON(http.StatusOK, payments)
}

// ListAll handles GET /admin/payments
func (h *PaymentHandler) ListAll(c echo.Context) error {
	payments, err := h.paymentService.ListPayments()
	if err != nil {
		return respondServiceError(c, err, "Failed to list payments")
	}
	return c.JSON(http.StatusOK, payments)
}

// ListPending handles GET /admin/payments/pending
func (h *PaymentHandler) ListPending(c echo.Context) error {
	payments, err := h.paymentService.ListPending()
	if err != nil {
		return respondServiceError(c, err, "Failed to list payments")
	}
	return c.JSON(http.StatusOK, payments)
}

// Approve handles POST /admin/payments/:id/approve
func (h *PaymentHandler) Approve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	var req ReviewRemarksRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	payment, err := h.paymentService.ApprovePayment(middleware.GetUserID(c), id, req.Remarks)
	if err != nil {
		return respondServiceError(c, err, "Failed to approve payment")
	}
	return c.JSON(http.StatusOK, payment)
}

// Reject handles POST /admin/payments/:id/reject
func (h *PaymentHandler) Reject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	var req ReviewRemarksRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	payment, err := h.paymentService.RejectPayment(middleware.GetUserID(c), id, req.Remarks)
	if err != nil {
		return respondServiceError(c, err, "Failed to reject payment")
	}
	return c.JSON(http.StatusOK, payment)
}

// DeletePayment handles DELETE /admin/payments/:id
func (h *PaymentHandler) DeletePayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	if err := h.paymentService.DeletePayment(id); err != nil {
		return respondServiceError(c, err, "Failed to delete payment")
	}
	return c.NoContent(http.StatusNoContent)
}

// SendReminders handles POST /admin/committees/:id/reminders
func (h *PaymentHandler) SendReminders(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	sent, err := h.paymentService.SendDueReminders(id)
	if err != nil {
		return respondServiceError(c, err, "Failed to send reminders")
	}
	return c.JSON(http.StatusOK, RemindersResponse{Sent: sent})
}
