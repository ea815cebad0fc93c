package handler

import (
	"net/http"

	"github.com/dafibh/committee/committee-backend/internal/middleware"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// JoinRequestHandler handles join request HTTP requests
type JoinRequestHandler struct {
	joinRequestService *service.JoinRequestService
}

// NewJoinRequestHandler creates a new JoinRequestHandler
func NewJoinRequestHandler(joinRequestService *service.JoinRequestService) *JoinRequestHandler {
	return &JoinRequestHandler{joinRequestService: joinRequestService}
}

// CreateJoinRequestRequest represents the create join request body
type CreateJoinRequestRequest struct {
	CommitteeID   string `json:"committeeId"`
	PreferredSlot *int32 `json:"preferredSlot"`
}

// ReviewRemarksRequest carries optional (approve) or required (reject) remarks
type ReviewRemarksRequest struct {
	Remarks *string `json:"remarks"`
}

// CreateJoinRequest handles POST /join-requests
func (h *JoinRequestHandler) CreateJoinRequest(c echo.Context) error {
	var req CreateJoinRequestRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	committeeID, err := uuid.Parse(req.CommitteeID)
	if err != nil {
		return invalidIDError(c, "committeeId")
	}

	userID := middleware.GetUserID(c)
	created, err := h.joinRequestService.CreateJoinRequest(userID, committeeID, req.PreferredSlot)
	if err != nil {
		return respondServiceError(c, err, "Failed to create join request")
	}

	log.Info().
		Str("join_request_id", created.ID.String()).
		Str("user_id", userID.String()).
		Str("committee_id", committeeID.String()).
		Msg("Join request created")
	return c.JSON(http.StatusCreated, created)
}

// ListMine handles GET /join-requests/mine
func (h *JoinRequestHandler) ListMine(c echo.Context) error {
	requests, err := h.joinRequestService.ListForUser(middleware.GetUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Failed to list join requests")
	}
	return c.JSON(http.StatusOK, requests)
}

// DeleteJoinRequest handles DELETE /join-requests/:id
func (h *JoinRequestHandler) DeleteJoinRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	if err := h.joinRequestService.DeleteJoinRequest(middleware.GetUserID(c), middleware.GetRole(c), id); err != nil {
		return respondServiceError(c, err, "Failed to delete join request")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAll handles GET /admin/join-requests
func (h *JoinRequestHandler) ListAll(c echo.Context) error {
	requests, err := h.joinRequestService.ListAll()
	if err != nil {
		return respondServiceError(c, err, "Failed to list join requests")
	}
	return c.JSON(http.StatusOK, requests)
}

// ListPending handles GET /admin/join-requests/pending
func (h *JoinRequestHandler) ListPending(c echo.Context) error {
	requests, err := h.joinRequestService.ListPending()
	if err != nil {
		return respondServiceError(c, err, "Failed to list join requests")
	}
	return c.JSON(http.StatusOK, requests)
}

// Approve handles POST /admin/join-requests/:id/approve
func (h *JoinRequestHandler) Approve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	var req ReviewRemarksRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	approved, err := h.joinRequestService.ApproveJoinRequest(c.Request().Context(), middleware.GetUserID(c), id, req.Remarks)
	if err != nil {
		return respondServiceError(c, err, "Failed to approve join request")
	}
	return c.JSON(http.StatusOK, approved)
}

// Reject handles POST /admin/join-requests/:id/reject
func (h *JoinRequestHandler) Reject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	var req ReviewRemarksRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	rejected, err := h.joinRequestService.RejectJoinRequest(middleware.GetUserID(c), id, req.Remarks)
	if err != nil {
		return respondServiceError(c, err, "Failed to reject join request")
	}
	return c.JSON(http.StatusOK, rejected)
}
