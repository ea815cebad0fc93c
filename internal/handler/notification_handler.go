package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/committee/committee-backend/internal/middleware"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// CountResponse wraps a count
type CountResponse struct {
	Count int64 `json:"count"`
}

// List handles GET /notifications?limit=
func (h *NotificationHandler) List(c echo.Context) error {
	var limit int32
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "limit", Message: "Must be a whole number"},
			})
		}
		limit = int32(n)
	}

	notifications, err := h.notificationService.List(middleware.GetUserID(c), limit)
	if err != nil {
		return respondServiceError(c, err, "Failed to list notifications")
	}
	return c.JSON(http.StatusOK, notifications)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	count, err := h.notificationService.UnreadCount(middleware.GetUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Failed to count notifications")
	}
	return c.JSON(http.StatusOK, CountResponse{Count: count})
}

// MarkRead handles PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}
	if err := h.notificationService.MarkRead(middleware.GetUserID(c), id); err != nil {
		return respondServiceError(c, err, "Failed to mark notification read")
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead handles PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	count, err := h.notificationService.MarkAllRead(middleware.GetUserID(c))
	if err != nil {
		return respondServiceError(c, err, "Failed to mark notifications read")
	}
	return c.JSON(http.StatusOK, CountResponse{Count: count})
}
