package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"beacon/internal/delivery/http/response"
	"beacon/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// NotificationHandlerParams holds dependencies for NotificationHandler, injected by Fx.
type NotificationHandlerParams struct {
	fx.In

	NotificationUC usecase.NotificationUsecase
	ReplayUC       usecase.ReplayUsecase
	Logger         *slog.Logger
}

// NotificationHandler holds dependencies for notification-related handlers
type NotificationHandler struct {
	notificationUC usecase.NotificationUsecase
	replayUC       usecase.ReplayUsecase
	logger         *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler
func NewNotificationHandler(params NotificationHandlerParams) *NotificationHandler {
	return &NotificationHandler{
		notificationUC: params.NotificationUC,
		replayUC:       params.ReplayUC,
		logger:         params.Logger,
	}
}

// ListNotifications returns a page of the caller's notifications, newest first.
// page is 0-based; a missing or invalid limit falls back to the configured default.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	page := 0
	if pageStr := c.QueryParam("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 0 {
			return response.BadRequest(c, "VALIDATION_ERROR", "page must be a non-negative integer")
		}
		page = parsed
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return response.BadRequest(c, "VALIDATION_ERROR", "limit must be a positive integer")
		}
		limit = parsed
	}

	result, err := h.notificationUC.ListNotifications(c.Request().Context(), userID, page, limit)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Notifications retrieved successfully")
}

// UnreadCount returns the caller's unread notification count
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	count, err := h.notificationUC.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"count": count}, "Unread count retrieved successfully")
}

// MarkRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "Invalid notification ID")
	}

	notification, err := h.notificationUC.MarkRead(c.Request().Context(), userID, notificationID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, notification, "Notification marked as read")
}

// MarkAllRead marks every unread notification of the caller as read
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	updated, err := h.notificationUC.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"updated": updated}, "All notifications marked as read")
}

// Replay re-sends the caller's undelivered notifications to their live connections
func (h *NotificationHandler) Replay(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	pending, err := h.replayUC.ReplayUndelivered(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"replayed": len(pending)}, "Replay completed")
}
