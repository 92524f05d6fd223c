package handler

import (
	"log/slog"
	"net/http"
	"time"

	"beacon/internal/delivery/http/response"
	"beacon/internal/domain/entity"
	"beacon/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AdminHandlerParams holds dependencies for AdminHandler, injected by Fx.
type AdminHandlerParams struct {
	fx.In

	PresenceUC usecase.PresenceUsecase
	DeliveryUC usecase.DeliveryUsecase
	Logger     *slog.Logger
}

// AdminHandler serves operator endpoints
type AdminHandler struct {
	presenceUC usecase.PresenceUsecase
	deliveryUC usecase.DeliveryUsecase
	logger     *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler
func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{
		presenceUC: params.PresenceUC,
		deliveryUC: params.DeliveryUC,
		logger:     params.Logger,
	}
}

// BroadcastRequest represents the request body for a system-wide announcement
type BroadcastRequest struct {
	Type    string `json:"type" validate:"required,max=100"`
	Title   string `json:"title" validate:"required,max=255"`
	Message string `json:"message" validate:"required"`
}

// Presence returns which users are connected across all instances
func (h *AdminHandler) Presence(c echo.Context) error {
	snapshot, err := h.presenceUC.Snapshot(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, snapshot, "Presence retrieved successfully")
}

// Broadcast sends a transient notification to every live connection.
// Broadcasts are not stored and are never replayed.
func (h *AdminHandler) Broadcast(c echo.Context) error {
	var req BroadcastRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid broadcast input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	now := time.Now()
	notification := &entity.Notification{
		ID:        uuid.New(),
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	h.deliveryUC.BroadcastAll(c.Request().Context(), notification)

	return response.Success(c, http.StatusAccepted, notification, "Broadcast accepted")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
