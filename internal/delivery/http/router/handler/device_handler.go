package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/delivery/http/response"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DeviceHandlerParams holds dependencies for DeviceHandler, injected by Fx.
type DeviceHandlerParams struct {
	fx.In

	DeviceUC usecase.DeviceUsecase
	Logger   *slog.Logger
}

// DeviceHandler holds dependencies for device-related handlers
type DeviceHandler struct {
	deviceUC usecase.DeviceUsecase
	logger   *slog.Logger
}

// NewDeviceHandler is the constructor for DeviceHandler
func NewDeviceHandler(params DeviceHandlerParams) *DeviceHandler {
	return &DeviceHandler{
		deviceUC: params.DeviceUC,
		logger:   params.Logger,
	}
}

// RegisterDeviceRequest represents the request body for registering a device
type RegisterDeviceRequest struct {
	FCMToken string `json:"fcm_token" validate:"required,max=512"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

// RegisterDevice handles device registration for offline push
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid device input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	deviceInfo := &usecase.DeviceInfo{
		FCMToken: req.FCMToken,
		Platform: req.Platform,
	}

	device, err := h.deviceUC.RegisterDevice(c.Request().Context(), userID, deviceInfo)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, device, "Device registered successfully")
}

// GetUserDevices handles retrieving all user devices
func (h *DeviceHandler) GetUserDevices(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	devices, err := h.deviceUC.GetUserDevices(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, devices, "Devices retrieved successfully")
}

// RemoveDevice handles device token removal
func (h *DeviceHandler) RemoveDevice(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	token := c.Param("token")
	if token == "" {
		return response.BadRequest(c, "VALIDATION_ERROR", "token is required")
	}

	if err := h.deviceUC.RemoveDevice(c.Request().Context(), userID, token); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Device removed successfully")
}

// currentUserID returns the user set by the auth middleware
func currentUserID(c echo.Context) (string, error) {
	userID := deliverycontext.GetUserID(c)
	if userID == "" {
		return "", domainerrors.ErrAuthenticationRequired
	}

	return userID, nil
}
