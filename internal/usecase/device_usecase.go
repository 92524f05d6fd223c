package usecase

import (
	"context"

	"beacon/internal/domain/entity"
)

// DeviceInfo represents device information for registration
type DeviceInfo struct {
	FCMToken string `json:"fcm_token"`
	Platform string `json:"platform"`
}

// DeviceUsecase defines the interface for offline push device management
type DeviceUsecase interface {
	// RegisterDevice registers a device token for a user, taking it over if another user held it
	RegisterDevice(ctx context.Context, userID string, deviceInfo *DeviceInfo) (*entity.UserDevice, error)

	// GetUserDevices retrieves all devices for a user
	GetUserDevices(ctx context.Context, userID string) ([]*entity.UserDevice, error)

	// RemoveDevice unregisters a user's device token
	RemoveDevice(ctx context.Context, userID, fcmToken string) error
}
