package impl

import (
	"context"
	"time"

	"beacon/internal/domain/entity"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/repository"
	"beacon/internal/errors"
	"beacon/internal/usecase"
)

type deviceService struct {
	deviceRepo repository.DeviceRepository
}

// NewDeviceService creates a new device service instance
func NewDeviceService(deviceRepo repository.DeviceRepository) usecase.DeviceUsecase {
	return &deviceService{
		deviceRepo: deviceRepo,
	}
}

// RegisterDevice registers a new device or moves an existing token to this user
func (s *deviceService) RegisterDevice(ctx context.Context, userID string, deviceInfo *usecase.DeviceInfo) (*entity.UserDevice, error) {
	now := time.Now()
	device := &entity.UserDevice{
		UserID:    userID,
		FCMToken:  deviceInfo.FCMToken,
		Platform:  deviceInfo.Platform,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.deviceRepo.UpsertDevice(ctx, device); err != nil {
		return nil, errors.Wrap(err, "failed to register device")
	}

	return device, nil
}

// GetUserDevices retrieves all devices for a user
func (s *deviceService) GetUserDevices(ctx context.Context, userID string) ([]*entity.UserDevice, error) {
	devices, err := s.deviceRepo.FindDevicesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find devices by user")
	}

	return devices, nil
}

// RemoveDevice unregisters a user's device token
func (s *deviceService) RemoveDevice(ctx context.Context, userID, fcmToken string) error {
	if err := s.deviceRepo.DeleteDeviceByToken(ctx, userID, fcmToken); err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return domainerrors.ErrDeviceNotFound
		}

		return errors.Wrap(err, "failed to remove device")
	}

	return nil
}
