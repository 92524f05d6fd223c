package repository

import (
	"context"

	"beacon/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for device persistence.
var (
	// ErrDeviceNotFound is returned when a device is not found.
	ErrDeviceNotFound = errors.New("device not found")
)

// DeviceRepository defines the interface for device-related database operations.
type DeviceRepository interface {
	// UpsertDevice registers a token for a user, moving it over if another user held it.
	UpsertDevice(ctx context.Context, device *entity.UserDevice) error

	// FindDevicesByUser retrieves all devices for a specific user.
	FindDevicesByUser(ctx context.Context, userID string) ([]*entity.UserDevice, error)

	// DeleteDeviceByToken removes a user's device by its FCM token.
	DeleteDeviceByToken(ctx context.Context, userID, fcmToken string) error

	// DeleteDevicesByTokens removes devices whose tokens were rejected by the push provider.
	DeleteDevicesByTokens(ctx context.Context, fcmTokens []string) (int64, error)
}
