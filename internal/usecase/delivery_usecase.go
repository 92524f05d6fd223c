package usecase

import (
	"context"

	"beacon/internal/domain/entity"
)

// DeliveryUsecase pushes notifications to live connections on any gateway instance
type DeliveryUsecase interface {
	// PushToUser sends a notification to every connection of its recipient.
	// It returns false without error when the recipient is offline, and marks the
	// notification delivered exactly once when it was handed to the fan-out bus.
	PushToUser(ctx context.Context, userID string, notification *entity.Notification) (bool, error)

	// BroadcastAll sends a notification to every connection without tracking delivery
	BroadcastAll(ctx context.Context, notification *entity.Notification)
}
