package usecase

import (
	"context"

	"beacon/internal/domain/entity"

	"github.com/google/uuid"
)

// NotificationUsecase defines the read-side operations a recipient performs on their notifications
type NotificationUsecase interface {
	// ListNotifications returns one page of the user's notifications, newest first
	ListNotifications(ctx context.Context, userID string, page, limit int) (*entity.NotificationPage, error)

	// UnreadCount returns how many of the user's notifications are unread
	UnreadCount(ctx context.Context, userID string) (int64, error)

	// MarkRead marks one of the user's notifications as read
	MarkRead(ctx context.Context, userID string, notificationID uuid.UUID) (*entity.Notification, error)

	// MarkAllRead marks every unread notification of the user as read
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}
