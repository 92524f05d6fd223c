// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"beacon/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for notification persistence.
var (
	// ErrNotificationNotFound is returned when a notification is not found or belongs to another user.
	ErrNotificationNotFound = errors.New("notification not found")
)

// NotificationRepository defines the interface for notification-related database operations.
type NotificationRepository interface {
	// CreateNotification persists a new undelivered, unread notification.
	// When IdempotencyKey is set and already stored, the existing row is loaded into notification instead.
	CreateNotification(ctx context.Context, notification *entity.Notification) error

	// FindNotificationByID retrieves a notification by its unique ID.
	FindNotificationByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)

	// MarkDelivered flags a notification as delivered and refreshes its delivery timestamp.
	MarkDelivered(ctx context.Context, id uuid.UUID) error

	// MarkRead flags a notification as read, scoped to its owner.
	MarkRead(ctx context.Context, id uuid.UUID, userID string) (*entity.Notification, error)

	// MarkAllRead flags every unread notification of a user as read and returns how many changed.
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	// FindUndelivered returns every undelivered notification of a user in insertion order.
	FindUndelivered(ctx context.Context, userID string) ([]*entity.Notification, error)

	// ListPaged returns one page of a user's notifications, newest first.
	ListPaged(ctx context.Context, userID string, page, limit int) (*entity.NotificationPage, error)

	// UnreadCount returns the number of unread notifications of a user.
	UnreadCount(ctx context.Context, userID string) (int64, error)
}
