package impl

import (
	"context"

	"beacon/internal/domain/entity"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/repository"
	"beacon/internal/errors"
	"beacon/internal/usecase"

	"github.com/google/uuid"
)

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(notificationRepo repository.NotificationRepository) usecase.NotificationUsecase {
	return &notificationService{
		notificationRepo: notificationRepo,
	}
}

// ListNotifications returns one page of the user's notifications
func (s *notificationService) ListNotifications(ctx context.Context, userID string, page, limit int) (*entity.NotificationPage, error) {
	result, err := s.notificationRepo.ListPaged(ctx, userID, page, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}

	return result, nil
}

// UnreadCount returns how many of the user's notifications are unread
func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}

	return count, nil
}

// MarkRead marks a notification read only when it belongs to userID.
func (s *notificationService) MarkRead(ctx context.Context, userID string, notificationID uuid.UUID) (*entity.Notification, error) {
	notification, err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return nil, domainerrors.ErrNotificationNotFound
		}

		return nil, errors.Wrap(err, "failed to mark notification read")
	}

	return notification, nil
}

// MarkAllRead marks every unread notification of the user as read
func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to mark all notifications read")
	}

	return updated, nil
}
