// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"beacon/config"
	"beacon/internal/domain/entity"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/repository"
	"beacon/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// notificationRepository implements the repository.NotificationRepository interface.
type notificationRepository struct {
	db           *gorm.DB
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(db *gorm.DB, cfg *config.Config) repository.NotificationRepository {
	return &notificationRepository{
		db:           db,
		defaultLimit: cfg.Pagination.DefaultLimit,
		maxLimit:     cfg.Pagination.MaxLimit,
		now:          time.Now,
	}
}

// CreateNotification persists a new notification.
func (repo *notificationRepository) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	notificationM := fromNotificationDomain(notification)
	notificationM.Delivered = false
	notificationM.DeliveredAt = nil
	notificationM.Read = false
	notificationM.ReadAt = nil

	query := repo.db.WithContext(ctx)
	if notificationM.IdempotencyKey != nil {
		query = query.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		})
	}

	result := query.Create(notificationM)
	if result.Error != nil {
		if isNotNullConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required notification information")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to create notification")
	}

	// Conflict on the idempotency key: hand back the row that already exists.
	if result.RowsAffected == 0 && notificationM.IdempotencyKey != nil {
		var existing model.NotificationModel
		if err := repo.db.WithContext(ctx).
			Clauses(dbresolver.Write).
			Where("idempotency_key = ?", *notificationM.IdempotencyKey).
			First(&existing).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to load notification by idempotency key")
		}
		*notification = *toNotificationDomain(&existing)

		return nil
	}

	// Update the entity with generated values
	notification.ID = notificationM.ID
	notification.Delivered = false
	notification.DeliveredAt = nil
	notification.Read = false
	notification.ReadAt = nil
	notification.CreatedAt = notificationM.CreatedAt
	notification.UpdatedAt = notificationM.UpdatedAt

	return nil
}

// FindNotificationByID retrieves a notification by its unique ID.
func (repo *notificationRepository) FindNotificationByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	var notificationM model.NotificationModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&notificationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotificationNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find notification by ID")
	}

	return toNotificationDomain(&notificationM), nil
}

// MarkDelivered flags a notification as delivered. Repeated calls refresh delivered_at.
func (repo *notificationRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	now := repo.now()
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"delivered":    true,
			"delivered_at": now,
			"updated_at":   now,
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark notification delivered")
	}

	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}

	return nil
}

// MarkRead flags a notification as read when it belongs to userID.
func (repo *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID string) (*entity.Notification, error) {
	now := repo.now()
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"read":       true,
			"read_at":    now,
			"updated_at": now,
		})

	if result.Error != nil {
		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark notification read")
	}

	if result.RowsAffected == 0 {
		return nil, repository.ErrNotificationNotFound
	}

	var notificationM model.NotificationModel
	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("id = ?", id).
		First(&notificationM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to reload notification")
	}

	return toNotificationDomain(&notificationM), nil
}

// MarkAllRead flags every unread notification of a user as read.
func (repo *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	now := repo.now()
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where(map[string]any{"user_id": userID, "read": false}).
		Updates(map[string]any{
			"read":       true,
			"read_at":    now,
			"updated_at": now,
		})

	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark all notifications read")
	}

	return result.RowsAffected, nil
}

// FindUndelivered returns undelivered notifications oldest first, read from the primary.
func (repo *notificationRepository) FindUndelivered(ctx context.Context, userID string) ([]*entity.Notification, error) {
	var notificationModels []*model.NotificationModel

	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where(map[string]any{"user_id": userID, "delivered": false}).
		Order("created_at ASC").
		Order("id ASC").
		Find(&notificationModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find undelivered notifications")
	}

	return toNotificationDomains(notificationModels), nil
}

// ListPaged returns page (0-based) of a user's notifications, newest first.
func (repo *notificationRepository) ListPaged(ctx context.Context, userID string, page, limit int) (*entity.NotificationPage, error) {
	page, limit = repo.normalizePage(page, limit)

	var notificationModels []*model.NotificationModel

	// One extra row tells whether another page follows.
	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Offset(page * limit).
		Find(&notificationModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list notifications")
	}

	isLastPage := len(notificationModels) <= limit
	if !isLastPage {
		notificationModels = notificationModels[:limit]
	}

	items := toNotificationDomains(notificationModels)

	return &entity.NotificationPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Count:      len(items),
		IsLastPage: isLastPage,
	}, nil
}

// UnreadCount returns the number of unread notifications of a user.
func (repo *notificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Model(&model.NotificationModel{}).
		Where(map[string]any{"user_id": userID, "read": false}).
		Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count unread notifications")
	}

	return count, nil
}

func (repo *notificationRepository) normalizePage(page, limit int) (int, int) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = repo.defaultLimit
	}
	if limit > repo.maxLimit {
		limit = repo.maxLimit
	}

	return page, limit
}

func toNotificationDomains(data []*model.NotificationModel) []*entity.Notification {
	notifications := make([]*entity.Notification, 0, len(data))
	for _, notificationM := range data {
		notifications = append(notifications, toNotificationDomain(notificationM))
	}

	return notifications
}

func toNotificationDomain(data *model.NotificationModel) *entity.Notification {
	if data == nil {
		return nil
	}

	notification := &entity.Notification{
		ID:          data.ID,
		UserID:      data.UserID,
		Type:        data.Type,
		Title:       data.Title,
		Message:     data.Message,
		Delivered:   data.Delivered,
		DeliveredAt: data.DeliveredAt,
		Read:        data.Read,
		ReadAt:      data.ReadAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
	if data.IdempotencyKey != nil {
		notification.IdempotencyKey = *data.IdempotencyKey
	}

	return notification
}

func fromNotificationDomain(data *entity.Notification) *model.NotificationModel {
	if data == nil {
		return nil
	}

	notificationM := &model.NotificationModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Type:        data.Type,
		Title:       data.Title,
		Message:     data.Message,
		Delivered:   data.Delivered,
		DeliveredAt: data.DeliveredAt,
		Read:        data.Read,
		ReadAt:      data.ReadAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
	if data.IdempotencyKey != "" {
		key := data.IdempotencyKey
		notificationM.IdempotencyKey = &key
	}

	return notificationM
}
