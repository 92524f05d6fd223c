package postgres

import (
	"context"

	"beacon/internal/domain/entity"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/repository"
	"beacon/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// deviceRepository implements the repository.DeviceRepository interface.
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository is the constructor for deviceRepository.
func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepository{
		db: db,
	}
}

// UpsertDevice registers a token; an existing token is reassigned to the new owner.
func (repo *deviceRepository) UpsertDevice(ctx context.Context, device *entity.UserDevice) error {
	deviceM := fromDeviceDomain(device)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fcm_token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
		}).
		Create(deviceM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required device information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert device")
	}

	var stored model.UserDeviceModel
	if err := repo.db.WithContext(ctx).
		Where("fcm_token = ?", deviceM.FCMToken).
		First(&stored).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to reload device")
	}

	*device = *toDeviceDomain(&stored)

	return nil
}

// FindDevicesByUser retrieves all devices for a specific user.
func (repo *deviceRepository) FindDevicesByUser(ctx context.Context, userID string) ([]*entity.UserDevice, error) {
	var deviceModels []*model.UserDeviceModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&deviceModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find devices by user")
	}

	devices := make([]*entity.UserDevice, 0, len(deviceModels))
	for _, deviceM := range deviceModels {
		devices = append(devices, toDeviceDomain(deviceM))
	}

	return devices, nil
}

// DeleteDeviceByToken removes a device owned by userID.
func (repo *deviceRepository) DeleteDeviceByToken(ctx context.Context, userID, fcmToken string) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND fcm_token = ?", userID, fcmToken).
		Delete(&model.UserDeviceModel{})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete device")
	}

	if result.RowsAffected == 0 {
		return repository.ErrDeviceNotFound
	}

	return nil
}

// DeleteDevicesByTokens removes devices regardless of owner.
func (repo *deviceRepository) DeleteDevicesByTokens(ctx context.Context, fcmTokens []string) (int64, error) {
	if len(fcmTokens) == 0 {
		return 0, nil
	}

	result := repo.db.WithContext(ctx).
		Where("fcm_token IN ?", fcmTokens).
		Delete(&model.UserDeviceModel{})

	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete devices")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toDeviceDomain converts a GORM UserDeviceModel to a domain UserDevice entity.
func toDeviceDomain(data *model.UserDeviceModel) *entity.UserDevice {
	if data == nil {
		return nil
	}

	return &entity.UserDevice{
		ID:        data.ID,
		UserID:    data.UserID,
		FCMToken:  data.FCMToken,
		Platform:  data.Platform,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromDeviceDomain converts a domain UserDevice entity to a GORM UserDeviceModel.
func fromDeviceDomain(data *entity.UserDevice) *model.UserDeviceModel {
	if data == nil {
		return nil
	}

	return &model.UserDeviceModel{
		ID:        data.ID,
		UserID:    data.UserID,
		FCMToken:  data.FCMToken,
		Platform:  data.Platform,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
