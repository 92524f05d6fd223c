package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDeviceModel is the GORM-specific struct for the 'user_devices' table.
// It represents a user's device registered for push notifications.
type UserDeviceModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    string    `gorm:"type:varchar(255);not null;index"`
	FCMToken  string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Platform  string    `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserDeviceModel) TableName() string {
	return "user_devices"
}

func (m *UserDeviceModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}

// AllModels lists every table managed by AutoMigrate.
func AllModels() []any {
	return []any{
		&NotificationModel{},
		&UserDeviceModel{},
	}
}
