package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationModel is the GORM-specific struct for the 'notifications' table.
type NotificationModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID         string     `gorm:"type:varchar(255);not null;index:idx_notifications_user_created,priority:1;index:idx_notifications_user_delivered,priority:1"`
	Type           string     `gorm:"type:varchar(100);not null"`
	Title          string     `gorm:"type:varchar(255);not null"`
	Message        string     `gorm:"type:text;not null"`
	Delivered      bool       `gorm:"not null;default:false;index:idx_notifications_user_delivered,priority:2"`
	DeliveredAt    *time.Time
	Read           bool       `gorm:"not null;default:false"`
	ReadAt         *time.Time
	IdempotencyKey *string    `gorm:"type:varchar(255);uniqueIndex"`
	CreatedAt      time.Time  `gorm:"index:idx_notifications_user_created,priority:2,sort:desc"`
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (NotificationModel) TableName() string {
	return "notifications"
}

// BeforeCreate assigns a time-ordered ID so ties on created_at keep insertion order.
func (m *NotificationModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID != uuid.Nil {
		return nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	m.ID = id

	return nil
}
