// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a message addressed to a single recipient.
// DeliveredAt is set only while Delivered is true; ReadAt is set whenever Read is true.
type Notification struct {
	ID             uuid.UUID  `json:"id"`
	UserID         string     `json:"user_id"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Delivered      bool       `json:"delivered"`
	DeliveredAt    *time.Time `json:"delivered_at"`
	Read           bool       `json:"read"`
	ReadAt         *time.Time `json:"read_at"`
	IdempotencyKey string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NotificationPage is one page of a user's notifications, newest first.
type NotificationPage struct {
	Items      []*Notification `json:"items"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Count      int             `json:"count"`
	IsLastPage bool            `json:"isLastPage"`
}
