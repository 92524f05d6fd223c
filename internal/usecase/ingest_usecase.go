package usecase

import (
	"context"

	"beacon/internal/domain/entity"
)

// NotificationRequest is a notification-creation event received from the queue
type NotificationRequest struct {
	UserID         string `json:"user_id" validate:"required,max=255"`
	Type           string `json:"type" validate:"required,max=100"`
	Title          string `json:"title" validate:"required,max=255"`
	Message        string `json:"message" validate:"required"`
	IdempotencyKey string `json:"idempotency_key,omitempty" validate:"omitempty,max=255"`
}

// IngestResult describes what happened to one ingested notification
type IngestResult struct {
	Notification *entity.Notification
	Delivered    bool
	// Duplicate is set when the idempotency key matched an already stored notification
	Duplicate bool
	// FallbackSent is the number of devices reached through offline push
	FallbackSent int
}

// IngestUsecase persists queued notifications and attempts immediate delivery
type IngestUsecase interface {
	Ingest(ctx context.Context, req *NotificationRequest) (*IngestResult, error)
}
