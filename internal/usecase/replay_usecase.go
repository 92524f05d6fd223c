package usecase

import (
	"context"

	"beacon/internal/domain/entity"
)

// ReplayUsecase re-sends notifications that were stored while the user was offline
type ReplayUsecase interface {
	// ReplayUndelivered pushes every undelivered notification of the user in insertion order
	// and returns the batch read at the start of the replay.
	ReplayUndelivered(ctx context.Context, userID string) ([]*entity.Notification, error)
}
