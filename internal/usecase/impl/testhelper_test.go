package impl

import (
	"io"
	"log/slog"
	"time"

	"beacon/internal/domain/entity"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestNotification(userID string) *entity.Notification {
	now := time.Now()

	return &entity.Notification{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Type:      "order",
		Title:     "Order shipped",
		Message:   "Your order is on its way",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
