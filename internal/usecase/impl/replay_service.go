package impl

import (
	"context"
	"log/slog"

	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/domain/entity"
	"beacon/internal/domain/repository"
	"beacon/internal/domain/service"
	"beacon/internal/errors"
	"beacon/internal/usecase"

	"go.uber.org/fx"
)

type replayService struct {
	logger           *slog.Logger
	notificationRepo repository.NotificationRepository
	delivery         usecase.DeliveryUsecase
	metrics          service.MetricsSink
}

// ReplayServiceParams holds dependencies for the replay service, injected by Fx
type ReplayServiceParams struct {
	fx.In

	Logger           *slog.Logger
	NotificationRepo repository.NotificationRepository
	Delivery         usecase.DeliveryUsecase
	Metrics          service.MetricsSink `optional:"true"`
}

// NewReplayService creates a new replay service instance
func NewReplayService(params ReplayServiceParams) usecase.ReplayUsecase {
	return &replayService{
		logger:           params.Logger,
		notificationRepo: params.NotificationRepo,
		delivery:         params.Delivery,
		metrics:          service.MetricsOrNop(params.Metrics),
	}
}

// ReplayUndelivered pushes undelivered notifications one at a time in insertion order.
// The first push error stops the batch; items already pushed stay delivered.
func (s *replayService) ReplayUndelivered(ctx context.Context, userID string) ([]*entity.Notification, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	pending, err := s.notificationRepo.FindUndelivered(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load undelivered notifications")
	}

	if len(pending) == 0 {
		return pending, nil
	}

	replayed := 0
	for _, notification := range pending {
		delivered, err := s.delivery.PushToUser(ctx, userID, notification)
		if err != nil {
			s.metrics.RecordReplay(ctx, replayed)

			return pending, errors.Wrapf(err, "replay stopped at notification %s", notification.ID)
		}
		if delivered {
			replayed++
		}
	}

	s.metrics.RecordReplay(ctx, replayed)
	logger.Info("Replayed undelivered notifications",
		slog.String("user_id", userID),
		slog.Int("pending", len(pending)),
		slog.Int("replayed", replayed),
	)

	return pending, nil
}
