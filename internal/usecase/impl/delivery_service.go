package impl

import (
	"context"
	"encoding/json"
	"log/slog"

	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/domain/constants"
	"beacon/internal/domain/entity"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/repository"
	"beacon/internal/domain/service"
	"beacon/internal/errors"
	"beacon/internal/usecase"

	"go.uber.org/fx"
)

type deliveryService struct {
	logger           *slog.Logger
	presence         service.PresenceRegistry
	bus              service.DeliveryBus
	notificationRepo repository.NotificationRepository
	metrics          service.MetricsSink
}

// DeliveryServiceParams holds dependencies for the delivery service, injected by Fx
type DeliveryServiceParams struct {
	fx.In

	Logger           *slog.Logger
	Presence         service.PresenceRegistry
	Bus              service.DeliveryBus
	NotificationRepo repository.NotificationRepository
	Metrics          service.MetricsSink `optional:"true"`
}

// NewDeliveryService creates a new delivery service instance
func NewDeliveryService(params DeliveryServiceParams) usecase.DeliveryUsecase {
	return &deliveryService{
		logger:           params.Logger,
		presence:         params.Presence,
		bus:              params.Bus,
		notificationRepo: params.NotificationRepo,
		metrics:          service.MetricsOrNop(params.Metrics),
	}
}

// PushToUser hands the notification to the bus when the user has any live connection.
// A presence lookup failure is treated as offline so the notification waits for replay.
func (s *deliveryService) PushToUser(ctx context.Context, userID string, notification *entity.Notification) (bool, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	online, err := s.presence.HasAny(ctx, userID)
	if err != nil {
		logger.Warn("Presence lookup failed, treating user as offline",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		s.metrics.RecordPush(ctx, false)

		return false, nil
	}

	if !online {
		logger.Debug("User offline, notification kept for replay",
			slog.String("user_id", userID),
			slog.String("notification_id", notification.ID.String()),
		)
		s.metrics.RecordPush(ctx, false)

		return false, nil
	}

	envelope, err := newNotificationEnvelope(ctx, notification)
	if err != nil {
		return false, err
	}
	envelope.UserID = userID

	if err := s.bus.Publish(ctx, envelope); err != nil {
		if !errors.Is(err, service.ErrNoReceivers) {
			return false, domainerrors.NewFanoutError(err, "failed to publish notification")
		}
		// Stale presence: a send that reached nobody.
		logger.Warn("Presence set but no gateway is listening, marking delivered anyway",
			slog.String("user_id", userID),
			slog.String("notification_id", notification.ID.String()),
		)
	}

	if err := s.notificationRepo.MarkDelivered(ctx, notification.ID); err != nil {
		return false, errors.Wrap(err, "failed to mark notification delivered")
	}

	s.metrics.RecordPush(ctx, true)
	logger.Debug("Notification pushed",
		slog.String("user_id", userID),
		slog.String("notification_id", notification.ID.String()),
	)

	return true, nil
}

// BroadcastAll sends the notification to every connection; failures are only logged.
func (s *deliveryService) BroadcastAll(ctx context.Context, notification *entity.Notification) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	envelope, err := newNotificationEnvelope(ctx, notification)
	if err != nil {
		logger.Error("Failed to encode broadcast", slog.Any("error", err))

		return
	}
	envelope.Broadcast = true

	if err := s.bus.Publish(ctx, envelope); err != nil {
		if errors.Is(err, service.ErrNoReceivers) {
			logger.Warn("Broadcast dropped, no gateway is listening")

			return
		}
		logger.Error("Failed to publish broadcast", slog.Any("error", err))
	}
}

func newNotificationEnvelope(ctx context.Context, notification *entity.Notification) (*service.DeliveryEnvelope, error) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode notification")
	}

	return &service.DeliveryEnvelope{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		Event:     constants.EventNotificationReceived,
		Payload:   payload,
	}, nil
}
