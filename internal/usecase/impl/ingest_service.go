package impl

import (
	"context"
	"log/slog"

	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/domain/entity"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/repository"
	"beacon/internal/domain/service"
	"beacon/internal/errors"
	"beacon/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

type ingestService struct {
	logger           *slog.Logger
	validate         *validator.Validate
	notificationRepo repository.NotificationRepository
	deviceRepo       repository.DeviceRepository
	delivery         usecase.DeliveryUsecase
	pushSvc          service.NotificationService
}

// IngestServiceParams holds dependencies for the ingest service, injected by Fx
type IngestServiceParams struct {
	fx.In

	Logger           *slog.Logger
	NotificationRepo repository.NotificationRepository
	DeviceRepo       repository.DeviceRepository
	Delivery         usecase.DeliveryUsecase
	// PushSvc is nil when offline push is not configured
	PushSvc service.NotificationService `optional:"true"`
}

// NewIngestService creates a new ingest service instance
func NewIngestService(params IngestServiceParams) usecase.IngestUsecase {
	return &ingestService{
		logger:           params.Logger,
		validate:         validator.New(validator.WithRequiredStructEnabled()),
		notificationRepo: params.NotificationRepo,
		deviceRepo:       params.DeviceRepo,
		delivery:         params.Delivery,
		pushSvc:          params.PushSvc,
	}
}

// Ingest stores the notification and pushes it to the recipient when online.
// A redelivered message whose row is already delivered is not pushed again.
func (s *ingestService) Ingest(ctx context.Context, req *usecase.NotificationRequest) (*usecase.IngestResult, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate notification id")
	}

	notification := &entity.Notification{
		ID:             id,
		UserID:         req.UserID,
		Type:           req.Type,
		Title:          req.Title,
		Message:        req.Message,
		IdempotencyKey: req.IdempotencyKey,
	}

	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return nil, errors.Wrap(err, "failed to store notification")
	}

	result := &usecase.IngestResult{
		Notification: notification,
		Duplicate:    notification.ID != id,
	}

	if result.Duplicate && notification.Delivered {
		logger.Info("Duplicate notification already delivered, skipping push",
			slog.String("notification_id", notification.ID.String()),
		)
		result.Delivered = true

		return result, nil
	}

	delivered, err := s.delivery.PushToUser(ctx, req.UserID, notification)
	if err != nil {
		return nil, errors.Wrap(err, "failed to push notification")
	}
	result.Delivered = delivered

	if !delivered && !result.Duplicate {
		result.FallbackSent = s.sendOfflinePush(ctx, logger, notification)
	}

	return result, nil
}

// sendOfflinePush reaches the user's registered devices. Failures are logged only.
func (s *ingestService) sendOfflinePush(ctx context.Context, logger *slog.Logger, notification *entity.Notification) int {
	if s.pushSvc == nil {
		return 0
	}

	devices, err := s.deviceRepo.FindDevicesByUser(ctx, notification.UserID)
	if err != nil {
		logger.Warn("Failed to load devices for offline push",
			slog.String("user_id", notification.UserID),
			slog.Any("error", err),
		)

		return 0
	}
	if len(devices) == 0 {
		return 0
	}

	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		tokens = append(tokens, device.FCMToken)
	}

	data := map[string]string{
		"notification_id": notification.ID.String(),
		"type":            notification.Type,
	}

	sent, failed, invalidTokens, err := s.pushSvc.SendBatchNotification(ctx, tokens, notification.Title, notification.Message, data)
	if err != nil {
		logger.Warn("Offline push failed",
			slog.String("user_id", notification.UserID),
			slog.Any("error", err),
		)
	}

	if len(invalidTokens) > 0 {
		removed, delErr := s.deviceRepo.DeleteDevicesByTokens(ctx, invalidTokens)
		if delErr != nil {
			logger.Warn("Failed to prune invalid device tokens", slog.Any("error", delErr))
		} else {
			logger.Info("Pruned invalid device tokens", slog.Int64("removed", removed))
		}
	}

	logger.Info("Offline push sent",
		slog.String("notification_id", notification.ID.String()),
		slog.Int("sent", sent),
		slog.Int("failed", failed),
	)

	return sent
}
