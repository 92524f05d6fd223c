// Package consumer turns queued notification requests into stored, pushed notifications.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"beacon/config"
	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/domain/constants"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/service"
	"beacon/internal/errors"
	"beacon/internal/infra/broker/rabbitmq"
	"beacon/internal/usecase"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

// HeaderRequestID carries the producer's request id for log correlation.
const HeaderRequestID = "x-request-id"

// Action tells the consumer loop how to settle a delivery.
type Action int

const (
	ActionAck Action = iota
	ActionRetry
	ActionDeadLetter
)

func (a Action) String() string {
	switch a {
	case ActionAck:
		return "ack"
	case ActionRetry:
		return "retry"
	case ActionDeadLetter:
		return "dead_letter"
	default:
		return "unknown"
	}
}

// Decision is the settlement of one delivery.
type Decision struct {
	Action Action
	Reason string
}

// notificationMessage is the queue payload. Producers may send delivered/read defaults;
// a new notification always starts undelivered and unread, so they are accepted and ignored.
type notificationMessage struct {
	usecase.NotificationRequest

	Delivered   bool    `json:"delivered"`
	DeliveredAt *string `json:"delivered_at"`
	Read        bool    `json:"read"`
	ReadAt      *string `json:"read_at"`
}

// retryableError marks a failure that broker redelivery may fix
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	_, ok := errors.AsType[*retryableError](err)

	return ok
}

// HandlerParams holds dependencies for the NotificationHandler, injected by Fx
type HandlerParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	IngestUC usecase.IngestUsecase
	Metrics  service.MetricsSink `optional:"true"`
}

// NotificationHandler processes one queued notification request at a time.
type NotificationHandler struct {
	logger          *slog.Logger
	ingestUC        usecase.IngestUsecase
	metrics         service.MetricsSink
	queue           string
	maxRedeliveries int64
	now             func() time.Time
}

// NewNotificationHandler creates a new queue message handler
func NewNotificationHandler(params HandlerParams) *NotificationHandler {
	handler := &NotificationHandler{
		logger:   params.Logger,
		ingestUC: params.IngestUC,
		metrics:  service.MetricsOrNop(params.Metrics),
		now:      time.Now,
	}
	if cfg := params.Config.RabbitMQ; cfg != nil {
		handler.queue = cfg.Queue
		handler.maxRedeliveries = int64(cfg.MaxRedeliveries)
	}

	return handler
}

// Handle ingests the message and decides how to settle it. Offline recipients are a
// normal outcome; only failures a later attempt may fix are retried.
func (h *NotificationHandler) Handle(ctx context.Context, msg amqp.Delivery) Decision {
	start := h.now()

	requestID := extractRequestID(msg)
	logger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, logger)

	var payload notificationMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		logger.Error("[Consumer] Malformed notification message", slog.Any("error", err))
		h.metrics.RecordIngest(ctx, constants.OutcomeDeadLetter, h.now().Sub(start))

		return Decision{Action: ActionDeadLetter, Reason: "malformed payload"}
	}
	logger = logger.With(
		slog.String("user_id", payload.UserID),
		slog.String("type", payload.Type),
	)
	ctx = deliverycontext.WithLogger(ctx, logger)

	result, err := h.ingest(ctx, &payload.NotificationRequest)
	elapsed := h.now().Sub(start)
	if err != nil {
		return h.failed(ctx, logger, msg, err, elapsed)
	}

	outcome := constants.OutcomeStored
	switch {
	case result.Duplicate:
		outcome = constants.OutcomeDuplicate
	case result.Delivered:
		outcome = constants.OutcomeDelivered
	}
	h.metrics.RecordIngest(ctx, outcome, elapsed)

	logger.Info("[Consumer] Notification processed",
		slog.String("notification_id", result.Notification.ID.String()),
		slog.String("outcome", outcome),
		slog.Int("fallback_sent", result.FallbackSent),
		slog.Duration("elapsed", elapsed),
	)

	return Decision{Action: ActionAck}
}

// ingest classifies usecase failures: invalid or forbidden input is permanent, everything else is retryable.
func (h *NotificationHandler) ingest(ctx context.Context, req *usecase.NotificationRequest) (*usecase.IngestResult, error) {
	result, err := h.ingestUC.Ingest(ctx, req)
	if err == nil {
		return result, nil
	}
	if errors.IsAny(err, domainerrors.ErrValidationFailed, domainerrors.ErrForbidden) {
		return nil, err
	}

	return nil, newRetryableError(err)
}

func (h *NotificationHandler) failed(ctx context.Context, logger *slog.Logger, msg amqp.Delivery, err error, elapsed time.Duration) Decision {
	retryable := isRetryableError(err)
	deaths := rabbitmq.DeathCount(msg.Headers, h.queue)

	decision := Decision{Action: ActionDeadLetter, Reason: "invalid payload"}
	if retryable {
		decision = Decision{Action: ActionRetry}
		if deaths >= h.maxRedeliveries {
			decision = Decision{Action: ActionDeadLetter, Reason: "max redeliveries exceeded"}
		}
	}

	outcome := constants.OutcomeRetried
	if decision.Action == ActionDeadLetter {
		outcome = constants.OutcomeDeadLetter
	}
	h.metrics.RecordIngest(ctx, outcome, elapsed)

	logger.Error("[Consumer] Failed to process notification",
		slog.Any("error", err),
		slog.Bool("retryable", retryable),
		slog.Int64("redeliveries", deaths),
		slog.String("action", decision.Action.String()),
		slog.Duration("elapsed", elapsed),
	)

	return decision
}

// extractRequestID prefers the producer's header, then the message id, then a fresh id.
func extractRequestID(msg amqp.Delivery) string {
	if requestID, ok := msg.Headers[HeaderRequestID].(string); ok && requestID != "" {
		return requestID
	}
	if msg.MessageId != "" {
		return msg.MessageId
	}

	return uuid.New().String()
}
