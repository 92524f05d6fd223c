package consumer

import (
	"context"
	"testing"

	"beacon/internal/domain/entity"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/errors"
	mockUsecase "beacon/internal/mocks/usecase"
	"beacon/internal/usecase"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const validBody = `{"user_id":"alice","type":"order","title":"Shipped","message":"On its way",` +
	`"delivered":false,"delivered_at":null,"read":false,"read_at":null}`

func deathHeaders(queue string, count int64) amqp.Table {
	return amqp.Table{"x-death": []any{amqp.Table{"queue": queue, "count": count}}}
}

func TestNotificationHandler_Handle(t *testing.T) {
	stored := &entity.Notification{ID: uuid.New(), UserID: "alice"}
	wantRequest := &usecase.NotificationRequest{UserID: "alice", Type: "order", Title: "Shipped", Message: "On its way"}

	tests := []struct {
		name       string
		body       string
		headers    amqp.Table
		result     *usecase.IngestResult
		ingestErr  error
		skipIngest bool
		want       Decision
	}{
		{
			name:   "delivered",
			body:   validBody,
			result: &usecase.IngestResult{Notification: stored, Delivered: true},
			want:   Decision{Action: ActionAck},
		},
		{
			name:   "offline recipient is acked",
			body:   validBody,
			result: &usecase.IngestResult{Notification: stored},
			want:   Decision{Action: ActionAck},
		},
		{
			name:   "duplicate is acked",
			body:   validBody,
			result: &usecase.IngestResult{Notification: stored, Delivered: true, Duplicate: true},
			want:   Decision{Action: ActionAck},
		},
		{
			name:       "malformed json is parked",
			body:       `{"user_id":`,
			skipIngest: true,
			want:       Decision{Action: ActionDeadLetter, Reason: "malformed payload"},
		},
		{
			name:      "invalid payload is parked",
			body:      validBody,
			ingestErr: domainerrors.ErrValidationFailed.WithDetails("title is required"),
			want:      Decision{Action: ActionDeadLetter, Reason: "invalid payload"},
		},
		{
			name:      "forbidden recipient is parked",
			body:      validBody,
			ingestErr: errors.Wrap(domainerrors.ErrForbidden, "failed to store notification"),
			want:      Decision{Action: ActionDeadLetter, Reason: "invalid payload"},
		},
		{
			name:      "store failure is retried",
			body:      validBody,
			ingestErr: errors.Wrap(domainerrors.NewDatabaseExecuteError(errors.New("connection refused"), "insert"), "failed to store notification"),
			want:      Decision{Action: ActionRetry},
		},
		{
			name:      "fan-out failure is retried",
			body:      validBody,
			headers:   deathHeaders("notification_queue", 2),
			ingestErr: domainerrors.NewFanoutError(errors.New("pubsub unavailable"), "alice"),
			want:      Decision{Action: ActionRetry},
		},
		{
			name:      "retries exhausted are parked",
			body:      validBody,
			headers:   deathHeaders("notification_queue", 3),
			ingestErr: errors.New("bus unavailable"),
			want:      Decision{Action: ActionDeadLetter, Reason: "max redeliveries exceeded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingestUC := mockUsecase.NewMockIngestUsecase(t)
			if !tt.skipIngest {
				ingestUC.EXPECT().Ingest(mock.Anything, wantRequest).Return(tt.result, tt.ingestErr)
			}
			handler := newTestHandler(ingestUC)

			got := handler.Handle(context.Background(), amqp.Delivery{Body: []byte(tt.body), Headers: tt.headers})

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRequestID(t *testing.T) {
	assert.Equal(t, "from-header", extractRequestID(amqp.Delivery{
		Headers:   amqp.Table{HeaderRequestID: "from-header"},
		MessageId: "from-message",
	}))
	assert.Equal(t, "from-message", extractRequestID(amqp.Delivery{MessageId: "from-message"}))

	_, err := uuid.Parse(extractRequestID(amqp.Delivery{}))
	assert.NoError(t, err)
}
