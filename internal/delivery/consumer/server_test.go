package consumer

import (
	"context"
	"testing"
	"time"

	"beacon/internal/domain/entity"
	"beacon/internal/errors"
	mockUsecase "beacon/internal/mocks/usecase"
	"beacon/internal/usecase"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConsumerServer_SettlesEachDecision(t *testing.T) {
	ingestUC := mockUsecase.NewMockIngestUsecase(t)
	ingestUC.EXPECT().
		Ingest(mock.Anything, mock.MatchedBy(func(req *usecase.NotificationRequest) bool { return req.Title == "ok" })).
		Return(&usecase.IngestResult{Notification: &entity.Notification{ID: uuid.New()}}, nil)
	ingestUC.EXPECT().
		Ingest(mock.Anything, mock.MatchedBy(func(req *usecase.NotificationRequest) bool { return req.Title == "flaky" })).
		Return(nil, errors.New("database unavailable"))

	queue := newFakeQueue()
	ack := &fakeAcknowledger{}
	server := newConsumerServer(queue, newTestHandler(ingestUC), newDiscardLogger(), 1)

	queue.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1,
		Body: []byte(`{"user_id":"alice","type":"t","title":"ok","message":"m"}`)}
	queue.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2,
		Body: []byte(`{"user_id":"alice","type":"t","title":"flaky","message":"m"}`)}
	queue.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte(`not json`)}

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Serve(ctx) }()

	require.Eventually(t, func() bool {
		acked, nacked := ack.snapshot()

		return len(acked) == 2 && len(nacked) == 1
	}, 2*time.Second, 10*time.Millisecond)

	acked, nacked := ack.snapshot()
	assert.Equal(t, []uint64{1, 3}, acked)
	assert.Equal(t, []uint64{2}, nacked)
	assert.Equal(t, []bool{false}, ack.requeue, "retries go through the retry queue, not a requeue")
	assert.Equal(t, []parked{{tag: 3, reason: "malformed payload"}}, queue.parkedMessages())

	cancel()
	require.NoError(t, <-serveErr)
	assert.True(t, queue.closed)
}

func TestConsumerServer_ParkFailureRetries(t *testing.T) {
	queue := newFakeQueue()
	queue.parkErr = errors.New("dlq unavailable")
	ack := &fakeAcknowledger{}
	server := newConsumerServer(queue, newTestHandler(mockUsecase.NewMockIngestUsecase(t)), newDiscardLogger(), 1)

	server.settle(context.Background(),
		amqp.Delivery{Acknowledger: ack, DeliveryTag: 7},
		Decision{Action: ActionDeadLetter, Reason: "malformed payload"})

	acked, nacked := ack.snapshot()
	assert.Empty(t, acked)
	assert.Equal(t, []uint64{7}, nacked)
}

func TestConsumerServer_BrokerClosedChannel(t *testing.T) {
	queue := newFakeQueue()
	server := newConsumerServer(queue, newTestHandler(mockUsecase.NewMockIngestUsecase(t)), newDiscardLogger(), 1)
	close(queue.deliveries)

	err := server.Serve(context.Background())

	assert.ErrorContains(t, err, "delivery channel closed by broker")
}

func TestConsumerServer_Stop(t *testing.T) {
	queue := newFakeQueue()
	server := newConsumerServer(queue, newTestHandler(mockUsecase.NewMockIngestUsecase(t)), newDiscardLogger(), 2)

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Serve(context.Background()) }()

	require.Eventually(t, func() bool {
		server.mu.Lock()
		defer server.mu.Unlock()

		return server.cancel != nil
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, server.stop(context.Background()))
	require.NoError(t, <-serveErr)
}
