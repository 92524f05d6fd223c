package consumer

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"beacon/config"
	"beacon/internal/usecase"

	amqp "github.com/rabbitmq/amqp091-go"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(ingestUC usecase.IngestUsecase) *NotificationHandler {
	return NewNotificationHandler(HandlerParams{
		Config: &config.Config{RabbitMQ: &config.RabbitMQConfig{
			Queue:           "notification_queue",
			MaxRedeliveries: 3,
		}},
		Logger:   newDiscardLogger(),
		IngestUC: ingestUC,
	})
}

// fakeAcknowledger records how each delivery tag was settled.
type fakeAcknowledger struct {
	mu      sync.Mutex
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.acked = append(a.acked, tag)

	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.nacked = append(a.nacked, tag)
	a.requeue = append(a.requeue, requeue)

	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *fakeAcknowledger) snapshot() (acked, nacked []uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]uint64(nil), a.acked...), append([]uint64(nil), a.nacked...)
}

type parked struct {
	tag    uint64
	reason string
}

// fakeQueue serves a fixed delivery channel and records parked messages.
type fakeQueue struct {
	deliveries chan amqp.Delivery
	parkErr    error

	mu     sync.Mutex
	parked []parked
	closed bool
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{deliveries: make(chan amqp.Delivery, 16)}
}

func (q *fakeQueue) Consume(string) (<-chan amqp.Delivery, io.Closer, error) {
	return q.deliveries, q, nil
}

func (q *fakeQueue) DeadLetter(_ context.Context, msg amqp.Delivery, reason string) error {
	if q.parkErr != nil {
		return q.parkErr
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.parked = append(q.parked, parked{tag: msg.DeliveryTag, reason: reason})

	return nil
}

func (q *fakeQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true

	return nil
}

func (q *fakeQueue) parkedMessages() []parked {
	q.mu.Lock()
	defer q.mu.Unlock()

	return append([]parked(nil), q.parked...)
}
