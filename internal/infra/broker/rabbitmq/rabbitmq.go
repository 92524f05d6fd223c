// Package rabbitmq owns the AMQP connection and the notification queue topology.
package rabbitmq

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"beacon/config"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

const dialTimeout = 10 * time.Second

// Broker is a connected AMQP client with the notification queues declared.
type Broker struct {
	conn   *amqp.Connection
	cfg    *config.RabbitMQConfig
	logger *slog.Logger

	publishMu sync.Mutex
	publishCh *amqp.Channel
}

// Params holds dependencies for the broker, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// New dials RabbitMQ and declares the queue topology.
func New(params Params) (*Broker, error) {
	cfg := params.Config.RabbitMQ
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("rabbitmq url must be provided")
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Dial: amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to rabbitmq")
	}

	broker := &Broker{
		conn:   conn,
		cfg:    cfg,
		logger: params.Logger,
	}

	if err := broker.declareTopology(); err != nil {
		_ = conn.Close()

		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing RabbitMQ connection")

			return broker.Close()
		},
	})

	return broker, nil
}

// declareTopology sets up the main queue, a TTL retry queue that dead-letters back
// to main, and a parking queue for messages that will never succeed.
func (b *Broker) declareTopology() error {
	ch, err := b.conn.Channel()
	if err != nil {
		return errors.Wrap(err, "failed to open channel")
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(b.cfg.DeadLetterQueue, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "failed to declare dead letter queue")
	}

	if _, err := ch.QueueDeclare(b.cfg.RetryQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": b.cfg.Queue,
		"x-message-ttl":             b.cfg.RetryDelay.Milliseconds(),
	}); err != nil {
		return errors.Wrap(err, "failed to declare retry queue")
	}

	if _, err := ch.QueueDeclare(b.cfg.Queue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": b.cfg.RetryQueue,
	}); err != nil {
		return errors.Wrap(err, "failed to declare main queue")
	}

	b.logger.Info("RabbitMQ topology declared",
		slog.String("queue", b.cfg.Queue),
		slog.String("retry_queue", b.cfg.RetryQueue),
		slog.String("dead_letter_queue", b.cfg.DeadLetterQueue),
	)

	return nil
}

// Consume opens a dedicated channel with the configured prefetch and starts consuming
// the main queue. Closing the returned closer ends the delivery stream.
func (b *Broker) Consume(tag string) (<-chan amqp.Delivery, io.Closer, error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open consumer channel")
	}

	if err := ch.Qos(b.cfg.Prefetch, 0, false); err != nil {
		_ = ch.Close()

		return nil, nil, errors.Wrap(err, "failed to set prefetch")
	}

	deliveries, err := ch.Consume(b.cfg.Queue, tag, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()

		return nil, nil, errors.Wrapf(err, "failed to consume %s", b.cfg.Queue)
	}

	return deliveries, ch, nil
}

// Publish sends a persistent JSON message to the main queue.
func (b *Broker) Publish(ctx context.Context, body []byte, headers amqp.Table) error {
	return b.publish(ctx, b.cfg.Queue, amqp.Publishing{
		Headers:      headers,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// DeadLetter parks a copy of the delivery in the dead letter queue with the failure reason.
func (b *Broker) DeadLetter(ctx context.Context, delivery amqp.Delivery, reason string) error {
	headers := amqp.Table{}
	for key, value := range delivery.Headers {
		headers[key] = value
	}
	headers["x-beacon-reason"] = reason

	return b.publish(ctx, b.cfg.DeadLetterQueue, amqp.Publishing{
		Headers:      headers,
		ContentType:  delivery.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    delivery.MessageId,
		Timestamp:    time.Now(),
		Body:         delivery.Body,
	})
}

// MaxRedeliveries is the number of retry cycles before a message is parked.
func (b *Broker) MaxRedeliveries() int {
	return b.cfg.MaxRedeliveries
}

func (b *Broker) publish(ctx context.Context, queue string, msg amqp.Publishing) error {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	if b.publishCh == nil || b.publishCh.IsClosed() {
		ch, err := b.conn.Channel()
		if err != nil {
			return errors.Wrap(err, "failed to open publish channel")
		}
		b.publishCh = ch
	}

	if err := b.publishCh.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return errors.Wrapf(err, "failed to publish to %s", queue)
	}

	return nil
}

// IsClosed reports whether the broker connection is gone.
func (b *Broker) IsClosed() bool {
	return b.conn.IsClosed()
}

// Close releases the publish channel and the connection.
func (b *Broker) Close() error {
	b.publishMu.Lock()
	if b.publishCh != nil {
		_ = b.publishCh.Close()
	}
	b.publishMu.Unlock()

	if b.conn.IsClosed() {
		return nil
	}

	return errors.WithStack(b.conn.Close())
}

// DeathCount returns how many times the message was dead-lettered out of queue.
func DeathCount(headers amqp.Table, queue string) int64 {
	deaths, ok := headers["x-death"].([]any)
	if !ok {
		return 0
	}

	for _, death := range deaths {
		table, ok := death.(amqp.Table)
		if !ok {
			continue
		}
		if name, _ := table["queue"].(string); name != queue {
			continue
		}

		switch count := table["count"].(type) {
		case int64:
			return count
		case int32:
			return int64(count)
		case int:
			return int64(count)
		}
	}

	return 0
}
