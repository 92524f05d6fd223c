package pubsub

import (
	"context"
	"log/slog"

	"beacon/internal/domain/service"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// redisBus broadcasts envelopes to every instance through a Redis pub/sub channel.
type redisBus struct {
	client  goredis.UniversalClient
	channel string
	logger  *slog.Logger
}

// NewRedisBus creates a delivery bus on a Redis pub/sub channel.
func NewRedisBus(client goredis.UniversalClient, channel string, logger *slog.Logger) service.DeliveryBus {
	return &redisBus{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (b *redisBus) Publish(ctx context.Context, envelope *service.DeliveryEnvelope) error {
	data, err := encodeEnvelope(envelope)
	if err != nil {
		return err
	}

	receivers, err := b.client.Publish(ctx, b.channel, data).Result()
	if err != nil {
		return errors.Wrap(err, "failed to publish to redis channel")
	}
	if receivers == 0 {
		return ErrNoSubscribers
	}

	return nil
}

// Subscribe blocks until ctx is cancelled.
func (b *redisBus) Subscribe(ctx context.Context, handler service.DeliveryHandler) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Wait for the subscription confirmation so publishes after this point are seen.
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}

		return errors.Wrap(err, "failed to subscribe to redis channel")
	}

	b.logger.Info("[RedisBus] Subscribed", slog.String("channel", b.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("redis subscription closed")
			}

			envelope, err := decodeEnvelope([]byte(msg.Payload))
			if err != nil {
				b.logger.Warn("[RedisBus] Dropping malformed envelope", slog.Any("error", err))

				continue
			}

			handler(ctx, envelope)
		}
	}
}

// Close is a no-op; the shared client is closed by its own lifecycle hook.
func (b *redisBus) Close() error {
	return nil
}
