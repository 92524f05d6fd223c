package pubsub

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"beacon/internal/domain/service"

	"github.com/pkg/errors"
	"gocloud.dev/pubsub"
	"gocloud.dev/pubsub/mempubsub"
)

const localAckDeadline = time.Minute

// localBus delivers envelopes inside a single process through an in-memory topic.
type localBus struct {
	topic       *pubsub.Topic
	subscribers atomic.Int32
	logger      *slog.Logger
}

// NewLocalBus creates an in-process delivery bus.
func NewLocalBus(logger *slog.Logger) service.DeliveryBus {
	return &localBus{
		topic:  mempubsub.NewTopic(),
		logger: logger,
	}
}

func (b *localBus) Publish(ctx context.Context, envelope *service.DeliveryEnvelope) error {
	if b.subscribers.Load() == 0 {
		return ErrNoSubscribers
	}

	data, err := encodeEnvelope(envelope)
	if err != nil {
		return err
	}

	if err := b.topic.Send(ctx, &pubsub.Message{
		Body:     data,
		Metadata: envelopeAttributes(envelope),
	}); err != nil {
		return errors.Wrap(err, "failed to send to local topic")
	}

	return nil
}

// Subscribe blocks until ctx is cancelled.
func (b *localBus) Subscribe(ctx context.Context, handler service.DeliveryHandler) error {
	subscription := mempubsub.NewSubscription(b.topic, localAckDeadline)
	b.subscribers.Add(1)
	defer func() {
		b.subscribers.Add(-1)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = subscription.Shutdown(shutdownCtx)
	}()

	for {
		msg, err := subscription.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return errors.Wrap(err, "failed to receive from local topic")
		}

		envelope, err := decodeEnvelope(msg.Body)
		msg.Ack()
		if err != nil {
			b.logger.Warn("[LocalBus] Dropping malformed envelope", slog.Any("error", err))

			continue
		}

		handler(ctx, envelope)
	}
}

func (b *localBus) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return errors.WithStack(b.topic.Shutdown(ctx))
}
