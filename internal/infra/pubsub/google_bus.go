package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"beacon/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// googlePubSubBus implements DeliveryBus using Google Cloud Pub/Sub.
// Each instance pulls from its own subscription so every instance sees every envelope.
type googlePubSubBus struct {
	client         *pubsub.Client
	publisher      *pubsub.Publisher
	projectID      string
	topicID        string
	subscriptionID string
	logger         *slog.Logger
}

// NewGooglePubSubBus creates a new Google Pub/Sub delivery bus
func NewGooglePubSubBus(ctx context.Context, projectID, topicID, subscriptionID string, logger *slog.Logger) (service.DeliveryBus, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Check if topic exists using TopicAdminClient
	topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	_, err = client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{
		Topic: topicPath,
	})
	if err != nil {
		client.Close()

		return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
	}

	publisher := client.Publisher(topicID)

	logger.Info("Google Pub/Sub delivery bus initialized",
		slog.String("project_id", projectID),
		slog.String("topic_id", topicID),
		slog.String("subscription_id", subscriptionID),
	)

	return &googlePubSubBus{
		client:         client,
		publisher:      publisher,
		projectID:      projectID,
		topicID:        topicID,
		subscriptionID: subscriptionID,
		logger:         logger,
	}, nil
}

// Publish waits for the server to accept the envelope
func (b *googlePubSubBus) Publish(ctx context.Context, envelope *service.DeliveryEnvelope) error {
	data, err := encodeEnvelope(envelope)
	if err != nil {
		return err
	}

	result := b.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: envelopeAttributes(envelope),
	})

	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	b.logger.Debug("[GooglePubSub] Envelope published",
		slog.String("event", envelope.Event),
		slog.String("server_id", serverID),
	)

	return nil
}

// Subscribe blocks until ctx is cancelled.
func (b *googlePubSubBus) Subscribe(ctx context.Context, handler service.DeliveryHandler) error {
	subscriptionPath := fmt.Sprintf("projects/%s/subscriptions/%s", b.projectID, b.subscriptionID)
	if err := b.ensureSubscription(ctx, subscriptionPath); err != nil {
		return err
	}

	subscriber := b.client.Subscriber(subscriptionPath)
	err := subscriber.Receive(ctx, func(msgCtx context.Context, msg *pubsub.Message) {
		envelope, decodeErr := decodeEnvelope(msg.Data)
		msg.Ack()
		if decodeErr != nil {
			b.logger.Warn("[GooglePubSub] Dropping malformed envelope", slog.Any("error", decodeErr))

			return
		}

		handler(msgCtx, envelope)
	})
	if err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "failed to receive from subscription")
	}

	return nil
}

func (b *googlePubSubBus) ensureSubscription(ctx context.Context, subscriptionPath string) error {
	if _, err := b.client.SubscriptionAdminClient.GetSubscription(ctx, &pubsubpb.GetSubscriptionRequest{
		Subscription: subscriptionPath,
	}); err == nil {
		return nil
	}

	_, err := b.client.SubscriptionAdminClient.CreateSubscription(ctx, &pubsubpb.Subscription{
		Name:  subscriptionPath,
		Topic: fmt.Sprintf("projects/%s/topics/%s", b.projectID, b.topicID),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create subscription %s", b.subscriptionID)
	}

	return nil
}

// Close releases Pub/Sub client resources
func (b *googlePubSubBus) Close() error {
	if b.publisher != nil {
		b.publisher.Stop()
	}
	if b.client != nil {
		return errors.WithStack(b.client.Close())
	}

	return nil
}
