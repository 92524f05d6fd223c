package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"beacon/config"
	"beacon/internal/domain/constants"
	"beacon/internal/domain/service"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// BusParams holds dependencies for DeliveryBus, injected by Fx
type BusParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
	Redis  goredis.UniversalClient
}

// NewDeliveryBus creates a DeliveryBus based on configuration
func NewDeliveryBus(params BusParams) (service.DeliveryBus, error) {
	cfg := params.Config.Fanout
	logger := params.Logger

	var bus service.DeliveryBus
	var err error

	switch cfg.Provider {
	case "", constants.FanoutProviderLocal:
		logger.Info("Using in-process delivery bus")

		bus = NewLocalBus(logger)

	case constants.FanoutProviderRedis:
		if params.Redis == nil {
			return nil, errors.New("redis client is required for redis fanout provider")
		}
		logger.Info("Using Redis delivery bus",
			slog.String("channel", cfg.Channel),
		)

		bus = NewRedisBus(params.Redis, cfg.Channel, logger)

	case constants.FanoutProviderGoogle:
		if cfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google provider")
		}
		if cfg.TopicID == "" {
			return nil, errors.New("topic ID is required for google provider")
		}
		subscriptionID := cfg.SubscriptionID
		if subscriptionID == "" {
			subscriptionID = defaultSubscriptionID(cfg.TopicID)
		}
		logger.Info("Using Google Pub/Sub delivery bus",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		bus, err = NewGooglePubSubBus(params.Ctx, cfg.ProjectID, cfg.TopicID, subscriptionID, logger)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.Errorf("unknown fanout provider: %s", cfg.Provider)
	}

	// Register lifecycle hook to close bus on shutdown
	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing DeliveryBus")

			return bus.Close()
		},
	})

	return bus, nil
}

// Every gateway instance needs its own subscription to receive every envelope.
func defaultSubscriptionID(topicID string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}

	return fmt.Sprintf("%s-%s", topicID, host)
}

// Module provides the delivery bus FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewDeliveryBus),
)
