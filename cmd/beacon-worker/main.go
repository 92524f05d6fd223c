package main

import (
	"context"
	"log/slog"
	"os"

	"beacon/config"
	"beacon/internal/delivery"
	"beacon/internal/delivery/consumer"
	"beacon/internal/delivery/worker"
	"beacon/internal/domain/constants"
	"beacon/internal/infra/broker/rabbitmq"
	logs "beacon/internal/infra/log"
	"beacon/internal/infra/metrics"
	"beacon/internal/infra/notification"
	"beacon/internal/infra/persistence/postgres"
	"beacon/internal/infra/presence"
	"beacon/internal/infra/pubsub"
	"beacon/internal/infra/redis"
	"beacon/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			warnLocalFanout,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			redis.New,
			rabbitmq.New,
			// The health probe only needs the connection state
			func(broker *rabbitmq.Broker) worker.BrokerHealth { return broker },
		),
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewDeviceRepository,
			postgres.NewNotificationRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			presence.NewRedisRegistry,
			notification.NewPushService,
			metrics.NewMetricsSink,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewDeliveryService,
			impl.NewIngestService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			consumer.NewNotificationHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				consumer.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// warnLocalFanout flags a setup where pushes can never reach a gateway: the in-process
// bus has no listeners in a worker.
func warnLocalFanout(cfg *config.Config, logger *slog.Logger) {
	if provider := cfg.Fanout.Provider; provider == "" || provider == constants.FanoutProviderLocal {
		logger.Warn("[Worker] Fan-out provider is local; online pushes will be retried until they are dead-lettered",
			slog.String("hint", "set fanout.provider to redis or google"),
		)
	}
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
