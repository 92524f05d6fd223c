package main

import (
	"context"
	"log/slog"
	"os"

	"beacon/config"
	"beacon/internal/delivery"
	"beacon/internal/delivery/consumer"
	"beacon/internal/delivery/http"
	"beacon/internal/delivery/http/middleware"
	"beacon/internal/delivery/http/router/handler"
	"beacon/internal/delivery/realtime"
	"beacon/internal/domain/service"
	"beacon/internal/infra/auth"
	"beacon/internal/infra/broker/rabbitmq"
	logs "beacon/internal/infra/log"
	"beacon/internal/infra/metrics"
	"beacon/internal/infra/notification"
	"beacon/internal/infra/persistence/postgres"
	"beacon/internal/infra/presence"
	"beacon/internal/infra/pubsub"
	"beacon/internal/infra/redis"
	"beacon/internal/usecase"
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
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
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
			auth.NewTokenVerifier,
			notification.NewPushService,
			metrics.NewMetricsSink,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewDeliveryService,
			impl.NewReplayService,
			impl.NewIngestService,
			impl.NewNotificationService,
			impl.NewDeviceService,
			impl.NewPresenceService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewNotificationHandler,
			handler.NewDeviceHandler,
			handler.NewAdminHandler,
			realtime.NewHub,
			realtime.NewGateway,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				realtime.NewListener,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				newQueueConsumer,
				fx.ResultTags(`group:"deliveries,flatten"`),
			),
		),
	)
}

type queueConsumerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Config   *config.Config
	Logger   *slog.Logger
	IngestUC usecase.IngestUsecase
	Metrics  service.MetricsSink `optional:"true"`
}

// newQueueConsumer runs the queue consumer in this process when rabbitmq.enabled is set.
// Dedicated deployments run it in beacon-worker instead.
func newQueueConsumer(params queueConsumerParams) ([]delivery.Delivery, error) {
	if !params.Config.RabbitMQ.Enabled {
		return nil, nil
	}

	broker, err := rabbitmq.New(rabbitmq.Params{
		Lc:     params.Lc,
		Config: params.Config,
		Logger: params.Logger,
	})
	if err != nil {
		return nil, err
	}

	server, err := consumer.NewServer(consumer.ServerParams{
		Lc:     params.Lc,
		Config: params.Config,
		Logger: params.Logger,
		Broker: broker,
		Handler: consumer.NewNotificationHandler(consumer.HandlerParams{
			Config:   params.Config,
			Logger:   params.Logger,
			IngestUC: params.IngestUC,
			Metrics:  params.Metrics,
		}),
	})
	if err != nil {
		return nil, err
	}

	return []delivery.Delivery{server}, nil
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
