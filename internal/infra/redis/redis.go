// Package redis provides the shared Redis client used by presence and fan-out.
package redis

import (
	"context"
	"log/slog"

	"beacon/config"
	"beacon/internal/domain/lifecycle"
	"beacon/internal/errors"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates a Redis client and ties its lifetime to the application.
func New(params Params) (goredis.UniversalClient, error) {
	cfg := params.Config.Redis
	if cfg == nil || cfg.Address == "" {
		return nil, errors.New("redis address is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping Redis")
			}

			params.Logger.Info("Redis connected", slog.String("address", cfg.Address))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	return client, nil
}
