package realtime

import (
	"context"
	"log/slog"

	"beacon/internal/delivery"
	"beacon/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ListenerParams holds dependencies for the bus listener, injected by Fx
type ListenerParams struct {
	fx.In

	Lc     fx.Lifecycle
	Logger *slog.Logger
	Hub    *Hub
	Bus    service.DeliveryBus
}

type busListener struct {
	logger *slog.Logger
	hub    *Hub
	bus    service.DeliveryBus
	cancel context.CancelFunc
	ctx    context.Context
}

// NewListener returns a Delivery that writes bus envelopes to this instance's connections.
func NewListener(params ListenerParams) (delivery.Delivery, error) {
	ctx, cancel := context.WithCancel(context.Background())

	listener := &busListener{
		logger: params.Logger,
		hub:    params.Hub,
		bus:    params.Bus,
		cancel: cancel,
		ctx:    ctx,
	}

	params.Lc.Append(fx.Hook{
		OnStop: listener.stop,
	})

	return listener, nil
}

func (l *busListener) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-l.ctx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	l.logger.Info("[Hub] Listening for deliveries")
	if err := l.bus.Subscribe(ctx, l.hub.HandleEnvelope); err != nil {
		return errors.Wrap(err, "delivery bus subscription ended")
	}

	return nil
}

// stop ends the subscription and closes local connections so their presence is cleaned up.
func (l *busListener) stop(context.Context) error {
	l.logger.Info("[Hub] Stopping, closing connections", slog.Int("connections", l.hub.Count()))
	l.cancel()
	l.hub.CloseAll()

	return nil
}
