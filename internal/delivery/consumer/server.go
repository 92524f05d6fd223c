package consumer

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"beacon/config"
	"beacon/internal/delivery"
	"beacon/internal/domain/lifecycle"
	"beacon/internal/infra/broker/rabbitmq"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// Queue is the broker surface the consumer needs.
type Queue interface {
	Consume(tag string) (<-chan amqp.Delivery, io.Closer, error)
	DeadLetter(ctx context.Context, msg amqp.Delivery, reason string) error
}

// ServerParams holds dependencies for the consumer server, injected by Fx
type ServerParams struct {
	fx.In

	Lc      fx.Lifecycle
	Config  *config.Config
	Logger  *slog.Logger
	Broker  *rabbitmq.Broker
	Handler *NotificationHandler
}

type consumerServer struct {
	queue     Queue
	handler   *NotificationHandler
	logger    *slog.Logger
	consumers int

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewServer creates the queue consumer delivery
func NewServer(params ServerParams) (delivery.Delivery, error) {
	srv := newConsumerServer(params.Broker, params.Handler, params.Logger, params.Config.RabbitMQ.Consumers)

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

func newConsumerServer(queue Queue, handler *NotificationHandler, logger *slog.Logger, consumers int) *consumerServer {
	return &consumerServer{
		queue:     queue,
		handler:   handler,
		logger:    logger,
		consumers: max(consumers, 1),
		stopped:   make(chan struct{}),
	}
}

// Serve runs one consumer per configured channel until stopped. A channel closed by
// the broker ends Serve with an error.
func (s *consumerServer) Serve(ctx context.Context) error {
	defer close(s.stopped)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	group, groupCtx := errgroup.WithContext(ctx)
	for i := range s.consumers {
		tag := "beacon-consumer-" + strconv.Itoa(i)
		deliveries, closer, err := s.queue.Consume(tag)
		if err != nil {
			cancel()
			_ = group.Wait()

			return errors.Wrapf(err, "failed to start %s", tag)
		}

		group.Go(func() error {
			return s.consume(groupCtx, tag, deliveries, closer)
		})
	}

	s.logger.Info("[Consumer] Consuming notification queue", slog.Int("consumers", s.consumers))

	return group.Wait()
}

// consume settles each delivery before taking the next, so a message is never interleaved with itself.
func (s *consumerServer) consume(ctx context.Context, tag string, deliveries <-chan amqp.Delivery, closer io.Closer) error {
	defer func() { _ = closer.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}

				return errors.Errorf("%s: delivery channel closed by broker", tag)
			}

			// A message taken before shutdown is processed and settled to completion
			msgCtx := context.WithoutCancel(ctx)
			s.settle(msgCtx, msg, s.handler.Handle(msgCtx, msg))
		}
	}
}

func (s *consumerServer) settle(ctx context.Context, msg amqp.Delivery, decision Decision) {
	var err error

	switch decision.Action {
	case ActionAck:
		err = msg.Ack(false)
	case ActionRetry:
		// Rejected messages dead-letter into the delayed retry queue
		err = msg.Nack(false, false)
	case ActionDeadLetter:
		if parkErr := s.queue.DeadLetter(ctx, msg, decision.Reason); parkErr != nil {
			s.logger.Error("[Consumer] Failed to park message, retrying later", slog.Any("error", parkErr))
			err = msg.Nack(false, false)

			break
		}
		err = msg.Ack(false)
	}

	if err != nil {
		s.logger.Error("[Consumer] Failed to settle message",
			slog.String("action", decision.Action.String()),
			slog.Any("error", err),
		)
	}
}

// stop cancels the consumers and waits for the message in flight to settle.
func (s *consumerServer) stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}

	s.logger.Info("[Consumer] Stopping queue consumers")
	cancel()

	waitCtx, done := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer done()

	select {
	case <-s.stopped:
		return nil
	case <-waitCtx.Done():
		return errors.Wrap(waitCtx.Err(), "timed out waiting for consumers")
	}
}
