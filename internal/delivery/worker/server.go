// Package worker serves the queue worker's probe endpoint.
package worker

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"beacon/config"
	"beacon/internal/delivery"
	"beacon/internal/delivery/middleware"
	"beacon/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// BrokerHealth reports whether the queue connection is still open.
type BrokerHealth interface {
	IsClosed() bool
}

type workerServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for the worker server
type ServerParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	Logger *slog.Logger
	Broker BrokerHealth
}

// NewServer creates a new worker HTTP server
func NewServer(params ServerParams) (delivery.Delivery, error) {
	srv := &workerServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: newEcho(params),
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

func newEcho(params ServerParams) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(middleware.NewRequestIDMiddleware(params.Logger).Process)
	e.Use(middleware.NewLoggerMiddleware(params.Logger, params.Cfg).Handle)

	// Probes fail once the broker connection is lost so the orchestrator restarts the worker
	e.GET("/health", func(c echo.Context) error {
		if params.Broker.IsClosed() {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "broker disconnected"})
		}

		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e
}

// Serve starts the worker HTTP server
func (s *workerServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("[Worker] Starting health server", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

// stop gracefully shuts down the worker server
func (s *workerServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("[Worker] Shutting down health server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
