package http

import (
	"context"
	"log/slog"
	"net"
	nethttp "net/http"
	"strconv"

	"beacon/config"
	"beacon/internal/delivery"
	"beacon/internal/delivery/http/middleware"
	"beacon/internal/delivery/http/router"
	"beacon/internal/delivery/http/validator"
	deliverymiddleware "beacon/internal/delivery/middleware"
	"beacon/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	slogecho "github.com/samber/slog-echo"
	"go.uber.org/fx"
)

type HTTPParams struct {
	fx.In
	fx.Lifecycle

	Config          *config.Config
	Logger          *slog.Logger
	ErrorMiddleware *middleware.ErrorMiddleware
	RouterParams    router.RouterParams
}

type httpServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// NewServer builds the API server: REST routes and the realtime gateway share one listener.
func NewServer(params HTTPParams) (delivery.Delivery, error) {
	echoServer := NewEcho(params)

	delivery := &httpServer{
		cfg:    params.Config,
		logger: params.Logger,
		server: echoServer,
	}

	params.Append(fx.Hook{
		OnStop: delivery.stop,
	})

	return delivery, nil
}

// NewEcho assembles the middleware chain and routes.
func NewEcho(params HTTPParams) *echo.Echo {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HTTPErrorHandler = params.ErrorMiddleware.HandleHTTPError
	echoServer.Validator = validator.New()

	// Recover first so panics in any later middleware are caught
	echoServer.Use(echomiddleware.Recover())
	echoServer.Use(deliverymiddleware.NewRequestIDMiddleware(params.Logger).Process)
	echoServer.Use(slogecho.New(params.Logger))
	echoServer.Use(deliverymiddleware.NewLoggerMiddleware(params.Logger, params.Config).Handle)
	if origins := params.Config.Gateway.AllowedOrigins; len(origins) > 0 {
		echoServer.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{AllowOrigins: origins}))
	} else {
		echoServer.Use(echomiddleware.CORS())
	}

	router := router.NewRouter(params.RouterParams)
	router.RegisterRoutes(echoServer)

	return echoServer
}

func (s *httpServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting HTTP server", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return errors.Wrap(err, "failed to serve http")
	}

	return nil
}

func (s *httpServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
