package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"beacon/config"
	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/delivery/http/middleware"
	"beacon/internal/domain/constants"
	"beacon/internal/domain/entity"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/lifecycle"
	"beacon/internal/domain/service"
	"beacon/internal/errors"
	"beacon/internal/usecase"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// GatewayParams holds dependencies for the Gateway, injected by Fx
type GatewayParams struct {
	fx.In

	Config         *config.Config
	Logger         *slog.Logger
	Hub            *Hub
	Auth           *middleware.AuthMiddleware
	Presence       service.PresenceRegistry
	NotificationUC usecase.NotificationUsecase
	ReplayUC       usecase.ReplayUsecase
	Metrics        service.MetricsSink `optional:"true"`
}

// Gateway upgrades HTTP requests to WebSocket connections and drives their lifecycle.
type Gateway struct {
	cfg            *config.GatewayConfig
	logger         *slog.Logger
	hub            *Hub
	auth           *middleware.AuthMiddleware
	presence       service.PresenceRegistry
	notificationUC usecase.NotificationUsecase
	replayUC       usecase.ReplayUsecase
	metrics        service.MetricsSink
	upgrader       websocket.Upgrader
	now            func() time.Time
}

// NewGateway creates a new realtime gateway
func NewGateway(params GatewayParams) *Gateway {
	cfg := params.Config.Gateway

	return &Gateway{
		cfg:            cfg,
		logger:         params.Logger,
		hub:            params.Hub,
		auth:           params.Auth,
		presence:       params.Presence,
		notificationUC: params.NotificationUC,
		replayUC:       params.ReplayUC,
		metrics:        service.MetricsOrNop(params.Metrics),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		now: time.Now,
	}
}

// Handle serves one connection until it closes.
func (g *Gateway) Handle(c echo.Context) error {
	ws, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already answered with an HTTP error
		g.logger.Debug("[Gateway] Upgrade failed", slog.Any("error", err))

		return nil
	}

	connection := entity.NewConnection(uuid.NewString(), g.now())
	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), g.logger).
		With(slog.String("connection_id", connection.ID))

	client := newClient(ws, connection, ClientOptions{
		WriteTimeout:   g.cfg.WriteTimeout,
		PongWait:       g.cfg.PongWait,
		PingInterval:   g.cfg.PingInterval,
		SendBuffer:     g.cfg.SendBuffer,
		MaxMessageSize: g.cfg.MaxMessageSize,
	}, logger)
	go client.writePump()

	userID, code, message := g.authenticate(c.Request())
	if code != "" {
		logger.Info("[Gateway] Connection rejected", slog.String("code", code))
		client.Enqueue(encodeError(code, message, g.now()))
		client.Close()
		<-client.Done()

		return nil
	}

	connection.Authenticate(userID)
	logger = logger.With(slog.String("user_id", userID))

	if err := g.activate(c.Request().Context(), client); err != nil {
		logger.Warn("[Gateway] Activation failed", slog.Any("error", err))
		client.Enqueue(encodeError(CodeConnectionError, "Failed to establish connection", g.now()))
		client.Close()
		<-client.Done()

		return nil
	}
	defer g.deactivate(client, logger)

	logger.Info("[Gateway] Connection active")
	g.startReplay(userID, logger)
	g.readPump(c.Request().Context(), client, logger)

	return nil
}

// authenticate returns the verified user, or the error code to send before closing.
func (g *Gateway) authenticate(req *http.Request) (userID, code, message string) {
	token := middleware.BearerToken(req)
	if token == "" {
		token = req.URL.Query().Get("token")
	}
	if token == "" {
		return "", CodeAuthenticationRequired, "Authentication token is required"
	}

	verification, err := g.auth.Verify(req.Context(), token)
	switch {
	case err == nil:
		return verification.UserID, "", ""
	case errors.Is(err, domainerrors.ErrInvalidToken):
		return "", CodeInvalidToken, "Invalid or expired token"
	default:
		return "", CodeConnectionError, "Authentication service unavailable"
	}
}

// activate joins the hub and records presence, then announces the connection.
// Nothing is registered when it returns an error.
func (g *Gateway) activate(ctx context.Context, client *Client) error {
	frame, err := encodeFrame(constants.EventUserConnected, UserConnectedPayload{
		UserID:       client.UserID(),
		ConnectionID: client.ID(),
	})
	if err != nil {
		return err
	}

	g.hub.Register(client)

	if err := g.presence.AddConnection(ctx, client.UserID(), client.ID()); err != nil {
		g.hub.Unregister(client)

		return errors.Wrap(err, "failed to record presence")
	}

	client.connection.Activate()
	g.metrics.RecordConnection(ctx, 1)
	client.Enqueue(frame)

	return nil
}

// deactivate always runs, with its own context, so a cancelled request cannot skip it.
func (g *Gateway) deactivate(client *Client, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	if err := g.presence.RemoveConnection(ctx, client.UserID(), client.ID()); err != nil {
		logger.Warn("[Gateway] Failed to remove presence", slog.Any("error", err))
	}
	g.hub.Unregister(client)
	client.Close()
	g.metrics.RecordConnection(ctx, -1)

	logger.Info("[Gateway] Connection closed")
}

// startReplay pushes stored notifications on a detached, bounded context.
func (g *Gateway) startReplay(userID string, logger *slog.Logger) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), g.cfg.ReplayTimeout)
		defer cancel()
		ctx = deliverycontext.WithLogger(ctx, logger)

		if _, err := g.replayUC.ReplayUndelivered(ctx, userID); err != nil {
			logger.Warn("[Gateway] Replay failed", slog.Any("error", err))
		}
	}()
}

// readPump handles client events until the socket fails or closes.
func (g *Gateway) readPump(ctx context.Context, client *Client, logger *slog.Logger) {
	ws := client.conn
	ws.SetReadLimit(g.cfg.MaxMessageSize)
	_ = ws.SetReadDeadline(g.now().Add(g.cfg.PongWait))
	ws.SetPongHandler(func(string) error {
		client.connection.Touch(g.now())

		return ws.SetReadDeadline(g.now().Add(g.cfg.PongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("[Gateway] Read failed", slog.Any("error", err))
			}

			return
		}

		client.connection.Touch(g.now())
		_ = ws.SetReadDeadline(g.now().Add(g.cfg.PongWait))
		g.handleFrame(ctx, client, data, logger)
	}
}

func (g *Gateway) handleFrame(ctx context.Context, client *Client, data []byte, logger *slog.Logger) {
	if !client.connection.IsActive() {
		client.Enqueue(encodeError(CodeNotAuthenticated, "Connection is not authenticated", g.now()))

		return
	}

	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		logger.Debug("[Gateway] Malformed frame", slog.Any("error", err))

		return
	}

	switch frame.Event {
	case constants.EventMarkNotificationRead:
		g.markRead(ctx, client, frame.Data, logger)
	default:
		logger.Debug("[Gateway] Ignoring unknown event", slog.String("event", frame.Event))
	}
}

func (g *Gateway) markRead(ctx context.Context, client *Client, data json.RawMessage, logger *slog.Logger) {
	var payload MarkReadPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		client.Enqueue(encodeError(CodeMarkReadError, "Invalid mark read payload", g.now()))

		return
	}

	notificationID, err := uuid.Parse(payload.NotificationID)
	if err != nil {
		client.Enqueue(encodeError(CodeMarkReadError, "Invalid notification ID", g.now()))

		return
	}

	if _, err := g.notificationUC.MarkRead(ctx, client.UserID(), notificationID); err != nil {
		if errors.Is(err, domainerrors.ErrNotificationNotFound) {
			client.Enqueue(encodeError(CodeNotFound, "Notification not found", g.now()))

			return
		}

		logger.Warn("[Gateway] Mark read failed", slog.Any("error", err))
		client.Enqueue(encodeError(CodeMarkReadError, "Failed to mark notification as read", g.now()))

		return
	}

	frame, err := encodeFrame(constants.EventNotificationRead, MarkReadPayload{
		NotificationID: notificationID.String(),
		UserID:         client.UserID(),
	})
	if err != nil {
		logger.Error("[Gateway] Failed to encode read event", slog.Any("error", err))

		return
	}
	client.Enqueue(frame)
}

// originChecker allows any origin when none are configured.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]

		return ok
	}
}
