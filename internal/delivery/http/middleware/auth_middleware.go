package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"beacon/config"
	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/domain/constants"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// RoutePolicy describes who may call a named route.
type RoutePolicy struct {
	Public bool
	Role   string
}

// Route names
const (
	RouteHealth               = "health"
	RouteListNotifications    = "notifications.list"
	RouteUnreadCount          = "notifications.unread_count"
	RouteMarkNotificationRead = "notifications.mark_read"
	RouteMarkAllRead          = "notifications.mark_all_read"
	RouteReplay               = "notifications.replay"
	RouteListDevices          = "devices.list"
	RouteRegisterDevice       = "devices.register"
	RouteRemoveDevice         = "devices.remove"
	RouteAdminPresence        = "admin.presence"
	RouteAdminBroadcast       = "admin.broadcast"
	RouteRealtimeGateway      = "realtime.gateway"
)

// RoutePolicies is the access table for every registered route.
//
//nolint:gochecknoglobals
var RoutePolicies = map[string]RoutePolicy{
	RouteHealth:               {Public: true},
	RouteListNotifications:    {},
	RouteUnreadCount:          {},
	RouteMarkNotificationRead: {},
	RouteMarkAllRead:          {},
	RouteReplay:               {},
	RouteListDevices:          {},
	RouteRegisterDevice:       {},
	RouteRemoveDevice:         {},
	RouteAdminPresence:        {Role: constants.RoleAdmin},
	RouteAdminBroadcast:       {Role: constants.RoleAdmin},
	// The gateway authenticates inside the connection so it can answer with an error event.
	RouteRealtimeGateway: {Public: true},
}

// AuthMiddleware provides middleware for bearer authentication and authorization.
type AuthMiddleware struct {
	verifier service.TokenVerifier
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(verifier service.TokenVerifier, cfg *config.Config, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		timeout:  cfg.Auth.Timeout,
		logger:   logger,
	}
}

// Authorize returns the middleware enforcing the policy registered for route.
// Unknown routes are denied.
func (m *AuthMiddleware) Authorize(route string) echo.MiddlewareFunc {
	policy, known := RoutePolicies[route]

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !known {
				m.logger.Error("Route has no access policy", slog.String("route", route))

				return domainerrors.ErrForbidden
			}
			if policy.Public {
				return next(c)
			}

			token := BearerToken(c.Request())
			if token == "" {
				return domainerrors.ErrAuthenticationRequired
			}

			verification, err := m.Verify(c.Request().Context(), token)
			if err != nil {
				return err
			}

			if policy.Role != "" && !slices.Contains(verification.Roles, policy.Role) {
				return domainerrors.ErrForbidden.WithDetails("require '" + policy.Role + "' role")
			}

			// Set user info on the context for handlers to use
			deliverycontext.SetUser(c, verification.UserID, verification.Roles)
			ctx := deliverycontext.WithUserID(c.Request().Context(), verification.UserID)
			if logger := deliverycontext.GetLogger(ctx); logger != nil {
				ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("user_id", verification.UserID)))
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// Verify checks token within the configured timeout and maps the outcome to domain errors.
func (m *AuthMiddleware) Verify(ctx context.Context, token string) (*service.Verification, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	verification, err := m.verifier.Verify(ctx, token)
	if err != nil {
		m.logger.Warn("Token verification unavailable", slog.Any("error", err))

		return nil, domainerrors.ErrAuthServiceUnavailable
	}
	if verification == nil || !verification.Valid || verification.UserID == "" {
		return nil, domainerrors.ErrInvalidToken
	}

	return verification, nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(req *http.Request) string {
	authHeader := req.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(prefix):])
}
