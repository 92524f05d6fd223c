package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"beacon/config"
	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/domain/constants"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier accepts the tokens it knows and rejects everything else.
type stubVerifier struct {
	users map[string]*service.Verification
	err   error
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*service.Verification, error) {
	if s.err != nil {
		return nil, s.err
	}
	if verification, ok := s.users[token]; ok {
		return verification, nil
	}

	return &service.Verification{Valid: false}, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuth(verifier service.TokenVerifier) *AuthMiddleware {
	return NewAuthMiddleware(verifier, &config.Config{Auth: &config.AuthConfig{}}, newTestLogger())
}

func newTestServer(auth *AuthMiddleware, route string) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(newTestLogger()).HandleHTTPError
	e.GET("/target", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"user_id":     deliverycontext.GetUserID(c),
			"ctx_user_id": deliverycontext.GetUserIDFromContext(c.Request().Context()),
		})
	}, auth.Authorize(route))

	return e
}

func TestAuthMiddleware_Authorize(t *testing.T) {
	verifier := &stubVerifier{users: map[string]*service.Verification{
		"user-token":  {Valid: true, UserID: "alice", Roles: []string{"user"}},
		"admin-token": {Valid: true, UserID: "root", Roles: []string{constants.RoleAdmin}},
	}}

	tests := []struct {
		name       string
		route      string
		header     string
		wantStatus int
		wantCode   string
		wantUser   string
	}{
		{name: "public route without token", route: RouteHealth, wantStatus: http.StatusOK},
		{name: "missing token", route: RouteListNotifications, wantStatus: http.StatusUnauthorized, wantCode: "AUTHENTICATION_REQUIRED"},
		{name: "non bearer scheme", route: RouteListNotifications, header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: "AUTHENTICATION_REQUIRED"},
		{name: "invalid token", route: RouteListNotifications, header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantCode: "INVALID_TOKEN"},
		{name: "valid token", route: RouteListNotifications, header: "Bearer user-token", wantStatus: http.StatusOK, wantUser: "alice"},
		{name: "lowercase scheme", route: RouteUnreadCount, header: "bearer user-token", wantStatus: http.StatusOK, wantUser: "alice"},
		{name: "admin route without role", route: RouteAdminPresence, header: "Bearer user-token", wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "admin route with role", route: RouteAdminBroadcast, header: "Bearer admin-token", wantStatus: http.StatusOK, wantUser: "root"},
		{name: "unknown route is denied", route: "unregistered", header: "Bearer admin-token", wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(newTestAuth(verifier), tt.route)
			req := httptest.NewRequest(http.MethodGet, "/target", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantCode != "" {
				errInfo, ok := body["error"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, errInfo["code"])
			}
			if tt.wantUser != "" {
				assert.Equal(t, tt.wantUser, body["user_id"])
				assert.Equal(t, tt.wantUser, body["ctx_user_id"])
			}
		})
	}
}

func TestAuthMiddleware_VerifierUnavailable(t *testing.T) {
	auth := newTestAuth(&stubVerifier{err: errors.New("connection refused")})
	e := newTestServer(auth, RouteListNotifications)
	req := httptest.NewRequest(http.MethodGet, "/target", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer anything")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	_, err := auth.Verify(context.Background(), "anything")
	assert.ErrorIs(t, err, domainerrors.ErrAuthServiceUnavailable)
}

func TestRoutePolicies_AdminRoutesRequireRole(t *testing.T) {
	for _, route := range []string{RouteAdminPresence, RouteAdminBroadcast} {
		policy, ok := RoutePolicies[route]
		require.True(t, ok, route)
		assert.False(t, policy.Public)
		assert.Equal(t, constants.RoleAdmin, policy.Role)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "Bearer abc", want: "abc"},
		{header: "BEARER  abc ", want: "abc"},
		{header: "Bearer ", want: ""},
		{header: "Token abc", want: ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, tt.header)
		assert.Equal(t, tt.want, BearerToken(req), tt.header)
	}
}
