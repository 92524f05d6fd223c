package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/delivery/http/response"
	"beacon/internal/delivery/http/validator"
	"beacon/internal/domain/entity"
	domainerrors "beacon/internal/domain/errors"
	mockUsecase "beacon/internal/mocks/usecase"
	"beacon/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newContext builds an echo context for an authenticated caller; an empty userID means anonymous.
func newContext(method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validator.New()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		deliverycontext.SetUser(c, userID, nil)
	}

	return c, rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestNotificationHandler_ListNotifications(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantStatus int
		callsUC    bool
	}{
		{name: "defaults", query: "", wantPage: 0, wantLimit: 0, wantStatus: http.StatusOK, callsUC: true},
		{name: "explicit paging", query: "?page=2&limit=5", wantPage: 2, wantLimit: 5, wantStatus: http.StatusOK, callsUC: true},
		{name: "negative page", query: "?page=-1", wantStatus: http.StatusBadRequest},
		{name: "zero limit", query: "?limit=0", wantStatus: http.StatusBadRequest},
		{name: "non numeric limit", query: "?limit=ten", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notificationUC := mockUsecase.NewMockNotificationUsecase(t)
			if tt.callsUC {
				notificationUC.EXPECT().
					ListNotifications(mock.Anything, "alice", tt.wantPage, tt.wantLimit).
					Return(&entity.NotificationPage{Page: tt.wantPage, Limit: 20, IsLastPage: true}, nil)
			}
			h := NewNotificationHandler(NotificationHandlerParams{NotificationUC: notificationUC, Logger: newDiscardLogger()})
			c, rec := newContext(http.MethodGet, "/api/notifications"+tt.query, "", "alice")

			require.NoError(t, h.ListNotifications(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestNotificationHandler_RequiresUser(t *testing.T) {
	h := NewNotificationHandler(NotificationHandlerParams{
		NotificationUC: mockUsecase.NewMockNotificationUsecase(t),
		Logger:         newDiscardLogger(),
	})
	c, _ := newContext(http.MethodGet, "/api/notifications/unread-count", "", "")

	err := h.UnreadCount(c)

	assert.ErrorIs(t, err, domainerrors.ErrAuthenticationRequired)
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	notificationID := uuid.New()

	tests := []struct {
		name       string
		id         string
		ucErr      error
		wantStatus int
		wantCode   string
	}{
		{name: "success", id: notificationID.String(), wantStatus: http.StatusOK},
		{name: "invalid id", id: "not-a-uuid", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "not found", id: notificationID.String(), ucErr: domainerrors.ErrNotificationNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notificationUC := mockUsecase.NewMockNotificationUsecase(t)
			if tt.id == notificationID.String() {
				var result *entity.Notification
				if tt.ucErr == nil {
					result = &entity.Notification{ID: notificationID, UserID: "alice", Read: true}
				}
				notificationUC.EXPECT().MarkRead(mock.Anything, "alice", notificationID).Return(result, tt.ucErr)
			}
			h := NewNotificationHandler(NotificationHandlerParams{NotificationUC: notificationUC, Logger: newDiscardLogger()})
			c, rec := newContext(http.MethodPatch, "/api/notifications/"+tt.id+"/read", "", "alice")
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			require.NoError(t, h.MarkRead(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				body := decodeResponse(t, rec)
				require.NotNil(t, body.Error)
				assert.Equal(t, tt.wantCode, body.Error.Code)
			}
		})
	}
}

func TestNotificationHandler_MarkAllReadAndUnreadCount(t *testing.T) {
	notificationUC := mockUsecase.NewMockNotificationUsecase(t)
	notificationUC.EXPECT().MarkAllRead(mock.Anything, "alice").Return(int64(3), nil)
	notificationUC.EXPECT().UnreadCount(mock.Anything, "alice").Return(int64(0), nil)
	h := NewNotificationHandler(NotificationHandlerParams{NotificationUC: notificationUC, Logger: newDiscardLogger()})

	c, rec := newContext(http.MethodPatch, "/api/notifications/read-all", "", "alice")
	require.NoError(t, h.MarkAllRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":3}`, string(mustMarshal(t, decodeResponse(t, rec).Data)))

	c, rec = newContext(http.MethodGet, "/api/notifications/unread-count", "", "alice")
	require.NoError(t, h.UnreadCount(c))
	assert.JSONEq(t, `{"count":0}`, string(mustMarshal(t, decodeResponse(t, rec).Data)))
}

func TestNotificationHandler_Replay(t *testing.T) {
	replayUC := mockUsecase.NewMockReplayUsecase(t)
	replayUC.EXPECT().ReplayUndelivered(mock.Anything, "alice").
		Return([]*entity.Notification{{ID: uuid.New()}, {ID: uuid.New()}}, nil)
	h := NewNotificationHandler(NotificationHandlerParams{
		NotificationUC: mockUsecase.NewMockNotificationUsecase(t),
		ReplayUC:       replayUC,
		Logger:         newDiscardLogger(),
	})
	c, rec := newContext(http.MethodPost, "/api/notifications/replay", "", "alice")

	require.NoError(t, h.Replay(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"replayed":2}`, string(mustMarshal(t, decodeResponse(t, rec).Data)))
}

func TestDeviceHandler_RegisterDevice(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		callsUC    bool
	}{
		{name: "valid", body: `{"fcm_token":"tok-1","platform":"android"}`, wantStatus: http.StatusCreated, callsUC: true},
		{name: "unknown platform", body: `{"fcm_token":"tok-1","platform":"symbian"}`, wantStatus: http.StatusBadRequest},
		{name: "missing token", body: `{"platform":"ios"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deviceUC := mockUsecase.NewMockDeviceUsecase(t)
			if tt.callsUC {
				deviceUC.EXPECT().
					RegisterDevice(mock.Anything, "alice", &usecase.DeviceInfo{FCMToken: "tok-1", Platform: "android"}).
					Return(&entity.UserDevice{UserID: "alice", FCMToken: "tok-1", Platform: "android"}, nil)
			}
			h := NewDeviceHandler(DeviceHandlerParams{DeviceUC: deviceUC, Logger: newDiscardLogger()})
			c, rec := newContext(http.MethodPost, "/api/devices", tt.body, "alice")

			require.NoError(t, h.RegisterDevice(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAdminHandler_Broadcast(t *testing.T) {
	deliveryUC := mockUsecase.NewMockDeliveryUsecase(t)
	deliveryUC.EXPECT().
		BroadcastAll(mock.Anything, mock.MatchedBy(func(n *entity.Notification) bool {
			return n.Title == "Maintenance" && n.UserID == ""
		})).
		Return()
	h := NewAdminHandler(AdminHandlerParams{
		PresenceUC: mockUsecase.NewMockPresenceUsecase(t),
		DeliveryUC: deliveryUC,
		Logger:     newDiscardLogger(),
	})
	c, rec := newContext(http.MethodPost, "/api/admin/broadcast",
		`{"type":"system","title":"Maintenance","message":"Back soon"}`, "root")

	require.NoError(t, h.Broadcast(c))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestAdminHandler_BroadcastValidation(t *testing.T) {
	h := NewAdminHandler(AdminHandlerParams{
		PresenceUC: mockUsecase.NewMockPresenceUsecase(t),
		DeliveryUC: mockUsecase.NewMockDeliveryUsecase(t),
		Logger:     newDiscardLogger(),
	})
	c, rec := newContext(http.MethodPost, "/api/admin/broadcast", `{"type":"system"}`, "root")

	require.NoError(t, h.Broadcast(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeResponse(t, rec).Error.Code)
}

func TestAdminHandler_Presence(t *testing.T) {
	presenceUC := mockUsecase.NewMockPresenceUsecase(t)
	presenceUC.EXPECT().Snapshot(mock.Anything).
		Return(&usecase.PresenceSnapshot{Users: []string{"alice"}, UserCount: 1, ConnectionCount: 2}, nil)
	h := NewAdminHandler(AdminHandlerParams{
		PresenceUC: presenceUC,
		DeliveryUC: mockUsecase.NewMockDeliveryUsecase(t),
		Logger:     newDiscardLogger(),
	})
	c, rec := newContext(http.MethodGet, "/api/admin/presence", "", "root")

	require.NoError(t, h.Presence(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":["alice"],"userCount":1,"connectionCount":2}`,
		string(mustMarshal(t, decodeResponse(t, rec).Data)))
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return data
}
