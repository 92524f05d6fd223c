package impl

import (
	"context"
	"encoding/json"
	"testing"

	"beacon/internal/domain/constants"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/service"
	"beacon/internal/errors"
	mockRepo "beacon/internal/mocks/repository"
	mockService "beacon/internal/mocks/service"
	"beacon/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// deliveryServiceFixtures holds all test dependencies for delivery service tests.
type deliveryServiceFixtures struct {
	service          usecase.DeliveryUsecase
	presence         *mockService.MockPresenceRegistry
	bus              *mockService.MockDeliveryBus
	notificationRepo *mockRepo.MockNotificationRepository
}

func createTestDeliveryService(t *testing.T) deliveryServiceFixtures {
	presence := mockService.NewMockPresenceRegistry(t)
	bus := mockService.NewMockDeliveryBus(t)
	notificationRepo := mockRepo.NewMockNotificationRepository(t)

	svc := NewDeliveryService(DeliveryServiceParams{
		Logger:           newDiscardLogger(),
		Presence:         presence,
		Bus:              bus,
		NotificationRepo: notificationRepo,
	})

	return deliveryServiceFixtures{
		service:          svc,
		presence:         presence,
		bus:              bus,
		notificationRepo: notificationRepo,
	}
}

func TestDeliveryService_PushToUser_Online(t *testing.T) {
	fx := createTestDeliveryService(t)
	ctx := context.Background()
	notification := newTestNotification("user-1")

	fx.presence.EXPECT().HasAny(ctx, "user-1").Return(true, nil)
	fx.bus.EXPECT().
		Publish(ctx, mock.AnythingOfType("*service.DeliveryEnvelope")).
		Run(func(_ context.Context, envelope *service.DeliveryEnvelope) {
			assert.Equal(t, "user-1", envelope.UserID)
			assert.False(t, envelope.Broadcast)
			assert.Equal(t, constants.EventNotificationReceived, envelope.Event)

			var payload map[string]any
			require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
			assert.Equal(t, notification.ID.String(), payload["id"])
			assert.Equal(t, "Order shipped", payload["title"])
		}).
		Return(nil).
		Once()
	fx.notificationRepo.EXPECT().MarkDelivered(ctx, notification.ID).Return(nil).Once()

	delivered, err := fx.service.PushToUser(ctx, "user-1", notification)
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestDeliveryService_PushToUser_Offline(t *testing.T) {
	fx := createTestDeliveryService(t)
	ctx := context.Background()
	notification := newTestNotification("user-1")

	fx.presence.EXPECT().HasAny(ctx, "user-1").Return(false, nil)

	delivered, err := fx.service.PushToUser(ctx, "user-1", notification)
	require.NoError(t, err)
	assert.False(t, delivered)
	fx.bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	fx.notificationRepo.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything)
}

func TestDeliveryService_PushToUser_PresenceFailureDegradesToOffline(t *testing.T) {
	fx := createTestDeliveryService(t)
	ctx := context.Background()
	notification := newTestNotification("user-1")

	fx.presence.EXPECT().
		HasAny(ctx, "user-1").
		Return(false, domainerrors.NewPresenceRegistryError(errors.New("connection refused"), "scard"))

	delivered, err := fx.service.PushToUser(ctx, "user-1", notification)
	require.NoError(t, err)
	assert.False(t, delivered)
	fx.notificationRepo.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything)
}

func TestDeliveryService_PushToUser_PublishFailure(t *testing.T) {
	fx := createTestDeliveryService(t)
	ctx := context.Background()
	notification := newTestNotification("user-1")

	fx.presence.EXPECT().HasAny(ctx, "user-1").Return(true, nil)
	fx.bus.EXPECT().Publish(ctx, mock.Anything).Return(errors.New("bus down"))

	delivered, err := fx.service.PushToUser(ctx, "user-1", notification)
	require.Error(t, err)
	assert.False(t, delivered)

	var fanoutErr *domainerrors.FanoutError
	assert.ErrorAs(t, err, &fanoutErr)
	fx.notificationRepo.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything)
}

func TestDeliveryService_PushToUser_StalePresenceMarksDelivered(t *testing.T) {
	fx := createTestDeliveryService(t)
	ctx := context.Background()
	notification := newTestNotification("user-1")

	fx.presence.EXPECT().HasAny(ctx, "user-1").Return(true, nil)
	fx.bus.EXPECT().Publish(ctx, mock.Anything).Return(errors.Wrap(service.ErrNoReceivers, "redis publish"))
	fx.notificationRepo.EXPECT().MarkDelivered(ctx, notification.ID).Return(nil).Once()

	delivered, err := fx.service.PushToUser(ctx, "user-1", notification)
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestDeliveryService_PushToUser_MarkDeliveredFailure(t *testing.T) {
	fx := createTestDeliveryService(t)
	ctx := context.Background()
	notification := newTestNotification("user-1")
	dbErr := domainerrors.NewDatabaseExecuteError(errors.New("timeout"), "mark delivered")

	fx.presence.EXPECT().HasAny(ctx, "user-1").Return(true, nil)
	fx.bus.EXPECT().Publish(ctx, mock.Anything).Return(nil)
	fx.notificationRepo.EXPECT().MarkDelivered(ctx, notification.ID).Return(dbErr)

	delivered, err := fx.service.PushToUser(ctx, "user-1", notification)
	require.Error(t, err)
	assert.False(t, delivered)
	assert.ErrorIs(t, err, dbErr)
}

func TestDeliveryService_BroadcastAll(t *testing.T) {
	fx := createTestDeliveryService(t)
	ctx := context.Background()
	notification := newTestNotification("")

	fx.bus.EXPECT().
		Publish(ctx, mock.MatchedBy(func(envelope *service.DeliveryEnvelope) bool {
			return envelope.Broadcast && envelope.UserID == ""
		})).
		Return(errors.New("bus down"))

	assert.NotPanics(t, func() {
		fx.service.BroadcastAll(ctx, notification)
	})
	fx.presence.AssertNotCalled(t, "HasAny", mock.Anything, mock.Anything)
	fx.notificationRepo.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything)
}
