package impl

import (
	"context"
	"testing"
	"time"

	"beacon/internal/domain/entity"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/errors"
	mockRepo "beacon/internal/mocks/repository"
	mockService "beacon/internal/mocks/service"
	mockUsecase "beacon/internal/mocks/usecase"
	"beacon/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ingestServiceFixtures struct {
	service          usecase.IngestUsecase
	notificationRepo *mockRepo.MockNotificationRepository
	deviceRepo       *mockRepo.MockDeviceRepository
	delivery         *mockUsecase.MockDeliveryUsecase
	pushSvc          *mockService.MockNotificationService
}

func createTestIngestService(t *testing.T, withPush bool) ingestServiceFixtures {
	fixtures := ingestServiceFixtures{
		notificationRepo: mockRepo.NewMockNotificationRepository(t),
		deviceRepo:       mockRepo.NewMockDeviceRepository(t),
		delivery:         mockUsecase.NewMockDeliveryUsecase(t),
	}

	params := IngestServiceParams{
		Logger:           newDiscardLogger(),
		NotificationRepo: fixtures.notificationRepo,
		DeviceRepo:       fixtures.deviceRepo,
		Delivery:         fixtures.delivery,
	}
	if withPush {
		fixtures.pushSvc = mockService.NewMockNotificationService(t)
		params.PushSvc = fixtures.pushSvc
	}
	fixtures.service = NewIngestService(params)

	return fixtures
}

func newTestRequest() *usecase.NotificationRequest {
	return &usecase.NotificationRequest{
		UserID:  "user-1",
		Type:    "order",
		Title:   "Order shipped",
		Message: "Your order is on its way",
	}
}

func TestIngestService_StoresAndPushes(t *testing.T) {
	fx := createTestIngestService(t, false)
	ctx := context.Background()

	fx.notificationRepo.EXPECT().
		CreateNotification(ctx, mock.AnythingOfType("*entity.Notification")).
		Run(func(_ context.Context, n *entity.Notification) {
			assert.NotEqual(t, uuid.Nil, n.ID)
			assert.Equal(t, "user-1", n.UserID)
			n.CreatedAt = time.Now()
		}).
		Return(nil)
	fx.delivery.EXPECT().PushToUser(ctx, "user-1", mock.Anything).Return(true, nil).Once()

	result, err := fx.service.Ingest(ctx, newTestRequest())
	require.NoError(t, err)
	assert.True(t, result.Delivered)
	assert.False(t, result.Duplicate)
	assert.Equal(t, "Order shipped", result.Notification.Title)
}

func TestIngestService_InvalidRequest(t *testing.T) {
	fx := createTestIngestService(t, false)
	req := newTestRequest()
	req.UserID = ""

	result, err := fx.service.Ingest(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	fx.notificationRepo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestIngestService_DuplicateAlreadyDelivered(t *testing.T) {
	fx := createTestIngestService(t, true)
	ctx := context.Background()
	existingID := uuid.Must(uuid.NewV7())
	deliveredAt := time.Now().Add(-time.Minute)

	req := newTestRequest()
	req.IdempotencyKey = "order-42-shipped"

	fx.notificationRepo.EXPECT().
		CreateNotification(ctx, mock.Anything).
		Run(func(_ context.Context, n *entity.Notification) {
			n.ID = existingID
			n.Delivered = true
			n.DeliveredAt = &deliveredAt
		}).
		Return(nil)

	result, err := fx.service.Ingest(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.True(t, result.Delivered)
	assert.Equal(t, existingID, result.Notification.ID)
	fx.delivery.AssertNotCalled(t, "PushToUser", mock.Anything, mock.Anything, mock.Anything)
	fx.pushSvc.AssertNotCalled(t, "SendBatchNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestService_DuplicateUndeliveredIsPushedAgain(t *testing.T) {
	fx := createTestIngestService(t, true)
	ctx := context.Background()
	existingID := uuid.Must(uuid.NewV7())

	fx.notificationRepo.EXPECT().
		CreateNotification(ctx, mock.Anything).
		Run(func(_ context.Context, n *entity.Notification) { n.ID = existingID }).
		Return(nil)
	fx.delivery.EXPECT().PushToUser(ctx, "user-1", mock.Anything).Return(false, nil).Once()

	result, err := fx.service.Ingest(ctx, newTestRequest())
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.False(t, result.Delivered)
	assert.Zero(t, result.FallbackSent)
	fx.deviceRepo.AssertNotCalled(t, "FindDevicesByUser", mock.Anything, mock.Anything)
}

func TestIngestService_StoreFailure(t *testing.T) {
	fx := createTestIngestService(t, false)
	ctx := context.Background()

	fx.notificationRepo.EXPECT().
		CreateNotification(ctx, mock.Anything).
		Return(domainerrors.NewDatabaseExecuteError(errors.New("db down"), "create"))

	result, err := fx.service.Ingest(ctx, newTestRequest())
	require.Error(t, err)
	assert.Nil(t, result)

	var dbErr *domainerrors.DatabaseExecuteError
	assert.ErrorAs(t, err, &dbErr)
	fx.delivery.AssertNotCalled(t, "PushToUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestService_PushFailure(t *testing.T) {
	fx := createTestIngestService(t, false)
	ctx := context.Background()

	fx.notificationRepo.EXPECT().CreateNotification(ctx, mock.Anything).Return(nil)
	fx.delivery.EXPECT().
		PushToUser(ctx, "user-1", mock.Anything).
		Return(false, domainerrors.NewFanoutError(errors.New("bus down"), "publish"))

	result, err := fx.service.Ingest(ctx, newTestRequest())
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestIngestService_OfflineFallbackPrunesInvalidTokens(t *testing.T) {
	fx := createTestIngestService(t, true)
	ctx := context.Background()

	fx.notificationRepo.EXPECT().CreateNotification(ctx, mock.Anything).Return(nil)
	fx.delivery.EXPECT().PushToUser(ctx, "user-1", mock.Anything).Return(false, nil)
	fx.deviceRepo.EXPECT().
		FindDevicesByUser(ctx, "user-1").
		Return([]*entity.UserDevice{
			{UserID: "user-1", FCMToken: "token-a"},
			{UserID: "user-1", FCMToken: "token-b"},
		}, nil)
	fx.pushSvc.EXPECT().
		SendBatchNotification(ctx, []string{"token-a", "token-b"}, "Order shipped", "Your order is on its way", mock.Anything).
		Return(1, 1, []string{"token-b"}, nil)
	fx.deviceRepo.EXPECT().DeleteDevicesByTokens(ctx, []string{"token-b"}).Return(int64(1), nil)

	result, err := fx.service.Ingest(ctx, newTestRequest())
	require.NoError(t, err)
	assert.False(t, result.Delivered)
	assert.Equal(t, 1, result.FallbackSent)
}

func TestIngestService_OfflineFallbackFailureIsNotAnError(t *testing.T) {
	fx := createTestIngestService(t, true)
	ctx := context.Background()

	fx.notificationRepo.EXPECT().CreateNotification(ctx, mock.Anything).Return(nil)
	fx.delivery.EXPECT().PushToUser(ctx, "user-1", mock.Anything).Return(false, nil)
	fx.deviceRepo.EXPECT().
		FindDevicesByUser(ctx, "user-1").
		Return([]*entity.UserDevice{{UserID: "user-1", FCMToken: "token-a"}}, nil)
	fx.pushSvc.EXPECT().
		SendBatchNotification(ctx, []string{"token-a"}, mock.Anything, mock.Anything, mock.Anything).
		Return(0, 0, nil, errors.New("fcm unavailable"))

	result, err := fx.service.Ingest(ctx, newTestRequest())
	require.NoError(t, err)
	assert.Zero(t, result.FallbackSent)
}
