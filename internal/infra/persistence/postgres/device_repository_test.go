package postgres

import (
	"context"
	"testing"

	"beacon/internal/domain/entity"
	"beacon/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceRepository_UpsertDevice(t *testing.T) {
	repo := NewDeviceRepository(newTestDB(t))
	ctx := context.Background()

	device := &entity.UserDevice{UserID: "user-1", FCMToken: "token-1", Platform: "ios"}
	require.NoError(t, repo.UpsertDevice(ctx, device))
	firstID := device.ID

	moved := &entity.UserDevice{UserID: "user-2", FCMToken: "token-1", Platform: "android"}
	require.NoError(t, repo.UpsertDevice(ctx, moved))
	assert.Equal(t, firstID, moved.ID)
	assert.Equal(t, "user-2", moved.UserID)
	assert.Equal(t, "android", moved.Platform)

	previousOwner, err := repo.FindDevicesByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, previousOwner)

	newOwner, err := repo.FindDevicesByUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, newOwner, 1)
}

func TestDeviceRepository_DeleteDeviceByToken(t *testing.T) {
	repo := NewDeviceRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertDevice(ctx, &entity.UserDevice{UserID: "user-1", FCMToken: "token-1", Platform: "ios"}))

	err := repo.DeleteDeviceByToken(ctx, "user-2", "token-1")
	require.ErrorIs(t, err, repository.ErrDeviceNotFound)

	require.NoError(t, repo.DeleteDeviceByToken(ctx, "user-1", "token-1"))

	devices, err := repo.FindDevicesByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestDeviceRepository_DeleteDevicesByTokens(t *testing.T) {
	repo := NewDeviceRepository(newTestDB(t))
	ctx := context.Background()

	for _, token := range []string{"a", "b", "c"} {
		require.NoError(t, repo.UpsertDevice(ctx, &entity.UserDevice{UserID: "user-1", FCMToken: token, Platform: "web"}))
	}

	deleted, err := repo.DeleteDevicesByTokens(ctx, []string{"a", "c", "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	none, err := repo.DeleteDevicesByTokens(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, none)

	devices, err := repo.FindDevicesByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "b", devices[0].FCMToken)
}
