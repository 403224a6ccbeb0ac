package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lockEpoch = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func setupLockRepo(t *testing.T) *repository.UploadLockRepository {
	t.Helper()
	testDB := database.NewTestDBManager(t, logger.NewNoopLogger())
	return repository.NewUploadLockRepository(testDB.DB(), logger.NewNoopLogger())
}

func acquireAt(t *testing.T, repo *repository.UploadLockRepository, owner string, now time.Time) bool {
	t.Helper()
	ok, err := repo.TryAcquire(context.Background(), owner, now, now.Add(-entity.DefaultLockTimeout))
	require.NoError(t, err)
	return ok
}

func TestUploadLockSeed(t *testing.T) {
	repo := setupLockRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, lockEpoch))
	require.NoError(t, repo.Seed(ctx, lockEpoch.Add(time.Hour)), "seeding twice is a no-op")

	state, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.MainLockID, state.ID)
	assert.False(t, state.Uploading)
	assert.Empty(t, state.Owner)
	assert.True(t, lockEpoch.Equal(state.UpdatedAt))
}

func TestUploadLockAcquireAndRelease(t *testing.T) {
	repo := setupLockRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, lockEpoch))

	assert.True(t, acquireAt(t, repo, "session-a", lockEpoch))
	assert.True(t, acquireAt(t, repo, "session-a", lockEpoch.Add(10*time.Second)), "re-entrant for the owner")
	assert.False(t, acquireAt(t, repo, "session-b", lockEpoch.Add(20*time.Second)), "held by another session")

	state, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, state.Uploading)
	assert.Equal(t, "session-a", state.Owner)
	assert.True(t, lockEpoch.Add(10*time.Second).Equal(state.UpdatedAt), "re-acquire refreshes updatedAt")

	require.NoError(t, repo.Release(ctx, lockEpoch.Add(30*time.Second)))
	assert.True(t, acquireAt(t, repo, "session-b", lockEpoch.Add(31*time.Second)))
}

func TestUploadLockStaleness(t *testing.T) {
	repo := setupLockRepo(t)
	require.NoError(t, repo.Seed(context.Background(), lockEpoch))
	require.True(t, acquireAt(t, repo, "session-a", lockEpoch))

	assert.False(t, acquireAt(t, repo, "session-b", lockEpoch.Add(59*time.Second)))
	assert.True(t, acquireAt(t, repo, "session-b", lockEpoch.Add(60*time.Second)), "timeout elapsed")
}

func TestUploadLockCreatesMissingRow(t *testing.T) {
	repo := setupLockRepo(t)

	assert.True(t, acquireAt(t, repo, "session-a", lockEpoch))
	assert.False(t, acquireAt(t, repo, "session-b", lockEpoch.Add(time.Second)))

	state, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "session-a", state.Owner)
}

func TestUploadLockGetWithoutRow(t *testing.T) {
	repo := setupLockRepo(t)

	state, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Uploading)
	assert.Empty(t, state.Owner)
}

func TestUploadLockSingleWinner(t *testing.T) {
	repo := setupLockRepo(t)
	require.NoError(t, repo.Seed(context.Background(), lockEpoch))

	owners := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}
	results := make([]bool, len(owners))

	var wg sync.WaitGroup
	for i, owner := range owners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.TryAcquire(context.Background(), owner, lockEpoch, lockEpoch.Add(-time.Minute))
			assert.NoError(t, err)
			results[i] = ok
		}()
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}
