package sequence

import (
	"context"
	"sync"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/storage"
	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.SequenceTracker = (*MemoryTracker)(nil)
var _ storage.SequenceTracker = (*RedisTracker)(nil)

// exerciseTracker runs the ordering contract shared by every tracker
func exerciseTracker(t *testing.T, tracker storage.SequenceTracker, session string) {
	ctx := context.Background()

	t.Run("Chunk before start", func(t *testing.T) {
		assert.ErrorIs(t, tracker.Claim(ctx, session, 1), errs.ErrChunkOutOfOrder)
	})

	t.Run("In order", func(t *testing.T) {
		require.NoError(t, tracker.Claim(ctx, session, 0))
		require.NoError(t, tracker.Claim(ctx, session, 1))
		require.NoError(t, tracker.Claim(ctx, session, 2))
	})

	t.Run("Gap and repeat are rejected", func(t *testing.T) {
		assert.ErrorIs(t, tracker.Claim(ctx, session, 4), errs.ErrChunkOutOfOrder)
		assert.ErrorIs(t, tracker.Claim(ctx, session, 2), errs.ErrChunkOutOfOrder)
		require.NoError(t, tracker.Claim(ctx, session, 3), "a rejected chunk does not move the expectation")
	})

	t.Run("Index 0 restarts", func(t *testing.T) {
		require.NoError(t, tracker.Claim(ctx, session, 0))
		assert.ErrorIs(t, tracker.Claim(ctx, session, 4), errs.ErrChunkOutOfOrder)
		require.NoError(t, tracker.Claim(ctx, session, 1))
	})

	t.Run("Forget", func(t *testing.T) {
		require.NoError(t, tracker.Forget(ctx, session))
		assert.ErrorIs(t, tracker.Claim(ctx, session, 2), errs.ErrChunkOutOfOrder)
		require.NoError(t, tracker.Forget(ctx, "never-seen"))
	})
}

func TestMemoryTracker(t *testing.T) {
	clock := coremocks.NewFakeTimeProvider(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	exerciseTracker(t, NewMemoryTracker(clock, time.Minute), "session-1")
}

func TestMemoryTrackerSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	tracker := NewMemoryTracker(coremocks.NewFakeTimeProvider(time.Now()), time.Minute)

	require.NoError(t, tracker.Claim(ctx, "a", 0))
	require.NoError(t, tracker.Claim(ctx, "b", 0))
	require.NoError(t, tracker.Claim(ctx, "a", 1))
	require.NoError(t, tracker.Claim(ctx, "b", 1))
	assert.Equal(t, 2, tracker.Len())
}

func TestMemoryTrackerExpiry(t *testing.T) {
	ctx := context.Background()
	clock := coremocks.NewFakeTimeProvider(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	tracker := NewMemoryTracker(clock, time.Minute)

	require.NoError(t, tracker.Claim(ctx, "idle", 0))
	clock.Advance(59 * time.Second)
	require.NoError(t, tracker.Claim(ctx, "idle", 1))

	clock.Advance(time.Minute)
	assert.ErrorIs(t, tracker.Claim(ctx, "idle", 2), errs.ErrChunkOutOfOrder)
	assert.Zero(t, tracker.Len())
}

func TestMemoryTrackerConcurrentClaims(t *testing.T) {
	ctx := context.Background()
	tracker := NewMemoryTracker(coremocks.NewFakeTimeProvider(time.Now()), time.Minute)
	require.NoError(t, tracker.Claim(ctx, "s", 0))

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tracker.Claim(ctx, "s", 1) == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
}

func TestMemoryTrackerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tracker := NewMemoryTracker(coremocks.NewFakeTimeProvider(time.Now()), 0)
	assert.ErrorIs(t, tracker.Claim(ctx, "s", 0), context.Canceled)
}
