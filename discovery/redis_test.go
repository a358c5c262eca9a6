package discovery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/failspec/spec"
)

// setupRedisStore creates a miniredis instance and returns a connected store.
func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestNewRedisStore(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		store, err := NewRedisStore(RedisOptions{
			URL: fmt.Sprintf("redis://%s", mr.Addr()),
		})
		require.NoError(t, err)
		require.NotNil(t, store)
		defer store.Close()
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewRedisStore(RedisOptions{URL: "not-a-url"})
		require.Error(t, err)
	})
}

func TestRedisStore_Sequence(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		seq, err := store.NextSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, seq)
	}
}

func TestRedisStore_SaveGetList(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	first := &spec.Discovery{
		ID:           "D001",
		Description:  "race in refund path",
		DiscoveredBy: "verifier@example.com",
		DiscoveredAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Disposition:  spec.DispositionPending,
	}
	second := &spec.Discovery{
		ID:           "D002",
		Description:  "stale cache after rollback",
		DiscoveredBy: "builder@example.com",
		Disposition:  spec.DispositionPending,
	}

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Get(ctx, "D001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.Description, got.Description)
	assert.True(t, first.DiscoveredAt.Equal(got.DiscoveredAt))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "D001", all[0].ID)
	assert.Equal(t, "D002", all[1].ID)
}

func TestRedisStore_GetAbsent(t *testing.T) {
	store := setupRedisStore(t)

	got, err := store.Get(context.Background(), "D404")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_SaveInvalid(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, nil))
	assert.Error(t, store.Save(ctx, &spec.Discovery{ID: "X001"}))
}

func TestRedisStore_LedgerIntegration(t *testing.T) {
	store := setupRedisStore(t)
	ledger := NewLedger(store, WithLogger(quietLogger()))
	ctx := context.Background()

	d, err := ledger.Discover(ctx, "race in refund path", "verifier@example.com")
	require.NoError(t, err)
	assert.Equal(t, "D001", d.ID)

	_, err = ledger.SetDisposition(ctx, d.ID, spec.DispositionAcceptedRisk)
	require.NoError(t, err)

	reloaded, err := ledger.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, spec.DispositionAcceptedRisk, reloaded.Disposition)
}
