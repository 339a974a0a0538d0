package adapters

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "github.com/longlodw/news/news/core/ports"
)

func TestMemoryCacheLoadManyNewestOldestFirst(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheStore()

	for i := 0; i < 5; i++ {
		require.NoError(t, cache.Store(ctx, fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i)))
	}

	entries, err := cache.LoadMany(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// The 3 newest, presented in creation order.
	assert.Equal(t, "k2", entries[0].Key)
	assert.Equal(t, "k3", entries[1].Key)
	assert.Equal(t, "k4", entries[2].Key)
}

func TestMemoryCacheLoadAndNotFound(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheStore()

	require.NoError(t, cache.Store(ctx, "handle", "value"))

	value, err := cache.Load(ctx, "handle")
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	_, err = cache.Load(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMemoryCacheOverwriteRefreshesRecency(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheStore()

	require.NoError(t, cache.Store(ctx, "a", "1"))
	require.NoError(t, cache.Store(ctx, "b", "2"))
	require.NoError(t, cache.Store(ctx, "a", "3"))

	entries, err := cache.LoadMany(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, "3", entries[0].Value)
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheStore()

	require.NoError(t, cache.Store(ctx, "a", "1"))
	require.NoError(t, cache.Store(ctx, "b", "2"))

	require.NoError(t, cache.Delete(ctx, "a"))
	_, err := cache.Load(ctx, "a")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	// Deleting a missing key is a no-op.
	require.NoError(t, cache.Delete(ctx, "a"))

	require.NoError(t, cache.Clear(ctx))
	entries, err := cache.LoadMany(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
