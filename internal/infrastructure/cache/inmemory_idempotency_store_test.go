package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	t.Run("first mark succeeds, second reports duplicate", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		isNew, err := store.MarkProcessed(context.Background(), "evt-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(context.Background(), "evt-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("is processed reflects marks", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		processed, err := store.IsProcessed(context.Background(), "evt-2")
		require.NoError(t, err)
		assert.False(t, processed)

		_, err = store.MarkProcessed(context.Background(), "evt-2", time.Minute)
		require.NoError(t, err)

		processed, err = store.IsProcessed(context.Background(), "evt-2")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired entry can be marked again", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		_, err := store.MarkProcessed(context.Background(), "evt-3", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		isNew, err := store.MarkProcessed(context.Background(), "evt-3", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("close is safe to call twice", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})
}
