package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown key is not processed", func(t *testing.T) {
		store := NewMemoryStore()

		processed, err := store.IsProcessed(ctx, "sig-1")
		require.NoError(t, err)
		require.False(t, processed)
	})

	t.Run("marked key is processed until ttl expires", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.MarkProcessed(ctx, "sig-1", time.Hour))

		processed, err := store.IsProcessed(ctx, "sig-1")
		require.NoError(t, err)
		require.True(t, processed)
	})

	t.Run("expired key is not processed", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.MarkProcessed(ctx, "sig-1", -time.Second))

		processed, err := store.IsProcessed(ctx, "sig-1")
		require.NoError(t, err)
		require.False(t, processed)
	})

	t.Run("keys are independent", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.MarkProcessed(ctx, "sig-1", time.Hour))

		processed, err := store.IsProcessed(ctx, "sig-2")
		require.NoError(t, err)
		require.False(t, processed)
	})
}
