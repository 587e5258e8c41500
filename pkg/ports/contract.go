package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynbosch/menuflow/pkg/domain"
)

// RunPositionStoreContract runs a suite of tests to verify that a
// PositionStore implementation adheres to the defined interface contract.
func RunPositionStoreContract(t *testing.T, store PositionStore) {
	ctx := context.Background()
	userID := "contract-test-user-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		pos := domain.NewPosition(domain.Zulu)
		pos.Current = "main_menu"
		pos.Previous = "language_selector"
		pos.HasStarted = true

		err := store.Save(ctx, userID, pos)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "main_menu", loaded.Current)
		assert.Equal(t, "language_selector", loaded.Previous)
		assert.Equal(t, domain.Zulu, loaded.Language)
		assert.True(t, loaded.HasStarted)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+userID)
		assert.ErrorIs(t, err, domain.ErrPositionNotFound)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		pos := domain.NewPosition(domain.English)
		pos.Current = "main_menu"
		require.NoError(t, store.Save(ctx, userID, pos))

		first, err := store.Load(ctx, userID)
		require.NoError(t, err)
		first.Current = "mutated"

		second, err := store.Load(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "main_menu", second.Current, "mutating a loaded position must not affect the store")
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, userID, domain.NewPosition(domain.English))
		require.NoError(t, err)

		err = store.Delete(ctx, userID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrPositionNotFound, "Load after Delete should return ErrPositionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := userID + "-1"
		id2 := userID + "-2"
		_ = store.Save(ctx, id1, domain.NewPosition(domain.English))
		_ = store.Save(ctx, id2, domain.NewPosition(domain.Afrikaans))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		users, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, users, id1)
		assert.Contains(t, users, id2)
	})
}
