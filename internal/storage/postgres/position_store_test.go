package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

func TestPositionStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPositionStore(pool)

	p := &domain.Position{
		ID:              "0xposA",
		User:            "0xu1",
		PositionAddress: "0xposA",
		PoolAddress:     "0xpool1",
		BlockNumber:     10,
		TransactionHash: "0xtx1",
		Timestamp:       1700000000,
	}

	err := store.Insert(ctx, p)
	require.NoError(t, err)

	got, err := store.GetByID(ctx, "0xposA")
	require.NoError(t, err)
	assert.True(t, got.Equal(p), "round trip changed content: %+v", got)
}

func TestPositionStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPositionStore(pool)

	p := &domain.Position{ID: "0xposA", User: "0xu1", PositionAddress: "0xposA", PoolAddress: "0xpool1"}
	require.NoError(t, store.Insert(ctx, p))

	err := store.Insert(ctx, p)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPositionStore_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPositionStore(pool)

	for _, id := range []string{"0xposB", "0xposA"} {
		require.NoError(t, store.Insert(ctx, &domain.Position{
			ID: id, User: "0xu1", PositionAddress: id, PoolAddress: "0xpool1",
		}))
	}

	result, err := store.List(ctx)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "0xposB", result[0].ID)
	assert.Equal(t, "0xposA", result[1].ID)
}

func TestPositionStore_GetMissing(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPositionStore(pool)
	_, err := store.GetByID(context.Background(), "0xmissing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
