package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

func TestPoolStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPoolStore(pool)

	p := &domain.LendingPool{
		ID:              "0xpool1",
		CollateralToken: "0xweth",
		BorrowToken:     "0xusdc",
		LTV:             80,
		CreatedAt:       1700000000,
		BlockNumber:     10,
		TransactionHash: "0xtx1",
	}

	err := store.Insert(ctx, p)
	require.NoError(t, err)

	got, err := store.GetByID(ctx, "0xpool1")
	require.NoError(t, err)
	assert.True(t, got.Equal(p), "round trip changed content: %+v", got)
}

func TestPoolStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPoolStore(pool)

	p := &domain.LendingPool{ID: "0xpool1", CollateralToken: "0xweth", BorrowToken: "0xusdc", LTV: 80}
	require.NoError(t, store.Insert(ctx, p))

	err := store.Insert(ctx, p)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPoolStore_ListKeepsInsertionOrder(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPoolStore(pool)

	for _, id := range []string{"0xpool3", "0xpool1", "0xpool2"} {
		require.NoError(t, store.Insert(ctx, &domain.LendingPool{
			ID: id, CollateralToken: "0xweth", BorrowToken: "0xusdc", LTV: 80,
		}))
	}

	result, err := store.List(ctx)
	require.NoError(t, err)

	require.Len(t, result, 3)
	assert.Equal(t, "0xpool3", result[0].ID)
	assert.Equal(t, "0xpool1", result[1].ID)
	assert.Equal(t, "0xpool2", result[2].ID)
}

func TestPoolStore_GetMissing(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPoolStore(pool)
	_, err := store.GetByID(context.Background(), "0xmissing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
