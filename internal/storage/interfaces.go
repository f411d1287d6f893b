package storage

import (
	"context"

	"github.com/wildanre/ponder-etherlink/internal/domain"
)

// All stores are append-only: Insert never updates, List never filters.
// Filtering, sorting and pagination happen in the query layer over a full
// scan. O(n) per query is acceptable while the ledger stays bounded.
//
// List must return records in a stable order (insertion order) so that
// pagination over repeated scans is reproducible.

// PoolStore provides access to lending pool records.
type PoolStore interface {
	// Insert adds a new pool. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, p *domain.LendingPool) error

	// GetByID retrieves a pool by address. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.LendingPool, error)

	// List retrieves all pools in insertion order.
	List(ctx context.Context) ([]*domain.LendingPool, error)
}

// PositionStore provides access to position records.
type PositionStore interface {
	// Insert adds a new position. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, p *domain.Position) error

	// GetByID retrieves a position by address. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.Position, error)

	// List retrieves all positions in insertion order.
	List(ctx context.Context) ([]*domain.Position, error)
}

// ActivityStore provides access to the activity ledger.
type ActivityStore interface {
	// Insert appends a new activity. Returns ErrDuplicateKey if the
	// (txHash, logIndex) identity exists.
	Insert(ctx context.Context, a *domain.Activity) error

	// GetByID retrieves an activity by id. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.Activity, error)

	// List retrieves the full ledger in insertion order.
	List(ctx context.Context) ([]*domain.Activity, error)
}

// TokenSenderStore provides access to basic token sender registrations.
type TokenSenderStore interface {
	Insert(ctx context.Context, s *domain.BasicTokenSender) error
	GetByID(ctx context.Context, id string) (*domain.BasicTokenSender, error)
	List(ctx context.Context) ([]*domain.BasicTokenSender, error)
}

// DataStreamStore provides access to price data stream registrations.
type DataStreamStore interface {
	Insert(ctx context.Context, s *domain.PriceDataStream) error
	GetByID(ctx context.Context, id string) (*domain.PriceDataStream, error)
	List(ctx context.Context) ([]*domain.PriceDataStream, error)
}
