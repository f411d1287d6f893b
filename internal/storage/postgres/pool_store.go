package postgres

import (
	"context"
	"fmt"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// PoolStore implements storage.PoolStore using PostgreSQL.
type PoolStore struct {
	pool *Pool
}

// NewPoolStore creates a new PoolStore.
func NewPoolStore(pool *Pool) *PoolStore {
	return &PoolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PoolStore = (*PoolStore)(nil)

// Insert adds a new lending pool. Returns ErrDuplicateKey if the id exists.
func (s *PoolStore) Insert(ctx context.Context, p *domain.LendingPool) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO lending_pools (
			id, collateral_token, borrow_token, ltv, created_at, block_number, tx_hash
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		p.ID,
		p.CollateralToken,
		p.BorrowToken,
		int64(p.LTV),
		p.CreatedAt,
		p.BlockNumber,
		p.TransactionHash,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert lending pool: %w", err)
	}
	return nil
}

// GetByID retrieves a pool by address. Returns ErrNotFound if absent.
func (s *PoolStore) GetByID(ctx context.Context, id string) (*domain.LendingPool, error) {
	query := `
		SELECT id, collateral_token, borrow_token, ltv, created_at, block_number, tx_hash
		FROM lending_pools
		WHERE id = $1
	`

	var p domain.LendingPool
	var ltv int64
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CollateralToken, &p.BorrowToken, &ltv, &p.CreatedAt, &p.BlockNumber, &p.TransactionHash,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get lending pool: %w", err)
	}
	p.LTV = uint64(ltv)
	return &p, nil
}

// List retrieves all pools in insertion order.
func (s *PoolStore) List(ctx context.Context) ([]*domain.LendingPool, error) {
	query := `
		SELECT id, collateral_token, borrow_token, ltv, created_at, block_number, tx_hash
		FROM lending_pools
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list lending pools: %w", err)
	}
	defer rows.Close()

	var result []*domain.LendingPool
	for rows.Next() {
		var p domain.LendingPool
		var ltv int64
		if err := rows.Scan(
			&p.ID, &p.CollateralToken, &p.BorrowToken, &ltv, &p.CreatedAt, &p.BlockNumber, &p.TransactionHash,
		); err != nil {
			return nil, fmt.Errorf("scan lending pool: %w", err)
		}
		p.LTV = uint64(ltv)
		result = append(result, &p)
	}
	return result, rows.Err()
}
