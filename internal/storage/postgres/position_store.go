package postgres

import (
	"context"
	"fmt"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// PositionStore implements storage.PositionStore using PostgreSQL.
type PositionStore struct {
	pool *Pool
}

// NewPositionStore creates a new PositionStore.
func NewPositionStore(pool *Pool) *PositionStore {
	return &PositionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PositionStore = (*PositionStore)(nil)

// Insert adds a new position. Returns ErrDuplicateKey if the id exists.
func (s *PositionStore) Insert(ctx context.Context, p *domain.Position) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO positions (
			id, user_address, position_address, pool_address, block_number, tx_hash, ts
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		p.ID,
		p.User,
		p.PositionAddress,
		p.PoolAddress,
		p.BlockNumber,
		p.TransactionHash,
		p.Timestamp,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert position: %w", err)
	}
	return nil
}

// GetByID retrieves a position by address. Returns ErrNotFound if absent.
func (s *PositionStore) GetByID(ctx context.Context, id string) (*domain.Position, error) {
	query := `
		SELECT id, user_address, position_address, pool_address, block_number, tx_hash, ts
		FROM positions
		WHERE id = $1
	`

	var p domain.Position
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.User, &p.PositionAddress, &p.PoolAddress, &p.BlockNumber, &p.TransactionHash, &p.Timestamp,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get position: %w", err)
	}
	return &p, nil
}

// List retrieves all positions in insertion order.
func (s *PositionStore) List(ctx context.Context) ([]*domain.Position, error) {
	query := `
		SELECT id, user_address, position_address, pool_address, block_number, tx_hash, ts
		FROM positions
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var result []*domain.Position
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(
			&p.ID, &p.User, &p.PositionAddress, &p.PoolAddress, &p.BlockNumber, &p.TransactionHash, &p.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}
