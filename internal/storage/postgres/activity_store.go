package postgres

import (
	"context"
	"fmt"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// ActivityStore implements storage.ActivityStore using PostgreSQL.
// Amounts are stored as text (decimal strings): the ledger never does SQL
// arithmetic, all aggregation runs in Go over full scans.
type ActivityStore struct {
	pool *Pool
}

// NewActivityStore creates a new ActivityStore.
func NewActivityStore(pool *Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ActivityStore = (*ActivityStore)(nil)

// Insert appends a new activity. Returns ErrDuplicateKey if the id exists.
func (s *ActivityStore) Insert(ctx context.Context, a *domain.Activity) error {
	if a == nil || a.ID == "" || !a.Type.Valid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO activities (
			id, activity_type, user_address, pool_address, amount, shares,
			chain_id, bridge_token_sender, block_number, tx_hash, log_index, ts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.pool.Exec(ctx, query,
		a.ID,
		string(a.Type),
		a.User,
		a.PoolAddress,
		a.Amount.String(),
		amountOrNil(a.Shares),
		a.ChainID,
		amountOrNil(a.BridgeTokenSender),
		a.BlockNumber,
		a.TransactionHash,
		a.LogIndex,
		a.Timestamp,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// GetByID retrieves an activity by id. Returns ErrNotFound if absent.
func (s *ActivityStore) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := activitySelect + ` WHERE id = $1`

	row := s.pool.QueryRow(ctx, query, id)
	a, err := scanActivity(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

// List retrieves the full ledger in insertion order.
func (s *ActivityStore) List(ctx context.Context) ([]*domain.Activity, error) {
	query := activitySelect + ` ORDER BY seq ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var result []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

const activitySelect = `
	SELECT id, activity_type, user_address, pool_address, amount, shares,
	       chain_id, bridge_token_sender, block_number, tx_hash, log_index, ts
	FROM activities`

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var (
		a         domain.Activity
		typ       string
		amount    string
		shares    *string
		bridgeSnd *string
	)
	if err := row.Scan(
		&a.ID, &typ, &a.User, &a.PoolAddress, &amount, &shares,
		&a.ChainID, &bridgeSnd, &a.BlockNumber, &a.TransactionHash, &a.LogIndex, &a.Timestamp,
	); err != nil {
		return nil, err
	}

	a.Type = domain.ActivityType(typ)

	parsed, err := domain.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	a.Amount = parsed

	if a.Shares, err = parseOptional(shares); err != nil {
		return nil, err
	}
	if a.BridgeTokenSender, err = parseOptional(bridgeSnd); err != nil {
		return nil, err
	}
	return &a, nil
}

func amountOrNil(a *domain.Amount) *string {
	if a == nil {
		return nil
	}
	s := a.String()
	return &s
}

func parseOptional(s *string) (*domain.Amount, error) {
	if s == nil {
		return nil, nil
	}
	return domain.ParseAmount(*s)
}
