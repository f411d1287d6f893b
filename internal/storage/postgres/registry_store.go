package postgres

import (
	"context"
	"fmt"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// TokenSenderStore implements storage.TokenSenderStore using PostgreSQL.
type TokenSenderStore struct {
	pool *Pool
}

// NewTokenSenderStore creates a new TokenSenderStore.
func NewTokenSenderStore(pool *Pool) *TokenSenderStore {
	return &TokenSenderStore{pool: pool}
}

var _ storage.TokenSenderStore = (*TokenSenderStore)(nil)

func (s *TokenSenderStore) Insert(ctx context.Context, rec *domain.BasicTokenSender) error {
	if rec == nil || rec.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO basic_token_senders (id, chain_id, sender, block_number, tx_hash)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, rec.ID, rec.ChainID, rec.Sender, rec.BlockNumber, rec.TransactionHash)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token sender: %w", err)
	}
	return nil
}

func (s *TokenSenderStore) GetByID(ctx context.Context, id string) (*domain.BasicTokenSender, error) {
	query := `
		SELECT id, chain_id, sender, block_number, tx_hash
		FROM basic_token_senders
		WHERE id = $1
	`

	var rec domain.BasicTokenSender
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.ChainID, &rec.Sender, &rec.BlockNumber, &rec.TransactionHash,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token sender: %w", err)
	}
	return &rec, nil
}

func (s *TokenSenderStore) List(ctx context.Context) ([]*domain.BasicTokenSender, error) {
	query := `
		SELECT id, chain_id, sender, block_number, tx_hash
		FROM basic_token_senders
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list token senders: %w", err)
	}
	defer rows.Close()

	var result []*domain.BasicTokenSender
	for rows.Next() {
		var rec domain.BasicTokenSender
		if err := rows.Scan(&rec.ID, &rec.ChainID, &rec.Sender, &rec.BlockNumber, &rec.TransactionHash); err != nil {
			return nil, fmt.Errorf("scan token sender: %w", err)
		}
		result = append(result, &rec)
	}
	return result, rows.Err()
}

// DataStreamStore implements storage.DataStreamStore using PostgreSQL.
type DataStreamStore struct {
	pool *Pool
}

// NewDataStreamStore creates a new DataStreamStore.
func NewDataStreamStore(pool *Pool) *DataStreamStore {
	return &DataStreamStore{pool: pool}
}

var _ storage.DataStreamStore = (*DataStreamStore)(nil)

func (s *DataStreamStore) Insert(ctx context.Context, rec *domain.PriceDataStream) error {
	if rec == nil || rec.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO price_data_streams (id, token, data_stream, block_number, tx_hash)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, rec.ID, rec.Token, rec.DataStream, rec.BlockNumber, rec.TransactionHash)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert data stream: %w", err)
	}
	return nil
}

func (s *DataStreamStore) GetByID(ctx context.Context, id string) (*domain.PriceDataStream, error) {
	query := `
		SELECT id, token, data_stream, block_number, tx_hash
		FROM price_data_streams
		WHERE id = $1
	`

	var rec domain.PriceDataStream
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Token, &rec.DataStream, &rec.BlockNumber, &rec.TransactionHash,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get data stream: %w", err)
	}
	return &rec, nil
}

func (s *DataStreamStore) List(ctx context.Context) ([]*domain.PriceDataStream, error) {
	query := `
		SELECT id, token, data_stream, block_number, tx_hash
		FROM price_data_streams
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list data streams: %w", err)
	}
	defer rows.Close()

	var result []*domain.PriceDataStream
	for rows.Next() {
		var rec domain.PriceDataStream
		if err := rows.Scan(&rec.ID, &rec.Token, &rec.DataStream, &rec.BlockNumber, &rec.TransactionHash); err != nil {
			return nil, fmt.Errorf("scan data stream: %w", err)
		}
		result = append(result, &rec)
	}
	return result, rows.Err()
}
