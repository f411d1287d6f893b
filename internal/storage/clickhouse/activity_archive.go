package clickhouse

import (
	"context"
	"fmt"

	"github.com/wildanre/ponder-etherlink/internal/domain"
)

// ActivityArchive mirrors the activity ledger into ClickHouse for analytics
// offload. It is write-behind only: the serving read path never depends on
// it, and redeliveries are collapsed by ReplacingMergeTree on id rather than
// rejected at insert time (ClickHouse does not enforce uniqueness).
type ActivityArchive struct {
	conn *Conn
}

// NewActivityArchive creates a new ActivityArchive.
func NewActivityArchive(conn *Conn) *ActivityArchive {
	return &ActivityArchive{conn: conn}
}

// Append mirrors one activity into the archive.
func (s *ActivityArchive) Append(ctx context.Context, a *domain.Activity) error {
	if a == nil {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO activity_archive (
			id, activity_type, user_address, pool_address, amount, shares,
			chain_id, bridge_token_sender, block_number, tx_hash, log_index, ts
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		a.ID,
		string(a.Type),
		a.User,
		a.PoolAddress,
		a.Amount.String(),
		optionalString(a.Shares),
		a.ChainID,
		optionalString(a.BridgeTokenSender),
		a.BlockNumber,
		a.TransactionHash,
		a.LogIndex,
		a.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// CountRange returns the number of archived activities with ts in
// [start, end), after ReplacingMergeTree dedup.
func (s *ActivityArchive) CountRange(ctx context.Context, start, end int64) (uint64, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM (
			SELECT id FROM activity_archive FINAL WHERE ts >= ? AND ts < ?
		)
	`, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count archive range: %w", err)
	}
	return count, nil
}

func optionalString(a *domain.Amount) *string {
	if a == nil {
		return nil
	}
	s := a.String()
	return &s
}
