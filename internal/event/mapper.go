package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/observability"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// ErrUnknownPool marks an activity whose pool address has no pool record.
// Every activity must reference an existing lending pool.
var ErrUnknownPool = errors.New("activity references unknown pool")

// Archiver receives a best-effort mirror of every appended activity.
// Archive failures never fail ingestion.
type Archiver interface {
	Append(ctx context.Context, a *domain.Activity) error
}

// Mapper translates decoded chain events into ledger insertions.
//
// Handle is idempotent against redelivery: re-processing an event whose id
// already exists with identical content is a no-op. The same id with
// different content is a data-integrity conflict: it is logged at error
// level and rejected without touching the stored record. One bad event
// never blocks the next; the host keeps dispatching.
type Mapper struct {
	pools     storage.PoolStore
	positions storage.PositionStore
	ledger    storage.ActivityStore
	senders   storage.TokenSenderStore
	streams   storage.DataStreamStore
	archive   Archiver // optional
	log       zerolog.Logger
}

// MapperOptions collects the mapper's dependencies.
type MapperOptions struct {
	Pools     storage.PoolStore
	Positions storage.PositionStore
	Ledger    storage.ActivityStore
	Senders   storage.TokenSenderStore
	Streams   storage.DataStreamStore
	Archive   Archiver // optional analytics mirror
	Logger    zerolog.Logger
}

// NewMapper creates a new event mapper.
func NewMapper(opts MapperOptions) *Mapper {
	return &Mapper{
		pools:     opts.Pools,
		positions: opts.Positions,
		ledger:    opts.Ledger,
		senders:   opts.Senders,
		streams:   opts.Streams,
		archive:   opts.Archive,
		log:       opts.Logger,
	}
}

// Handle applies one decoded event to the ledger.
func (m *Mapper) Handle(ctx context.Context, ev DecodedEvent) error {
	switch p := ev.Payload.(type) {
	case PoolCreated:
		return m.handlePoolCreated(ctx, ev, p)
	case TokenSenderAdded:
		return m.handleTokenSenderAdded(ctx, ev, p)
	case DataStreamAdded:
		return m.handleDataStreamAdded(ctx, ev, p)
	case PositionCreated:
		return m.handlePositionCreated(ctx, ev, p)
	case LiquiditySupplied:
		return m.appendActivity(ctx, ev, domain.ActivityLiquiditySupply, p.User, p.Amount, p.Shares, nil, nil)
	case LiquidityWithdrawn:
		return m.appendActivity(ctx, ev, domain.ActivityLiquidityWithdraw, p.User, p.Amount, p.Shares, nil, nil)
	case CollateralSupplied:
		return m.appendActivity(ctx, ev, domain.ActivityCollateralSupply, p.User, p.Amount, nil, nil, nil)
	case DebtBorrowed:
		return m.appendActivity(ctx, ev, domain.ActivityBorrow, p.User, p.Amount, p.Shares, nil, nil)
	case CrosschainDebtBorrowed:
		chainID := p.ChainID
		return m.appendActivity(ctx, ev, domain.ActivityBorrowCrosschain, p.User, p.Amount, p.Shares, &chainID, p.BridgeTokenSender)
	case CollateralRepaid:
		return m.appendActivity(ctx, ev, domain.ActivityRepayWithCollateral, p.User, p.Amount, p.Shares, nil, nil)
	case Liquidated, TokenSwapped, PositionTokenSwapped, CollateralWithdrawn:
		// Observed but not persisted. Whether these belong in the ledger
		// schema is unresolved upstream; keep the gap visible in logs.
		m.log.Info().
			Str("event", ev.Name).
			Str("contract", ev.Contract).
			Str("txHash", ev.TransactionHash).
			Msg("observed unmapped event, no ledger mutation")
		observability.RecordEventObserved(ev.Name)
		return nil
	case nil:
		return fmt.Errorf("handle %s: nil payload", ev.Name)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Name)
	}
}

func (m *Mapper) handlePoolCreated(ctx context.Context, ev DecodedEvent, p PoolCreated) error {
	if p.Pool == "" {
		return fmt.Errorf("handle %s: %w: empty pool address", ev.Name, storage.ErrInvalidInput)
	}

	pool := &domain.LendingPool{
		ID:              p.Pool,
		CollateralToken: p.CollateralToken,
		BorrowToken:     p.BorrowToken,
		LTV:             p.LTV,
		CreatedAt:       ev.Timestamp,
		BlockNumber:     ev.BlockNumber,
		TransactionHash: ev.TransactionHash,
	}

	err := m.pools.Insert(ctx, pool)
	if errors.Is(err, storage.ErrDuplicateKey) {
		existing, getErr := m.pools.GetByID(ctx, pool.ID)
		if getErr != nil {
			return fmt.Errorf("handle %s: reread %s: %w", ev.Name, pool.ID, getErr)
		}
		return m.resolveDuplicate(ev, pool.ID, existing.Equal(pool))
	}
	if err != nil {
		return fmt.Errorf("handle %s: %w", ev.Name, err)
	}

	m.log.Info().Str("pool", pool.ID).Uint64("ltv", pool.LTV).Msg("lending pool created")
	observability.RecordEventProcessed(ev.Name)
	return nil
}

func (m *Mapper) handleTokenSenderAdded(ctx context.Context, ev DecodedEvent, p TokenSenderAdded) error {
	if p.Sender == "" {
		return fmt.Errorf("handle %s: %w: empty sender", ev.Name, storage.ErrInvalidInput)
	}

	rec := &domain.BasicTokenSender{
		ID:              domain.TokenSenderID(p.ChainID, p.Sender),
		ChainID:         p.ChainID,
		Sender:          p.Sender,
		BlockNumber:     ev.BlockNumber,
		TransactionHash: ev.TransactionHash,
	}

	err := m.senders.Insert(ctx, rec)
	if errors.Is(err, storage.ErrDuplicateKey) {
		existing, getErr := m.senders.GetByID(ctx, rec.ID)
		if getErr != nil {
			return fmt.Errorf("handle %s: reread %s: %w", ev.Name, rec.ID, getErr)
		}
		return m.resolveDuplicate(ev, rec.ID, existing.Equal(rec))
	}
	if err != nil {
		return fmt.Errorf("handle %s: %w", ev.Name, err)
	}

	observability.RecordEventProcessed(ev.Name)
	return nil
}

func (m *Mapper) handleDataStreamAdded(ctx context.Context, ev DecodedEvent, p DataStreamAdded) error {
	if p.Token == "" {
		return fmt.Errorf("handle %s: %w: empty token", ev.Name, storage.ErrInvalidInput)
	}

	rec := &domain.PriceDataStream{
		ID:              domain.ActivityID(ev.TransactionHash, ev.LogIndex),
		Token:           p.Token,
		DataStream:      p.DataStream,
		BlockNumber:     ev.BlockNumber,
		TransactionHash: ev.TransactionHash,
	}

	err := m.streams.Insert(ctx, rec)
	if errors.Is(err, storage.ErrDuplicateKey) {
		existing, getErr := m.streams.GetByID(ctx, rec.ID)
		if getErr != nil {
			return fmt.Errorf("handle %s: reread %s: %w", ev.Name, rec.ID, getErr)
		}
		return m.resolveDuplicate(ev, rec.ID, existing.Equal(rec))
	}
	if err != nil {
		return fmt.Errorf("handle %s: %w", ev.Name, err)
	}

	observability.RecordEventProcessed(ev.Name)
	return nil
}

func (m *Mapper) handlePositionCreated(ctx context.Context, ev DecodedEvent, p PositionCreated) error {
	if p.PositionAddress == "" || p.User == "" {
		return fmt.Errorf("handle %s: %w: missing user or position address", ev.Name, storage.ErrInvalidInput)
	}

	pos := &domain.Position{
		ID:              p.PositionAddress,
		User:            p.User,
		PositionAddress: p.PositionAddress,
		PoolAddress:     ev.Contract, // the pool contract emits CreatePosition
		BlockNumber:     ev.BlockNumber,
		TransactionHash: ev.TransactionHash,
		Timestamp:       ev.Timestamp,
	}

	err := m.positions.Insert(ctx, pos)
	if errors.Is(err, storage.ErrDuplicateKey) {
		existing, getErr := m.positions.GetByID(ctx, pos.ID)
		if getErr != nil {
			return fmt.Errorf("handle %s: reread %s: %w", ev.Name, pos.ID, getErr)
		}
		return m.resolveDuplicate(ev, pos.ID, existing.Equal(pos))
	}
	if err != nil {
		return fmt.Errorf("handle %s: %w", ev.Name, err)
	}

	m.log.Info().Str("position", pos.ID).Str("user", pos.User).Str("pool", pos.PoolAddress).Msg("position created")
	observability.RecordEventProcessed(ev.Name)
	return nil
}

func (m *Mapper) appendActivity(
	ctx context.Context,
	ev DecodedEvent,
	typ domain.ActivityType,
	user string,
	amount, shares *domain.Amount,
	chainID *int64,
	bridgeTokenSender *domain.Amount,
) error {
	if user == "" || amount == nil {
		observability.RecordEventFailed(ev.Name, "malformed")
		return fmt.Errorf("handle %s: %w: missing user or amount", ev.Name, storage.ErrInvalidInput)
	}

	// Every activity must reference an existing pool. The emitting contract
	// is the pool itself, so a miss means events arrived out of order or the
	// pool creation was never delivered.
	if _, err := m.pools.GetByID(ctx, ev.Contract); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			observability.RecordEventFailed(ev.Name, "unknown_pool")
			return fmt.Errorf("handle %s: %w: %s", ev.Name, ErrUnknownPool, ev.Contract)
		}
		return fmt.Errorf("handle %s: check pool %s: %w", ev.Name, ev.Contract, err)
	}

	act := &domain.Activity{
		ID:                domain.ActivityID(ev.TransactionHash, ev.LogIndex),
		Type:              typ,
		User:              user,
		PoolAddress:       ev.Contract,
		Amount:            amount,
		Shares:            shares,
		ChainID:           chainID,
		BridgeTokenSender: bridgeTokenSender,
		BlockNumber:       ev.BlockNumber,
		TransactionHash:   ev.TransactionHash,
		LogIndex:          ev.LogIndex,
		Timestamp:         ev.Timestamp,
	}

	err := m.ledger.Insert(ctx, act)
	if errors.Is(err, storage.ErrDuplicateKey) {
		existing, getErr := m.ledger.GetByID(ctx, act.ID)
		if getErr != nil {
			return fmt.Errorf("handle %s: reread %s: %w", ev.Name, act.ID, getErr)
		}
		return m.resolveDuplicate(ev, act.ID, existing.Equal(act))
	}
	if err != nil {
		return fmt.Errorf("handle %s: %w", ev.Name, err)
	}

	observability.RecordEventProcessed(ev.Name)

	if m.archive != nil {
		if archErr := m.archive.Append(ctx, act); archErr != nil {
			m.log.Warn().Err(archErr).Str("id", act.ID).Msg("activity archive append failed")
		}
	}
	return nil
}

// resolveDuplicate settles an insert that hit an existing id: identical
// content is an absorbed redelivery, differing content is a conflict that
// must never overwrite the stored record.
func (m *Mapper) resolveDuplicate(ev DecodedEvent, id string, identical bool) error {
	if identical {
		m.log.Debug().Str("event", ev.Name).Str("id", id).Msg("redelivery absorbed")
		observability.RecordEventDuplicate(ev.Name)
		return nil
	}

	m.log.Error().
		Str("event", ev.Name).
		Str("id", id).
		Str("txHash", ev.TransactionHash).
		Int64("logIndex", ev.LogIndex).
		Msg("duplicate id with differing content, stored record kept")
	observability.RecordEventConflict()
	return fmt.Errorf("handle %s: id %s: %w", ev.Name, id, storage.ErrConflict)
}
