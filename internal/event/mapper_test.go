package event

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
	"github.com/wildanre/ponder-etherlink/internal/storage/memory"
)

const (
	testPool = "0xpool1"
	testUser = "0xuserA"
)

func newTestMapper() (*Mapper, *memory.PoolStore, *memory.ActivityStore) {
	pools := memory.NewPoolStore()
	acts := memory.NewActivityStore()
	m := NewMapper(MapperOptions{
		Pools:     pools,
		Positions: memory.NewPositionStore(),
		Ledger:    acts,
		Senders:   memory.NewTokenSenderStore(),
		Streams:   memory.NewDataStreamStore(),
		Logger:    zerolog.Nop(),
	})
	return m, pools, acts
}

func poolCreatedEvent(pool string) DecodedEvent {
	return DecodedEvent{
		Name:            NameLendingPoolCreated,
		Contract:        "0xfactory",
		BlockNumber:     100,
		TransactionHash: "0xtx-pool",
		LogIndex:        0,
		Timestamp:       1700000000,
		Payload: PoolCreated{
			Pool:            pool,
			CollateralToken: "0xweth",
			BorrowToken:     "0xusdc",
			LTV:             80,
		},
	}
}

func borrowEvent(txHash string, logIndex int64, amount uint64) DecodedEvent {
	return DecodedEvent{
		Name:            NameBorrowDebt,
		Contract:        testPool,
		BlockNumber:     101,
		TransactionHash: txHash,
		LogIndex:        logIndex,
		Timestamp:       1700000060,
		Payload: DebtBorrowed{
			User:   testUser,
			Amount: domain.NewAmount(amount),
			Shares: domain.NewAmount(amount),
		},
	}
}

func TestHandle_PoolCreated(t *testing.T) {
	m, pools, _ := newTestMapper()
	ctx := context.Background()

	if err := m.Handle(ctx, poolCreatedEvent(testPool)); err != nil {
		t.Fatalf("handle pool created: %v", err)
	}

	got, err := pools.GetByID(ctx, testPool)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if got.LTV != 80 || got.CollateralToken != "0xweth" {
		t.Errorf("unexpected pool record: %+v", got)
	}
}

func TestHandle_RedeliveryIsNoOp(t *testing.T) {
	m, _, acts := newTestMapper()
	ctx := context.Background()

	if err := m.Handle(ctx, poolCreatedEvent(testPool)); err != nil {
		t.Fatalf("pool created: %v", err)
	}

	ev := borrowEvent("0xtx1", 3, 500)
	if err := m.Handle(ctx, ev); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	// Identical redelivery must be silently absorbed.
	if err := m.Handle(ctx, ev); err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	all, err := acts.List(ctx)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 activity after redelivery, got %d", len(all))
	}
	if all[0].ID != "0xtx1-3" {
		t.Errorf("expected id 0xtx1-3, got %s", all[0].ID)
	}
}

func TestHandle_ConflictingContentRejected(t *testing.T) {
	m, _, acts := newTestMapper()
	ctx := context.Background()

	if err := m.Handle(ctx, poolCreatedEvent(testPool)); err != nil {
		t.Fatalf("pool created: %v", err)
	}
	if err := m.Handle(ctx, borrowEvent("0xtx1", 3, 500)); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	// Same txHash-logIndex, different amount.
	err := m.Handle(ctx, borrowEvent("0xtx1", 3, 999))
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Stored record must keep the original content.
	got, err := acts.GetByID(ctx, "0xtx1-3")
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if got.Amount.String() != "500" {
		t.Errorf("stored amount changed to %s", got.Amount.String())
	}
}

func TestHandle_ActivityAgainstUnknownPoolRejected(t *testing.T) {
	m, _, acts := newTestMapper()
	ctx := context.Background()

	err := m.Handle(ctx, borrowEvent("0xtx1", 0, 500))
	if !errors.Is(err, ErrUnknownPool) {
		t.Fatalf("expected ErrUnknownPool, got %v", err)
	}

	all, err := acts.List(ctx)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty ledger, got %d records", len(all))
	}
}

func TestHandle_CrosschainBorrowCarriesChainID(t *testing.T) {
	m, _, acts := newTestMapper()
	ctx := context.Background()

	if err := m.Handle(ctx, poolCreatedEvent(testPool)); err != nil {
		t.Fatalf("pool created: %v", err)
	}

	ev := DecodedEvent{
		Name:            NameBorrowDebtCrosschain,
		Contract:        testPool,
		BlockNumber:     102,
		TransactionHash: "0xtx2",
		LogIndex:        7,
		Timestamp:       1700000120,
		Payload: CrosschainDebtBorrowed{
			User:              testUser,
			Amount:            domain.NewAmount(250),
			Shares:            domain.NewAmount(250),
			ChainID:           43114,
			BridgeTokenSender: domain.NewAmount(1),
		},
	}
	if err := m.Handle(ctx, ev); err != nil {
		t.Fatalf("crosschain borrow: %v", err)
	}

	got, err := acts.GetByID(ctx, "0xtx2-7")
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if got.Type != domain.ActivityBorrowCrosschain {
		t.Errorf("expected type borrow_crosschain, got %s", got.Type)
	}
	if got.ChainID == nil || *got.ChainID != 43114 {
		t.Errorf("expected chainId 43114, got %v", got.ChainID)
	}
	if got.BridgeTokenSender == nil || got.BridgeTokenSender.String() != "1" {
		t.Errorf("expected bridgeTokenSender 1, got %v", got.BridgeTokenSender)
	}
}

func TestHandle_ObservedEventsProduceNoMutation(t *testing.T) {
	m, _, acts := newTestMapper()
	ctx := context.Background()

	ev := DecodedEvent{
		Name:            NameLiquidate,
		Contract:        "0xposition1",
		BlockNumber:     103,
		TransactionHash: "0xtx3",
		LogIndex:        1,
		Timestamp:       1700000180,
		Payload:         Liquidated{User: testUser},
	}
	if err := m.Handle(ctx, ev); err != nil {
		t.Fatalf("observed event: %v", err)
	}

	all, err := acts.List(ctx)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("observed event mutated the ledger: %d records", len(all))
	}
}

func TestHandle_MalformedActivityRejected(t *testing.T) {
	m, _, _ := newTestMapper()
	ctx := context.Background()

	if err := m.Handle(ctx, poolCreatedEvent(testPool)); err != nil {
		t.Fatalf("pool created: %v", err)
	}

	ev := borrowEvent("0xtx4", 0, 500)
	p := ev.Payload.(DebtBorrowed)
	p.Amount = nil
	ev.Payload = p

	err := m.Handle(ctx, ev)
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestHandle_PositionCreatedBindsPoolFromContract(t *testing.T) {
	m, _, _ := newTestMapper()
	positions := memory.NewPositionStore()
	m.positions = positions
	ctx := context.Background()

	ev := DecodedEvent{
		Name:            NameCreatePosition,
		Contract:        testPool,
		BlockNumber:     104,
		TransactionHash: "0xtx5",
		LogIndex:        0,
		Timestamp:       1700000240,
		Payload:         PositionCreated{User: testUser, PositionAddress: "0xposition1"},
	}
	if err := m.Handle(ctx, ev); err != nil {
		t.Fatalf("create position: %v", err)
	}

	got, err := positions.GetByID(ctx, "0xposition1")
	if err != nil {
		t.Fatalf("get position: %v", err)
	}
	if got.PoolAddress != testPool {
		t.Errorf("expected pool %s, got %s", testPool, got.PoolAddress)
	}
	if got.User != testUser {
		t.Errorf("expected user %s, got %s", testUser, got.User)
	}
}

func TestHandle_TokenSenderIdentityIsChainScoped(t *testing.T) {
	m, _, _ := newTestMapper()
	senders := memory.NewTokenSenderStore()
	m.senders = senders
	ctx := context.Background()

	for _, chainID := range []int64{1, 43114} {
		ev := DecodedEvent{
			Name:            NameBasicTokenSenderAdded,
			Contract:        "0xfactory",
			BlockNumber:     105,
			TransactionHash: "0xtx6",
			LogIndex:        0,
			Timestamp:       1700000300,
			Payload:         TokenSenderAdded{ChainID: chainID, Sender: "0xsender"},
		}
		if err := m.Handle(ctx, ev); err != nil {
			t.Fatalf("token sender chain %d: %v", chainID, err)
		}
	}

	all, err := senders.List(ctx)
	if err != nil {
		t.Fatalf("list senders: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sender records, got %d", len(all))
	}
}
