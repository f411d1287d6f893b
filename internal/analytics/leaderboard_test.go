package analytics

import (
	"testing"

	"github.com/wildanre/ponder-etherlink/internal/domain"
)

func TestLeaderboard_VolumeRanking(t *testing.T) {
	acts := []*domain.Activity{
		act(domain.ActivityLiquiditySupply, "0xa", 1000, 1),
		act(domain.ActivityBorrow, "0xb", 3000, 2),
		act(domain.ActivityCollateralSupply, "0xc", 2000, 3),
	}

	board := Leaderboard(acts, nil, SortByVolume)
	if len(board) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board))
	}
	if board[0].User != "0xb" || board[1].User != "0xc" || board[2].User != "0xa" {
		t.Errorf("order: %s, %s, %s", board[0].User, board[1].User, board[2].User)
	}
	for i, e := range board {
		if e.Rank != i+1 {
			t.Errorf("entry %d rank: got %d", i, e.Rank)
		}
	}
}

func TestLeaderboard_TieBreaksOnAddress(t *testing.T) {
	acts := []*domain.Activity{
		act(domain.ActivityBorrow, "0xbbb", 100, 1),
		act(domain.ActivityBorrow, "0xaaa", 100, 2),
	}

	board := Leaderboard(acts, nil, SortByVolume)
	// Equal volume, address ascending keeps pagination stable.
	if board[0].User != "0xaaa" || board[1].User != "0xbbb" {
		t.Errorf("tie-break order: %s, %s", board[0].User, board[1].User)
	}
}

func TestLeaderboard_PositionsSort(t *testing.T) {
	acts := []*domain.Activity{
		act(domain.ActivityBorrow, "0xa", 9000, 1),
	}
	positions := []*domain.Position{
		{ID: "0xp1", User: "0xb", PoolAddress: "0xpool1"},
		{ID: "0xp2", User: "0xb", PoolAddress: "0xpool2"},
		{ID: "0xp3", User: "0xa", PoolAddress: "0xpool1"},
	}

	board := Leaderboard(acts, positions, SortByPositions)
	if board[0].User != "0xb" || board[0].Positions != 2 {
		t.Errorf("top entry: %s with %d positions", board[0].User, board[0].Positions)
	}
}

func TestLeaderboard_PerUserTotals(t *testing.T) {
	acts := []*domain.Activity{
		act(domain.ActivityLiquiditySupply, "0xa", 1000, 1),
		act(domain.ActivityLiquidityWithdraw, "0xa", 300, 2),
		act(domain.ActivityCollateralSupply, "0xa", 500, 3),
		act(domain.ActivityBorrow, "0xa", 200, 4),
		act(domain.ActivityRepayWithCollateral, "0xa", 50, 5),
	}

	board := Leaderboard(acts, nil, SortByVolume)
	if len(board) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(board))
	}
	e := board[0]
	if e.LiquiditySupplied.String() != "1000" ||
		e.LiquidityWithdrawn.String() != "300" ||
		e.CollateralSupplied.String() != "500" ||
		e.TotalBorrowed.String() != "200" ||
		e.TotalRepaid.String() != "50" {
		t.Errorf("totals: %+v", e)
	}
	if e.TotalVolume.String() != "2050" {
		t.Errorf("totalVolume: got %s", e.TotalVolume)
	}
	if e.TransactionCount != 5 {
		t.Errorf("transactionCount: got %d", e.TransactionCount)
	}
}

func TestTokenUsage(t *testing.T) {
	pools := []*domain.LendingPool{
		{ID: "0xpool1", CollateralToken: "0xweth", BorrowToken: "0xusdc"},
		{ID: "0xpool2", CollateralToken: "0xweth", BorrowToken: "0xdai"},
	}
	acts := []*domain.Activity{
		act(domain.ActivityCollateralSupply, "0xa", 100, 1), // pool1, weth collateral
		act(domain.ActivityBorrow, "0xa", 40, 2),            // pool1, usdc borrow
		act(domain.ActivityLiquiditySupply, "0xb", 500, 3),  // pool1, usdc supply
	}

	usage := TokenUsage(pools, acts)
	if len(usage) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(usage))
	}
	// Sorted ascending: 0xdai, 0xusdc, 0xweth
	if usage[0].Token != "0xdai" || usage[1].Token != "0xusdc" || usage[2].Token != "0xweth" {
		t.Fatalf("token order: %s, %s, %s", usage[0].Token, usage[1].Token, usage[2].Token)
	}

	weth := usage[2]
	if weth.PoolsAsCollateral != 2 || weth.CollateralVolume.String() != "100" {
		t.Errorf("weth stats: %+v", weth)
	}
	usdc := usage[1]
	if usdc.PoolsAsBorrow != 1 || usdc.BorrowVolume.String() != "40" || usdc.SupplyVolume.String() != "500" {
		t.Errorf("usdc stats: %+v", usdc)
	}
}
