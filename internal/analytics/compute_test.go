package analytics

import (
	"testing"

	"github.com/wildanre/ponder-etherlink/internal/domain"
)

func act(typ domain.ActivityType, user string, amount uint64, ts int64) *domain.Activity {
	return &domain.Activity{
		ID:          domain.ActivityID("0xtx", ts),
		Type:        typ,
		User:        user,
		PoolAddress: "0xpool1",
		Amount:      domain.NewAmount(amount),
		Timestamp:   ts,
	}
}

func TestComputePoolMetrics(t *testing.T) {
	acts := []*domain.Activity{
		act(domain.ActivityLiquiditySupply, "0xa", 1000, 1),
		act(domain.ActivityLiquiditySupply, "0xb", 500, 2),
		act(domain.ActivityLiquidityWithdraw, "0xa", 200, 3),
		act(domain.ActivityCollateralSupply, "0xc", 300, 4),
		act(domain.ActivityBorrow, "0xc", 600, 5),
		act(domain.ActivityBorrowCrosschain, "0xc", 150, 6),
	}

	m := ComputePoolMetrics(acts)

	if m.TotalSupplied.String() != "1500" {
		t.Errorf("totalSupplied: got %s", m.TotalSupplied)
	}
	if m.TotalWithdrawn.String() != "200" {
		t.Errorf("totalWithdrawn: got %s", m.TotalWithdrawn)
	}
	if m.NetLiquidity.String() != "1300" {
		t.Errorf("netLiquidity: got %s", m.NetLiquidity)
	}
	if m.TotalCollateral.String() != "300" {
		t.Errorf("totalCollateral: got %s", m.TotalCollateral)
	}
	if m.TotalBorrowed.String() != "750" {
		t.Errorf("totalBorrowed: got %s", m.TotalBorrowed)
	}
	// 750 / 1500 * 100 = 50
	if m.UtilizationRate != 50.0 {
		t.Errorf("utilizationRate: got %f", m.UtilizationRate)
	}
	if m.UniqueUsers != 3 {
		t.Errorf("uniqueUsers: got %d", m.UniqueUsers)
	}
	if m.TransactionCount != 6 {
		t.Errorf("transactionCount: got %d", m.TransactionCount)
	}
}

func TestComputePoolMetrics_UtilizationZeroWhenNothingSupplied(t *testing.T) {
	acts := []*domain.Activity{
		act(domain.ActivityBorrow, "0xa", 600, 1),
	}

	m := ComputePoolMetrics(acts)
	if m.UtilizationRate != 0 {
		t.Errorf("expected utilization 0 with no supply, got %f", m.UtilizationRate)
	}
}

func TestComputePoolMetrics_NetLiquidityCanGoNegative(t *testing.T) {
	acts := []*domain.Activity{
		act(domain.ActivityLiquiditySupply, "0xa", 100, 1),
		act(domain.ActivityLiquidityWithdraw, "0xa", 300, 2),
	}

	m := ComputePoolMetrics(acts)
	if m.NetLiquidity.String() != "-200" {
		t.Errorf("netLiquidity: got %s", m.NetLiquidity)
	}
}

func TestPositionBalances(t *testing.T) {
	acts := []*domain.Activity{
		act(domain.ActivityCollateralSupply, "0xa", 1000, 1),
		act(domain.ActivityBorrow, "0xa", 400, 2),
		act(domain.ActivityBorrowCrosschain, "0xa", 200, 3),
		act(domain.ActivityRepayWithCollateral, "0xa", 100, 4),
		// Other users and types must not leak into the fold.
		act(domain.ActivityCollateralSupply, "0xb", 9999, 5),
		act(domain.ActivityLiquiditySupply, "0xa", 5000, 6),
	}

	collateral, debt := PositionBalances(acts, "0xa", "0xpool1")
	if collateral.String() != "1000" {
		t.Errorf("collateral: got %s", collateral)
	}
	// 400 + 200 - 100
	if debt.String() != "500" {
		t.Errorf("debt: got %s", debt)
	}
}

func TestPositionBalances_EmptyLedger(t *testing.T) {
	collateral, debt := PositionBalances(nil, "0xa", "0xpool1")
	if collateral.Sign() != 0 || debt.Sign() != 0 {
		t.Errorf("expected zero balances, got %s / %s", collateral, debt)
	}
}

func TestSumAmounts_NilAmountCountsAsZero(t *testing.T) {
	acts := []*domain.Activity{
		{Type: domain.ActivityBorrow, User: "0xa", Amount: domain.NewAmount(10)},
		{Type: domain.ActivityBorrow, User: "0xa", Amount: nil},
	}
	if got := SumAmounts(acts); got.String() != "10" {
		t.Errorf("sum: got %s", got)
	}
}

func TestCountUniqueUsers_SkipsEmpty(t *testing.T) {
	acts := []*domain.Activity{
		{User: "0xa"},
		{User: "0xa"},
		{User: ""},
		{User: "0xb"},
	}
	if got := CountUniqueUsers(acts); got != 2 {
		t.Errorf("uniqueUsers: got %d", got)
	}
}
