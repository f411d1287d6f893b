// Package analytics computes aggregate views over the activity ledger.
//
// Every function here is a pure fold over []*domain.Activity. Amount
// arithmetic stays in math/big until a ratio crosses the API boundary;
// totals are never forced through float64.
package analytics

import (
	"math/big"

	"github.com/wildanre/ponder-etherlink/internal/domain"
)

// SumAmounts accumulates the amounts of the given activities.
// Nil amounts count as zero.
func SumAmounts(acts []*domain.Activity) *big.Int {
	total := new(big.Int)
	for _, a := range acts {
		total.Add(total, a.Amount.BigInt())
	}
	return total
}

// CountUniqueUsers counts distinct non-empty user addresses.
func CountUniqueUsers(acts []*domain.Activity) int {
	seen := make(map[string]struct{})
	for _, a := range acts {
		if a.User == "" {
			continue
		}
		seen[a.User] = struct{}{}
	}
	return len(seen)
}

// PoolMetrics is the aggregate view of one pool's ledger slice.
type PoolMetrics struct {
	TotalSupplied    *big.Int `json:"totalSupplied"`
	TotalWithdrawn   *big.Int `json:"totalWithdrawn"`
	NetLiquidity     *big.Int `json:"netLiquidity"` // supplied - withdrawn, may be negative
	TotalCollateral  *big.Int `json:"totalCollateral"`
	TotalBorrowed    *big.Int `json:"totalBorrowed"`
	UtilizationRate  float64  `json:"utilizationRate"` // borrowed / supplied * 100
	UniqueUsers      int      `json:"uniqueUsers"`
	TransactionCount int      `json:"transactionCount"`
}

// ComputePoolMetrics folds one pool's activities into its aggregate view.
// The caller pre-filters acts to a single pool. UtilizationRate is 0 when
// nothing was supplied.
func ComputePoolMetrics(acts []*domain.Activity) *PoolMetrics {
	m := &PoolMetrics{
		TotalSupplied:   new(big.Int),
		TotalWithdrawn:  new(big.Int),
		NetLiquidity:    new(big.Int),
		TotalCollateral: new(big.Int),
		TotalBorrowed:   new(big.Int),
	}

	for _, a := range acts {
		amt := a.Amount.BigInt()
		switch a.Type {
		case domain.ActivityLiquiditySupply:
			m.TotalSupplied.Add(m.TotalSupplied, amt)
		case domain.ActivityLiquidityWithdraw:
			m.TotalWithdrawn.Add(m.TotalWithdrawn, amt)
		case domain.ActivityCollateralSupply:
			m.TotalCollateral.Add(m.TotalCollateral, amt)
		case domain.ActivityBorrow, domain.ActivityBorrowCrosschain:
			m.TotalBorrowed.Add(m.TotalBorrowed, amt)
		}
	}

	m.NetLiquidity.Sub(m.TotalSupplied, m.TotalWithdrawn)
	m.UniqueUsers = CountUniqueUsers(acts)
	m.TransactionCount = len(acts)

	if m.TotalSupplied.Sign() > 0 {
		rate := new(big.Rat).SetFrac(m.TotalBorrowed, m.TotalSupplied)
		rate.Mul(rate, big.NewRat(100, 1))
		m.UtilizationRate, _ = rate.Float64()
	}
	return m
}

// PositionBalances derives a position's collateral and debt by folding the
// ledger slice for (user, pool). Balances are never stored; the ledger is
// the single source of truth.
//
// collateral = sum of collateral supplies
// debt       = borrows + crosschain borrows - collateral repayments
//
// Debt can go negative when repayments exceed recorded borrows; callers
// treat non-positive debt as a debt-free position.
func PositionBalances(acts []*domain.Activity, user, pool string) (collateral, debt *big.Int) {
	collateral = new(big.Int)
	debt = new(big.Int)

	for _, a := range acts {
		if a.User != user || a.PoolAddress != pool {
			continue
		}
		amt := a.Amount.BigInt()
		switch a.Type {
		case domain.ActivityCollateralSupply:
			collateral.Add(collateral, amt)
		case domain.ActivityBorrow, domain.ActivityBorrowCrosschain:
			debt.Add(debt, amt)
		case domain.ActivityRepayWithCollateral:
			debt.Sub(debt, amt)
		}
	}
	return collateral, debt
}
