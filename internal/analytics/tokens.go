package analytics

import (
	"math/big"
	"sort"

	"github.com/wildanre/ponder-etherlink/internal/domain"
)

// TokenStats aggregates how one token is used across pools.
type TokenStats struct {
	Token             string   `json:"token"`
	PoolsAsCollateral int      `json:"poolsAsCollateral"`
	PoolsAsBorrow     int      `json:"poolsAsBorrow"`
	CollateralVolume  *big.Int `json:"collateralVolume"`
	BorrowVolume      *big.Int `json:"borrowVolume"`
	SupplyVolume      *big.Int `json:"supplyVolume"`
}

// TokenUsage folds pools and activities into per-token usage. Liquidity is
// denominated in the pool's borrow token, so supply volume accrues to the
// borrow token's stats. Output is sorted by token address ascending.
func TokenUsage(pools []*domain.LendingPool, acts []*domain.Activity) []*TokenStats {
	byToken := make(map[string]*TokenStats)
	stats := func(token string) *TokenStats {
		s, ok := byToken[token]
		if !ok {
			s = &TokenStats{
				Token:            token,
				CollateralVolume: new(big.Int),
				BorrowVolume:     new(big.Int),
				SupplyVolume:     new(big.Int),
			}
			byToken[token] = s
		}
		return s
	}

	collateralToken := make(map[string]string, len(pools))
	borrowToken := make(map[string]string, len(pools))
	for _, p := range pools {
		if p.CollateralToken != "" {
			stats(p.CollateralToken).PoolsAsCollateral++
			collateralToken[p.ID] = p.CollateralToken
		}
		if p.BorrowToken != "" {
			stats(p.BorrowToken).PoolsAsBorrow++
			borrowToken[p.ID] = p.BorrowToken
		}
	}

	for _, a := range acts {
		amt := a.Amount.BigInt()
		switch a.Type {
		case domain.ActivityCollateralSupply:
			if token := collateralToken[a.PoolAddress]; token != "" {
				stats(token).CollateralVolume.Add(stats(token).CollateralVolume, amt)
			}
		case domain.ActivityBorrow, domain.ActivityBorrowCrosschain:
			if token := borrowToken[a.PoolAddress]; token != "" {
				stats(token).BorrowVolume.Add(stats(token).BorrowVolume, amt)
			}
		case domain.ActivityLiquiditySupply:
			if token := borrowToken[a.PoolAddress]; token != "" {
				stats(token).SupplyVolume.Add(stats(token).SupplyVolume, amt)
			}
		}
	}

	out := make([]*TokenStats, 0, len(byToken))
	for _, s := range byToken {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}
