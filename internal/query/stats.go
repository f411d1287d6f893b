package query

import (
	"context"
	"fmt"
	"math/big"

	"github.com/wildanre/ponder-etherlink/internal/analytics"
	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// Overview is the protocol-wide snapshot.
type Overview struct {
	Protocol struct {
		TotalPools        int `json:"totalPools"`
		TotalPositions    int `json:"totalPositions"`
		TotalUsers        int `json:"totalUsers"`
		TotalTransactions int `json:"totalTransactions"`
	} `json:"protocol"`
	Liquidity struct {
		TotalSupplied   *big.Int `json:"totalSupplied"`
		TotalWithdrawn  *big.Int `json:"totalWithdrawn"`
		NetLiquidity    *big.Int `json:"netLiquidity"`
		UtilizationRate float64  `json:"utilizationRate"`
	} `json:"liquidity"`
	Lending struct {
		TotalCollateral *big.Int `json:"totalCollateralSupplied"`
		TotalBorrowed   *big.Int `json:"totalBorrowed"`
		HealthRatio     float64  `json:"healthRatio"` // collateral / borrowed, 0 when either side is 0
	} `json:"lending"`
	Volume24h struct {
		Supplies *big.Int `json:"supplies"`
		Borrows  *big.Int `json:"borrows"`
	} `json:"volume24h"`
	Timestamp int64 `json:"timestamp"`
}

// Overview folds the whole ledger into the protocol snapshot.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	defer s.observe("overview")()

	pools, err := s.pools.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan pools: %w", err)
	}
	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan positions: %w", err)
	}
	acts, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	now := s.now().Unix()
	dayAgo := now - 24*3600

	o := &Overview{Timestamp: now}
	o.Liquidity.TotalSupplied = new(big.Int)
	o.Liquidity.TotalWithdrawn = new(big.Int)
	o.Liquidity.NetLiquidity = new(big.Int)
	o.Lending.TotalCollateral = new(big.Int)
	o.Lending.TotalBorrowed = new(big.Int)
	o.Volume24h.Supplies = new(big.Int)
	o.Volume24h.Borrows = new(big.Int)

	for _, a := range acts {
		amt := a.Amount.BigInt()
		switch a.Type {
		case domain.ActivityLiquiditySupply:
			o.Liquidity.TotalSupplied.Add(o.Liquidity.TotalSupplied, amt)
			if a.Timestamp >= dayAgo {
				o.Volume24h.Supplies.Add(o.Volume24h.Supplies, amt)
			}
		case domain.ActivityLiquidityWithdraw:
			o.Liquidity.TotalWithdrawn.Add(o.Liquidity.TotalWithdrawn, amt)
		case domain.ActivityCollateralSupply:
			o.Lending.TotalCollateral.Add(o.Lending.TotalCollateral, amt)
		case domain.ActivityBorrow, domain.ActivityBorrowCrosschain:
			o.Lending.TotalBorrowed.Add(o.Lending.TotalBorrowed, amt)
			if a.Timestamp >= dayAgo {
				o.Volume24h.Borrows.Add(o.Volume24h.Borrows, amt)
			}
		}
	}

	o.Protocol.TotalPools = len(pools)
	o.Protocol.TotalPositions = len(positions)
	o.Protocol.TotalUsers = analytics.CountUniqueUsers(acts)
	o.Protocol.TotalTransactions = len(acts)

	o.Liquidity.NetLiquidity.Sub(o.Liquidity.TotalSupplied, o.Liquidity.TotalWithdrawn)
	if o.Liquidity.TotalSupplied.Sign() > 0 {
		rate := new(big.Rat).SetFrac(o.Lending.TotalBorrowed, o.Liquidity.TotalSupplied)
		rate.Mul(rate, big.NewRat(100, 1))
		o.Liquidity.UtilizationRate, _ = rate.Float64()
	}
	if o.Lending.TotalCollateral.Sign() > 0 && o.Lending.TotalBorrowed.Sign() > 0 {
		ratio := new(big.Rat).SetFrac(o.Lending.TotalCollateral, o.Lending.TotalBorrowed)
		o.Lending.HealthRatio, _ = ratio.Float64()
	}
	return o, nil
}

// Historical buckets protocol activity over a trailing window. Valid
// timeframes: 1d, 24h, 7d, 30d, 90d; valid intervals: 1h, 4h, 12h, 1d.
func (s *Service) Historical(ctx context.Context, timeframe, interval string) ([]*analytics.Bucket, error) {
	defer s.observe("historical")()

	if timeframe == "" {
		timeframe = "7d"
	}
	if interval == "" {
		interval = "1d"
	}

	window, all, ok := timeframeSeconds(timeframe)
	if !ok || all {
		return nil, fmt.Errorf("historical: timeframe %q: %w", timeframe, storage.ErrInvalidInput)
	}
	step, ok := intervalSeconds(interval)
	if !ok {
		return nil, fmt.Errorf("historical: interval %q: %w", interval, storage.ErrInvalidInput)
	}
	if step > window {
		return nil, fmt.Errorf("historical: interval %q exceeds timeframe %q: %w", interval, timeframe, storage.ErrInvalidInput)
	}

	acts, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	now := s.now().Unix()
	return analytics.TimeBuckets(acts, now-window, now, step), nil
}

// TokenStats folds pool configuration and the ledger into per-token usage.
func (s *Service) TokenStats(ctx context.Context) ([]*analytics.TokenStats, error) {
	defer s.observe("tokenStats")()

	pools, err := s.pools.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan pools: %w", err)
	}
	acts, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	return analytics.TokenUsage(pools, acts), nil
}
