package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wildanre/ponder-etherlink/internal/analytics"
	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// ListPools returns every lending pool in creation order.
func (s *Service) ListPools(ctx context.Context) ([]*domain.LendingPool, error) {
	defer s.observe("listPools")()

	pools, err := s.pools.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan pools: %w", err)
	}
	return pools, nil
}

// GetPool returns one pool by address. Missing pools yield
// storage.ErrNotFound.
func (s *Service) GetPool(ctx context.Context, address string) (*domain.LendingPool, error) {
	defer s.observe("getPool")()

	if address == "" {
		return nil, fmt.Errorf("get pool: empty address: %w", storage.ErrInvalidInput)
	}
	pool, err := s.pools.GetByID(ctx, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("get pool %s: %w", address, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get pool %s: %w", address, err)
	}
	return pool, nil
}

// PoolFilter narrows a pool search.
type PoolFilter struct {
	CollateralToken string  `json:"collateralToken,omitempty"`
	BorrowToken     string  `json:"borrowToken,omitempty"`
	MinLTV          *uint64 `json:"minLtv,omitempty"`
	MaxLTV          *uint64 `json:"maxLtv,omitempty"`
}

// PoolSearchPage is one window of a pool search.
type PoolSearchPage struct {
	Items      []*domain.LendingPool `json:"items"`
	Total      int                   `json:"total"`
	Pagination Pagination            `json:"pagination"`
}

// SearchPools filters pools by token pair and LTV range.
func (s *Service) SearchPools(ctx context.Context, f PoolFilter, page Page) (*PoolSearchPage, error) {
	defer s.observe("searchPools")()

	pools, err := s.pools.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan pools: %w", err)
	}

	matched := make([]*domain.LendingPool, 0, len(pools))
	for _, p := range pools {
		if f.CollateralToken != "" && !strings.EqualFold(p.CollateralToken, f.CollateralToken) {
			continue
		}
		if f.BorrowToken != "" && !strings.EqualFold(p.BorrowToken, f.BorrowToken) {
			continue
		}
		if f.MinLTV != nil && p.LTV < *f.MinLTV {
			continue
		}
		if f.MaxLTV != nil && p.LTV > *f.MaxLTV {
			continue
		}
		matched = append(matched, p)
	}

	items, pagination := paginate(matched, page)
	return &PoolSearchPage{Items: items, Total: len(matched), Pagination: pagination}, nil
}

// PoolActivityView groups one pool's ledger records by type, plus a short
// newest-first tail across all types.
type PoolActivityView struct {
	Supplies    []*domain.Activity `json:"supplies"`
	Withdrawals []*domain.Activity `json:"withdrawals"`
	Collaterals []*domain.Activity `json:"collaterals"`
	Borrows     []*domain.Activity `json:"borrows"`
	Repayments  []*domain.Activity `json:"repayments"`
	Recent      []*domain.Activity `json:"recentActivities"`
}

const recentActivityLimit = 50

// PoolActivities returns a pool's ledger grouped by activity type. The pool
// must exist.
func (s *Service) PoolActivities(ctx context.Context, address string) (*PoolActivityView, error) {
	defer s.observe("poolActivities")()

	if _, err := s.GetPool(ctx, address); err != nil {
		return nil, err
	}

	all, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	view := &PoolActivityView{}
	poolActs := make([]*domain.Activity, 0)
	for _, a := range all {
		if !strings.EqualFold(a.PoolAddress, address) {
			continue
		}
		poolActs = append(poolActs, a)
		switch a.Type {
		case domain.ActivityLiquiditySupply:
			view.Supplies = append(view.Supplies, a)
		case domain.ActivityLiquidityWithdraw:
			view.Withdrawals = append(view.Withdrawals, a)
		case domain.ActivityCollateralSupply:
			view.Collaterals = append(view.Collaterals, a)
		case domain.ActivityBorrow, domain.ActivityBorrowCrosschain:
			view.Borrows = append(view.Borrows, a)
		case domain.ActivityRepayWithCollateral:
			view.Repayments = append(view.Repayments, a)
		}
	}

	sortNewestFirst(poolActs)
	if len(poolActs) > recentActivityLimit {
		poolActs = poolActs[:recentActivityLimit]
	}
	view.Recent = poolActs
	return view, nil
}

// PoolPositions returns every position opened against a pool.
func (s *Service) PoolPositions(ctx context.Context, address string) ([]*domain.Position, error) {
	defer s.observe("poolPositions")()

	if _, err := s.GetPool(ctx, address); err != nil {
		return nil, err
	}

	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan positions: %w", err)
	}

	matched := make([]*domain.Position, 0)
	for _, p := range positions {
		if strings.EqualFold(p.PoolAddress, address) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// PoolStats is one pool's configuration plus its aggregate metrics.
type PoolStats struct {
	PoolAddress     string                 `json:"poolAddress"`
	CollateralToken string                 `json:"collateralToken"`
	BorrowToken     string                 `json:"borrowToken"`
	LTV             uint64                 `json:"ltv"`
	Metrics         *analytics.PoolMetrics `json:"metrics"`
}

// AllPoolStats computes aggregate metrics for every pool in one ledger scan.
func (s *Service) AllPoolStats(ctx context.Context) ([]*PoolStats, error) {
	defer s.observe("allPoolStats")()

	pools, err := s.pools.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan pools: %w", err)
	}
	acts, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	byPool := make(map[string][]*domain.Activity)
	for _, a := range acts {
		byPool[a.PoolAddress] = append(byPool[a.PoolAddress], a)
	}

	stats := make([]*PoolStats, 0, len(pools))
	for _, p := range pools {
		stats = append(stats, &PoolStats{
			PoolAddress:     p.ID,
			CollateralToken: p.CollateralToken,
			BorrowToken:     p.BorrowToken,
			LTV:             p.LTV,
			Metrics:         analytics.ComputePoolMetrics(byPool[p.ID]),
		})
	}
	return stats, nil
}
