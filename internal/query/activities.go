package query

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// ActivityPage is one window of a filtered, newest-first activity listing.
type ActivityPage struct {
	Items      []*domain.Activity `json:"items"`
	Total      int                `json:"total"`
	Pagination Pagination         `json:"pagination"`
}

// Filter narrows an activity scan. Zero values match everything.
type Filter struct {
	Types         []domain.ActivityType `json:"types,omitempty"`
	User          string                `json:"userAddress,omitempty"`
	Pool          string                `json:"poolAddress,omitempty"`
	MinAmount     *big.Int              `json:"minAmount,omitempty"`
	MaxAmount     *big.Int              `json:"maxAmount,omitempty"`
	FromTimestamp *int64                `json:"fromTimestamp,omitempty"`
	ToTimestamp   *int64                `json:"toTimestamp,omitempty"`
}

func (f Filter) matches(a *domain.Activity) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if a.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.User != "" && !strings.EqualFold(a.User, f.User) {
		return false
	}
	if f.Pool != "" && !strings.EqualFold(a.PoolAddress, f.Pool) {
		return false
	}
	if f.MinAmount != nil && a.Amount.BigInt().Cmp(f.MinAmount) < 0 {
		return false
	}
	if f.MaxAmount != nil && a.Amount.BigInt().Cmp(f.MaxAmount) > 0 {
		return false
	}
	if f.FromTimestamp != nil && a.Timestamp < *f.FromTimestamp {
		return false
	}
	if f.ToTimestamp != nil && a.Timestamp > *f.ToTimestamp {
		return false
	}
	return true
}

// ListActivities returns the ledger newest-first, optionally narrowed to one
// activity type. An unknown type is a validation error.
func (s *Service) ListActivities(ctx context.Context, typ string, page Page) (*ActivityPage, error) {
	defer s.observe("listActivities")()

	var f Filter
	if typ != "" {
		t := domain.ActivityType(typ)
		if !t.Valid() {
			return nil, fmt.Errorf("list activities: type %q: %w", typ, storage.ErrInvalidInput)
		}
		f.Types = []domain.ActivityType{t}
	}
	return s.searchActivities(ctx, f, page)
}

// ActivitiesByUser returns one user's activities newest-first.
func (s *Service) ActivitiesByUser(ctx context.Context, user string, page Page) (*ActivityPage, error) {
	defer s.observe("activitiesByUser")()

	if user == "" {
		return nil, fmt.Errorf("activities by user: empty address: %w", storage.ErrInvalidInput)
	}
	return s.searchActivities(ctx, Filter{User: user}, page)
}

// SearchActivities applies a compound filter over the ledger. All predicates
// are conjunctive.
func (s *Service) SearchActivities(ctx context.Context, f Filter, page Page) (*ActivityPage, error) {
	defer s.observe("searchActivities")()

	for _, t := range f.Types {
		if !t.Valid() {
			return nil, fmt.Errorf("search activities: type %q: %w", t, storage.ErrInvalidInput)
		}
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.Cmp(f.MaxAmount) > 0 {
		return nil, fmt.Errorf("search activities: minAmount exceeds maxAmount: %w", storage.ErrInvalidInput)
	}
	return s.searchActivities(ctx, f, page)
}

func (s *Service) searchActivities(ctx context.Context, f Filter, page Page) (*ActivityPage, error) {
	all, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	matched := make([]*domain.Activity, 0, len(all))
	for _, a := range all {
		if f.matches(a) {
			matched = append(matched, a)
		}
	}
	sortNewestFirst(matched)

	items, pagination := paginate(matched, page)
	return &ActivityPage{Items: items, Total: len(matched), Pagination: pagination}, nil
}

// ActivitySummary aggregates recent ledger traffic per type.
type ActivitySummary struct {
	Summary struct {
		TotalActivities    int `json:"totalActivities"`
		LiquiditySupplies  int `json:"liquiditySupplies"`
		Withdrawals        int `json:"liquidityWithdrawals"`
		CollateralSupplies int `json:"collateralSupplies"`
		Borrows            int `json:"borrows"`
		CrosschainBorrows  int `json:"crosschainBorrows"`
		Repayments         int `json:"repayments"`
	} `json:"summary"`
	Volumes struct {
		LiquiditySupplied  *big.Int `json:"totalLiquiditySupplied"`
		LiquidityWithdrawn *big.Int `json:"totalLiquidityWithdrawn"`
		CollateralSupplied *big.Int `json:"totalCollateralSupplied"`
		Borrowed           *big.Int `json:"totalBorrowed"`
		CrosschainBorrowed *big.Int `json:"totalCrosschainBorrowed"`
		Repaid             *big.Int `json:"totalRepaid"`
	} `json:"volumes"`
	Timeframe string `json:"timeframe"`
	Timestamp int64  `json:"timestamp"`
}

// ActivityAnalytics summarizes ledger counts and volumes over a trailing
// window. Valid timeframes: 1h, 24h, 7d, 30d.
func (s *Service) ActivityAnalytics(ctx context.Context, timeframe string) (*ActivitySummary, error) {
	defer s.observe("activityAnalytics")()

	if timeframe == "" {
		timeframe = "24h"
	}
	window, all, ok := timeframeSeconds(timeframe)
	if !ok || all {
		return nil, fmt.Errorf("activity analytics: timeframe %q: %w", timeframe, storage.ErrInvalidInput)
	}

	acts, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	now := s.now().Unix()
	start := now - window

	out := &ActivitySummary{Timeframe: timeframe, Timestamp: now}
	out.Volumes.LiquiditySupplied = new(big.Int)
	out.Volumes.LiquidityWithdrawn = new(big.Int)
	out.Volumes.CollateralSupplied = new(big.Int)
	out.Volumes.Borrowed = new(big.Int)
	out.Volumes.CrosschainBorrowed = new(big.Int)
	out.Volumes.Repaid = new(big.Int)

	for _, a := range acts {
		if a.Timestamp < start {
			continue
		}
		out.Summary.TotalActivities++
		amt := a.Amount.BigInt()

		switch a.Type {
		case domain.ActivityLiquiditySupply:
			out.Summary.LiquiditySupplies++
			out.Volumes.LiquiditySupplied.Add(out.Volumes.LiquiditySupplied, amt)
		case domain.ActivityLiquidityWithdraw:
			out.Summary.Withdrawals++
			out.Volumes.LiquidityWithdrawn.Add(out.Volumes.LiquidityWithdrawn, amt)
		case domain.ActivityCollateralSupply:
			out.Summary.CollateralSupplies++
			out.Volumes.CollateralSupplied.Add(out.Volumes.CollateralSupplied, amt)
		case domain.ActivityBorrow:
			out.Summary.Borrows++
			out.Volumes.Borrowed.Add(out.Volumes.Borrowed, amt)
		case domain.ActivityBorrowCrosschain:
			out.Summary.CrosschainBorrows++
			out.Volumes.CrosschainBorrowed.Add(out.Volumes.CrosschainBorrowed, amt)
		case domain.ActivityRepayWithCollateral:
			out.Summary.Repayments++
			out.Volumes.Repaid.Add(out.Volumes.Repaid, amt)
		}
	}
	return out, nil
}
