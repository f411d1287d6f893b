package query

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/wildanre/ponder-etherlink/internal/analytics"
	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// UserProfile summarizes one address's footprint across the protocol.
type UserProfile struct {
	Address string `json:"address"`
	Summary struct {
		TotalPositions       int      `json:"totalPositions"`
		TotalTransactions    int      `json:"totalTransactions"`
		NetLiquidityProvided *big.Int `json:"netLiquidityProvided"`
		TotalCollateral      *big.Int `json:"totalCollateralSupplied"`
		TotalBorrowed        *big.Int `json:"totalBorrowed"` // local + crosschain
		TotalRepaid          *big.Int `json:"totalRepaid"`
	} `json:"summary"`
	Activities struct {
		LiquiditySupplies  int `json:"liquiditySupplies"`
		Withdrawals        int `json:"liquidityWithdrawals"`
		CollateralSupplies int `json:"collateralSupplies"`
		Borrows            int `json:"borrows"`
		CrosschainBorrows  int `json:"crosschainBorrows"`
		Repayments         int `json:"repayments"`
	} `json:"activities"`
	Volumes struct {
		LiquiditySupplied  *big.Int `json:"totalLiquiditySupplied"`
		LiquidityWithdrawn *big.Int `json:"totalLiquidityWithdrawn"`
		CollateralSupplied *big.Int `json:"totalCollateralSupplied"`
		Borrowed           *big.Int `json:"totalBorrowed"`
		CrosschainBorrowed *big.Int `json:"totalCrosschainBorrowed"`
		Repaid             *big.Int `json:"totalRepaid"`
	} `json:"volumes"`
}

// UserProfile folds the ledger and position set into one address's summary.
// Unknown addresses yield an empty profile, not an error; absence of
// activity is a valid answer.
func (s *Service) UserProfile(ctx context.Context, address string) (*UserProfile, error) {
	defer s.observe("userProfile")()

	if address == "" {
		return nil, fmt.Errorf("user profile: empty address: %w", storage.ErrInvalidInput)
	}

	acts, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan positions: %w", err)
	}

	p := &UserProfile{Address: strings.ToLower(address)}
	p.Summary.NetLiquidityProvided = new(big.Int)
	p.Summary.TotalCollateral = new(big.Int)
	p.Summary.TotalBorrowed = new(big.Int)
	p.Summary.TotalRepaid = new(big.Int)
	p.Volumes.LiquiditySupplied = new(big.Int)
	p.Volumes.LiquidityWithdrawn = new(big.Int)
	p.Volumes.CollateralSupplied = new(big.Int)
	p.Volumes.Borrowed = new(big.Int)
	p.Volumes.CrosschainBorrowed = new(big.Int)
	p.Volumes.Repaid = new(big.Int)

	for _, a := range acts {
		if !strings.EqualFold(a.User, address) {
			continue
		}
		p.Summary.TotalTransactions++
		amt := a.Amount.BigInt()

		switch a.Type {
		case domain.ActivityLiquiditySupply:
			p.Activities.LiquiditySupplies++
			p.Volumes.LiquiditySupplied.Add(p.Volumes.LiquiditySupplied, amt)
		case domain.ActivityLiquidityWithdraw:
			p.Activities.Withdrawals++
			p.Volumes.LiquidityWithdrawn.Add(p.Volumes.LiquidityWithdrawn, amt)
		case domain.ActivityCollateralSupply:
			p.Activities.CollateralSupplies++
			p.Volumes.CollateralSupplied.Add(p.Volumes.CollateralSupplied, amt)
		case domain.ActivityBorrow:
			p.Activities.Borrows++
			p.Volumes.Borrowed.Add(p.Volumes.Borrowed, amt)
		case domain.ActivityBorrowCrosschain:
			p.Activities.CrosschainBorrows++
			p.Volumes.CrosschainBorrowed.Add(p.Volumes.CrosschainBorrowed, amt)
		case domain.ActivityRepayWithCollateral:
			p.Activities.Repayments++
			p.Volumes.Repaid.Add(p.Volumes.Repaid, amt)
		}
	}

	for _, pos := range positions {
		if strings.EqualFold(pos.User, address) {
			p.Summary.TotalPositions++
		}
	}

	p.Summary.NetLiquidityProvided.Sub(p.Volumes.LiquiditySupplied, p.Volumes.LiquidityWithdrawn)
	p.Summary.TotalCollateral.Set(p.Volumes.CollateralSupplied)
	p.Summary.TotalBorrowed.Add(p.Volumes.Borrowed, p.Volumes.CrosschainBorrowed)
	p.Summary.TotalRepaid.Set(p.Volumes.Repaid)
	return p, nil
}

// Leaderboard ranks users over a trailing window. Valid timeframes: 1h, 24h,
// 7d, 30d, all. Position counts always cover the whole history; only
// activity totals respect the window.
func (s *Service) Leaderboard(ctx context.Context, sortBy string, timeframe string, limit int) ([]*analytics.LeaderboardEntry, error) {
	defer s.observe("leaderboard")()

	if sortBy == "" {
		sortBy = string(analytics.SortByVolume)
	}
	key := analytics.LeaderboardSort(sortBy)
	if !analytics.ValidLeaderboardSort(key) {
		return nil, fmt.Errorf("leaderboard: sort %q: %w", sortBy, storage.ErrInvalidInput)
	}
	if timeframe == "" {
		timeframe = "30d"
	}
	window, all, ok := timeframeSeconds(timeframe)
	if !ok || timeframe == "90d" {
		return nil, fmt.Errorf("leaderboard: timeframe %q: %w", timeframe, storage.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 100
	}

	acts, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan positions: %w", err)
	}

	if !all {
		start := s.now().Unix() - window
		windowed := make([]*domain.Activity, 0, len(acts))
		for _, a := range acts {
			if a.Timestamp >= start {
				windowed = append(windowed, a)
			}
		}
		acts = windowed
	}

	board := analytics.Leaderboard(acts, positions, key)
	if len(board) > limit {
		board = board[:limit]
	}
	return board, nil
}

// UserSearchFilter narrows a user directory search.
type UserSearchFilter struct {
	AddressPrefix      string `json:"addressPrefix,omitempty"`
	MinTransactions    int    `json:"minTransactions,omitempty"`
	MinPositions       int    `json:"minPositions,omitempty"`
	HasActivePositions *bool  `json:"hasActivePositions,omitempty"`
}

// UserSummary is one directory entry.
type UserSummary struct {
	Address            string `json:"address"`
	TransactionCount   int    `json:"transactionCount"`
	Positions          int    `json:"positions"`
	HasActivePositions bool   `json:"hasActivePositions"`
}

// UserSearchPage is one window of a user search.
type UserSearchPage struct {
	Items      []*UserSummary `json:"items"`
	Total      int            `json:"total"`
	Pagination Pagination     `json:"pagination"`
}

// UserSearch builds the user directory from the ledger and filters it.
// Results order by transaction count descending, address ascending on ties.
func (s *Service) UserSearch(ctx context.Context, f UserSearchFilter, page Page) (*UserSearchPage, error) {
	defer s.observe("userSearch")()

	acts, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan positions: %w", err)
	}

	byUser := make(map[string]*UserSummary)
	summary := func(addr string) *UserSummary {
		key := strings.ToLower(addr)
		u, ok := byUser[key]
		if !ok {
			u = &UserSummary{Address: key}
			byUser[key] = u
		}
		return u
	}

	for _, a := range acts {
		if a.User == "" {
			continue
		}
		summary(a.User).TransactionCount++
	}
	for _, p := range positions {
		if p.User == "" {
			continue
		}
		u := summary(p.User)
		u.Positions++
		u.HasActivePositions = true
	}

	prefix := strings.ToLower(f.AddressPrefix)
	matched := make([]*UserSummary, 0, len(byUser))
	for _, u := range byUser {
		if prefix != "" && !strings.HasPrefix(u.Address, prefix) {
			continue
		}
		if u.TransactionCount < f.MinTransactions {
			continue
		}
		if u.Positions < f.MinPositions {
			continue
		}
		if f.HasActivePositions != nil && u.HasActivePositions != *f.HasActivePositions {
			continue
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].TransactionCount != matched[j].TransactionCount {
			return matched[i].TransactionCount > matched[j].TransactionCount
		}
		return matched[i].Address < matched[j].Address
	})

	items, pagination := paginate(matched, page)
	return &UserSearchPage{Items: items, Total: len(matched), Pagination: pagination}, nil
}
