package query

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/wildanre/ponder-etherlink/internal/analytics"
	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/health"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// ListPositions returns every position in creation order.
func (s *Service) ListPositions(ctx context.Context) ([]*domain.Position, error) {
	defer s.observe("listPositions")()

	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan positions: %w", err)
	}
	return positions, nil
}

// GetPosition returns one position by address.
func (s *Service) GetPosition(ctx context.Context, id string) (*domain.Position, error) {
	defer s.observe("getPosition")()

	if id == "" {
		return nil, fmt.Errorf("get position: empty id: %w", storage.ErrInvalidInput)
	}
	pos, err := s.positions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("get position %s: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get position %s: %w", id, err)
	}
	return pos, nil
}

// PositionsByUser returns every position opened by one user.
func (s *Service) PositionsByUser(ctx context.Context, user string) ([]*domain.Position, error) {
	defer s.observe("positionsByUser")()

	if user == "" {
		return nil, fmt.Errorf("positions by user: empty address: %w", storage.ErrInvalidInput)
	}

	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan positions: %w", err)
	}

	matched := make([]*domain.Position, 0)
	for _, p := range positions {
		if strings.EqualFold(p.User, user) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// PositionHistory returns the debt-side ledger records behind one position,
// newest-first: collateral supplies, borrows, crosschain borrows, and
// repayments for the position's (user, pool).
func (s *Service) PositionHistory(ctx context.Context, id string) ([]*domain.Activity, error) {
	defer s.observe("positionHistory")()

	pos, err := s.GetPosition(ctx, id)
	if err != nil {
		return nil, err
	}

	all, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	history := make([]*domain.Activity, 0)
	for _, a := range all {
		if !strings.EqualFold(a.User, pos.User) || !strings.EqualFold(a.PoolAddress, pos.PoolAddress) {
			continue
		}
		switch a.Type {
		case domain.ActivityCollateralSupply, domain.ActivityBorrow,
			domain.ActivityBorrowCrosschain, domain.ActivityRepayWithCollateral:
			history = append(history, a)
		}
	}
	sortNewestFirst(history)
	return history, nil
}

// PositionFilter narrows a position search.
type PositionFilter struct {
	User string `json:"borrower,omitempty"`
	Pool string `json:"poolAddress,omitempty"`
}

// PositionSearchPage is one window of a position search.
type PositionSearchPage struct {
	Items      []*domain.Position `json:"items"`
	Total      int                `json:"total"`
	Pagination Pagination         `json:"pagination"`
}

// SearchPositions filters positions by owner and pool.
func (s *Service) SearchPositions(ctx context.Context, f PositionFilter, page Page) (*PositionSearchPage, error) {
	defer s.observe("searchPositions")()

	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan positions: %w", err)
	}

	matched := make([]*domain.Position, 0, len(positions))
	for _, p := range positions {
		if f.User != "" && !strings.EqualFold(p.User, f.User) {
			continue
		}
		if f.Pool != "" && !strings.EqualFold(p.PoolAddress, f.Pool) {
			continue
		}
		matched = append(matched, p)
	}

	items, pagination := paginate(matched, page)
	return &PositionSearchPage{Items: items, Total: len(matched), Pagination: pagination}, nil
}

// PositionHealth is one position's derived balances and health verdict.
type PositionHealth struct {
	health.Result
	Collateral *big.Int `json:"collateralValue"`
	Debt       *big.Int `json:"debtValue"`
	PoolLTV    uint64   `json:"ltv"`
}

// HealthCheck scores the requested positions. The returned map only holds
// entries for positions that exist; callers treat absent ids as not found.
// Balances are derived from the ledger on every call, never cached.
func (s *Service) HealthCheck(ctx context.Context, ids []string) (map[string]*PositionHealth, error) {
	defer s.observe("healthCheck")()

	if len(ids) == 0 {
		return nil, fmt.Errorf("health check: no position ids: %w", storage.ErrInvalidInput)
	}

	acts, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	out := make(map[string]*PositionHealth, len(ids))
	for _, id := range ids {
		pos, err := s.positions.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("health check %s: %w", id, err)
		}

		ph, err := s.scorePosition(ctx, acts, pos)
		if err != nil {
			return nil, err
		}
		out[id] = ph
	}
	return out, nil
}

func (s *Service) scorePosition(ctx context.Context, acts []*domain.Activity, pos *domain.Position) (*PositionHealth, error) {
	var poolLTV uint64
	pool, err := s.pools.GetByID(ctx, pos.PoolAddress)
	switch {
	case err == nil:
		poolLTV = pool.LTV
	case errors.Is(err, storage.ErrNotFound):
		// Position without a visible pool: score against LTV 0, which marks
		// any debt as critical.
		s.log.Warn().Str("position", pos.ID).Str("pool", pos.PoolAddress).Msg("position references unknown pool")
	default:
		return nil, fmt.Errorf("load pool %s: %w", pos.PoolAddress, err)
	}

	collateral, debt := analytics.PositionBalances(acts, pos.User, pos.PoolAddress)
	return &PositionHealth{
		Result:     health.Score(collateral, debt, poolLTV),
		Collateral: collateral,
		Debt:       debt,
		PoolLTV:    poolLTV,
	}, nil
}

// LiquidationCandidate is a position at or past the liquidation boundary.
type LiquidationCandidate struct {
	Position *domain.Position `json:"position"`
	Health   *PositionHealth  `json:"health"`
}

// LiquidationCandidates returns positions whose derived health score is at
// or below threshold, riskiest first. Positions with no debt or no
// collateral recorded are skipped; there is nothing to liquidate or the
// position never borrowed.
func (s *Service) LiquidationCandidates(ctx context.Context, threshold float64, limit int) ([]*LiquidationCandidate, error) {
	defer s.observe("liquidationCandidates")()

	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("liquidation candidates: threshold %v out of range: %w", threshold, storage.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 100
	}

	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan positions: %w", err)
	}
	acts, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	candidates := make([]*LiquidationCandidate, 0)
	for _, pos := range positions {
		ph, err := s.scorePosition(ctx, acts, pos)
		if err != nil {
			return nil, err
		}
		if ph.Debt.Sign() <= 0 || ph.Collateral.Sign() <= 0 {
			continue
		}
		if ph.Score > threshold {
			continue
		}
		candidates = append(candidates, &LiquidationCandidate{Position: pos, Health: ph})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Health.Score != b.Health.Score {
			return a.Health.Score < b.Health.Score
		}
		return a.Position.ID < b.Position.ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
