package analytics

import (
	"math/big"
	"sort"

	"github.com/wildanre/ponder-etherlink/internal/domain"
)

// LeaderboardSort selects the ranking key.
type LeaderboardSort string

const (
	SortByVolume       LeaderboardSort = "totalVolume"
	SortByTransactions LeaderboardSort = "transactionCount"
	SortByPositions    LeaderboardSort = "positions"
	SortBySupplied     LeaderboardSort = "liquiditySupplied"
)

// ValidLeaderboardSort reports whether s is a known sort key.
func ValidLeaderboardSort(s LeaderboardSort) bool {
	switch s {
	case SortByVolume, SortByTransactions, SortByPositions, SortBySupplied:
		return true
	}
	return false
}

// LeaderboardEntry is one user's aggregate standing.
type LeaderboardEntry struct {
	Rank               int      `json:"rank"`
	User               string   `json:"user"`
	TotalVolume        *big.Int `json:"totalVolume"`
	LiquiditySupplied  *big.Int `json:"liquiditySupplied"`
	LiquidityWithdrawn *big.Int `json:"liquidityWithdrawn"`
	CollateralSupplied *big.Int `json:"collateralSupplied"`
	TotalBorrowed      *big.Int `json:"totalBorrowed"`
	TotalRepaid        *big.Int `json:"totalRepaid"`
	TransactionCount   int      `json:"transactionCount"`
	Positions          int      `json:"positions"`
}

// Leaderboard folds activities and positions into per-user totals and ranks
// them by the chosen key, descending. Ties break on user address ascending
// so pagination over the board is reproducible. Rank is assigned after the
// sort, starting at 1.
func Leaderboard(acts []*domain.Activity, positions []*domain.Position, sortBy LeaderboardSort) []*LeaderboardEntry {
	byUser := make(map[string]*LeaderboardEntry)

	entry := func(user string) *LeaderboardEntry {
		e, ok := byUser[user]
		if !ok {
			e = &LeaderboardEntry{
				User:               user,
				TotalVolume:        new(big.Int),
				LiquiditySupplied:  new(big.Int),
				LiquidityWithdrawn: new(big.Int),
				CollateralSupplied: new(big.Int),
				TotalBorrowed:      new(big.Int),
				TotalRepaid:        new(big.Int),
			}
			byUser[user] = e
		}
		return e
	}

	for _, a := range acts {
		if a.User == "" {
			continue
		}
		e := entry(a.User)
		amt := a.Amount.BigInt()

		e.TotalVolume.Add(e.TotalVolume, amt)
		e.TransactionCount++

		switch a.Type {
		case domain.ActivityLiquiditySupply:
			e.LiquiditySupplied.Add(e.LiquiditySupplied, amt)
		case domain.ActivityLiquidityWithdraw:
			e.LiquidityWithdrawn.Add(e.LiquidityWithdrawn, amt)
		case domain.ActivityCollateralSupply:
			e.CollateralSupplied.Add(e.CollateralSupplied, amt)
		case domain.ActivityBorrow, domain.ActivityBorrowCrosschain:
			e.TotalBorrowed.Add(e.TotalBorrowed, amt)
		case domain.ActivityRepayWithCollateral:
			e.TotalRepaid.Add(e.TotalRepaid, amt)
		}
	}

	for _, p := range positions {
		if p.User == "" {
			continue
		}
		entry(p.User).Positions++
	}

	board := make([]*LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		board = append(board, e)
	}

	sort.Slice(board, func(i, j int) bool {
		a, b := board[i], board[j]
		var cmp int
		switch sortBy {
		case SortByTransactions:
			cmp = a.TransactionCount - b.TransactionCount
		case SortByPositions:
			cmp = a.Positions - b.Positions
		case SortBySupplied:
			cmp = a.LiquiditySupplied.Cmp(b.LiquiditySupplied)
		default:
			cmp = a.TotalVolume.Cmp(b.TotalVolume)
		}
		if cmp != 0 {
			return cmp > 0
		}
		return a.User < b.User
	})

	for i, e := range board {
		e.Rank = i + 1
	}
	return board
}
