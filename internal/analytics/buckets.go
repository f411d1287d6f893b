package analytics

import (
	"math/big"

	"github.com/wildanre/ponder-etherlink/internal/domain"
)

// Bucket is one fixed-width slot of a historical series.
type Bucket struct {
	Start             int64    `json:"start"` // unix seconds, inclusive
	End               int64    `json:"end"`   // unix seconds, exclusive
	Volume            *big.Int `json:"volume"`
	Transactions      int      `json:"transactions"`
	UniqueUsers       int      `json:"uniqueUsers"`
	Supplies          int      `json:"supplies"`
	Withdrawals       int      `json:"withdrawals"`
	Collaterals       int      `json:"collaterals"`
	Borrows           int      `json:"borrows"`
	CrosschainBorrows int      `json:"crosschainBorrows"`
	Repayments        int      `json:"repayments"`
}

// TimeBuckets slices [start, end) into fixed-width intervals and folds the
// activities into them. Every slot is emitted even when empty, so a 24h
// window at 1h intervals always yields 24 buckets. Activities outside the
// window are ignored; an activity at ts lands in bucket
// floor((ts-start)/interval).
func TimeBuckets(acts []*domain.Activity, start, end, interval int64) []*Bucket {
	if interval <= 0 || end <= start {
		return nil
	}

	n := (end - start + interval - 1) / interval
	buckets := make([]*Bucket, n)
	users := make([]map[string]struct{}, n)
	for i := range buckets {
		bStart := start + int64(i)*interval
		bEnd := bStart + interval
		if bEnd > end {
			bEnd = end
		}
		buckets[i] = &Bucket{Start: bStart, End: bEnd, Volume: new(big.Int)}
		users[i] = make(map[string]struct{})
	}

	for _, a := range acts {
		if a.Timestamp < start || a.Timestamp >= end {
			continue
		}
		i := (a.Timestamp - start) / interval
		b := buckets[i]

		b.Volume.Add(b.Volume, a.Amount.BigInt())
		b.Transactions++
		if a.User != "" {
			users[i][a.User] = struct{}{}
		}

		switch a.Type {
		case domain.ActivityLiquiditySupply:
			b.Supplies++
		case domain.ActivityLiquidityWithdraw:
			b.Withdrawals++
		case domain.ActivityCollateralSupply:
			b.Collaterals++
		case domain.ActivityBorrow:
			b.Borrows++
		case domain.ActivityBorrowCrosschain:
			b.CrosschainBorrows++
		case domain.ActivityRepayWithCollateral:
			b.Repayments++
		}
	}

	for i, b := range buckets {
		b.UniqueUsers = len(users[i])
	}
	return buckets
}
