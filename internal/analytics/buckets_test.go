package analytics

import (
	"testing"

	"github.com/wildanre/ponder-etherlink/internal/domain"
)

func TestTimeBuckets_DenseSeries(t *testing.T) {
	const (
		start = int64(1700000000)
		hour  = int64(3600)
		end   = start + 24*hour
	)

	acts := []*domain.Activity{
		act(domain.ActivityLiquiditySupply, "0xa", 100, start),           // bucket 0
		act(domain.ActivityBorrow, "0xb", 50, start+hour+1),              // bucket 1
		act(domain.ActivityBorrow, "0xa", 25, start+hour+2),              // bucket 1
		act(domain.ActivityRepayWithCollateral, "0xa", 10, end-1),        // bucket 23
		act(domain.ActivityCollateralSupply, "0xa", 999, end),            // outside, dropped
		act(domain.ActivityCollateralSupply, "0xa", 999, start-1),        // outside, dropped
	}

	buckets := TimeBuckets(acts, start, end, hour)

	// A 24h window at 1h intervals always yields 24 buckets, empty or not.
	if len(buckets) != 24 {
		t.Fatalf("expected 24 buckets, got %d", len(buckets))
	}

	b0 := buckets[0]
	if b0.Transactions != 1 || b0.Volume.String() != "100" || b0.Supplies != 1 {
		t.Errorf("bucket 0: %+v", b0)
	}

	b1 := buckets[1]
	if b1.Transactions != 2 || b1.Volume.String() != "75" || b1.Borrows != 2 {
		t.Errorf("bucket 1: %+v", b1)
	}
	if b1.UniqueUsers != 2 {
		t.Errorf("bucket 1 uniqueUsers: got %d", b1.UniqueUsers)
	}

	b23 := buckets[23]
	if b23.Transactions != 1 || b23.Repayments != 1 {
		t.Errorf("bucket 23: %+v", b23)
	}

	// Everything in between stays zeroed, never nil.
	for i := 2; i < 23; i++ {
		b := buckets[i]
		if b.Transactions != 0 || b.Volume.Sign() != 0 {
			t.Errorf("bucket %d not empty: %+v", i, b)
		}
	}
}

func TestTimeBuckets_BucketBounds(t *testing.T) {
	buckets := TimeBuckets(nil, 0, 100, 30)
	if len(buckets) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(buckets))
	}
	last := buckets[3]
	if last.Start != 90 || last.End != 100 {
		t.Errorf("last bucket clamped wrong: [%d, %d)", last.Start, last.End)
	}
}

func TestTimeBuckets_InvalidWindow(t *testing.T) {
	if got := TimeBuckets(nil, 100, 100, 10); got != nil {
		t.Errorf("expected nil for empty window, got %d buckets", len(got))
	}
	if got := TimeBuckets(nil, 0, 100, 0); got != nil {
		t.Errorf("expected nil for zero interval, got %d buckets", len(got))
	}
}
