// Package health scores positions against their pool's loan-to-value limit.
package health

import (
	"math"
	"math/big"
)

// Tier buckets a score into an alert level.
type Tier string

const (
	TierHealthy  Tier = "healthy"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
)

// Result is one position's health verdict.
type Result struct {
	Score      float64 `json:"healthScore"` // 0..100, higher is safer
	CurrentLTV float64 `json:"currentLtv"`  // debt/collateral * 100
	Tier       Tier    `json:"tier"`
}

// Score rates a position's distance to its pool's liquidation boundary.
//
// A position with no debt is perfectly healthy regardless of collateral. A
// position with debt but no collateral is already past liquidation. Otherwise
// the score measures the remaining headroom under the pool limit:
//
//	score = max(0, (ltv - debt/collateral*100) / ltv * 100)
//
// Arithmetic is exact rational until the final rounding to two decimals, so
// wei-scale balances never lose precision mid-computation.
func Score(collateral, debt *big.Int, poolLTV uint64) Result {
	if debt == nil || debt.Sign() <= 0 {
		return Result{Score: 100, CurrentLTV: 0, Tier: TierHealthy}
	}
	if collateral == nil || collateral.Sign() <= 0 {
		return Result{Score: 0, CurrentLTV: 0, Tier: TierCritical}
	}
	if poolLTV == 0 {
		// Any debt against a zero-LTV pool sits past the limit.
		current := ratio(debt, collateral)
		return Result{Score: 0, CurrentLTV: round2(current), Tier: TierCritical}
	}

	currentLTV := ratio(debt, collateral)

	limit := new(big.Rat).SetUint64(poolLTV)
	headroom := new(big.Rat).Sub(limit, currentLTV)
	score := headroom.Quo(headroom, limit)
	score.Mul(score, big.NewRat(100, 1))

	s := round2(score)
	if s < 0 {
		s = 0
	}
	return Result{Score: s, CurrentLTV: round2(currentLTV), Tier: TierFor(s)}
}

// TierFor maps a score to its alert tier: at most 5 is critical, at most 20
// is warning, above 20 is healthy.
func TierFor(score float64) Tier {
	switch {
	case score <= 5:
		return TierCritical
	case score <= 20:
		return TierWarning
	default:
		return TierHealthy
	}
}

// ratio returns num/den * 100 as an exact rational.
func ratio(num, den *big.Int) *big.Rat {
	r := new(big.Rat).SetFrac(num, den)
	return r.Mul(r, big.NewRat(100, 1))
}

// round2 converts to float64 with two-decimal rounding.
func round2(r *big.Rat) float64 {
	f, _ := r.Float64()
	return math.Round(f*100) / 100
}
