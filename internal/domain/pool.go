package domain

// LendingPool represents a deployed lending pool. Created exactly once per
// pool-creation event and immutable thereafter.
type LendingPool struct {
	ID              string `json:"id"` // pool contract address
	CollateralToken string `json:"collateralToken"`
	BorrowToken     string `json:"borrowToken"`
	LTV             uint64 `json:"ltv"` // max loan-to-value, percent
	CreatedAt       int64  `json:"createdAt"`
	BlockNumber     int64  `json:"blockNumber"`
	TransactionHash string `json:"transactionHash"`
}

// Equal reports whether two pool records carry identical content.
// Used to tell an idempotent replay apart from a conflicting write.
func (p *LendingPool) Equal(o *LendingPool) bool {
	if p == nil || o == nil {
		return p == o
	}
	return *p == *o
}
