package domain

// Position represents a borrower position contract. Identity is immutable;
// collateral and debt are not stored here, they are derived by folding the
// activity ledger for (User, PoolAddress).
type Position struct {
	ID              string `json:"id"` // position contract address
	User            string `json:"user"`
	PositionAddress string `json:"positionAddress"`
	PoolAddress     string `json:"poolAddress"`
	BlockNumber     int64  `json:"blockNumber"`
	TransactionHash string `json:"transactionHash"`
	Timestamp       int64  `json:"timestamp"`
}

// Equal reports whether two position records carry identical content.
func (p *Position) Equal(o *Position) bool {
	if p == nil || o == nil {
		return p == o
	}
	return *p == *o
}
