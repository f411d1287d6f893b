package domain

import "fmt"

// ActivityType discriminates the tagged activity variants.
type ActivityType string

// Activity type constants. Values match the original API's type labels.
const (
	ActivityLiquiditySupply     ActivityType = "liquidity_supply"
	ActivityLiquidityWithdraw   ActivityType = "liquidity_withdraw"
	ActivityCollateralSupply    ActivityType = "collateral_supply"
	ActivityBorrow              ActivityType = "borrow"
	ActivityBorrowCrosschain    ActivityType = "borrow_crosschain"
	ActivityRepayWithCollateral ActivityType = "repay_with_collateral"
)

// ActivityTypes lists all valid types in a fixed order.
var ActivityTypes = []ActivityType{
	ActivityLiquiditySupply,
	ActivityLiquidityWithdraw,
	ActivityCollateralSupply,
	ActivityBorrow,
	ActivityBorrowCrosschain,
	ActivityRepayWithCollateral,
}

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	for _, known := range ActivityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Activity is one value-moving ledger record. Records are immutable once
// written; the ledger is append-only.
type Activity struct {
	ID                string       `json:"id"` // txHash-logIndex
	Type              ActivityType `json:"type"`
	User              string       `json:"user"`
	PoolAddress       string       `json:"poolAddress"`
	Amount            *Amount      `json:"amount"`
	Shares            *Amount      `json:"shares,omitempty"`            // absent for collateral supply
	ChainID           *int64       `json:"chainId,omitempty"`           // crosschain borrow only
	BridgeTokenSender *Amount      `json:"bridgeTokenSender,omitempty"` // crosschain borrow only
	BlockNumber       int64        `json:"blockNumber"`
	TransactionHash   string       `json:"transactionHash"`
	LogIndex          int64        `json:"logIndex"`
	Timestamp         int64        `json:"timestamp"`
}

// ActivityID builds the deterministic ledger identity for a value-moving
// event: transactionHash + "-" + logIndex.
func ActivityID(txHash string, logIndex int64) string {
	return fmt.Sprintf("%s-%d", txHash, logIndex)
}

// Equal reports whether two activities carry identical content. A redelivery
// with equal content is an idempotent no-op; equal id with differing content
// is a data-integrity conflict.
func (a *Activity) Equal(o *Activity) bool {
	if a == nil || o == nil {
		return a == o
	}
	if a.ID != o.ID || a.Type != o.Type || a.User != o.User ||
		a.PoolAddress != o.PoolAddress ||
		a.BlockNumber != o.BlockNumber || a.TransactionHash != o.TransactionHash ||
		a.LogIndex != o.LogIndex || a.Timestamp != o.Timestamp {
		return false
	}
	if !a.Amount.Equal(o.Amount) || !a.Shares.Equal(o.Shares) || !a.BridgeTokenSender.Equal(o.BridgeTokenSender) {
		return false
	}
	if (a.ChainID == nil) != (o.ChainID == nil) {
		return false
	}
	if a.ChainID != nil && *a.ChainID != *o.ChainID {
		return false
	}
	return true
}
