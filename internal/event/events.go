// Package event maps decoded chain events into ledger records.
//
// The host subscription engine owns the dispatch loop and delivery
// guarantees (at-least-once, monotonic per contract); this package owns the
// translation of one decoded event into exactly one ledger insertion with a
// deterministic identity.
package event

import "github.com/wildanre/ponder-etherlink/internal/domain"

// Chain event names as emitted by the factory, pool, and position contracts.
const (
	NameLendingPoolCreated    = "LendingPoolCreated"
	NameBasicTokenSenderAdded = "BasicTokenSenderAdded"
	NameTokenDataStreamAdded  = "TokenDataStreamAdded"
	NameCreatePosition        = "CreatePosition"
	NameSupplyLiquidity       = "SupplyLiquidity"
	NameWithdrawLiquidity     = "WithdrawLiquidity"
	NameSupplyCollateral      = "SupplyCollateral"
	NameBorrowDebt            = "BorrowDebt"
	NameBorrowDebtCrosschain  = "BorrowDebtCrosschain"
	NameRepayWithCollateral   = "RepayWithCollateralByPosition"
	NameLiquidate             = "Liquidate"
	NameSwapToken             = "SwapToken"
	NameSwapTokenByPosition   = "SwapTokenByPosition"
	NameWithdrawCollateral    = "WithdrawCollateral"
)

// DecodedEvent is one decoded chain event as delivered by the host.
type DecodedEvent struct {
	Name            string
	Contract        string // emitting contract address
	BlockNumber     int64
	TransactionHash string
	LogIndex        int64
	Timestamp       int64 // block time, unix seconds
	Payload         Payload
}

// Payload is the closed set of decoded event arguments. Adding a new event
// kind means adding a variant here and a case in Mapper.Handle, both checked
// at compile time.
type Payload interface {
	eventPayload()
}

// PoolCreated carries factory LendingPoolCreated arguments.
type PoolCreated struct {
	Pool            string
	CollateralToken string
	BorrowToken     string
	LTV             uint64
}

// TokenSenderAdded carries factory BasicTokenSenderAdded arguments.
type TokenSenderAdded struct {
	ChainID int64
	Sender  string
}

// DataStreamAdded carries factory TokenDataStreamAdded arguments.
type DataStreamAdded struct {
	Token      string
	DataStream string
}

// PositionCreated carries pool CreatePosition arguments.
type PositionCreated struct {
	User            string
	PositionAddress string
}

// LiquiditySupplied carries pool SupplyLiquidity arguments.
type LiquiditySupplied struct {
	User   string
	Amount *domain.Amount
	Shares *domain.Amount
}

// LiquidityWithdrawn carries pool WithdrawLiquidity arguments.
type LiquidityWithdrawn struct {
	User   string
	Amount *domain.Amount
	Shares *domain.Amount
}

// CollateralSupplied carries pool SupplyCollateral arguments.
// Collateral supply has no share accounting.
type CollateralSupplied struct {
	User   string
	Amount *domain.Amount
}

// DebtBorrowed carries pool BorrowDebt arguments.
type DebtBorrowed struct {
	User   string
	Amount *domain.Amount
	Shares *domain.Amount
}

// CrosschainDebtBorrowed carries pool BorrowDebtCrosschain arguments.
type CrosschainDebtBorrowed struct {
	User              string
	Amount            *domain.Amount
	Shares            *domain.Amount
	ChainID           int64
	BridgeTokenSender *domain.Amount
}

// CollateralRepaid carries pool RepayWithCollateralByPosition arguments.
type CollateralRepaid struct {
	User   string
	Amount *domain.Amount
	Shares *domain.Amount
}

// Liquidated is observed on position contracts but produces no ledger
// mutation. Whether liquidations should extend the ledger schema is
// unresolved upstream; the mapper logs them so the gap stays visible.
type Liquidated struct {
	User string
}

// TokenSwapped is observed on position contracts; no ledger mutation.
type TokenSwapped struct {
	User   string
	Token  string
	Amount *domain.Amount
}

// PositionTokenSwapped is observed on position contracts; no ledger mutation.
type PositionTokenSwapped struct {
	User      string
	TokenIn   string
	TokenOut  string
	AmountIn  *domain.Amount
	AmountOut *domain.Amount
}

// CollateralWithdrawn is observed on position contracts; no ledger mutation.
type CollateralWithdrawn struct {
	User   string
	Amount *domain.Amount
}

func (PoolCreated) eventPayload()            {}
func (TokenSenderAdded) eventPayload()       {}
func (DataStreamAdded) eventPayload()        {}
func (PositionCreated) eventPayload()        {}
func (LiquiditySupplied) eventPayload()      {}
func (LiquidityWithdrawn) eventPayload()     {}
func (CollateralSupplied) eventPayload()     {}
func (DebtBorrowed) eventPayload()           {}
func (CrosschainDebtBorrowed) eventPayload() {}
func (CollateralRepaid) eventPayload()       {}
func (Liquidated) eventPayload()             {}
func (TokenSwapped) eventPayload()           {}
func (PositionTokenSwapped) eventPayload()   {}
func (CollateralWithdrawn) eventPayload()    {}
