package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wildanre/ponder-etherlink/internal/domain"
)

// ErrUnknownEvent marks a frame whose event name is not in the closed set.
var ErrUnknownEvent = errors.New("unknown event name")

// Frame is the wire shape the subscription engine delivers: block metadata
// plus the raw decoded argument object.
type Frame struct {
	Name            string          `json:"name"`
	Contract        string          `json:"contract"`
	BlockNumber     int64           `json:"blockNumber"`
	TransactionHash string          `json:"transactionHash"`
	LogIndex        int64           `json:"logIndex"`
	Timestamp       int64           `json:"timestamp"`
	Args            json.RawMessage `json:"args"`
}

// DecodeFrame turns a wire frame into a typed DecodedEvent. Frames with an
// unknown name return ErrUnknownEvent; malformed arguments return a wrapped
// decoding error. Both are upstream-delivery failures the caller logs and
// skips.
func DecodeFrame(f Frame) (DecodedEvent, error) {
	ev := DecodedEvent{
		Name:            f.Name,
		Contract:        f.Contract,
		BlockNumber:     f.BlockNumber,
		TransactionHash: f.TransactionHash,
		LogIndex:        f.LogIndex,
		Timestamp:       f.Timestamp,
	}
	if f.TransactionHash == "" {
		return ev, fmt.Errorf("decode %s: missing transaction hash", f.Name)
	}

	payload, err := decodeArgs(f.Name, f.Args)
	if err != nil {
		return ev, err
	}
	ev.Payload = payload
	return ev, nil
}

func decodeArgs(name string, args json.RawMessage) (Payload, error) {
	unmarshal := func(v any) error {
		if err := json.Unmarshal(args, v); err != nil {
			return fmt.Errorf("decode %s args: %w", name, err)
		}
		return nil
	}

	switch name {
	case NameLendingPoolCreated:
		var a struct {
			LendingPool     string `json:"lendingPool"`
			CollateralToken string `json:"collateralToken"`
			BorrowToken     string `json:"borrowToken"`
			LTV             uint64 `json:"ltv"`
		}
		if err := unmarshal(&a); err != nil {
			return nil, err
		}
		return PoolCreated{Pool: a.LendingPool, CollateralToken: a.CollateralToken, BorrowToken: a.BorrowToken, LTV: a.LTV}, nil

	case NameBasicTokenSenderAdded:
		var a struct {
			ChainID int64  `json:"chainId"`
			Sender  string `json:"basicTokenSender"`
		}
		if err := unmarshal(&a); err != nil {
			return nil, err
		}
		return TokenSenderAdded{ChainID: a.ChainID, Sender: a.Sender}, nil

	case NameTokenDataStreamAdded:
		var a struct {
			Token      string `json:"token"`
			DataStream string `json:"dataStream"`
		}
		if err := unmarshal(&a); err != nil {
			return nil, err
		}
		return DataStreamAdded{Token: a.Token, DataStream: a.DataStream}, nil

	case NameCreatePosition:
		var a struct {
			User            string `json:"user"`
			PositionAddress string `json:"positionAddress"`
		}
		if err := unmarshal(&a); err != nil {
			return nil, err
		}
		return PositionCreated{User: a.User, PositionAddress: a.PositionAddress}, nil

	case NameSupplyLiquidity:
		a, err := decodeSharedArgs(name, args)
		if err != nil {
			return nil, err
		}
		return LiquiditySupplied{User: a.User, Amount: a.Amount, Shares: a.Shares}, nil

	case NameWithdrawLiquidity:
		a, err := decodeSharedArgs(name, args)
		if err != nil {
			return nil, err
		}
		return LiquidityWithdrawn{User: a.User, Amount: a.Amount, Shares: a.Shares}, nil

	case NameSupplyCollateral:
		var a struct {
			User   string         `json:"user"`
			Amount *domain.Amount `json:"amount"`
		}
		if err := unmarshal(&a); err != nil {
			return nil, err
		}
		return CollateralSupplied{User: a.User, Amount: a.Amount}, nil

	case NameBorrowDebt:
		a, err := decodeSharedArgs(name, args)
		if err != nil {
			return nil, err
		}
		return DebtBorrowed{User: a.User, Amount: a.Amount, Shares: a.Shares}, nil

	case NameBorrowDebtCrosschain:
		var a struct {
			User              string         `json:"user"`
			Amount            *domain.Amount `json:"amount"`
			Shares            *domain.Amount `json:"shares"`
			ChainID           int64          `json:"chainId"`
			BridgeTokenSender *domain.Amount `json:"bridgeTokenSender"`
		}
		if err := unmarshal(&a); err != nil {
			return nil, err
		}
		return CrosschainDebtBorrowed{
			User: a.User, Amount: a.Amount, Shares: a.Shares,
			ChainID: a.ChainID, BridgeTokenSender: a.BridgeTokenSender,
		}, nil

	case NameRepayWithCollateral:
		a, err := decodeSharedArgs(name, args)
		if err != nil {
			return nil, err
		}
		return CollateralRepaid{User: a.User, Amount: a.Amount, Shares: a.Shares}, nil

	case NameLiquidate:
		var a struct {
			User string `json:"user"`
		}
		if err := unmarshal(&a); err != nil {
			return nil, err
		}
		return Liquidated{User: a.User}, nil

	case NameSwapToken:
		var a struct {
			User   string         `json:"user"`
			Token  string         `json:"token"`
			Amount *domain.Amount `json:"amount"`
		}
		if err := unmarshal(&a); err != nil {
			return nil, err
		}
		return TokenSwapped{User: a.User, Token: a.Token, Amount: a.Amount}, nil

	case NameSwapTokenByPosition:
		var a struct {
			User      string         `json:"user"`
			TokenIn   string         `json:"tokenIn"`
			TokenOut  string         `json:"tokenOut"`
			AmountIn  *domain.Amount `json:"amountIn"`
			AmountOut *domain.Amount `json:"amountOut"`
		}
		if err := unmarshal(&a); err != nil {
			return nil, err
		}
		return PositionTokenSwapped{
			User: a.User, TokenIn: a.TokenIn, TokenOut: a.TokenOut,
			AmountIn: a.AmountIn, AmountOut: a.AmountOut,
		}, nil

	case NameWithdrawCollateral:
		var a struct {
			User   string         `json:"user"`
			Amount *domain.Amount `json:"amount"`
		}
		if err := unmarshal(&a); err != nil {
			return nil, err
		}
		return CollateralWithdrawn{User: a.User, Amount: a.Amount}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
}

// sharedArgs covers the user/amount/shares triple most pool events carry.
type sharedArgs struct {
	User   string         `json:"user"`
	Amount *domain.Amount `json:"amount"`
	Shares *domain.Amount `json:"shares"`
}

func decodeSharedArgs(name string, args json.RawMessage) (sharedArgs, error) {
	var a sharedArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, fmt.Errorf("decode %s args: %w", name, err)
	}
	return a, nil
}
