package event

import (
	"encoding/json"
	"errors"
	"testing"
)

func frame(name string, args string) Frame {
	return Frame{
		Name:            name,
		Contract:        "0xpool1",
		BlockNumber:     100,
		TransactionHash: "0xtx1",
		LogIndex:        2,
		Timestamp:       1700000000,
		Args:            json.RawMessage(args),
	}
}

func TestDecodeFrame_SupplyLiquidity(t *testing.T) {
	ev, err := DecodeFrame(frame(NameSupplyLiquidity,
		`{"user":"0xuserA","amount":"1000000000000000000","shares":"999"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	p, ok := ev.Payload.(LiquiditySupplied)
	if !ok {
		t.Fatalf("expected LiquiditySupplied, got %T", ev.Payload)
	}
	if p.User != "0xuserA" {
		t.Errorf("user: got %s", p.User)
	}
	if p.Amount.String() != "1000000000000000000" {
		t.Errorf("amount: got %s", p.Amount.String())
	}
	if p.Shares.String() != "999" {
		t.Errorf("shares: got %s", p.Shares.String())
	}
}

func TestDecodeFrame_PoolCreated(t *testing.T) {
	ev, err := DecodeFrame(frame(NameLendingPoolCreated,
		`{"lendingPool":"0xpool1","collateralToken":"0xweth","borrowToken":"0xusdc","ltv":80}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	p := ev.Payload.(PoolCreated)
	if p.Pool != "0xpool1" || p.LTV != 80 {
		t.Errorf("unexpected payload: %+v", p)
	}
}

func TestDecodeFrame_CrosschainBorrow(t *testing.T) {
	ev, err := DecodeFrame(frame(NameBorrowDebtCrosschain,
		`{"user":"0xuserA","amount":"500","shares":"500","chainId":43114,"bridgeTokenSender":"1"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	p := ev.Payload.(CrosschainDebtBorrowed)
	if p.ChainID != 43114 {
		t.Errorf("chainId: got %d", p.ChainID)
	}
	if p.BridgeTokenSender.String() != "1" {
		t.Errorf("bridgeTokenSender: got %s", p.BridgeTokenSender.String())
	}
}

func TestDecodeFrame_HexAmountAccepted(t *testing.T) {
	ev, err := DecodeFrame(frame(NameSupplyCollateral,
		`{"user":"0xuserA","amount":"0xde0b6b3a7640000"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	p := ev.Payload.(CollateralSupplied)
	if p.Amount.String() != "1000000000000000000" {
		t.Errorf("amount: got %s", p.Amount.String())
	}
}

func TestDecodeFrame_UnknownName(t *testing.T) {
	_, err := DecodeFrame(frame("Totally(Unknown)", `{}`))
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestDecodeFrame_MissingTransactionHash(t *testing.T) {
	f := frame(NameSupplyLiquidity, `{"user":"0xuserA","amount":"1"}`)
	f.TransactionHash = ""
	if _, err := DecodeFrame(f); err == nil {
		t.Fatal("expected error for missing transaction hash")
	}
}

func TestDecodeFrame_MalformedArgs(t *testing.T) {
	if _, err := DecodeFrame(frame(NameSupplyLiquidity, `{"amount":`)); err == nil {
		t.Fatal("expected error for malformed args")
	}
}
