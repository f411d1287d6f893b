package domain

import "testing"

func TestActivityID(t *testing.T) {
	if got := ActivityID("0xabc", 7); got != "0xabc-7" {
		t.Errorf("got %s", got)
	}
	if got := ActivityID("0xabc", 0); got != "0xabc-0" {
		t.Errorf("got %s", got)
	}
}

func TestActivityType_Valid(t *testing.T) {
	for _, typ := range ActivityTypes {
		if !typ.Valid() {
			t.Errorf("%s must be valid", typ)
		}
	}
	if ActivityType("liquidation").Valid() {
		t.Error("unknown type must be invalid")
	}
	if ActivityType("").Valid() {
		t.Error("empty type must be invalid")
	}
}

func TestActivity_Equal(t *testing.T) {
	chainID := int64(43114)
	base := func() *Activity {
		return &Activity{
			ID:                "0xtx-0",
			Type:              ActivityBorrowCrosschain,
			User:              "0xu1",
			PoolAddress:       "0xpool1",
			Amount:            NewAmount(500),
			Shares:            NewAmount(500),
			ChainID:           &chainID,
			BridgeTokenSender: NewAmount(1),
			BlockNumber:       10,
			TransactionHash:   "0xtx",
			Timestamp:         100,
		}
	}

	if !base().Equal(base()) {
		t.Error("identical content must be equal")
	}

	diff := base()
	diff.Amount = NewAmount(600)
	if base().Equal(diff) {
		t.Error("differing amount must not be equal")
	}

	diff = base()
	diff.ChainID = nil
	if base().Equal(diff) {
		t.Error("missing chain id must not be equal")
	}

	other := int64(1)
	diff = base()
	diff.ChainID = &other
	if base().Equal(diff) {
		t.Error("differing chain id must not be equal")
	}

	// Nil optional amounts compare equal to zero, matching Amount.Equal.
	a := base()
	b := base()
	a.Shares = nil
	b.Shares = NewAmount(0)
	if !a.Equal(b) {
		t.Error("nil shares must equal zero shares")
	}

	var nilAct *Activity
	if nilAct.Equal(base()) {
		t.Error("nil must not equal non-nil")
	}
	if !nilAct.Equal(nil) {
		t.Error("nil must equal nil")
	}
}
