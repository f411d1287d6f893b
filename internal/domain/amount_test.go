package domain

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestParseAmount_Decimal(t *testing.T) {
	a, err := ParseAmount("1000000000000000000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.String() != "1000000000000000000" {
		t.Errorf("got %s", a.String())
	}
}

func TestParseAmount_Hex(t *testing.T) {
	// 0xde0b6b3a7640000 = 1e18
	a, err := ParseAmount("0xde0b6b3a7640000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.String() != "1000000000000000000" {
		t.Errorf("got %s", a.String())
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, s := range []string{"", "  ", "abc", "-5", "1.5"} {
		if _, err := ParseAmount(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestParseAmount_BeyondUint64(t *testing.T) {
	// 2^128, well past native integer range.
	s := "340282366920938463463374607431768211456"
	a, err := ParseAmount(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.String() != s {
		t.Errorf("got %s", a.String())
	}

	want := new(big.Int)
	want.SetString(s, 10)
	if a.BigInt().Cmp(want) != 0 {
		t.Errorf("big.Int round trip: %s", a.BigInt())
	}
}

func TestAmount_NilSemantics(t *testing.T) {
	var a *Amount
	if a.String() != "0" {
		t.Errorf("nil String: %s", a.String())
	}
	if a.BigInt().Sign() != 0 {
		t.Errorf("nil BigInt: %s", a.BigInt())
	}
	if !a.Equal(nil) {
		t.Error("nil must equal nil")
	}
	if !a.Equal(NewAmount(0)) {
		t.Error("nil must equal zero")
	}
	if a.Equal(NewAmount(1)) {
		t.Error("nil must not equal one")
	}
}

func TestAmount_JSONRoundTrip(t *testing.T) {
	a := NewAmount(0)
	a.SetFromDecimal("115792089237316195423570985008687907853269984665640564039457584007913129639935") // 2^256-1

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if data[0] != '"' {
		t.Fatalf("amounts must marshal as strings: %s", data)
	}

	var back Amount
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(a) {
		t.Errorf("round trip: %s != %s", back.String(), a.String())
	}
}

func TestAmount_UnmarshalVariants(t *testing.T) {
	cases := map[string]string{
		`"500"`:   "500",
		`500`:     "500",
		`"0x1f4"`: "500",
		`"0"`:     "0",
	}
	for input, want := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(input), &a); err != nil {
			t.Errorf("unmarshal %s: %v", input, err)
			continue
		}
		if a.String() != want {
			t.Errorf("unmarshal %s: got %s want %s", input, a.String(), want)
		}
	}
}
