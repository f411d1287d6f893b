package domain

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Amount is an EVM word-size unsigned integer. It serializes as a decimal
// string so large values survive the JSON boundary without float truncation.
type Amount struct {
	uint256.Int
}

// NewAmount creates an Amount from a uint64.
func NewAmount(v uint64) *Amount {
	a := &Amount{}
	a.SetUint64(v)
	return a
}

// ParseAmount parses a decimal string, or a hex string with 0x prefix.
func ParseAmount(s string) (*Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("parse amount: empty string")
	}
	a := &Amount{}
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		err = a.SetFromHex(s)
	} else {
		err = a.SetFromDecimal(s)
	}
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return a, nil
}

// String returns the decimal representation.
func (a *Amount) String() string {
	if a == nil {
		return "0"
	}
	return a.Dec()
}

// BigInt returns a signed big.Int copy for aggregate arithmetic.
func (a *Amount) BigInt() *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return a.ToBig()
}

// Equal reports whether two amounts carry the same value. Nil equals nil
// and equals zero.
func (a *Amount) Equal(b *Amount) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil {
		return b.IsZero()
	}
	if b == nil {
		return a.IsZero()
	}
	return a.Eq(&b.Int)
}

// MarshalJSON emits the amount as a quoted decimal string.
func (a *Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts quoted decimal, quoted 0x-hex, or a bare number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "null" {
		return nil
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	a.Set(&parsed.Int)
	return nil
}
