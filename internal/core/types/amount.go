package types

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// MaxBps is the basis-point denominator; 10000 bps is 100%.
const MaxBps = 10000

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrAmountOverflow = errors.New("amount overflow")
)

// Amount is an unsigned 256-bit quantity of base units.
type Amount uint256.Int

// NewAmount returns an Amount holding v.
func NewAmount(v uint64) Amount {
	return Amount(*uint256.NewInt(v))
}

// ParseAmount accepts a base-10 string or a 0x-prefixed hex string.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	b, ok := new(big.Int).SetString(s, base)
	if !ok || b.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return AmountFromBig(b)
}

// MustParseAmount panics on malformed input. Intended for constants and tests.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromBig converts a non-negative big.Int.
func AmountFromBig(b *big.Int) (Amount, error) {
	if b.Sign() < 0 {
		return Amount{}, ErrInvalidAmount
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return Amount{}, ErrAmountOverflow
	}
	return Amount(*v), nil
}

func (a Amount) u() *uint256.Int {
	v := uint256.Int(a)
	return &v
}

// Big returns a copy as a big.Int.
func (a Amount) Big() *big.Int {
	return a.u().ToBig()
}

func (a Amount) IsZero() bool {
	return a.u().IsZero()
}

// Cmp returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.u().Cmp(b.u())
}

// Add returns a+b and whether the sum overflowed.
func (a Amount) Add(b Amount) (Amount, bool) {
	sum, overflow := new(uint256.Int).AddOverflow(a.u(), b.u())
	return Amount(*sum), overflow
}

// Sub returns a-b and whether the subtraction underflowed.
func (a Amount) Sub(b Amount) (Amount, bool) {
	diff, underflow := new(uint256.Int).SubOverflow(a.u(), b.u())
	return Amount(*diff), underflow
}

// MulBps returns floor(a * bps / 10000).
func (a Amount) MulBps(bps uint16) Amount {
	v := new(big.Int).Mul(a.Big(), big.NewInt(int64(bps)))
	v.Quo(v, big.NewInt(MaxBps))
	out, _ := AmountFromBig(v)
	return out
}

// String renders base units in decimal.
func (a Amount) String() string {
	return a.Big().String()
}

// Display renders the amount shifted by decimals, e.g. 5e17 with 18 decimals is "0.5".
func (a Amount) Display(decimals int32) string {
	return decimal.NewFromBigInt(a.Big(), -decimals).String()
}

// ParseDisplay is the inverse of Display.
func ParseDisplay(s string, decimals int32) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return Amount{}, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	return AmountFromBig(shifted.BigInt())
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	v, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// TokenID identifies one NFT within a collection.
type TokenID Amount

// NewTokenID returns a TokenID holding v.
func NewTokenID(v uint64) TokenID {
	return TokenID(NewAmount(v))
}

// Bytes32 returns the big-endian 32 byte encoding.
func (t TokenID) Bytes32() [32]byte {
	v := uint256.Int(t)
	return v.Bytes32()
}

func (t TokenID) String() string {
	return Amount(t).String()
}

func (t TokenID) MarshalText() ([]byte, error) {
	return Amount(t).MarshalText()
}

func (t *TokenID) UnmarshalText(text []byte) error {
	var a Amount
	if err := a.UnmarshalText(text); err != nil {
		return err
	}
	*t = TokenID(a)
	return nil
}
