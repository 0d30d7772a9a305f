package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// AccountIDSize is the size of an account or contract identifier.
const AccountIDSize = 20

// ErrInvalidAccountID is returned when parsing a malformed identifier.
var ErrInvalidAccountID = errors.New("invalid account id")

// AccountID identifies an account, a collection contract or a module.
// The zero value doubles as "none" (no finder) and as the native asset.
type AccountID [AccountIDSize]byte

// ZeroAccount is the all-zero identifier.
var ZeroAccount AccountID

// ParseAccountID decodes a 0x-prefixed (or bare) 40 character hex string.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != AccountIDSize*2 {
		return id, fmt.Errorf("%w: %q", ErrInvalidAccountID, s)
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidAccountID, err)
	}
	return id, nil
}

// MustParseAccountID panics on malformed input. Intended for constants and tests.
func MustParseAccountID(s string) AccountID {
	id, err := ParseAccountID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero reports whether the identifier is all zeros.
func (a AccountID) IsZero() bool {
	return a == ZeroAccount
}

func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = ZeroAccount
		return nil
	}
	id, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}
