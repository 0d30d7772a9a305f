package testing

import (
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/crypto"
)

// Account represents a test account with keypair and address information.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// Key signs the account's transactions.
	Key *crypto.KeyPair

	// ID is the account identifier derived from the public key.
	ID types.AccountID
}

// NewAccount creates a new test account with a deterministic keypair derived from the name.
// Using the same name will always produce the same account, making tests reproducible.
func NewAccount(name string) *Account {
	kp := crypto.KeyPairFromSeed([]byte(name))
	return &Account{
		Name: name,
		Key:  kp,
		ID:   types.AccountID(kp.AccountID()),
	}
}

// Human returns the account address.
func (a *Account) Human() string {
	return a.ID.String()
}

// String returns a string representation of the account.
func (a *Account) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.ID)
}
