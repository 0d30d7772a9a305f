package testing

import (
	"github.com/LeJamon/goMarketd/internal/core/types"
)

// DefaultFunding is what Fund deposits for each account.
const DefaultFunding uint64 = 1_000_000

// Units returns an amount of v base units.
func Units(v uint64) types.Amount {
	return types.NewAmount(v)
}

// Display parses a human decimal amount such as "1.5" at the given
// precision. It panics on malformed input, which is a test bug.
func Display(s string, decimals int32) types.Amount {
	a, err := types.ParseDisplay(s, decimals)
	if err != nil {
		panic("bad display amount " + s + ": " + err.Error())
	}
	return a
}
