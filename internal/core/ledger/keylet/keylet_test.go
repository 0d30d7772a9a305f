package keylet

import (
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/stretchr/testify/assert"
)

func TestKeyletsAreDistinct(t *testing.T) {
	c := types.MustParseAccountID("0x00000000000000000000000000000000000000c1")
	a := types.MustParseAccountID("0x00000000000000000000000000000000000000a1")

	keys := []Keylet{
		Offer(c, 1), Offer(c, 2), Book(c), OfferStatus(c, 1),
		FindersFee(), FindersFeeOverride(c, 1), Balance(types.ZeroAccount, a),
		Balance(c, a), Token(c, types.NewTokenID(1)), Approval(a, c),
		Royalty(c), ProtocolFee(c), NodeState(),
	}

	seen := make(map[[32]byte]bool)
	for _, k := range keys {
		assert.False(t, seen[k.Key], "duplicate key for %s", k.Type)
		seen[k.Key] = true
	}
}

func TestKeyletIsStable(t *testing.T) {
	c := types.MustParseAccountID("0x00000000000000000000000000000000000000c1")
	assert.Equal(t, Offer(c, 7), Offer(c, 7))
	assert.Equal(t, entry.TypeOffer, Offer(c, 7).Type)
	assert.Equal(t, entry.TypeBook, Book(c).Type)
}
