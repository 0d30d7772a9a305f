package entry

import (
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeOffer(t *testing.T) {
	in := &Offer{
		Collection: types.MustParseAccountID("0x00000000000000000000000000000000000000c1"),
		ID:         4,
		Maker:      types.MustParseAccountID("0x00000000000000000000000000000000000000a1"),
		Amount:     types.MustParseAmount("1000000000000000000"),
		PrevID:     3,
		NextID:     1,
	}

	data, err := Encode(in)
	require.NoError(t, err)

	typ, err := TypeOf(data)
	require.NoError(t, err)
	assert.Equal(t, TypeOffer, typ)

	var out Offer
	require.NoError(t, Decode(data, &out))
	assert.Equal(t, *in, out)
}

func TestDecodeTypeMismatch(t *testing.T) {
	data := MustEncode(&FindersFee{Bps: 100})

	var b Book
	assert.ErrorIs(t, Decode(data, &b), ErrTypeMismatch)
	assert.ErrorIs(t, Decode([]byte{1}, &b), ErrShortEntry)
}

func TestDecodeAny(t *testing.T) {
	in := &Royalty{
		Collection: types.MustParseAccountID("0x00000000000000000000000000000000000000c1"),
		Recipients: []RoyaltyRecipient{{Account: types.MustParseAccountID("0x00000000000000000000000000000000000000e1"), Bps: 500}},
	}
	e, err := DecodeAny(MustEncode(in))
	require.NoError(t, err)
	assert.Equal(t, in, e)
}

func TestEncodeKeepsTypeTag(t *testing.T) {
	for _, e := range []Entry{
		&FindersFee{Bps: 250},
		&NodeState{Sequence: 7},
		&Book{FloorID: 1, CeilingID: 2},
	} {
		data, err := Encode(e)
		require.NoError(t, err)
		require.Greater(t, len(data), 2)

		typ, err := TypeOf(data)
		require.NoError(t, err)
		assert.Equal(t, e.EntryType(), typ)

		back, err := DecodeAny(data)
		require.NoError(t, err)
		assert.Equal(t, e, back)
	}
}
