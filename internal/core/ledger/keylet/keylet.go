package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/crypto"
)

// Space identifiers for keylet generation
const (
	spaceOffer       uint16 = 'o'
	spaceBook        uint16 = 'b'
	spaceStatus      uint16 = 's'
	spaceFindersFee  uint16 = 'f'
	spaceFeeOverride uint16 = 'F'
	spaceBalance     uint16 = 'a'
	spaceToken       uint16 = 't'
	spaceApproval    uint16 = 'p'
	spaceRoyalty     uint16 = 'r'
	spaceProtocolFee uint16 = 'e'
	spaceNodeState   uint16 = 'n'
)

// Keylet represents an addressable location in the state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Offer returns the keylet of offer id in collection.
func Offer(collection types.AccountID, id uint64) Keylet {
	return Keylet{Type: entry.TypeOffer, Key: indexHash(spaceOffer, collection[:], u64(id))}
}

// Book returns the keylet of a collection's extremes index.
func Book(collection types.AccountID) Keylet {
	return Keylet{Type: entry.TypeBook, Key: indexHash(spaceBook, collection[:])}
}

// OfferStatus returns the keylet recording a settled offer id.
func OfferStatus(collection types.AccountID, id uint64) Keylet {
	return Keylet{Type: entry.TypeOfferStatus, Key: indexHash(spaceStatus, collection[:], u64(id))}
}

// FindersFee returns the keylet of the singleton global finders fee.
func FindersFee() Keylet {
	return Keylet{Type: entry.TypeFindersFee, Key: indexHash(spaceFindersFee)}
}

// FindersFeeOverride returns the keylet of one offer's finders-fee override.
func FindersFeeOverride(collection types.AccountID, id uint64) Keylet {
	return Keylet{Type: entry.TypeFindersFeeOverride, Key: indexHash(spaceFeeOverride, collection[:], u64(id))}
}

// Balance returns the keylet of what account holds of asset.
func Balance(asset, account types.AccountID) Keylet {
	return Keylet{Type: entry.TypeBalance, Key: indexHash(spaceBalance, asset[:], account[:])}
}

// Token returns the keylet of an NFT's ownership record.
func Token(collection types.AccountID, tokenID types.TokenID) Keylet {
	id := tokenID.Bytes32()
	return Keylet{Type: entry.TypeToken, Key: indexHash(spaceToken, collection[:], id[:])}
}

// Approval returns the keylet of owner's approval of module.
func Approval(owner, module types.AccountID) Keylet {
	return Keylet{Type: entry.TypeApproval, Key: indexHash(spaceApproval, owner[:], module[:])}
}

// Royalty returns the keylet of a collection's royalty schedule.
func Royalty(collection types.AccountID) Keylet {
	return Keylet{Type: entry.TypeRoyalty, Key: indexHash(spaceRoyalty, collection[:])}
}

// ProtocolFee returns the keylet of a module's protocol fee setting.
func ProtocolFee(module types.AccountID) Keylet {
	return Keylet{Type: entry.TypeProtocolFee, Key: indexHash(spaceProtocolFee, module[:])}
}

// NodeState returns the keylet of the singleton node counters.
func NodeState() Keylet {
	return Keylet{Type: entry.TypeNodeState, Key: indexHash(spaceNodeState)}
}
