// Package entry defines the state objects stored by the node and their
// binary encoding.
package entry

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/ugorji/go/codec"
)

// Type represents a state entry type
type Type uint16

const (
	TypeOffer              Type = 0x006f // Collection offer node
	TypeBook               Type = 0x0062 // Per-collection extremes and counters
	TypeOfferStatus        Type = 0x0073 // Terminal status of a settled offer id
	TypeFindersFee         Type = 0x0066 // Global finders-fee default (singleton)
	TypeFindersFeeOverride Type = 0x0046 // Per-offer finders-fee override
	TypeBalance            Type = 0x0061 // Account balance of one asset
	TypeToken              Type = 0x0074 // NFT ownership
	TypeApproval           Type = 0x0070 // Module approval granted by an owner
	TypeRoyalty            Type = 0x0072 // Collection royalty schedule
	TypeProtocolFee        Type = 0x0065 // Protocol fee for a module
	TypeNodeState          Type = 0x006e // Node counters (singleton)
)

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeOffer:
		return "CollectionOffer"
	case TypeBook:
		return "CollectionBook"
	case TypeOfferStatus:
		return "OfferStatus"
	case TypeFindersFee:
		return "FindersFee"
	case TypeFindersFeeOverride:
		return "FindersFeeOverride"
	case TypeBalance:
		return "Balance"
	case TypeToken:
		return "Token"
	case TypeApproval:
		return "Approval"
	case TypeRoyalty:
		return "Royalty"
	case TypeProtocolFee:
		return "ProtocolFee"
	case TypeNodeState:
		return "NodeState"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(t))
	}
}

// Entry is implemented by every stored object.
type Entry interface {
	EntryType() Type
}

var (
	ErrShortEntry   = errors.New("entry data too short")
	ErrTypeMismatch = errors.New("entry type mismatch")
)

var handle = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.Canonical = true
	return h
}()

// Encode serializes e as a two byte type tag followed by its msgpack body.
func Encode(e Entry) ([]byte, error) {
	// The bytes encoder writes from the start of its buffer, so the body is
	// encoded separately and the tag prepended.
	var body []byte
	if err := codec.NewEncoderBytes(&body, handle).Encode(e); err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.EntryType(), err)
	}
	out := make([]byte, 2, 2+len(body))
	binary.BigEndian.PutUint16(out, uint16(e.EntryType()))
	return append(out, body...), nil
}

// MustEncode panics if e cannot be encoded. Entries are plain structs, so a
// failure here is a programming error.
func MustEncode(e Entry) []byte {
	b, err := Encode(e)
	if err != nil {
		panic(err)
	}
	return b
}

// TypeOf returns the type tag of encoded data.
func TypeOf(data []byte) (Type, error) {
	if len(data) < 2 {
		return 0, ErrShortEntry
	}
	return Type(binary.BigEndian.Uint16(data)), nil
}

// Decode parses data into out, checking the type tag.
func Decode(data []byte, out Entry) error {
	t, err := TypeOf(data)
	if err != nil {
		return err
	}
	if t != out.EntryType() {
		return fmt.Errorf("%w: stored %s, want %s", ErrTypeMismatch, t, out.EntryType())
	}
	if err := codec.NewDecoderBytes(data[2:], handle).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", t, err)
	}
	return nil
}

// New returns an empty entry of type t, for generic decoding.
func New(t Type) (Entry, error) {
	switch t {
	case TypeOffer:
		return &Offer{}, nil
	case TypeBook:
		return &Book{}, nil
	case TypeOfferStatus:
		return &OfferStatus{}, nil
	case TypeFindersFee:
		return &FindersFee{}, nil
	case TypeFindersFeeOverride:
		return &FindersFeeOverride{}, nil
	case TypeBalance:
		return &Balance{}, nil
	case TypeToken:
		return &Token{}, nil
	case TypeApproval:
		return &Approval{}, nil
	case TypeRoyalty:
		return &Royalty{}, nil
	case TypeProtocolFee:
		return &ProtocolFee{}, nil
	case TypeNodeState:
		return &NodeState{}, nil
	default:
		return nil, fmt.Errorf("unknown entry type %s", t)
	}
}

// DecodeAny decodes data into a freshly allocated entry of its stored type.
func DecodeAny(data []byte) (Entry, error) {
	t, err := TypeOf(data)
	if err != nil {
		return nil, err
	}
	e, err := New(t)
	if err != nil {
		return nil, err
	}
	return e, Decode(data, e)
}

// Offer is one node of a collection's doubly linked offer chain.
// PrevID points floor-ward and NextID ceiling-ward; 0 means none.
type Offer struct {
	Collection types.AccountID `codec:"collection" json:"collection"`
	ID         uint64          `codec:"id" json:"id"`
	Maker      types.AccountID `codec:"maker" json:"maker"`
	Amount     types.Amount    `codec:"amount" json:"amount"`
	PrevID     uint64          `codec:"prev" json:"prevId"`
	NextID     uint64          `codec:"next" json:"nextId"`
}

func (*Offer) EntryType() Type { return TypeOffer }

// Book holds the extremes index of one collection. FloorAmount and
// CeilingAmount mirror the amounts of the floor and ceiling offers.
type Book struct {
	Collection    types.AccountID `codec:"collection" json:"collection"`
	FloorID       uint64          `codec:"floor" json:"floorId"`
	CeilingID     uint64          `codec:"ceiling" json:"ceilingId"`
	FloorAmount   types.Amount    `codec:"floor_amount" json:"floorAmount"`
	CeilingAmount types.Amount    `codec:"ceiling_amount" json:"ceilingAmount"`
	OfferCount    uint64          `codec:"count" json:"offerCount"`
	Active        uint64          `codec:"active" json:"active"`
	Escrowed      types.Amount    `codec:"escrowed" json:"escrowed"`
}

func (*Book) EntryType() Type { return TypeBook }

// Empty reports whether the book has no pending offers.
func (b Book) Empty() bool { return b.FloorID == 0 }

// Status of a settled offer id.
type Status uint8

const (
	StatusCanceled Status = 1
	StatusFilled   Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusCanceled:
		return "canceled"
	case StatusFilled:
		return "filled"
	default:
		return "pending"
	}
}

// OfferStatus records that an offer id reached a terminal state.
type OfferStatus struct {
	Collection types.AccountID `codec:"collection" json:"collection"`
	OfferID    uint64          `codec:"id" json:"id"`
	Status     Status          `codec:"status" json:"status"`
}

func (*OfferStatus) EntryType() Type { return TypeOfferStatus }

type FindersFee struct {
	Bps uint16 `codec:"bps" json:"bps"`
}

func (*FindersFee) EntryType() Type { return TypeFindersFee }

// FindersFeeOverride exists only while an override is set; absence means unset.
type FindersFeeOverride struct {
	Collection types.AccountID `codec:"collection" json:"collection"`
	OfferID    uint64          `codec:"id" json:"id"`
	Bps        uint16          `codec:"bps" json:"bps"`
}

func (*FindersFeeOverride) EntryType() Type { return TypeFindersFeeOverride }

// Balance is what Account holds of Asset. The zero asset is the native currency.
type Balance struct {
	Asset   types.AccountID `codec:"asset" json:"asset"`
	Account types.AccountID `codec:"account" json:"account"`
	Amount  types.Amount    `codec:"amount" json:"amount"`
}

func (*Balance) EntryType() Type { return TypeBalance }

type Token struct {
	Collection types.AccountID `codec:"collection" json:"collection"`
	TokenID    types.TokenID   `codec:"token" json:"tokenId"`
	Owner      types.AccountID `codec:"owner" json:"owner"`
}

func (*Token) EntryType() Type { return TypeToken }

// Approval lets Module move NFTs held by Owner.
type Approval struct {
	Owner  types.AccountID `codec:"owner" json:"owner"`
	Module types.AccountID `codec:"module" json:"module"`
}

func (*Approval) EntryType() Type { return TypeApproval }

type RoyaltyRecipient struct {
	Account types.AccountID `codec:"account" json:"account"`
	Bps     uint16          `codec:"bps" json:"bps"`
}

type Royalty struct {
	Collection types.AccountID    `codec:"collection" json:"collection"`
	Recipients []RoyaltyRecipient `codec:"recipients" json:"recipients"`
}

func (*Royalty) EntryType() Type { return TypeRoyalty }

type ProtocolFee struct {
	Module    types.AccountID `codec:"module" json:"module"`
	Recipient types.AccountID `codec:"recipient" json:"recipient"`
	Bps       uint16          `codec:"bps" json:"bps"`
}

func (*ProtocolFee) EntryType() Type { return TypeProtocolFee }

// NodeState carries counters that advance with every applied transaction.
type NodeState struct {
	Sequence uint64 `codec:"seq" json:"sequence"`
}

func (*NodeState) EntryType() Type { return TypeNodeState }
