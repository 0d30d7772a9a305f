package tx

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/types"
)

// Common errors
var (
	ErrMissingAccount = errors.New("missing account")
	ErrUnexpectedType = errors.New("transaction type does not match")
)

// Type identifies a transaction kind.
type Type uint16

const (
	TypeInvalid Type = iota
	TypeCollectionOfferCreate
	TypeCollectionOfferSetAmount
	TypeCollectionOfferSetFindersFee
	TypeCollectionOfferCancel
	TypeCollectionOfferFill
	TypeFindersFeeSet
	TypeDeposit
	TypeTokenMint
	TypeTokenTransfer
	TypeModuleApprove
	TypeRoyaltySet
	TypeProtocolFeeSet
)

var typeNames = map[Type]string{
	TypeCollectionOfferCreate:        "CollectionOfferCreate",
	TypeCollectionOfferSetAmount:     "CollectionOfferSetAmount",
	TypeCollectionOfferSetFindersFee: "CollectionOfferSetFindersFee",
	TypeCollectionOfferCancel:        "CollectionOfferCancel",
	TypeCollectionOfferFill:          "CollectionOfferFill",
	TypeFindersFeeSet:                "FindersFeeSet",
	TypeDeposit:                      "Deposit",
	TypeTokenMint:                    "TokenMint",
	TypeTokenTransfer:                "TokenTransfer",
	TypeModuleApprove:                "ModuleApprove",
	TypeRoyaltySet:                   "RoyaltySet",
	TypeProtocolFeeSet:               "ProtocolFeeSet",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName looks a transaction type up by its wire name.
func TypeFromName(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return TypeInvalid, false
}

// BaseTx holds the fields shared by every transaction.
type BaseTx struct {
	TransactionType string          `json:"TransactionType"`
	Account         types.AccountID `json:"Account"`
	// Value is native currency attached to the call and pulled into escrow
	// by the entry point that expects it.
	Value types.Amount `json:"Value"`

	txType Type
}

// NewBaseTx creates a BaseTx of the given type.
func NewBaseTx(t Type, account types.AccountID) *BaseTx {
	return &BaseTx{TransactionType: t.String(), Account: account, txType: t}
}

// TxType returns the transaction type
func (b *BaseTx) TxType() Type {
	return b.txType
}

// GetCommon returns the shared fields.
func (b *BaseTx) GetCommon() *BaseTx {
	return b
}

// Validate checks the shared fields.
func (b *BaseTx) Validate() error {
	if b.Account.IsZero() {
		return Malformed(TemINVALID_ACCOUNT, "Account is required")
	}
	if name := b.txType.String(); b.TransactionType != name {
		return Malformed(TemMALFORMED, "%v: %q", ErrUnexpectedType, b.TransactionType)
	}
	return nil
}

// Transaction is the interface that all transaction types must implement
type Transaction interface {
	// TxType returns the transaction type
	TxType() Type

	// GetCommon returns the common transaction fields
	GetCommon() *BaseTx

	// Validate checks the transaction without reading state
	Validate() error

	// Apply runs the transaction against ctx.View
	Apply(ctx *ApplyContext) Result
}

// ValidationError carries the tem code a failed Validate maps to.
type ValidationError struct {
	Code Result
	Msg  string
}

func (e *ValidationError) Error() string {
	return e.Code.String() + ": " + e.Msg
}

// Malformed builds a ValidationError.
func Malformed(code Result, format string, args ...any) error {
	return &ValidationError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CheckBps validates a basis point value.
func CheckBps(bps uint16) error {
	if bps > types.MaxBps {
		return Malformed(TemINVALID_BPS, "%d bps exceeds %d", bps, types.MaxBps)
	}
	return nil
}

// RequireZeroValue is the check for entry points that accept no attached value.
func RequireZeroValue(b *BaseTx) error {
	if !b.Value.IsZero() {
		return Malformed(TemMALFORMED, "Value must be zero for %s", b.TransactionType)
	}
	return nil
}
