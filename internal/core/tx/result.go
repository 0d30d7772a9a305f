package tx

import "fmt"

// Result represents a transaction result code
type Result int

// Result codes are grouped by family: tes (success), tec (rejected by a
// state check), tef (engine failure) and tem (malformed). Unlike a fee
// charging ledger, a non-success code of any family leaves no trace in state.
const (
	TesSUCCESS Result = 0

	// tec codes (100-199)
	TecUNFUNDED            Result = 129
	TecNO_APPROVAL         Result = 134
	TecUNAUTHORIZED        Result = 139
	TecOFFER_NOT_FOUND     Result = 140
	TecINTERNAL            Result = 144
	TecINCORRECT_VALUE     Result = 161
	TecNOT_TOKEN_OWNER     Result = 174
	TecNO_ACTIVE_OFFER     Result = 175
	TecPRICE_BELOW_MINIMUM Result = 176
	TecROYALTY_INSOLVENT   Result = 177
	TecTOKEN_EXISTS        Result = 178

	// tef codes (-199 to -100)
	TefFAILURE       Result = -199
	TefBAD_SIGNATURE Result = -186
	TefINTERNAL      Result = -187
	TefREENTRANT     Result = -180

	// tem codes (-299 to -200)
	TemMALFORMED       Result = -299
	TemINVALID_AMOUNT  Result = -298
	TemINVALID_BPS     Result = -297
	TemINVALID_ACCOUNT Result = -296
	TemUNKNOWN_TYPE    Result = -295
)

// String returns the result code name
func (r Result) String() string {
	switch r {
	case TesSUCCESS:
		return "tesSUCCESS"
	case TecUNFUNDED:
		return "tecUNFUNDED"
	case TecNO_APPROVAL:
		return "tecNO_APPROVAL"
	case TecUNAUTHORIZED:
		return "tecUNAUTHORIZED"
	case TecOFFER_NOT_FOUND:
		return "tecOFFER_NOT_FOUND"
	case TecINTERNAL:
		return "tecINTERNAL"
	case TecINCORRECT_VALUE:
		return "tecINCORRECT_VALUE"
	case TecNOT_TOKEN_OWNER:
		return "tecNOT_TOKEN_OWNER"
	case TecNO_ACTIVE_OFFER:
		return "tecNO_ACTIVE_OFFER"
	case TecPRICE_BELOW_MINIMUM:
		return "tecPRICE_BELOW_MINIMUM"
	case TecROYALTY_INSOLVENT:
		return "tecROYALTY_INSOLVENT"
	case TecTOKEN_EXISTS:
		return "tecTOKEN_EXISTS"
	case TefFAILURE:
		return "tefFAILURE"
	case TefBAD_SIGNATURE:
		return "tefBAD_SIGNATURE"
	case TefINTERNAL:
		return "tefINTERNAL"
	case TefREENTRANT:
		return "tefREENTRANT"
	case TemMALFORMED:
		return "temMALFORMED"
	case TemINVALID_AMOUNT:
		return "temINVALID_AMOUNT"
	case TemINVALID_BPS:
		return "temINVALID_BPS"
	case TemINVALID_ACCOUNT:
		return "temINVALID_ACCOUNT"
	case TemUNKNOWN_TYPE:
		return "temUNKNOWN_TYPE"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// IsSuccess returns true if this is tesSUCCESS
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec code
func (r Result) IsTec() bool {
	return r >= 100 && r <= 199
}

// IsTef returns true if this is a tef code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsApplied returns true if the transaction changed state. Only tesSUCCESS does.
func (r Result) IsApplied() bool {
	return r.IsSuccess()
}

// Category groups failures the way a wallet UI presents them.
type Category string

const (
	CategoryNone          Category = ""
	CategoryAuthorization Category = "authorization"
	CategoryValidity      Category = "validity"
	CategoryEconomic      Category = "economic"
	CategoryOwnership     Category = "ownership"
	CategoryInternal      Category = "internal"
)

// Category returns the failure category of r.
func (r Result) Category() Category {
	switch r {
	case TesSUCCESS:
		return CategoryNone
	case TecUNAUTHORIZED:
		return CategoryAuthorization
	case TemINVALID_AMOUNT, TemINVALID_BPS, TemMALFORMED, TemINVALID_ACCOUNT, TemUNKNOWN_TYPE,
		TecOFFER_NOT_FOUND, TecTOKEN_EXISTS:
		return CategoryValidity
	case TecPRICE_BELOW_MINIMUM, TecNO_ACTIVE_OFFER, TecINCORRECT_VALUE, TecUNFUNDED, TecROYALTY_INSOLVENT:
		return CategoryEconomic
	case TecNOT_TOKEN_OWNER, TecNO_APPROVAL:
		return CategoryOwnership
	default:
		return CategoryInternal
	}
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The transaction was applied."
	case TecUNFUNDED:
		return "Insufficient balance to fund the transfer."
	case TecNO_APPROVAL:
		return "The token owner has not approved the module."
	case TecUNAUTHORIZED:
		return "The account is not allowed to perform this operation."
	case TecOFFER_NOT_FOUND:
		return "The offer does not exist or is no longer pending."
	case TecINCORRECT_VALUE:
		return "Attached value does not match the amount required."
	case TecNOT_TOKEN_OWNER:
		return "The account does not own the token."
	case TecNO_ACTIVE_OFFER:
		return "The collection has no active offers."
	case TecPRICE_BELOW_MINIMUM:
		return "The best offer is below the requested minimum."
	case TecROYALTY_INSOLVENT:
		return "Royalties exceed the sale proceeds."
	case TecTOKEN_EXISTS:
		return "The token has already been minted."
	case TefBAD_SIGNATURE:
		return "Invalid signature."
	case TefREENTRANT:
		return "Nested call into a guarded entry point."
	case TefINTERNAL:
		return "Internal error while applying the transaction."
	case TemINVALID_AMOUNT:
		return "Amount must be greater than zero."
	case TemINVALID_BPS:
		return "Basis points must not exceed 10000."
	case TemINVALID_ACCOUNT:
		return "A required account is missing or malformed."
	case TemUNKNOWN_TYPE:
		return "Unknown transaction type."
	case TemMALFORMED:
		return "The transaction is ill-formed."
	default:
		return r.String()
	}
}
