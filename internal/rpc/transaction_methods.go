package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/crypto"
)

// SubmitMethod verifies a signed transaction and applies it.
type SubmitMethod struct{ guestMethod }

func (m *SubmitMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var signed tx.SignedTx
	if err := parseParams(params, &signed); err != nil {
		return nil, err
	}
	if len(signed.TxJSON) == 0 {
		return nil, RpcErrorInvalidParams("Missing field 'tx_json'")
	}

	t, err := signed.Decode()
	switch {
	case errors.Is(err, tx.ErrBadSignature), errors.Is(err, tx.ErrAccountMismatch):
		return engineResult(tx.ApplyResult{Result: tx.TefBAD_SIGNATURE, Message: err.Error()}, signed.TxJSON), nil
	case err != nil:
		return nil, NewRpcError(RpcINVALID_TRANSACTION, "invalidTransaction", "invalidTransaction", err.Error())
	}

	res := ctx.Services.Engine.Apply(t)
	return engineResult(res, signed.TxJSON), nil
}

// engineResult is the submit response body.
func engineResult(res tx.ApplyResult, txJSON json.RawMessage) map[string]interface{} {
	out := map[string]interface{}{
		"engine_result":         res.Result.String(),
		"engine_result_code":    int(res.Result),
		"engine_result_message": res.Result.Message(),
		"applied":               res.Applied,
		"tx_json":               txJSON,
	}
	if cat := res.Result.Category(); cat != tx.CategoryNone {
		out["category"] = string(cat)
	}
	if res.Message != "" && res.Message != res.Result.Message() {
		out["detail"] = res.Message
	}
	if res.Applied {
		out["tx_hash"] = res.TxHashHex()
		out["sequence"] = res.Sequence
		evs := make([]string, 0, len(res.Events))
		for _, e := range res.Events {
			evs = append(evs, e.EventType())
		}
		out["events"] = evs
	}
	return out
}

// SignMethod signs tx_json with a hex secret. Admin only: the secret travels
// to the server.
type SignMethod struct{ adminMethod }

func (m *SignMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var req struct {
		TxJSON json.RawMessage `json:"tx_json"`
		Secret string          `json:"secret"`
	}
	if err := parseParams(params, &req); err != nil {
		return nil, err
	}
	if len(req.TxJSON) == 0 {
		return nil, RpcErrorInvalidParams("Missing field 'tx_json'")
	}
	if req.Secret == "" {
		return nil, RpcErrorInvalidParams("Missing field 'secret'")
	}
	kp, err := crypto.KeyPairFromHex(req.Secret)
	if err != nil {
		return nil, NewRpcError(RpcBAD_SECRET, "badSecret", "badSecret", "Secret does not match account")
	}

	// Fill in Account from the key when omitted.
	var body map[string]json.RawMessage
	if err := json.Unmarshal(req.TxJSON, &body); err != nil {
		return nil, RpcErrorInvalidParams("tx_json must be an object")
	}
	signer := types.AccountID(kp.AccountID())
	if raw, ok := body["Account"]; ok {
		var account types.AccountID
		if err := json.Unmarshal(raw, &account); err != nil {
			return nil, RpcErrorActMalformed("Malformed Account")
		}
		if account != signer {
			return nil, NewRpcError(RpcBAD_SECRET, "badSecret", "badSecret", "Secret does not match account")
		}
	} else {
		body["Account"], _ = json.Marshal(signer)
	}
	txJSON, err := json.Marshal(body)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}

	// Reject what submit would reject before handing back a signature.
	if _, err := tx.FromJSON(txJSON); err != nil {
		return nil, NewRpcError(RpcINVALID_TRANSACTION, "invalidTransaction", "invalidTransaction", err.Error())
	}

	signed, err := tx.Sign(txJSON, kp)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{
		"tx_json":       signed.TxJSON,
		"SigningPubKey": signed.SigningPubKey,
		"TxnSignature":  signed.TxnSignature,
	}, nil
}

// WalletProposeMethod generates a key pair, or derives one from a passphrase.
type WalletProposeMethod struct{ guestMethod }

func (m *WalletProposeMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := parseParams(params, &req); err != nil {
		return nil, err
	}

	var kp *crypto.KeyPair
	if req.Passphrase != "" {
		kp = crypto.KeyPairFromSeed([]byte(req.Passphrase))
	} else {
		var err error
		if kp, err = crypto.GenerateKeyPair(); err != nil {
			return nil, RpcErrorInternal(err.Error())
		}
	}
	return map[string]interface{}{
		"account_id":     types.AccountID(kp.AccountID()).String(),
		"public_key_hex": strings.ToUpper(hex.EncodeToString(kp.PublicKey())),
		"secret_hex":     kp.SecretHex(),
	}, nil
}
