package tx

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/LeJamon/goMarketd/internal/crypto"
)

var (
	ErrBadSignature    = errors.New("signature verification failed")
	ErrAccountMismatch = errors.New("signing key does not match Account")
)

// SignedTx is a transaction as submitted over the API: the JSON body, the
// compressed public key and a DER signature over the compacted body.
type SignedTx struct {
	TxJSON        json.RawMessage `json:"tx_json"`
	SigningPubKey string          `json:"SigningPubKey"`
	TxnSignature  string          `json:"TxnSignature"`
}

// Sign compacts txJSON and signs it with kp.
func Sign(txJSON []byte, kp *crypto.KeyPair) (SignedTx, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, txJSON); err != nil {
		return SignedTx{}, err
	}
	return SignedTx{
		TxJSON:        buf.Bytes(),
		SigningPubKey: strings.ToUpper(hex.EncodeToString(kp.PublicKey())),
		TxnSignature:  strings.ToUpper(hex.EncodeToString(kp.Sign(buf.Bytes()))),
	}, nil
}

// Decode verifies the signature and parses the transaction. The signer
// must be the transaction's Account.
func (s SignedTx) Decode() (Transaction, error) {
	var body bytes.Buffer
	if err := json.Compact(&body, s.TxJSON); err != nil {
		return nil, fmt.Errorf("tx_json: %w", err)
	}

	pub, err := hex.DecodeString(s.SigningPubKey)
	if err != nil {
		return nil, fmt.Errorf("%w: SigningPubKey: %v", ErrBadSignature, err)
	}
	sig, err := hex.DecodeString(s.TxnSignature)
	if err != nil {
		return nil, fmt.Errorf("%w: TxnSignature: %v", ErrBadSignature, err)
	}
	if err := crypto.Verify(pub, body.Bytes(), sig); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	t, err := FromJSON(body.Bytes())
	if err != nil {
		return nil, err
	}
	if t.GetCommon().Account != crypto.CalcAccountID(pub) {
		return nil, ErrAccountMismatch
	}
	return t, nil
}
